package lunar

import (
	"fmt"
	"sync"
	"time"
)

// TimeZoneVietnam is the civil-day offset all Vietnamese lunar
// computations use by default.
const TimeZoneVietnam = 7.0

// Engine converts between solar and lunar dates. It owns a per-solar-year
// cache of month intervals; entries are built once, published under the
// lock, and never mutated afterwards, so concurrent use is safe.
//
// The zero value is not usable; construct with NewEngine.
type Engine struct {
	tzOffset float64

	mu    sync.RWMutex
	years map[int][]MonthInterval
}

// NewEngine returns an engine for the given timezone offset in hours.
// Use TimeZoneVietnam for the standard Vietnamese calendar.
func NewEngine(tzOffsetHours float64) *Engine {
	return &Engine{
		tzOffset: tzOffsetHours,
		years:    make(map[int][]MonthInterval),
	}
}

// TimeZoneOffset returns the engine's civil-day offset in hours.
func (e *Engine) TimeZoneOffset() float64 {
	return e.tzOffset
}

// Location returns the fixed time.Location matching the engine's offset.
func (e *Engine) Location() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+g", e.tzOffset), int(e.tzOffset*3600))
}

// Today returns the civil day the instant now falls in.
func (e *Engine) Today(now time.Time) SolarDate {
	return SolarDateFromTime(now, e.tzOffset)
}

// Intervals returns the month intervals for a solar-year context, covering
// lunar month 11 of (year-1) through month 11 of (year). The returned
// slice is shared and must be treated as read-only.
func (e *Engine) Intervals(year int) ([]MonthInterval, error) {
	e.mu.RLock()
	months, ok := e.years[year]
	e.mu.RUnlock()
	if ok {
		return months, nil
	}

	months, err := buildYear(year, e.tzOffset)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	// Another caller may have raced us here; both built the same value.
	if cached, ok := e.years[year]; ok {
		months = cached
	} else {
		e.years[year] = months
	}
	e.mu.Unlock()
	return months, nil
}

// ToLunar converts a solar date to its lunar date.
func (e *Engine) ToLunar(d SolarDate) (LunarDate, error) {
	if d.Year < MinYear || d.Year > MaxYear {
		return LunarDate{}, fmt.Errorf("%w: year %d not in %d..%d", ErrOutOfRange, d.Year, MinYear, MaxYear)
	}
	if !d.Valid() {
		return LunarDate{}, fmt.Errorf("%w: %s", ErrInvalidDate, d)
	}

	jdn := SolarToJDN(d)

	// The date's own year context usually contains it; dates after that
	// context's final month-11 anchor (late December) belong to the next.
	for _, year := range []int{d.Year, d.Year + 1, d.Year - 1} {
		months, err := e.Intervals(year)
		if err != nil {
			return LunarDate{}, err
		}
		if jdn < months[0].StartJDN || jdn >= months[len(months)-1].EndJDN {
			continue
		}
		for _, m := range months {
			if m.Contains(jdn) {
				return LunarDate{
					Day:   jdn - m.StartJDN + 1,
					Month: m.Month,
					Year:  m.LunarYear,
					Leap:  m.Leap,
				}, nil
			}
		}
		return LunarDate{}, fmt.Errorf("%w: day %d inside context %d but in no interval", ErrInternal, jdn, year)
	}
	return LunarDate{}, fmt.Errorf("%w: day %d not covered by any year context", ErrInternal, jdn)
}

// ToSolar converts a lunar date back to the solar date it starts on.
// It fails with ErrNoSuchMonth when the (month, leap) pair does not exist
// in that lunar year, or when the day exceeds the month's actual length.
func (e *Engine) ToSolar(d LunarDate) (SolarDate, error) {
	if d.Year < MinYear || d.Year > MaxYear {
		return SolarDate{}, fmt.Errorf("%w: year %d not in %d..%d", ErrOutOfRange, d.Year, MinYear, MaxYear)
	}
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 30 {
		return SolarDate{}, fmt.Errorf("%w: %s", ErrInvalidDate, d)
	}

	// Months 1..10 of lunar year Y live in context Y; months 11 and 12
	// open the following context.
	ctx := d.Year
	if d.Month >= 11 {
		ctx = d.Year + 1
	}
	months, err := e.Intervals(ctx)
	if err != nil {
		return SolarDate{}, err
	}

	for _, m := range months {
		if m.LunarYear != d.Year || m.Month != d.Month || m.Leap != d.Leap {
			continue
		}
		if d.Day > m.Days() {
			return SolarDate{}, fmt.Errorf("%w: month %d/%d has %d days, not %d",
				ErrNoSuchMonth, d.Month, d.Year, m.Days(), d.Day)
		}
		return JDNToSolar(m.StartJDN + d.Day - 1), nil
	}
	if d.Leap {
		return SolarDate{}, fmt.Errorf("%w: no leap month %d in lunar year %d", ErrNoSuchMonth, d.Month, d.Year)
	}
	return SolarDate{}, fmt.Errorf("%w: no month %d in lunar year %d", ErrNoSuchMonth, d.Month, d.Year)
}
