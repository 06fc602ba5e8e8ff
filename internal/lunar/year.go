package lunar

import (
	"fmt"
	"math"
)

// MonthInterval is one lunar month as a half-open range of civil days,
// [StartJDN, EndJDN). Intervals for a year context are contiguous and
// gapless: every JDN in range belongs to exactly one interval.
type MonthInterval struct {
	StartJDN  int
	EndJDN    int
	Month     int // ordinal 1..12
	Leap      bool
	LunarYear int
}

// Days returns the month length, always 29 or 30.
func (m MonthInterval) Days() int {
	return m.EndJDN - m.StartJDN
}

// Contains reports whether the civil day jdn falls inside the month.
func (m MonthInterval) Contains(jdn int) bool {
	return jdn >= m.StartJDN && jdn < m.EndJDN
}

// monthElevenStart returns the civil-day JDN starting lunar month 11 of the
// given solar year: the new moon on or immediately before the winter
// solstice (sun longitude 270°, major term index 9).
func monthElevenStart(year int, tzOffset float64) int {
	off := float64(SolarToJDN(SolarDate{Year: year, Month: 12, Day: 31})) - newMoonEpochJDN
	k := int(off / synodicMonth)
	nm := newMoonDay(k, tzOffset)
	if majorTermIndex(nm, tzOffset) >= 9 {
		// Sun already past the solstice point at this new moon, so it
		// opens month 12; month 11 began one lunation earlier.
		nm = newMoonDay(k-1, tzOffset)
	}
	return nm
}

// buildYear constructs the ordered month intervals for a solar-year
// context: from month 11 of (year-1) through month 11 of (year), closed by
// one extra new moon. A 13-lunation span gets exactly one leap month: the
// first interior month containing no major solar-term boundary, which
// repeats the previous month's ordinal.
//
// Rebuilding an adjacent year reproduces identical boundaries on the
// overlapping months; both spans derive them from the same new-moon days.
func buildYear(year int, tzOffset float64) ([]MonthInterval, error) {
	a11 := monthElevenStart(year-1, tzOffset)
	b11 := monthElevenStart(year, tzOffset)

	k := int(math.Round((float64(a11) - newMoonEpochJDN) / synodicMonth))
	if got := newMoonDay(k, tzOffset); got != a11 {
		return nil, fmt.Errorf("%w: month-11 anchor of %d: new moon %d is day %d, want %d",
			ErrInternal, year-1, k, got, a11)
	}

	// Enumerate month starts a11..b11 plus one closing moon.
	starts := []int{a11}
	for i := 1; ; i++ {
		if i > 14 {
			return nil, fmt.Errorf("%w: no month-11 anchor within 14 lunations after day %d",
				ErrInternal, a11)
		}
		nm := newMoonDay(k+i, tzOffset)
		starts = append(starts, nm)
		if nm == b11 {
			starts = append(starts, newMoonDay(k+i+1, tzOffset))
			break
		}
		if nm > b11 {
			return nil, fmt.Errorf("%w: new-moon walk overshot anchor day %d (got %d)",
				ErrInternal, b11, nm)
		}
	}

	// 14 starts close 13 months (regular year), 15 close 14 (leap year).
	leapYear := len(starts) == 15
	leapIdx := -1
	if leapYear {
		for i := 1; i+1 < len(starts)-1; i++ {
			if majorTermIndex(starts[i], tzOffset) == majorTermIndex(starts[i+1], tzOffset) {
				leapIdx = i
				break
			}
		}
		if leapIdx < 0 {
			return nil, fmt.Errorf("%w: 13-month span after day %d has no termless month",
				ErrInternal, a11)
		}
	} else if len(starts) != 14 {
		return nil, fmt.Errorf("%w: span after day %d has %d month starts",
			ErrInternal, a11, len(starts))
	}

	ord, ly := 11, year-1
	months := make([]MonthInterval, 0, len(starts)-1)
	for i := 0; i+1 < len(starts); i++ {
		mi := MonthInterval{StartJDN: starts[i], EndJDN: starts[i+1]}
		if n := mi.Days(); n != 29 && n != 30 {
			return nil, fmt.Errorf("%w: month starting day %d is %d days long",
				ErrInternal, mi.StartJDN, n)
		}
		if leapYear && i == leapIdx {
			prev := months[len(months)-1]
			mi.Month, mi.LunarYear, mi.Leap = prev.Month, prev.LunarYear, true
		} else {
			mi.Month, mi.LunarYear = ord, ly
			ord++
			if ord > 12 {
				ord, ly = 1, year
			}
		}
		months = append(months, mi)
	}

	return months, nil
}
