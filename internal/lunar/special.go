package lunar

import "fmt"

// SpecialKind identifies the observed days of the lunar month.
type SpecialKind string

const (
	// SpecialNone marks an ordinary lunar day.
	SpecialNone SpecialKind = ""
	// SpecialNewMoon is lunar day 1, Mùng 1.
	SpecialNewMoon SpecialKind = "new-moon"
	// SpecialFullMoon is lunar day 15, Rằm.
	SpecialFullMoon SpecialKind = "full-moon"
)

// searchBound caps the forward day walk. Lunar months never exceed 30
// days, so any special day is at most 30 days out; 40 leaves margin, and
// exhausting it means the month intervals themselves are broken.
const searchBound = 40

// SpecialDayResult is the outcome of a next-special-day search.
type SpecialDayResult struct {
	Target    SolarDate `json:"target"`
	DaysUntil int       `json:"days_until"`
	Month     int       `json:"lunar_month"`
	Leap      bool      `json:"leap_month"`
}

// IsSpecialDay classifies a lunar date.
func IsSpecialDay(d LunarDate) SpecialKind {
	switch d.Day {
	case 1:
		return SpecialNewMoon
	case 15:
		return SpecialFullMoon
	}
	return SpecialNone
}

// NextSpecialDay finds the first day strictly after from whose lunar day
// matches kind (1 for SpecialNewMoon, 15 for SpecialFullMoon). DaysUntil
// counts from the reference date, so a match tomorrow reports 1.
func (e *Engine) NextSpecialDay(from SolarDate, kind SpecialKind) (SpecialDayResult, error) {
	var want int
	switch kind {
	case SpecialNewMoon:
		want = 1
	case SpecialFullMoon:
		want = 15
	default:
		return SpecialDayResult{}, fmt.Errorf("%w: special day kind %q", ErrInvalidDate, kind)
	}

	for offset := 1; offset <= searchBound; offset++ {
		day := from.AddDays(offset)
		ld, err := e.ToLunar(day)
		if err != nil {
			return SpecialDayResult{}, err
		}
		if ld.Day == want {
			return SpecialDayResult{
				Target:    day,
				DaysUntil: offset,
				Month:     ld.Month,
				Leap:      ld.Leap,
			}, nil
		}
	}
	return SpecialDayResult{}, fmt.Errorf("%w: no lunar day %d within %d days of %s",
		ErrInternal, want, searchBound, from)
}
