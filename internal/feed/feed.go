// Package feed renders upcoming special lunar days as an iCalendar feed
// that calendar clients can subscribe to.
package feed

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"

	"github.com/hnminh/amlich-api/internal/lunar"
)

const (
	prodID    = "-//amlich-api//Lich Am Viet Nam//VI"
	calName   = "Lịch Âm - Mùng 1 & Rằm"
	uidSuffix = "amlich-api"
)

// BuildCalendar walks forward from the given day and collects every Mùng 1
// and Rằm inside a window of roughly the requested number of lunar months.
// The from day itself is included, so a feed fetched on a Rằm lists it.
func BuildCalendar(e *lunar.Engine, from lunar.SolarDate, months int) (*ical.Calendar, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, prodID)
	cal.Props.SetText("X-WR-CALNAME", calName)
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")

	stamp := ical.NewProp(ical.PropDateTimeStamp)
	stamp.SetDateTime(time.Now().UTC())

	loc := e.Location()

	// A lunar month is at most 30 days; the extra day keeps the window's
	// closing Mùng 1 inside it.
	horizon := months*30 + 1
	for offset := 0; offset < horizon; offset++ {
		day := from.AddDays(offset)
		ld, err := e.ToLunar(day)
		if err != nil {
			return nil, fmt.Errorf("walk feed window at %s: %w", day, err)
		}

		kind := lunar.IsSpecialDay(ld)
		if kind == lunar.SpecialNone {
			continue
		}

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID,
			fmt.Sprintf("%s-%s@%s", day, kind, uidSuffix))
		event.Props.SetText(ical.PropSummary, summaryFor(kind, ld))
		event.Props.SetText(ical.PropDescription,
			fmt.Sprintf("Âm lịch: %s", ld))

		start := ical.NewProp(ical.PropDateTimeStart)
		start.SetDate(day.Time(loc))
		event.Props.Set(start)
		event.Props.Set(stamp)

		cal.Children = append(cal.Children, event.Component)
	}

	return cal, nil
}

// Encode writes the calendar in iCalendar wire format.
func Encode(w io.Writer, cal *ical.Calendar) error {
	return ical.NewEncoder(w).Encode(cal)
}

// summaryFor renders the event title, e.g. "Mùng 1 tháng 6 (nhuận)".
func summaryFor(kind lunar.SpecialKind, ld lunar.LunarDate) string {
	var name string
	switch kind {
	case lunar.SpecialNewMoon:
		name = "Mùng 1"
	case lunar.SpecialFullMoon:
		name = "Rằm"
	}

	s := fmt.Sprintf("%s tháng %d", name, ld.Month)
	if ld.Leap {
		s += " (nhuận)"
	}
	return s
}
