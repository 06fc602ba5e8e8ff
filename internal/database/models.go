package database

import (
	"time"

	"github.com/hnminh/amlich-api/internal/lunar"
)

// AlmanacDay is one published almanac snapshot row.
type AlmanacDay struct {
	SolarDate  string    `json:"solar_date"` // ISO 8601 format: YYYY-MM-DD
	LunarDay   int       `json:"lunar_day"`
	LunarMonth int       `json:"lunar_month"`
	LunarYear  int       `json:"lunar_year"`
	LeapMonth  bool      `json:"leap_month"`
	YearLabel  string    `json:"year_label"`  // e.g. "Ất Tị"
	MonthLabel string    `json:"month_label"` // e.g. "Nhâm Ngọ"
	DayLabel   string    `json:"day_label"`   // e.g. "Giáp Thìn"
	Weekday    string    `json:"weekday"`     // e.g. "Thứ 3"
	Special    string    `json:"special,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FromAlmanac flattens a computed almanac into a storable row.
// Timestamps are left zero; the database fills them on write.
func FromAlmanac(a lunar.Almanac) AlmanacDay {
	return AlmanacDay{
		SolarDate:  a.Solar.String(),
		LunarDay:   a.Lunar.Day,
		LunarMonth: a.Lunar.Month,
		LunarYear:  a.Lunar.Year,
		LeapMonth:  a.Lunar.Leap,
		YearLabel:  a.YearLabel,
		MonthLabel: a.MonthLabel,
		DayLabel:   a.DayLabel,
		Weekday:    a.Weekday,
		Special:    string(a.Special),
	}
}
