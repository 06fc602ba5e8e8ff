package lunar

// Almanac bundles everything the calendar derives from one solar day: the
// lunar date, the three Can-Chi labels, the Vietnamese weekday, and the
// special-day kind. It is the display payload of the API, the daily
// publisher, and the history store.
type Almanac struct {
	Solar      SolarDate   `json:"solar"`
	Lunar      LunarDate   `json:"lunar"`
	YearLabel  string      `json:"year_label"`
	MonthLabel string      `json:"month_label"`
	DayLabel   string      `json:"day_label"`
	Weekday    string      `json:"weekday"`
	Special    SpecialKind `json:"special,omitempty"`
}

// Almanac computes the full almanac entry for a solar date.
func (e *Engine) Almanac(d SolarDate) (Almanac, error) {
	ld, err := e.ToLunar(d)
	if err != nil {
		return Almanac{}, err
	}
	jdn := SolarToJDN(d)
	return Almanac{
		Solar:      d,
		Lunar:      ld,
		YearLabel:  YearStemBranch(ld.Year).String(),
		MonthLabel: MonthStemBranch(ld.Month, ld.Year).String(),
		DayLabel:   DayStemBranch(jdn).String(),
		Weekday:    WeekdayName(jdn),
		Special:    IsSpecialDay(ld),
	}, nil
}
