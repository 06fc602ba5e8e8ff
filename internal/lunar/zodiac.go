package lunar

// Can-Chi (sexagenary) labeling. Ten heavenly stems crossed with twelve
// earthly branches give the 60-cycle applied to years, months, and days.
// The offsets below are calibrated so that lunar year 2025 is "Ất Tị" and
// repeat with period 60 in every argument.

// Stems (Can) and branches (Chi) in canonical order.
var (
	stems = [10]string{"Giáp", "Ất", "Bính", "Đinh", "Mậu", "Kỷ", "Canh", "Tân", "Nhâm", "Quý"}

	branches = [12]string{"Tí", "Sửu", "Dần", "Mão", "Thìn", "Tị", "Ngọ", "Mùi", "Thân", "Dậu", "Tuất", "Hợi"}

	// Vietnamese weekday names indexed by jdn mod 7 (0 = Monday).
	weekdays = [7]string{"Thứ 2", "Thứ 3", "Thứ 4", "Thứ 5", "Thứ 6", "Thứ 7", "Chủ nhật"}
)

// StemBranch is a Can-Chi pair by table index.
type StemBranch struct {
	Stem   int `json:"stem"`
	Branch int `json:"branch"`
}

// String returns the Vietnamese label, e.g. "Ất Tị".
func (sb StemBranch) String() string {
	return stems[sb.Stem] + " " + branches[sb.Branch]
}

// YearStemBranch returns the Can-Chi label of a lunar year.
func YearStemBranch(lunarYear int) StemBranch {
	return StemBranch{
		Stem:   mod(lunarYear+6, 10),
		Branch: mod(lunarYear+8, 12),
	}
}

// MonthStemBranch returns the Can-Chi label of a lunar month. The branch
// is fixed by the month ordinal (month 1 is always Dần); the stem cycles
// with the year. A leap month carries the same label as its base month.
func MonthStemBranch(lunarMonth, lunarYear int) StemBranch {
	return StemBranch{
		Stem:   mod(lunarYear*12+lunarMonth+3, 10),
		Branch: mod(lunarMonth+1, 12),
	}
}

// DayStemBranch returns the Can-Chi label of the civil day with the given
// JDN. The 60-day cycle runs uninterrupted over the whole calendar.
func DayStemBranch(jdn int) StemBranch {
	return StemBranch{
		Stem:   mod(jdn+9, 10),
		Branch: mod(jdn+1, 12),
	}
}

// WeekdayName returns the Vietnamese weekday of a civil day.
func WeekdayName(jdn int) string {
	return weekdays[mod(jdn, 7)]
}

// mod is the mathematical modulus, non-negative for any a.
func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
