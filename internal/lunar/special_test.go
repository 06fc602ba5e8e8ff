package lunar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSpecialDay(t *testing.T) {
	assert.Equal(t, SpecialNewMoon, IsSpecialDay(LunarDate{Day: 1, Month: 3, Year: 2025}))
	assert.Equal(t, SpecialFullMoon, IsSpecialDay(LunarDate{Day: 15, Month: 3, Year: 2025}))
	assert.Equal(t, SpecialNone, IsSpecialDay(LunarDate{Day: 14, Month: 3, Year: 2025}))
	assert.Equal(t, SpecialNone, IsSpecialDay(LunarDate{Day: 30, Month: 3, Year: 2025}))
}

func TestNextSpecialDay_KnownDates(t *testing.T) {
	e := NewEngine(TimeZoneVietnam)

	tests := []struct {
		name string
		from SolarDate
		kind SpecialKind
		want SpecialDayResult
	}{
		{
			// 2026-01-19 is itself Mùng 1 of month 12; the search starts the
			// day after, so the next new moon is Tết.
			name: "next new moon from a new moon",
			from: SolarDate{2026, 1, 19},
			kind: SpecialNewMoon,
			want: SpecialDayResult{Target: SolarDate{2026, 2, 17}, DaysUntil: 29, Month: 1},
		},
		{
			name: "next full moon crosses into month 12",
			from: SolarDate{2026, 1, 19},
			kind: SpecialFullMoon,
			want: SpecialDayResult{Target: SolarDate{2026, 2, 2}, DaysUntil: 14, Month: 12},
		},
		{
			name: "full moon the very next day",
			from: SolarDate{2025, 2, 11},
			kind: SpecialFullMoon,
			want: SpecialDayResult{Target: SolarDate{2025, 2, 12}, DaysUntil: 1, Month: 1},
		},
		{
			name: "new moon landing in the leap month",
			from: SolarDate{2025, 7, 20},
			kind: SpecialNewMoon,
			want: SpecialDayResult{Target: SolarDate{2025, 7, 25}, DaysUntil: 5, Month: 6, Leap: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.NextSpecialDay(tt.from, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextSpecialDay_AlwaysWithinBound(t *testing.T) {
	e := NewEngine(TimeZoneVietnam)

	from := SolarDate{2024, 1, 1}
	for i := 0; i < 400; i += 7 {
		d := from.AddDays(i)
		for _, kind := range []SpecialKind{SpecialNewMoon, SpecialFullMoon} {
			res, err := e.NextSpecialDay(d, kind)
			require.NoError(t, err, "from %s kind %s", d, kind)
			require.Greater(t, res.DaysUntil, 0)
			require.LessOrEqual(t, res.DaysUntil, 30)

			ld, err := e.ToLunar(res.Target)
			require.NoError(t, err)
			require.Equal(t, kind, IsSpecialDay(ld))
		}
	}
}

func TestNextSpecialDay_InvalidKind(t *testing.T) {
	e := NewEngine(TimeZoneVietnam)

	_, err := e.NextSpecialDay(SolarDate{2025, 6, 1}, SpecialKind("eclipse"))
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = e.NextSpecialDay(SolarDate{2025, 6, 1}, SpecialNone)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestAlmanac(t *testing.T) {
	e := NewEngine(TimeZoneVietnam)

	a, err := e.Almanac(SolarDate{2026, 2, 17})
	require.NoError(t, err)
	assert.Equal(t, LunarDate{1, 1, 2026, false}, a.Lunar)
	assert.Equal(t, "Bính Ngọ", a.YearLabel)
	assert.Equal(t, "Thứ 3", a.Weekday)
	assert.Equal(t, SpecialNewMoon, a.Special)
	assert.NotEmpty(t, a.MonthLabel)
	assert.NotEmpty(t, a.DayLabel)

	_, err = e.Almanac(SolarDate{1776, 7, 4})
	assert.ErrorIs(t, err, ErrOutOfRange)
}
