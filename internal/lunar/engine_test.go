package lunar

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_ToLunar_KnownDates(t *testing.T) {
	e := NewEngine(TimeZoneVietnam)

	tests := []struct {
		name  string
		solar SolarDate
		want  LunarDate
	}{
		{"Tết 2020", SolarDate{2020, 1, 25}, LunarDate{1, 1, 2020, false}},
		{"Tết 2021", SolarDate{2021, 2, 12}, LunarDate{1, 1, 2021, false}},
		{"Tết 2022", SolarDate{2022, 2, 1}, LunarDate{1, 1, 2022, false}},
		{"Tết 2023", SolarDate{2023, 1, 22}, LunarDate{1, 1, 2023, false}},
		{"Tết 2024", SolarDate{2024, 2, 10}, LunarDate{1, 1, 2024, false}},
		{"Tết 2025", SolarDate{2025, 1, 29}, LunarDate{1, 1, 2025, false}},
		{"Tết 2026", SolarDate{2026, 2, 17}, LunarDate{1, 1, 2026, false}},
		{"Rằm tháng Giêng 2025", SolarDate{2025, 2, 12}, LunarDate{15, 1, 2025, false}},
		{"regular month 6 of 2025", SolarDate{2025, 6, 25}, LunarDate{1, 6, 2025, false}},
		{"leap month 6 of 2025 starts", SolarDate{2025, 7, 25}, LunarDate{1, 6, 2025, true}},
		{"inside leap month 6 of 2025", SolarDate{2025, 8, 1}, LunarDate{8, 6, 2025, true}},
		{"month 11 of Ất Tị", SolarDate{2025, 12, 20}, LunarDate{1, 11, 2025, false}},
		{"month 12 of Ất Tị", SolarDate{2026, 1, 19}, LunarDate{1, 12, 2025, false}},
		{"eve of Tết 2026", SolarDate{2026, 2, 16}, LunarDate{29, 12, 2025, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.ToLunar(tt.solar)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngine_ToSolar_KnownDates(t *testing.T) {
	e := NewEngine(TimeZoneVietnam)

	tests := []struct {
		name  string
		lunar LunarDate
		want  SolarDate
	}{
		{"Tết 2026", LunarDate{1, 1, 2026, false}, SolarDate{2026, 2, 17}},
		{"leap month start", LunarDate{1, 6, 2025, true}, SolarDate{2025, 7, 25}},
		{"base month of leap pair", LunarDate{1, 6, 2025, false}, SolarDate{2025, 6, 25}},
		{"month 12 spills into next solar year", LunarDate{1, 12, 2025, false}, SolarDate{2026, 1, 19}},
		{"month 11 anchor", LunarDate{1, 11, 2025, false}, SolarDate{2025, 12, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.ToSolar(tt.lunar)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngine_ToSolar_Errors(t *testing.T) {
	e := NewEngine(TimeZoneVietnam)

	tests := []struct {
		name  string
		lunar LunarDate
		want  error
	}{
		{"leap month in regular year", LunarDate{1, 6, 2024, true}, ErrNoSuchMonth},
		{"wrong leap ordinal", LunarDate{1, 4, 2025, true}, ErrNoSuchMonth},
		{"day 30 of a 29-day month", LunarDate{30, 12, 2025, false}, ErrNoSuchMonth},
		{"day out of bounds", LunarDate{31, 1, 2025, false}, ErrInvalidDate},
		{"month zero", LunarDate{1, 0, 2025, false}, ErrInvalidDate},
		{"year below range", LunarDate{1, 1, 1850, false}, ErrOutOfRange},
		{"year above range", LunarDate{1, 1, 2300, false}, ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.ToSolar(tt.lunar)
			require.ErrorIs(t, err, tt.want)
			assert.True(t, IsInvalidInput(err))
		})
	}
}

func TestEngine_ToLunar_Errors(t *testing.T) {
	e := NewEngine(TimeZoneVietnam)

	_, err := e.ToLunar(SolarDate{1899, 12, 31})
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = e.ToLunar(SolarDate{2300, 1, 1})
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = e.ToLunar(SolarDate{2025, 2, 30})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestEngine_RoundTrip(t *testing.T) {
	e := NewEngine(TimeZoneVietnam)

	start := SolarToJDN(SolarDate{1950, 1, 1})
	end := SolarToJDN(SolarDate{2100, 12, 31})
	for jdn := start; jdn <= end; jdn++ {
		d := JDNToSolar(jdn)
		ld, err := e.ToLunar(d)
		require.NoError(t, err, "ToLunar(%s)", d)
		require.GreaterOrEqual(t, ld.Day, 1)
		require.LessOrEqual(t, ld.Day, 30)

		back, err := e.ToSolar(ld)
		require.NoError(t, err, "ToSolar(%s)", ld)
		require.Equal(t, d, back, "round trip at %s", d)
	}
}

func TestEngine_ConcurrentAccess(t *testing.T) {
	e := NewEngine(TimeZoneVietnam)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for year := 2020; year <= 2030; year++ {
				ld, err := e.ToLunar(SolarDate{year, 6, 15})
				assert.NoError(t, err)
				assert.NotZero(t, ld.Month)
			}
		}()
	}
	wg.Wait()
}

func TestEngine_IntervalsAreCached(t *testing.T) {
	e := NewEngine(TimeZoneVietnam)

	a, err := e.Intervals(2025)
	require.NoError(t, err)
	b, err := e.Intervals(2025)
	require.NoError(t, err)
	assert.Same(t, &a[0], &b[0], "second lookup must reuse the published slice")
}

func TestEngine_Today(t *testing.T) {
	e := NewEngine(TimeZoneVietnam)
	loc := e.Location()
	assert.Equal(t, SolarDate{2026, 2, 17},
		e.Today(SolarDate{2026, 2, 17}.Time(loc).Add(30*time.Minute)))
}
