// Package lunar implements the Vietnamese lunisolar calendar: conversion
// between proleptic Gregorian solar dates and lunar dates, Can-Chi
// (sexagenary) labeling, and new-moon/full-moon day lookup.
//
// The astronomical series follow "Astronomical Algorithms" by Jean Meeus
// (1998), with the truncated term sets commonly used for the Vietnamese
// calendar. All computations use a fixed civil-day boundary at the given
// timezone offset (UTC+7 for Vietnam).
package lunar

import (
	"fmt"
	"time"
)

// Supported solar year range. The truncated ephemeris series keeps the
// new-moon error well under a day inside this window.
const (
	MinYear = 1900
	MaxYear = 2199
)

// SolarDate is a civil calendar date in the proleptic Gregorian calendar.
type SolarDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// LunarDate is a position in the Vietnamese lunisolar calendar.
// Day runs 1..30; whether a month has 29 or 30 days depends only on the
// spacing of consecutive new moons, never on a lookup table.
type LunarDate struct {
	Day   int  `json:"day"`
	Month int  `json:"month"`
	Year  int  `json:"year"`
	Leap  bool `json:"leap_month"`
}

// String formats the date as YYYY-MM-DD.
func (d SolarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Time returns midnight of the date in the given location.
func (d SolarDate) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns the date n days after d (n may be negative).
func (d SolarDate) AddDays(n int) SolarDate {
	return JDNToSolar(SolarToJDN(d) + n)
}

// Valid reports whether the date exists in the Gregorian calendar.
// It does not check the supported year range; see Engine for that.
func (d SolarDate) Valid() bool {
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 31 {
		return false
	}
	return JDNToSolar(SolarToJDN(d)) == d
}

// String formats the lunar date as day/month[ (nhuận)]/year.
func (d LunarDate) String() string {
	if d.Leap {
		return fmt.Sprintf("%d/%d (nhuận)/%d", d.Day, d.Month, d.Year)
	}
	return fmt.Sprintf("%d/%d/%d", d.Day, d.Month, d.Year)
}

// ParseSolarDate parses a YYYY-MM-DD string.
func ParseSolarDate(s string) (SolarDate, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return SolarDate{}, err
	}
	return SolarDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, nil
}

// SolarDateFromTime returns the civil day an instant falls in, for a
// timezone offset given in hours. This is the single place an instant is
// normalized before any lunar computation.
func SolarDateFromTime(t time.Time, tzOffsetHours float64) SolarDate {
	loc := time.FixedZone("", int(tzOffsetHours*3600))
	y, m, d := t.In(loc).Date()
	return SolarDate{Year: y, Month: int(m), Day: d}
}

// SolarToJDN converts a proleptic Gregorian date to its Julian Day Number
// (local-noon convention). JDN(2000-01-01) == 2451545.
//
// The pre-1582 Julian-calendar switch of older implementations is
// deliberately absent: the supported range never reaches it, and a single
// formula keeps the JDN↔date mapping an exact bijection.
func SolarToJDN(d SolarDate) int {
	a := (14 - d.Month) / 12
	y := d.Year + 4800 - a
	m := d.Month + 12*a - 3
	return d.Day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}

// JDNToSolar is the exact inverse of SolarToJDN over the integer domain.
func JDNToSolar(jdn int) SolarDate {
	a := jdn + 32044
	b := (4*a + 3) / 146097
	c := a - b*146097/4
	d := (4*c + 3) / 1461
	e := c - 1461*d/4
	m := (5*e + 2) / 153
	return SolarDate{
		Day:   e - (153*m+2)/5 + 1,
		Month: m + 3 - 12*(m/10),
		Year:  b*100 + d - 4800 + m/10,
	}
}
