package lunar

import "math"

// Ephemeris constants. The epoch is the new moon of 1900-01-01 13:52 UTC
// (k = 0); k counts synodic months from there.
const (
	newMoonEpochJDN = 2415021.076998695
	synodicMonth    = 29.530588853

	degToRad = math.Pi / 180
)

// newMoonInstant returns the real-valued JDN of the k-th new moon after the
// epoch. Mean conjunction time plus a truncated periodic correction series:
// the phase angles (sun/moon mean anomaly, argument of latitude) are cubic
// polynomials in Julian centuries, and the correction sums twelve
// sine terms. Error stays well under a day for 1900–2199.
func newMoonInstant(k int) float64 {
	kf := float64(k)
	t := kf / 1236.85 // Julian centuries since epoch
	t2 := t * t
	t3 := t2 * t

	jd := 2415020.75933 + synodicMonth*kf + 0.0001178*t2 - 0.000000155*t3
	jd += 0.00033 * math.Sin((166.56+132.87*t-0.009173*t2)*degToRad)

	// Phase angles in degrees.
	m := 359.2242 + 29.10535608*kf - 0.0000333*t2 - 0.00000347*t3     // sun mean anomaly
	mpr := 306.0253 + 385.81691806*kf + 0.0107306*t2 + 0.00001236*t3 // moon mean anomaly
	f := 21.2964 + 390.67050646*kf - 0.0016528*t2 - 0.00000239*t3    // argument of latitude

	c := (0.1734 - 0.000393*t) * math.Sin(m*degToRad)
	c += 0.0021 * math.Sin(2*m*degToRad)
	c -= 0.4068 * math.Sin(mpr*degToRad)
	c += 0.0161 * math.Sin(2*mpr*degToRad)
	c -= 0.0004 * math.Sin(3*mpr*degToRad)
	c += 0.0104 * math.Sin(2*f*degToRad)
	c -= 0.0051 * math.Sin((m+mpr)*degToRad)
	c -= 0.0074 * math.Sin((m-mpr)*degToRad)
	c += 0.0004 * math.Sin((2*f+m)*degToRad)
	c -= 0.0004 * math.Sin((2*f-m)*degToRad)
	c -= 0.0006 * math.Sin((2*f+mpr)*degToRad)
	c += 0.0010 * math.Sin((2*f-mpr)*degToRad)
	c += 0.0005 * math.Sin((2*m+mpr)*degToRad)

	// Dynamical-to-universal time correction.
	var deltaT float64
	if t < -11 {
		deltaT = 0.001 + 0.000839*t + 0.0002261*t2 - 0.00000845*t3 - 0.000000081*t*t3
	} else {
		deltaT = -0.000278 + 0.000265*t + 0.000262*t2
	}

	return jd + c - deltaT
}

// newMoonDay returns the local civil day (integer JDN) containing the k-th
// new moon for a timezone offset in hours. This is the only place the
// offset touches the lunar series.
func newMoonDay(k int, tzOffset float64) int {
	return int(math.Floor(newMoonInstant(k) + 0.5 + tzOffset/24))
}

// sunLongitude returns the sun's apparent ecliptic longitude in degrees
// [0, 360) at a real-valued JDN: mean longitude plus the equation of
// center (three periodic terms in the mean anomaly).
func sunLongitude(jd float64) float64 {
	t := (jd - 2451545.0) / 36525 // Julian centuries from J2000
	t2 := t * t

	m := 357.52910 + 35999.05030*t - 0.0001559*t2 - 0.00000048*t*t2 // mean anomaly
	l0 := 280.46645 + 36000.76983*t + 0.0003032*t2                  // mean longitude

	dl := (1.914600 - 0.004817*t - 0.000014*t2) * math.Sin(m*degToRad)
	dl += (0.019993 - 0.000101*t) * math.Sin(2*m*degToRad)
	dl += 0.000290 * math.Sin(3*m*degToRad)

	l := math.Mod(l0+dl, 360)
	if l < 0 {
		l += 360
	}
	return l
}

// majorTermIndex returns which of the twelve 30°-wide major solar terms the
// sun occupies at local midnight starting the given civil day. Comparing
// indices of consecutive month starts (rather than testing longitudes for
// exact multiples of 30°) keeps the boundary test free of float flakiness.
func majorTermIndex(jdn int, tzOffset float64) int {
	return int(sunLongitude(float64(jdn)-0.5-tzOffset/24) / 30)
}
