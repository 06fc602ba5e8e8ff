package lunar

import "errors"

// ErrOutOfRange is returned for dates outside the supported solar year
// range (MinYear..MaxYear).
var ErrOutOfRange = errors.New("date outside supported range")

// ErrInvalidDate is returned for inputs that name no real calendar day,
// such as a 31st of April or a lunar day outside 1..30.
var ErrInvalidDate = errors.New("invalid date")

// ErrNoSuchMonth is returned when a lunar (month, leap) pair does not exist
// in the requested lunar year, e.g. a leap month in a regular year or day
// 30 of a 29-day month.
var ErrNoSuchMonth = errors.New("lunar month does not exist in that year")

// ErrInternal signals a calendar invariant violation: gapped or oversized
// month intervals, or a bounded search that should always succeed coming
// up empty. It indicates a defect in the ephemeris or leap rule, never bad
// caller input, and must be surfaced loudly.
var ErrInternal = errors.New("lunar calendar invariant violated")

// IsInvalidInput reports whether err is a caller-input failure rather than
// an internal defect.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrOutOfRange) || errors.Is(err, ErrInvalidDate) || errors.Is(err, ErrNoSuchMonth)
}
