package daterange

import (
	"errors"
	"time"
)

var (
	ErrInvalidRange = errors.New("daterange: end date must be after start date")
)

const secondsPerDay = 24 * 60 * 60

// DateRange represents a half-open interval [Start, End) of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// New builds a range from two dates. Both ends are truncated to midnight UTC.
func New(start, end time.Time) (DateRange, error) {
	dr := DateRange{Start: Date(start), End: Date(end)}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// Date drops the clock part of t, keeping its calendar date in UTC.
func Date(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from `from` to `to`.
// The result is negative when to is before from. Counting runs on Unix seconds
// rather than time.Duration, which cannot hold spans beyond roughly 292 years.
func DaysBetween(from, to time.Time) int {
	return int((Date(to).Unix() - Date(from).Unix()) / secondsPerDay)
}

func (dr DateRange) Validate() error {
	if dr.End.IsZero() || dr.Start.IsZero() {
		return ErrInvalidRange
	}
	if !dr.End.After(dr.Start) {
		return ErrInvalidRange
	}
	return nil
}

func (dr DateRange) Nights() int {
	return DaysBetween(dr.Start, dr.End)
}

func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.Start.Before(other.End) && other.Start.Before(dr.End)
}

func (dr DateRange) ContainsDate(t time.Time) bool {
	t = Date(t)
	return (t.Equal(dr.Start) || t.After(dr.Start)) && t.Before(dr.End)
}

func (dr DateRange) Adjacent(other DateRange) bool {
	return dr.End.Equal(other.Start) || dr.Start.Equal(other.End)
}

func (dr DateRange) Equal(other DateRange) bool {
	return dr.Start.Equal(other.Start) && dr.End.Equal(other.End)
}
