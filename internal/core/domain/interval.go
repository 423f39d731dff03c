package domain

import "time"

// DateInterval is a calendar date range with inclusive bounds. Times are
// normalized to UTC midnight before any comparison.
type DateInterval struct {
	Start time.Time
	End   time.Time
}

// NewDateInterval normalizes both bounds to UTC midnight and checks ordering.
func NewDateInterval(start, end time.Time) (DateInterval, error) {
	iv := DateInterval{Start: truncateToDay(start), End: truncateToDay(end)}
	if !iv.End.After(iv.Start) {
		return DateInterval{}, ErrInvalidInterval
	}
	return iv, nil
}

// Overlaps uses inclusive bounds on both ends: two bookings touching on the
// same day conflict, because pickup and dropoff both occupy the vehicle.
func (iv DateInterval) Overlaps(other DateInterval) bool {
	return !iv.Start.After(other.End) && !iv.End.Before(other.Start)
}

// Contains reports whether a single date falls inside the interval, bounds
// included.
func (iv DateInterval) Contains(date time.Time) bool {
	d := truncateToDay(date)
	return !d.Before(iv.Start) && !d.After(iv.End)
}

// Days returns the number of billable rental days (end minus start).
func (iv DateInterval) Days() int {
	return int(iv.End.Sub(iv.Start).Hours() / 24)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
