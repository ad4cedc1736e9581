package timezone

import (
	"time"

	// the upstream's dates are wall-clock times of the depot, so the zone
	// database must be available even on minimal container images
	_ "time/tzdata"
)

const DefaultLocation = "Australia/Sydney"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation(DefaultLocation)
	if err != nil {
		panic(err)
	}
}

// SetLocation changes the zone used to interpret upstream dates,
// an empty name keeps the current zone.
func SetLocation(name string) error {
	if name == "" {
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	Location = loc
	return nil
}

// Now returns the current time in the depot's zone, calendar-day
// comparisons (ex. "blocked today") depend on it.
func Now() time.Time {
	return time.Now().In(Location)
}

// DayBounds returns the first and last instant of t's calendar day in t's zone.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}
