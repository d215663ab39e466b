package clock

import "time"

const dateLayout = "2006-01-02"

// Clock converts instants to calendar dates in a fixed time zone. Revenue is
// attributed to calendar dates in this zone, so every date string in the
// system goes through here.
type Clock struct {
	loc   *time.Location
	nowFn func() time.Time
}

func New(loc *time.Location) *Clock {
	return &Clock{loc: loc, nowFn: time.Now}
}

// NewFixed returns a clock frozen at the given instant, for tests.
func NewFixed(loc *time.Location, at time.Time) *Clock {
	return &Clock{loc: loc, nowFn: func() time.Time { return at }}
}

func (c *Clock) Location() *time.Location {
	return c.loc
}

func (c *Clock) Now() time.Time {
	return c.nowFn().In(c.loc)
}

// Today returns the current calendar date as YYYY-MM-DD.
func (c *Clock) Today() string {
	return c.Now().Format(dateLayout)
}

// Yesterday returns the previous calendar date as YYYY-MM-DD.
func (c *Clock) Yesterday() string {
	return c.Now().AddDate(0, 0, -1).Format(dateLayout)
}

// DateOf converts a unix timestamp to its calendar date in the clock's zone.
func (c *Clock) DateOf(ts int64) string {
	return time.Unix(ts, 0).In(c.loc).Format(dateLayout)
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}
