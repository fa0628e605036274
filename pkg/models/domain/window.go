package domain

import "time"

// Window is a trailing range of Years ending at AsOf, inclusive at both ends
// and compared at UTC day granularity.
type Window struct {
	AsOf  time.Time
	Years int
}

func NewWindow(asOf time.Time, years int) Window {
	return Window{AsOf: Day(asOf), Years: years}
}

func (w Window) Start() time.Time {
	return Day(w.AsOf).AddDate(-w.Years, 0, 0)
}

func (w Window) End() time.Time {
	return Day(w.AsOf)
}

func (w Window) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(w.Start()) && !d.After(w.End())
}

func (w Window) Period() TimePeriod {
	return TimePeriod{Start: w.Start(), End: w.End(), Years: w.Years}
}

// Day truncates t to midnight UTC. Every calendar day in the engine is a UTC
// day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
