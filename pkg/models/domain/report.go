package domain

import "time"

// Report is the result of one named report computation.
type Report struct {
	Name   string
	Title  string
	AsOf   time.Time
	Period TimePeriod
	// Enrichment describes the snapshot the report was computed from; its
	// counts cover the whole snapshot, not only the report window.
	Enrichment JoinStats
	// Rows holds the typed row slice of the report, e.g. []MonthlyRevenueRow.
	Rows any
}

// TimePeriod represents the trailing window a report was computed over
type TimePeriod struct {
	Start time.Time
	End   time.Time
	Years int
}

// Table is the flat, string-rendered form of a report used by the terminal
// reporter and the CSV export.
type Table struct {
	Name    string
	Title   string
	Period  TimePeriod
	Columns []string
	Rows    [][]string
}
