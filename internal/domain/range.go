package domain

import "time"

// DateRange: optional inclusive query window. The zero value means full history.
type DateRange struct {
	From time.Time
	To   time.Time
}

// IsZero: reports whether no window was requested.
func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// Contains: reports whether ts falls inside the window.
func (r DateRange) Contains(ts time.Time) bool {
	if !r.From.IsZero() && ts.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && ts.After(r.To) {
		return false
	}
	return true
}

// Key: stable cache-key fragment for the window.
func (r DateRange) Key() string {
	if r.IsZero() {
		return "all"
	}
	return r.From.UTC().Format(time.RFC3339) + ".." + r.To.UTC().Format(time.RFC3339)
}
