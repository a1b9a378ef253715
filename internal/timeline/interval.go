package timeline

import "fmt"

// Interval is a half-open [Start, End) range in minutes of one day.
// ID identifies the entry it was derived from; it may be empty for drafts.
type Interval struct {
	ID    string
	Start int
	End   int
}

// Duration returns End - Start.
func (iv Interval) Duration() int {
	return iv.End - iv.Start
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%s, %s)", FormatMinutes(iv.Start), FormatMinutes(iv.End))
}

// Overlaps reports whether a and b share at least one minute.
// Touching endpoints (a.End == b.Start) do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && a.End > b.Start
}

// FirstConflict returns the first interval in existing that collides with
// candidate. Intervals carrying the candidate's own ID are skipped so an
// entry never collides with its previous version.
func FirstConflict(candidate Interval, existing []Interval) (Interval, bool) {
	for _, e := range existing {
		if candidate.ID != "" && e.ID == candidate.ID {
			continue
		}
		if Overlaps(candidate, e) {
			return e, true
		}
	}
	return Interval{}, false
}

// IsValid reports whether candidate can be committed next to existing.
func IsValid(candidate Interval, existing []Interval) bool {
	_, hit := FirstConflict(candidate, existing)
	return !hit
}

// FormatMinutes renders a minute of the day as HH:MM. 1440 renders as 24:00.
func FormatMinutes(m int) string {
	if m < 0 {
		m = 0
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
