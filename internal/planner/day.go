package planner

import (
	"time"

	"github.com/sadopc/timetable/internal/store"
	"github.com/sadopc/timetable/internal/timeline"
)

// DayOf returns local midnight of the day t falls on.
func DayOf(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// TimeAt returns the wall-clock time minute minutes after midnight of day.
// Minute 1440 is midnight of the following day.
func TimeAt(day time.Time, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, minute, 0, 0, day.Location())
}

// MinuteOfDay returns t as minutes after midnight of day, clamped to the day.
func MinuteOfDay(day, t time.Time) int {
	t = t.In(day.Location())
	if sameDay(day, t) {
		return t.Hour()*60 + t.Minute()
	}
	if t.After(day) {
		return timeline.MinutesPerDay
	}
	return 0
}

// DayRange returns the inclusive start-timestamp range covering day.
func DayRange(day time.Time) (time.Time, time.Time) {
	return day, TimeAt(day, timeline.MinutesPerDay).Add(-time.Second)
}

// WeekOf returns the first day of the week containing t.
func WeekOf(t time.Time, start time.Weekday) time.Time {
	day := DayOf(t)
	back := (int(day.Weekday()) - int(start) + 7) % 7
	return day.AddDate(0, 0, -back)
}

// IntervalOf converts an entry to minutes of day.
func IntervalOf(day time.Time, e store.Entry) timeline.Interval {
	return timeline.Interval{
		ID:    e.ID,
		Start: MinuteOfDay(day, e.Start),
		End:   MinuteOfDay(day, e.End),
	}
}

// Intervals converts every entry to minutes of day.
func Intervals(day time.Time, entries []store.Entry) []timeline.Interval {
	out := make([]timeline.Interval, 0, len(entries))
	for _, e := range entries {
		out = append(out, IntervalOf(day, e))
	}
	return out
}

// WithinDay reports whether [start, end) fits on a single calendar day. An
// end at the following midnight is allowed.
func WithinDay(start, end time.Time) bool {
	day := DayOf(start)
	return !end.Before(start) && !end.After(TimeAt(day, timeline.MinutesPerDay))
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
