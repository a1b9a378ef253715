package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/timetable/internal/planner"
	"github.com/sadopc/timetable/internal/timeline"
)

// parseDate accepts YYYY-MM-DD, "today", "yesterday" and "tomorrow". An
// empty string is today. The result is local midnight.
func parseDate(s string, now time.Time) (time.Time, error) {
	today := planner.DayOf(now)
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

// parseClock parses HH:MM into minutes after midnight. 24:00 is the end of
// the day.
func parseClock(s string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q (want HH:MM)", s)
	}
	hh, err1 := strconv.Atoi(h)
	mm, err2 := strconv.Atoi(m)
	if err1 != nil || err2 != nil || len(m) != 2 || hh < 0 || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("invalid time %q (want HH:MM)", s)
	}
	minute := hh*60 + mm
	if minute > timeline.MinutesPerDay {
		return 0, fmt.Errorf("time %q is past the end of the day", s)
	}
	return minute, nil
}

// parseSpan turns START and END clock strings on day into timestamps.
func parseSpan(day time.Time, start, end string) (time.Time, time.Time, error) {
	a, err := parseClock(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	b, err := parseClock(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if b <= a {
		return time.Time{}, time.Time{}, fmt.Errorf("end %s must be after start %s", end, start)
	}
	return planner.TimeAt(day, a), planner.TimeAt(day, b), nil
}

// formatMinutes renders a duration in minutes as "3h 05m".
func formatMinutes(mins int) string {
	return fmt.Sprintf("%dh %02dm", mins/60, mins%60)
}
