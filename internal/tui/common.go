package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/timetable/internal/planner"
	"github.com/sadopc/timetable/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDay viewState = iota
	viewWeek
	viewProjects
	viewSettings
)

var viewNames = []string{"Day", "Week", "Projects", "Settings"}

// Options carries the display settings that come from the config file
// rather than from the store.
type Options struct {
	MinutesPerRow    int
	GapMinutes       int
	MinHeightMinutes int
	WeekStart        time.Weekday
}

func (o Options) withDefaults() Options {
	if o.MinutesPerRow < 1 {
		o.MinutesPerRow = 15
	}
	if o.MinHeightMinutes < 1 {
		o.MinHeightMinutes = 15
	}
	if o.GapMinutes < 0 {
		o.GapMinutes = 0
	}
	return o
}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type dayLoadedMsg struct {
	day      time.Time
	book     *planner.DayBook
	projects []store.Project
	settings store.Settings
	err      error
}

type entryCreatedMsg struct {
	localID string
	rev     uint64
	entry   *store.Entry
	err     error
}

type entrySavedMsg struct {
	id    string
	rev   uint64
	entry *store.Entry
	err   error
}

type entryDeletedMsg struct {
	id  string
	rev uint64
	ok  bool
	err error
}

// openDayMsg switches to the Day view on day.
type openDayMsg struct {
	day time.Time
}

type settingsChangedMsg struct {
	settings store.Settings
}

type projectsChangedMsg struct{}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

// formatMinutes renders a duration in minutes as "3h 05m".
func formatMinutes(mins int) string {
	return fmt.Sprintf("%dh %02dm", mins/60, mins%60)
}

func formatHours(mins int) string {
	return fmt.Sprintf("%.1fh", float64(mins)/60)
}

func errStatus(prefix string, err error) statusMsg {
	return statusMsg{text: fmt.Sprintf("%s: %s", prefix, planner.Describe(err)), isError: true}
}
