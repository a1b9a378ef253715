package store

import "time"

// DefaultProjectID is the project that always exists. Entries of deleted
// projects are moved here.
const DefaultProjectID = "default"

const (
	defaultProjectName  = "General"
	defaultProjectColor = "#8b4dff"
)

type Project struct {
	ID        string
	Name      string
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Entry is one tracked interval. Start and End are in local time.
type Entry struct {
	ID        string
	Start     time.Time
	End       time.Time
	ProjectID string
	Comment   string
	CreatedAt time.Time
}

// Duration returns End - Start.
func (e Entry) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// EntryDraft is an entry that has not been assigned an ID yet.
type EntryDraft struct {
	Start     time.Time
	End       time.Time
	ProjectID string
	Comment   string
}

// EntryPatch is a partial update; nil fields are left unchanged.
type EntryPatch struct {
	Start     *time.Time
	End       *time.Time
	ProjectID *string
	Comment   *string
}

// ProjectPatch is a partial update; nil fields are left unchanged.
type ProjectPatch struct {
	Name  *string
	Color *string
}

// Settings are the user preferences read by the grid and the goal display.
type Settings struct {
	MinEntryMinutes int
	DailyGoalHours  float64
}

// SettingsPatch is merged over the stored settings.
type SettingsPatch struct {
	MinEntryMinutes *int
	DailyGoalHours  *float64
}

// DailySummary represents aggregated time per project per local day.
type DailySummary struct {
	Date         string
	ProjectID    string
	ProjectName  string
	ProjectColor string
	TotalMinutes int
	EntryCount   int
}
