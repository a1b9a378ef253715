// Package planner sits between the timeline engine and the entry store. It
// owns the store boundary, the overlap gate in front of every write and the
// optimistic copy of a day that the UI edits.
package planner

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sadopc/timetable/internal/store"
	"github.com/sadopc/timetable/internal/timeline"
)

// EntryStore is the durable collaborator. Unknown ids are reported as nil or
// false results, never as errors.
type EntryStore interface {
	ListEntries(from, to time.Time) ([]store.Entry, error)
	CreateEntry(d store.EntryDraft) (*store.Entry, error)
	UpdateEntry(id string, p store.EntryPatch) (*store.Entry, error)
	DeleteEntry(id string) (bool, error)
	DailySummaries(from, to time.Time) ([]store.DailySummary, error)

	ListProjects() ([]store.Project, error)
	AddProject(name, color string) (*store.Project, error)
	UpdateProject(id string, p store.ProjectPatch) (*store.Project, error)
	DeleteProject(id string) (bool, error)

	GetSettings() (store.Settings, error)
	UpdateSettings(p store.SettingsPatch) (store.Settings, error)
}

var _ EntryStore = (*store.Store)(nil)

// Service validates and commits entries against the store directly, without
// an optimistic copy. The CLI uses it.
type Service struct {
	store EntryStore
	log   *slog.Logger
}

func NewService(s EntryStore, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{store: s, log: log}
}

// Store returns the underlying store.
func (s *Service) Store() EntryStore {
	return s.store
}

// Step returns the quantization step from the stored settings.
func (s *Service) Step() (int, error) {
	settings, err := s.store.GetSettings()
	if err != nil {
		return 0, unavailable("get settings", err)
	}
	step, err := CheckStep(settings.MinEntryMinutes)
	if err != nil {
		s.log.Warn("substituting quantization step", "err", err)
	}
	return step, nil
}

// DayEntries lists the entries starting on day.
func (s *Service) DayEntries(day time.Time) ([]store.Entry, error) {
	from, to := DayRange(DayOf(day))
	entries, err := s.store.ListEntries(from, to)
	if err != nil {
		return nil, unavailable("list entries", err)
	}
	return entries, nil
}

// Day loads day into a fresh DayBook.
func (s *Service) Day(day time.Time) (*DayBook, error) {
	entries, err := s.DayEntries(day)
	if err != nil {
		return nil, err
	}
	return NewDayBook(day, entries), nil
}

// snap quantizes [start, end) on day to step, keeping at least one step.
func snap(day time.Time, start, end time.Time, step int) timeline.Interval {
	a := timeline.Quantize(MinuteOfDay(day, start), step)
	b := timeline.Quantize(MinuteOfDay(day, end), step)
	return timeline.NormalizeDraft(a, b, step)
}

// Create snaps the draft to the quantization step, checks it against the
// other entries of its day and persists it.
func (s *Service) Create(d store.EntryDraft) (*store.Entry, error) {
	if !WithinDay(d.Start, d.End) {
		return nil, ErrMultiDay
	}
	step, err := s.Step()
	if err != nil {
		return nil, err
	}
	day := DayOf(d.Start)
	existing, err := s.DayEntries(day)
	if err != nil {
		return nil, err
	}

	iv := snap(day, d.Start, d.End, step)
	if err := gate(iv, Intervals(day, existing)); err != nil {
		s.log.Info("create rejected", "interval", iv.String(), "err", err)
		return nil, err
	}

	d.Start, d.End = TimeAt(day, iv.Start), TimeAt(day, iv.End)
	e, err := s.store.CreateEntry(d)
	if err != nil {
		return nil, unavailable("create entry", err)
	}
	s.log.Info("entry created", "id", e.ID, "interval", iv.String())
	return e, nil
}

// Reschedule moves or resizes entry id to [start, end). It returns nil, nil
// when id is unknown.
func (s *Service) Reschedule(id string, start, end time.Time) (*store.Entry, error) {
	return s.write(id, start, end, store.EntryPatch{})
}

// Update writes the times, project and comment of e in one store call after
// the same checks as Reschedule. It returns nil, nil when e.ID is unknown.
func (s *Service) Update(e store.Entry) (*store.Entry, error) {
	return s.write(e.ID, e.Start, e.End, store.EntryPatch{ProjectID: &e.ProjectID, Comment: &e.Comment})
}

// write snaps and gates [start, end) and stores it together with patch.
func (s *Service) write(id string, start, end time.Time, patch store.EntryPatch) (*store.Entry, error) {
	if !WithinDay(start, end) {
		return nil, ErrMultiDay
	}
	step, err := s.Step()
	if err != nil {
		return nil, err
	}
	day := DayOf(start)
	existing, err := s.DayEntries(day)
	if err != nil {
		return nil, err
	}

	iv := snap(day, start, end, step)
	iv.ID = id
	if err := gate(iv, Intervals(day, existing)); err != nil {
		s.log.Info("update rejected", "id", id, "interval", iv.String(), "err", err)
		return nil, err
	}

	newStart, newEnd := TimeAt(day, iv.Start), TimeAt(day, iv.End)
	patch.Start, patch.End = &newStart, &newEnd
	e, err := s.store.UpdateEntry(id, patch)
	if err != nil {
		return nil, unavailable("update entry", err)
	}
	if e == nil {
		s.log.Debug("update of unknown entry", "id", id)
	}
	return e, nil
}

// Annotate changes the project and/or comment of an entry. Nil fields are
// kept. It returns nil, nil when id is unknown.
func (s *Service) Annotate(id string, projectID, comment *string) (*store.Entry, error) {
	e, err := s.store.UpdateEntry(id, store.EntryPatch{ProjectID: projectID, Comment: comment})
	if err != nil {
		return nil, unavailable("update entry", err)
	}
	return e, nil
}

// Delete removes an entry and reports whether it existed.
func (s *Service) Delete(id string) (bool, error) {
	ok, err := s.store.DeleteEntry(id)
	if err != nil {
		return false, unavailable("delete entry", err)
	}
	return ok, nil
}

// DayTotal is the tracked time of one day against the daily goal.
type DayTotal struct {
	Day     time.Time
	Minutes int
	Goal    int // minutes
}

// Reached reports whether the daily goal was met.
func (t DayTotal) Reached() bool {
	return t.Goal > 0 && t.Minutes >= t.Goal
}

// Progress returns Minutes/Goal capped at 1.
func (t DayTotal) Progress() float64 {
	if t.Goal <= 0 {
		return 0
	}
	return min(float64(t.Minutes)/float64(t.Goal), 1)
}

// Week returns the totals of the seven days starting at the week containing
// day.
func (s *Service) Week(day time.Time, weekStart time.Weekday) ([]DayTotal, error) {
	settings, err := s.store.GetSettings()
	if err != nil {
		return nil, unavailable("get settings", err)
	}
	first := WeekOf(day, weekStart)
	from := first
	_, to := DayRange(first.AddDate(0, 0, 6))
	entries, err := s.store.ListEntries(from, to)
	if err != nil {
		return nil, unavailable("list entries", err)
	}
	return WeekTotals(first, entries, settings.DailyGoalHours), nil
}

// WeekTotals buckets entries into the seven days starting at first.
func WeekTotals(first time.Time, entries []store.Entry, goalHours float64) []DayTotal {
	goal := int(goalHours * 60)
	totals := make([]DayTotal, 7)
	for i := range totals {
		totals[i] = DayTotal{Day: first.AddDate(0, 0, i), Goal: goal}
	}
	for _, e := range entries {
		d := DayOf(e.Start)
		for i := range totals {
			if totals[i].Day.Equal(d) {
				iv := IntervalOf(d, e)
				totals[i].Minutes += iv.Duration()
				break
			}
		}
	}
	return totals
}

func gate(candidate timeline.Interval, existing []timeline.Interval) error {
	if conflict, hit := timeline.FirstConflict(candidate, existing); hit {
		return &OverlapError{Candidate: candidate, Conflict: conflict}
	}
	return nil
}

// IsOverlap reports whether err is an overlap rejection.
func IsOverlap(err error) bool {
	return errors.Is(err, ErrOverlapRejected)
}

// Describe renders err for a user-facing notice.
func Describe(err error) string {
	var oe *OverlapError
	switch {
	case errors.As(err, &oe):
		return fmt.Sprintf("Entry %s overlaps %s.", oe.Candidate, oe.Conflict)
	case errors.Is(err, ErrStoreUnavailable):
		return "Could not save: the database is unavailable. Your change is kept locally."
	case errors.Is(err, ErrMultiDay):
		return "Entries must start and end on the same day."
	case errors.Is(err, ErrNotSaved):
		return "This entry is still being saved."
	}
	return err.Error()
}
