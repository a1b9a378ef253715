package planner

import (
	"errors"
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/sadopc/timetable/internal/store"
	"github.com/sadopc/timetable/internal/timeline"
)

var testDay = time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)

func at(minute int) time.Time {
	return TimeAt(testDay, minute)
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("NewMemory() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewService(s, nil)
}

// failingStore answers settings but fails every entry operation.
type failingStore struct {
	EntryStore
}

var errDown = errors.New("disk on fire")

func (failingStore) GetSettings() (store.Settings, error) {
	return store.Settings{MinEntryMinutes: 15, DailyGoalHours: 8}, nil
}

func (failingStore) ListEntries(from, to time.Time) ([]store.Entry, error) {
	return nil, errDown
}

func (failingStore) CreateEntry(store.EntryDraft) (*store.Entry, error) {
	return nil, errDown
}

// ==================== Day helpers ====================

func TestMinuteOfDay(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want int
	}{
		{"midnight", testDay, 0},
		{"morning", at(9*60 + 30), 570},
		{"next midnight", at(1440), 1440},
		{"next day", at(1440 + 90), 1440},
		{"previous day", testDay.Add(-time.Hour), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MinuteOfDay(testDay, tt.t); got != tt.want {
				t.Errorf("MinuteOfDay() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWeekOf(t *testing.T) {
	// 2025-03-13 is a Thursday.
	thu := time.Date(2025, 3, 13, 15, 0, 0, 0, time.Local)
	if got := WeekOf(thu, time.Monday); !got.Equal(testDay) {
		t.Errorf("WeekOf(Monday) = %v, want %v", got, testDay)
	}
	want := time.Date(2025, 3, 9, 0, 0, 0, 0, time.Local)
	if got := WeekOf(thu, time.Sunday); !got.Equal(want) {
		t.Errorf("WeekOf(Sunday) = %v, want %v", got, want)
	}
	if got := WeekOf(testDay, time.Monday); !got.Equal(testDay) {
		t.Errorf("WeekOf(first day) = %v, want itself", got)
	}
}

func TestWithinDay(t *testing.T) {
	if !WithinDay(at(600), at(1440)) {
		t.Error("an entry ending at midnight should fit the day")
	}
	if WithinDay(at(1400), at(1500)) {
		t.Error("an entry crossing midnight should not fit the day")
	}
}

func TestCheckStep(t *testing.T) {
	if step, err := CheckStep(15); step != 15 || err != nil {
		t.Errorf("CheckStep(15) = %d, %v", step, err)
	}
	step, err := CheckStep(0)
	if step != 1 {
		t.Errorf("CheckStep(0) step = %d, want 1", step)
	}
	if !errors.Is(err, ErrInvalidQuantizationStep) {
		t.Errorf("CheckStep(0) error = %v, want ErrInvalidQuantizationStep", err)
	}
}

// ==================== Service ====================

func TestServiceCreateThenOverlapRejected(t *testing.T) {
	svc := newTestService(t)

	first, err := svc.Create(store.EntryDraft{Start: at(540), End: at(600)})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if first.ProjectID != store.DefaultProjectID {
		t.Errorf("ProjectID = %q, want default", first.ProjectID)
	}

	_, err = svc.Create(store.EntryDraft{Start: at(550), End: at(590)})
	var oe *OverlapError
	if !errors.As(err, &oe) {
		t.Fatalf("Create() overlapping error = %v, want *OverlapError", err)
	}
	if !errors.Is(err, ErrOverlapRejected) {
		t.Error("OverlapError should match ErrOverlapRejected")
	}
	if oe.Conflict.ID != first.ID {
		t.Errorf("Conflict.ID = %q, want %q", oe.Conflict.ID, first.ID)
	}

	entries, err := svc.DayEntries(testDay)
	if err != nil {
		t.Fatalf("DayEntries() error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}

	l := NewDayBook(testDay, entries).Layout(timeline.Stacker{Gap: 6, MinHeight: 15})
	b, ok := l.Band(first.ID)
	if !ok || b.Top != 540 || b.Height != 60 {
		t.Errorf("band = %+v, want top 540 height 60", b)
	}
}

func TestServiceCreateSnapsToStep(t *testing.T) {
	svc := newTestService(t)

	e, err := svc.Create(store.EntryDraft{Start: at(9*60 + 7), End: at(9*60 + 8)})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if got := MinuteOfDay(testDay, e.Start); got != 540 {
		t.Errorf("start = %d, want 540", got)
	}
	if got := MinuteOfDay(testDay, e.End); got != 555 {
		t.Errorf("end = %d, want 555", got)
	}
}

func TestServiceCreateTouchingAllowed(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Create(store.EntryDraft{Start: at(540), End: at(600)}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(store.EntryDraft{Start: at(600), End: at(660)}); err != nil {
		t.Errorf("touching entry rejected: %v", err)
	}
}

func TestServiceCreateMultiDay(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Create(store.EntryDraft{Start: at(1400), End: at(1500)})
	if !errors.Is(err, ErrMultiDay) {
		t.Errorf("error = %v, want ErrMultiDay", err)
	}
}

func TestServiceReschedule(t *testing.T) {
	svc := newTestService(t)
	a, _ := svc.Create(store.EntryDraft{Start: at(540), End: at(600)})
	b, _ := svc.Create(store.EntryDraft{Start: at(660), End: at(720)})

	// Moving onto itself is fine.
	moved, err := svc.Reschedule(a.ID, at(555), at(615))
	if err != nil {
		t.Fatalf("Reschedule() error: %v", err)
	}
	if got := MinuteOfDay(testDay, moved.Start); got != 555 {
		t.Errorf("start = %d, want 555", got)
	}

	if _, err := svc.Reschedule(a.ID, at(630), at(690)); !IsOverlap(err) {
		t.Errorf("Reschedule() onto %s error = %v, want overlap", b.ID, err)
	}

	got, err := svc.Reschedule("e_missing", at(0), at(15))
	if err != nil || got != nil {
		t.Errorf("Reschedule(unknown) = %v, %v, want nil, nil", got, err)
	}
}

// countingStore counts entry updates.
type countingStore struct {
	EntryStore
	updates int
}

func (c *countingStore) UpdateEntry(id string, p store.EntryPatch) (*store.Entry, error) {
	c.updates++
	return c.EntryStore.UpdateEntry(id, p)
}

func TestServiceUpdateWritesOnce(t *testing.T) {
	mem, err := store.NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { mem.Close() })
	cs := &countingStore{EntryStore: mem}
	svc := NewService(cs, nil)

	p, err := mem.AddProject("Work", "#112233")
	if err != nil {
		t.Fatal(err)
	}
	e, _ := svc.Create(store.EntryDraft{Start: at(540), End: at(600)})

	want := *e
	want.Start, want.End = at(600), at(690)
	want.ProjectID, want.Comment = p.ID, "planning"
	got, err := svc.Update(want)
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if cs.updates != 1 {
		t.Errorf("store updates = %d, want 1", cs.updates)
	}
	if MinuteOfDay(testDay, got.Start) != 600 || MinuteOfDay(testDay, got.End) != 690 ||
		got.ProjectID != p.ID || got.Comment != "planning" {
		t.Errorf("Update() = %+v", got)
	}

	other, _ := svc.Create(store.EntryDraft{Start: at(720), End: at(780)})
	want.Start, want.End = at(700), at(760)
	if _, err := svc.Update(want); !IsOverlap(err) {
		t.Errorf("Update() onto %s error = %v, want overlap", other.ID, err)
	}
	if cs.updates != 1 {
		t.Errorf("a refused update must not reach the store, updates = %d", cs.updates)
	}
}

func TestServiceAnnotateAndDelete(t *testing.T) {
	svc := newTestService(t)
	e, _ := svc.Create(store.EntryDraft{Start: at(540), End: at(600)})

	comment := "standup"
	got, err := svc.Annotate(e.ID, nil, &comment)
	if err != nil {
		t.Fatalf("Annotate() error: %v", err)
	}
	if got.Comment != "standup" || got.ProjectID != store.DefaultProjectID {
		t.Errorf("Annotate() = %+v", got)
	}

	ok, err := svc.Delete(e.ID)
	if err != nil || !ok {
		t.Errorf("Delete() = %v, %v", ok, err)
	}
	ok, _ = svc.Delete(e.ID)
	if ok {
		t.Error("second Delete() should report false")
	}
}

func TestServiceStoreUnavailable(t *testing.T) {
	svc := NewService(failingStore{}, nil)
	_, err := svc.Create(store.EntryDraft{Start: at(540), End: at(600)})
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("error = %v, want ErrStoreUnavailable", err)
	}
	if !errors.Is(err, errDown) {
		t.Errorf("error = %v, should wrap the store error", err)
	}
}

func TestServiceWeek(t *testing.T) {
	svc := newTestService(t)
	svc.Create(store.EntryDraft{Start: at(540), End: at(600)})
	svc.Create(store.EntryDraft{Start: at(1440 + 600), End: at(1440 + 1080)})

	totals, err := svc.Week(testDay.AddDate(0, 0, 2), time.Monday)
	if err != nil {
		t.Fatalf("Week() error: %v", err)
	}
	if len(totals) != 7 {
		t.Fatalf("len(totals) = %d, want 7", len(totals))
	}
	if totals[0].Minutes != 60 || totals[0].Reached() {
		t.Errorf("monday = %+v", totals[0])
	}
	if totals[1].Minutes != 480 || !totals[1].Reached() {
		t.Errorf("tuesday = %+v", totals[1])
	}
	if totals[1].Progress() != 1 {
		t.Errorf("tuesday progress = %v, want 1", totals[1].Progress())
	}
}

// ==================== DayBook ====================

func confirmed(id string, start, end int) store.Entry {
	return store.Entry{ID: id, Start: at(start), End: at(end), ProjectID: store.DefaultProjectID}
}

func TestDayBookIgnoresOtherDays(t *testing.T) {
	b := NewDayBook(testDay, []store.Entry{
		confirmed("b", 600, 660),
		confirmed("a", 540, 600),
		confirmed("x", 1440+60, 1440+120),
	})
	got := b.Entries()
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("Entries() = %+v", got)
	}
	if b.TotalMinutes() != 120 {
		t.Errorf("TotalMinutes() = %d, want 120", b.TotalMinutes())
	}
}

func TestDayBookProposeCreate(t *testing.T) {
	b := NewDayBook(testDay, []store.Entry{confirmed("a", 540, 600)})

	ch, err := b.ProposeCreate(timeline.Interval{Start: 600, End: 630}, "", "")
	if err != nil {
		t.Fatalf("ProposeCreate() error: %v", err)
	}
	if !IsLocalID(ch.Entry.ID) {
		t.Errorf("ID = %q, want a local id", ch.Entry.ID)
	}
	if ch.Entry.ProjectID != store.DefaultProjectID {
		t.Errorf("ProjectID = %q, want default", ch.Entry.ProjectID)
	}
	if !b.Pending(ch.Entry.ID) {
		t.Error("new entry should be pending")
	}

	if _, err := b.ProposeCreate(timeline.Interval{Start: 550, End: 590}, "", ""); !IsOverlap(err) {
		t.Errorf("overlapping ProposeCreate() error = %v", err)
	}
	if len(b.Entries()) != 2 {
		t.Errorf("len(Entries()) = %d, want 2", len(b.Entries()))
	}

	if _, err := b.ProposeUpdate(ch.Entry.ID, timeline.Interval{Start: 700, End: 730}); !errors.Is(err, ErrNotSaved) {
		t.Errorf("ProposeUpdate(local) error = %v, want ErrNotSaved", err)
	}

	saved := confirmed("e_1", 600, 630)
	if !b.ConfirmCreate(ch.Entry.ID, saved) {
		t.Fatal("ConfirmCreate() = false")
	}
	if _, ok := b.Get(ch.Entry.ID); ok {
		t.Error("local id should be replaced")
	}
	if b.Pending("e_1") {
		t.Error("confirmed entry should not be pending")
	}
}

func TestDayBookLastReplyWins(t *testing.T) {
	b := NewDayBook(testDay, []store.Entry{confirmed("a", 540, 600)})

	first, err := b.ProposeUpdate("a", timeline.Interval{Start: 600, End: 660})
	if err != nil {
		t.Fatal(err)
	}
	second, err := b.ProposeUpdate("a", timeline.Interval{Start: 720, End: 780})
	if err != nil {
		t.Fatal(err)
	}

	// The first reply lands after the second change was made.
	if stale := b.Confirm(first.Rev, confirmed("a", 600, 660)); !stale {
		t.Error("first reply should be reported stale")
	}
	if !b.Pending("a") {
		t.Error("entry should stay pending until the latest reply")
	}
	if stale := b.Confirm(second.Rev, confirmed("a", 720, 780)); stale {
		t.Error("latest reply should not be stale")
	}
	e, _ := b.Get("a")
	if got := MinuteOfDay(testDay, e.Start); got != 720 {
		t.Errorf("start = %d, want 720", got)
	}
	if b.Pending("a") {
		t.Error("entry should be confirmed")
	}
}

func TestDayBookUnknownIsNoop(t *testing.T) {
	b := NewDayBook(testDay, nil)
	ch, err := b.ProposeUpdate("nope", timeline.Interval{Start: 0, End: 15})
	if ch != nil || err != nil {
		t.Errorf("ProposeUpdate(unknown) = %v, %v", ch, err)
	}
	del, err := b.ProposeDelete("nope")
	if del != nil || err != nil {
		t.Errorf("ProposeDelete(unknown) = %v, %v", del, err)
	}
	if b.Confirm(1, confirmed("nope", 0, 15)) {
		t.Error("Confirm(unknown) should not be stale")
	}
}

func TestDayBookFailedAndRetry(t *testing.T) {
	b := NewDayBook(testDay, []store.Entry{confirmed("a", 540, 600)})
	ch, _ := b.ProposeUpdate("a", timeline.Interval{Start: 600, End: 660})

	b.MarkFailed("a", ch.Rev)
	if b.Epoch("a") != EpochFailed {
		t.Fatalf("Epoch() = %v, want failed", b.Epoch("a"))
	}
	e, _ := b.Get("a")
	if got := MinuteOfDay(testDay, e.Start); got != 600 {
		t.Errorf("optimistic start = %d, want 600", got)
	}
	if len(b.Failed()) != 1 {
		t.Errorf("len(Failed()) = %d, want 1", len(b.Failed()))
	}

	again, ok := b.Retry("a")
	if !ok || again.Rev <= ch.Rev {
		t.Fatalf("Retry() = %+v, %v", again, ok)
	}
	if b.Epoch("a") != EpochLocal {
		t.Errorf("Epoch() after retry = %v, want local", b.Epoch("a"))
	}
	if _, ok := b.Retry("a"); ok {
		t.Error("Retry() of a non-failed entry should report false")
	}
}

func TestDayBookDelete(t *testing.T) {
	b := NewDayBook(testDay, []store.Entry{confirmed("a", 540, 600)})
	ch, _ := b.ProposeCreate(timeline.Interval{Start: 600, End: 615}, "", "")
	if _, err := b.ProposeDelete(ch.Entry.ID); !errors.Is(err, ErrNotSaved) {
		t.Errorf("ProposeDelete(pending local) error = %v", err)
	}
	del, err := b.ProposeDelete("a")
	if err != nil || del == nil || !del.Delete || del.Entry.ID != "a" {
		t.Fatalf("ProposeDelete() = %+v, %v", del, err)
	}
	if len(b.Entries()) != 1 {
		t.Errorf("len(Entries()) = %d, want 1", len(b.Entries()))
	}
	if _, ok := b.Get("a"); ok {
		t.Error("deleted entry should be hidden")
	}
	if b.Saving() != 2 {
		t.Errorf("Saving() = %d, want 2", b.Saving())
	}

	b.ConfirmDelete("a", del.Rev)
	if b.Saving() != 1 {
		t.Errorf("Saving() after ConfirmDelete = %d, want 1", b.Saving())
	}
}

func TestDayBookFailedDeleteCanBeRetried(t *testing.T) {
	b := NewDayBook(testDay, []store.Entry{confirmed("a", 540, 600)})
	del, _ := b.ProposeDelete("a")
	b.MarkFailed("a", del.Rev)

	if len(b.Entries()) != 0 {
		t.Error("a refused delete should keep the entry hidden")
	}
	if len(b.Failed()) != 1 {
		t.Fatalf("len(Failed()) = %d, want 1", len(b.Failed()))
	}

	// A reload still carries the entry; the tombstone keeps it hidden.
	b.Merge([]store.Entry{confirmed("a", 540, 600)})
	if len(b.Entries()) != 0 {
		t.Error("reload brought a deleted entry back")
	}

	again, ok := b.Retry("a")
	if !ok || !again.Delete {
		t.Fatalf("Retry() = %+v, %v, want a delete", again, ok)
	}
	b.ConfirmDelete("a", again.Rev)
	b.Merge(nil)
	if b.Saving() != 0 || len(b.Failed()) != 0 || len(b.Entries()) != 0 {
		t.Errorf("book not settled: saving=%d failed=%d entries=%d", b.Saving(), len(b.Failed()), len(b.Entries()))
	}
}

func TestDayBookDeleteFailedCreate(t *testing.T) {
	b := NewDayBook(testDay, nil)
	ch, _ := b.ProposeCreate(timeline.Interval{Start: 600, End: 615}, "", "")
	b.MarkFailed(ch.Entry.ID, ch.Rev)

	del, err := b.ProposeDelete(ch.Entry.ID)
	if del != nil || err != nil {
		t.Fatalf("ProposeDelete(failed create) = %+v, %v, want nil, nil", del, err)
	}
	if len(b.Entries()) != 0 || len(b.Failed()) != 0 {
		t.Error("an entry the store never saw should be removed outright")
	}
}

// ==================== Reloads ====================

func TestDayBookMergeKeepsUnconfirmedChanges(t *testing.T) {
	b := NewDayBook(testDay, []store.Entry{confirmed("a", 540, 600), confirmed("b", 700, 760)})

	created, _ := b.ProposeCreate(timeline.Interval{Start: 800, End: 830}, "", "")
	b.MarkFailed(created.Entry.ID, created.Rev)
	moved, _ := b.ProposeUpdate("a", timeline.Interval{Start: 600, End: 660})

	// The store still has the old "a", lost "b" and gained "c".
	b.Merge([]store.Entry{confirmed("a", 540, 600), confirmed("c", 900, 930)})

	if _, ok := b.Get("b"); ok {
		t.Error("confirmed entry gone from the store should be dropped")
	}
	if _, ok := b.Get("c"); !ok {
		t.Error("new store entry should be added")
	}
	e, _ := b.Get("a")
	if got := MinuteOfDay(testDay, e.Start); got != 600 || !b.Pending("a") {
		t.Errorf("pending move lost: start=%d pending=%v", got, b.Pending("a"))
	}
	if b.Epoch(created.Entry.ID) != EpochFailed {
		t.Fatalf("failed create lost on reload: epoch=%v", b.Epoch(created.Entry.ID))
	}
	if _, ok := b.Retry(created.Entry.ID); !ok {
		t.Error("failed create should still be retryable")
	}

	if b.Confirm(moved.Rev, confirmed("a", 600, 660)) {
		t.Error("reply to the latest change should not be stale")
	}
	if b.Pending("a") {
		t.Error("a should be confirmed")
	}
}

func TestDayBookConfirmCreateAfterReload(t *testing.T) {
	t.Run("reload before the store saved", func(t *testing.T) {
		b := NewDayBook(testDay, nil)
		ch, _ := b.ProposeCreate(timeline.Interval{Start: 600, End: 660}, "", "")
		b.Merge(nil)

		if !b.ConfirmCreate(ch.Entry.ID, confirmed("e_1", 600, 660)) {
			t.Fatal("ConfirmCreate() = false")
		}
		if got := b.Entries(); len(got) != 1 || got[0].ID != "e_1" {
			t.Fatalf("Entries() = %+v, want e_1 only", got)
		}
	})

	t.Run("reload after the store saved", func(t *testing.T) {
		b := NewDayBook(testDay, nil)
		ch, _ := b.ProposeCreate(timeline.Interval{Start: 600, End: 660}, "", "")
		b.Merge([]store.Entry{confirmed("e_1", 600, 660)})

		if !b.ConfirmCreate(ch.Entry.ID, confirmed("e_1", 600, 660)) {
			t.Fatal("ConfirmCreate() = false")
		}
		if got := b.Entries(); len(got) != 1 || got[0].ID != "e_1" {
			t.Fatalf("Entries() = %+v, want e_1 once", got)
		}
	})

	t.Run("local entry gone", func(t *testing.T) {
		b := NewDayBook(testDay, nil)
		if !b.ConfirmCreate("local-x", confirmed("e_2", 600, 660)) {
			t.Fatal("ConfirmCreate() = false")
		}
		if _, ok := b.Get("e_2"); !ok {
			t.Error("store record should be inserted")
		}
	})

	t.Run("other day", func(t *testing.T) {
		b := NewDayBook(testDay.AddDate(0, 0, 1), nil)
		if b.ConfirmCreate("local-y", confirmed("e_3", 600, 660)) {
			t.Error("an entry of another day should not be taken")
		}
		if len(b.Entries()) != 0 {
			t.Error("book should stay empty")
		}
	})
}

func TestDayBookRevert(t *testing.T) {
	b := NewDayBook(testDay, []store.Entry{confirmed("a", 540, 600)})
	created, _ := b.ProposeCreate(timeline.Interval{Start: 700, End: 760}, "", "")
	moved, _ := b.ProposeUpdate("a", timeline.Interval{Start: 600, End: 660})

	b.Revert("a", moved.Rev-1)
	if !b.Pending("a") {
		t.Fatal("Revert with an old rev should be ignored")
	}

	b.Revert(created.Entry.ID, created.Rev)
	b.Revert("a", moved.Rev)
	if _, ok := b.Get(created.Entry.ID); ok {
		t.Error("reverted create should be gone")
	}

	b.Merge([]store.Entry{confirmed("a", 540, 600)})
	e, _ := b.Get("a")
	if got := MinuteOfDay(testDay, e.Start); got != 540 || b.Pending("a") {
		t.Errorf("after reload start = %d pending = %v, want 540 confirmed", got, b.Pending("a"))
	}
}

// ==================== No-overlap invariant ====================

// assertDisjoint fails when two entries of entries share a minute.
func assertDisjoint(t *testing.T, entries []store.Entry) {
	t.Helper()
	ivs := Intervals(testDay, entries)
	for i := range ivs {
		for j := i + 1; j < len(ivs); j++ {
			if timeline.Overlaps(ivs[i], ivs[j]) {
				t.Fatalf("%+v and %+v overlap", ivs[i], ivs[j])
			}
		}
	}
}

func TestServiceCommitsNeverOverlap(t *testing.T) {
	svc := newTestService(t)
	rng := rand.New(rand.NewSource(11))

	var ids []string
	accepted := 0
	for range 300 {
		start := rng.Intn(96) * 15
		end := min(start+15*(1+rng.Intn(8)), 1440)

		if len(ids) == 0 || rng.Intn(3) > 0 {
			e, err := svc.Create(store.EntryDraft{Start: at(start), End: at(end), ProjectID: store.DefaultProjectID})
			switch {
			case err == nil:
				ids = append(ids, e.ID)
				accepted++
			case !IsOverlap(err):
				t.Fatalf("Create() error: %v", err)
			}
		} else {
			id := ids[rng.Intn(len(ids))]
			_, err := svc.Reschedule(id, at(start), at(end))
			if err == nil {
				accepted++
			} else if !IsOverlap(err) {
				t.Fatalf("Reschedule() error: %v", err)
			}
		}

		entries, err := svc.DayEntries(testDay)
		if err != nil {
			t.Fatal(err)
		}
		assertDisjoint(t, entries)
	}
	if accepted < 10 {
		t.Fatalf("only %d commits accepted, sequence too narrow", accepted)
	}
}

func TestDayBookProposalsNeverOverlap(t *testing.T) {
	b := NewDayBook(testDay, nil)
	rng := rand.New(rand.NewSource(23))

	for range 300 {
		start := rng.Intn(1440)
		end := min(start+1+rng.Intn(120), 1440)
		iv := timeline.Interval{Start: start, End: end}

		entries := b.Entries()
		if len(entries) == 0 || rng.Intn(2) == 0 {
			ch, err := b.ProposeCreate(iv, "", "")
			if err == nil {
				// Confirm so the entry can be moved later.
				id := "e_" + strconv.FormatUint(ch.Rev, 10)
				b.ConfirmCreate(ch.Entry.ID, store.Entry{ID: id, Start: ch.Entry.Start, End: ch.Entry.End})
			} else if !IsOverlap(err) {
				t.Fatalf("ProposeCreate() error: %v", err)
			}
		} else {
			id := entries[rng.Intn(len(entries))].ID
			if _, err := b.ProposeUpdate(id, iv); err != nil && !IsOverlap(err) {
				t.Fatalf("ProposeUpdate() error: %v", err)
			}
		}
		assertDisjoint(t, b.Entries())
	}
}

func TestDescribe(t *testing.T) {
	err := &OverlapError{
		Candidate: timeline.Interval{Start: 550, End: 590},
		Conflict:  timeline.Interval{ID: "a", Start: 540, End: 600},
	}
	want := "Entry [09:10, 09:50) overlaps [09:00, 10:00)."
	if got := Describe(err); got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
}
