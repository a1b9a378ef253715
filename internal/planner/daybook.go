package planner

import (
	"fmt"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sadopc/timetable/internal/store"
	"github.com/sadopc/timetable/internal/timeline"
)

// Epoch is the sync state of an entry held by a DayBook.
type Epoch int

const (
	// EpochConfirmed entries match what the store last returned.
	EpochConfirmed Epoch = iota
	// EpochLocal entries carry a change the store has not answered yet.
	EpochLocal
	// EpochFailed entries carry a change the store refused to take.
	EpochFailed
)

func (e Epoch) String() string {
	switch e {
	case EpochConfirmed:
		return "confirmed"
	case EpochLocal:
		return "local"
	case EpochFailed:
		return "failed"
	}
	return fmt.Sprintf("Epoch(%d)", int(e))
}

const localPrefix = "local-"

// IsLocalID reports whether id was minted by a DayBook and has not been
// replaced by a store id yet.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, localPrefix)
}

type record struct {
	entry   store.Entry
	epoch   Epoch
	rev     uint64
	deleted bool // tombstone of a delete the store has not confirmed
}

// Change describes one optimistic mutation. Rev orders changes so that a
// store reply can be matched against the latest local state.
type Change struct {
	Rev    uint64
	Entry  store.Entry
	Delete bool
}

// DayBook is the in-memory copy of one day's entries that the UI reads and
// mutates before the store confirms. It is not safe for concurrent use; the
// UI owns it from its update loop.
type DayBook struct {
	day     time.Time
	records []record
	rev     uint64
}

// localSeq numbers local ids across books, so a reply for a book that was
// replaced by navigation can never match an entry of the current one.
var localSeq atomic.Uint64

// NewDayBook holds entries of day. Entries starting on other days are ignored.
func NewDayBook(day time.Time, entries []store.Entry) *DayBook {
	b := &DayBook{day: DayOf(day)}
	for _, e := range entries {
		if DayOf(e.Start).Equal(b.day) {
			b.records = append(b.records, record{entry: e})
		}
	}
	b.sort()
	return b
}

func (b *DayBook) Day() time.Time {
	return b.day
}

// Entries returns the current entries ordered by start. Entries deleted
// locally are left out.
func (b *DayBook) Entries() []store.Entry {
	out := make([]store.Entry, 0, len(b.records))
	for _, r := range b.records {
		if !r.deleted {
			out = append(out, r.entry)
		}
	}
	return out
}

func (b *DayBook) Get(id string) (store.Entry, bool) {
	if i := b.live(id); i >= 0 {
		return b.records[i].entry, true
	}
	return store.Entry{}, false
}

// Epoch returns the sync state of id.
func (b *DayBook) Epoch(id string) Epoch {
	if i := b.index(id); i >= 0 {
		return b.records[i].epoch
	}
	return EpochConfirmed
}

// Pending reports whether id has an unconfirmed change.
func (b *DayBook) Pending(id string) bool {
	return b.Epoch(id) != EpochConfirmed
}

// Saving counts the entries with a change still waiting for the store.
func (b *DayBook) Saving() int {
	n := 0
	for _, r := range b.records {
		if r.epoch == EpochLocal {
			n++
		}
	}
	return n
}

// Failed returns the entries whose last change the store refused,
// including refused deletes.
func (b *DayBook) Failed() []store.Entry {
	var out []store.Entry
	for _, r := range b.records {
		if r.epoch == EpochFailed {
			out = append(out, r.entry)
		}
	}
	return out
}

// Merge folds a fresh read of the day into the book. Confirmed entries are
// replaced by the store's copy. Entries with a local or failed change and
// entries still under a local id are kept as they are, and the store's copy
// of a locally deleted entry stays hidden.
func (b *DayBook) Merge(entries []store.Entry) {
	kept := b.records[:0:0]
	held := make(map[string]bool)
	for _, r := range b.records {
		if r.epoch != EpochConfirmed || IsLocalID(r.entry.ID) {
			kept = append(kept, r)
			held[r.entry.ID] = true
		}
	}
	for _, e := range entries {
		if held[e.ID] || !DayOf(e.Start).Equal(b.day) {
			continue
		}
		kept = append(kept, record{entry: e})
	}
	b.records = kept
	b.sort()
}

// Intervals returns the entries as minutes of the day.
func (b *DayBook) Intervals() []timeline.Interval {
	return Intervals(b.day, b.Entries())
}

// Layout arranges the current entries with s.
func (b *DayBook) Layout(s timeline.Stacker) timeline.Layout {
	return s.Arrange(b.Intervals())
}

// TotalMinutes sums the durations of all entries.
func (b *DayBook) TotalMinutes() int {
	total := 0
	for _, iv := range b.Intervals() {
		total += iv.Duration()
	}
	return total
}

// Validate checks candidate against the other entries of the day.
func (b *DayBook) Validate(candidate timeline.Interval) error {
	return gate(candidate, b.Intervals())
}

// ProposeCreate validates iv and adds it under a local id.
func (b *DayBook) ProposeCreate(iv timeline.Interval, projectID, comment string) (Change, error) {
	iv.ID = ""
	if err := b.Validate(iv); err != nil {
		return Change{}, err
	}
	if projectID == "" {
		projectID = store.DefaultProjectID
	}
	b.rev++
	e := store.Entry{
		ID:        fmt.Sprintf("%s%d", localPrefix, localSeq.Add(1)),
		Start:     TimeAt(b.day, iv.Start),
		End:       TimeAt(b.day, iv.End),
		ProjectID: projectID,
		Comment:   comment,
		CreatedAt: time.Now(),
	}
	b.records = append(b.records, record{entry: e, epoch: EpochLocal, rev: b.rev})
	b.sort()
	return Change{Rev: b.rev, Entry: e}, nil
}

// ProposeUpdate validates the new times of id and applies them. It returns
// nil, nil when id is not held by the book.
func (b *DayBook) ProposeUpdate(id string, iv timeline.Interval) (*Change, error) {
	i := b.live(id)
	if i < 0 {
		return nil, nil
	}
	if IsLocalID(id) {
		return nil, ErrNotSaved
	}
	iv.ID = id
	if err := b.Validate(iv); err != nil {
		return nil, err
	}
	r := &b.records[i]
	r.entry.Start = TimeAt(b.day, iv.Start)
	r.entry.End = TimeAt(b.day, iv.End)
	ch := b.touch(r)
	b.sort()
	return ch, nil
}

// ProposePatch changes the project and/or comment of id. Nil fields are kept.
func (b *DayBook) ProposePatch(id string, projectID, comment *string) (*Change, error) {
	i := b.live(id)
	if i < 0 {
		return nil, nil
	}
	if IsLocalID(id) {
		return nil, ErrNotSaved
	}
	r := &b.records[i]
	if projectID != nil {
		r.entry.ProjectID = *projectID
	}
	if comment != nil {
		r.entry.Comment = *comment
	}
	return b.touch(r), nil
}

// ProposeDelete hides id and returns the delete to send. An entry the
// store never saw is removed outright and nil is returned with it.
func (b *DayBook) ProposeDelete(id string) (*Change, error) {
	i := b.live(id)
	if i < 0 {
		return nil, nil
	}
	if IsLocalID(id) {
		if b.records[i].epoch == EpochLocal {
			return nil, ErrNotSaved
		}
		b.records = slices.Delete(b.records, i, i+1)
		return nil, nil
	}
	r := &b.records[i]
	r.deleted = true
	return b.touch(r), nil
}

func (b *DayBook) touch(r *record) *Change {
	b.rev++
	r.epoch = EpochLocal
	r.rev = b.rev
	return &Change{Rev: b.rev, Entry: r.entry, Delete: r.deleted}
}

// ConfirmCreate swaps the local entry for the store's copy. When the local
// entry is gone, or a reload already brought in the store's copy, the
// store's copy is kept once. It reports false when e does not belong to the
// day.
func (b *DayBook) ConfirmCreate(localID string, e store.Entry) bool {
	if !DayOf(e.Start).Equal(b.day) {
		return false
	}
	i := b.index(localID)
	if j := b.index(e.ID); j >= 0 {
		if i >= 0 {
			b.records = slices.Delete(b.records, i, i+1)
		}
		return true
	}
	if i < 0 {
		b.records = append(b.records, record{entry: e})
	} else {
		b.records[i] = record{entry: e}
	}
	b.sort()
	return true
}

// ConfirmDelete removes the tombstone of id once the store has answered.
func (b *DayBook) ConfirmDelete(id string, rev uint64) {
	i := b.index(id)
	if i >= 0 && b.records[i].deleted && b.records[i].rev == rev {
		b.records = slices.Delete(b.records, i, i+1)
	}
}

// Confirm applies the store's reply to the change rev. The reply always
// wins; it reports true when it overwrote a newer local change.
func (b *DayBook) Confirm(rev uint64, e store.Entry) (stale bool) {
	i := b.index(e.ID)
	if i < 0 {
		return false
	}
	r := &b.records[i]
	stale = r.rev > rev
	r.entry = e
	if !stale {
		r.epoch = EpochConfirmed
	}
	b.sort()
	return stale
}

// Drop removes id without a pending change, used when the store no longer
// knows it.
func (b *DayBook) Drop(id string) {
	if i := b.index(id); i >= 0 {
		b.records = slices.Delete(b.records, i, i+1)
	}
}

// MarkFailed flags the change rev of id as refused by the store. The local
// state is kept.
func (b *DayBook) MarkFailed(id string, rev uint64) {
	i := b.index(id)
	if i < 0 || b.records[i].rev != rev {
		return
	}
	b.records[i].epoch = EpochFailed
}

// Revert gives up the change rev of id. A create is removed; any other
// change is treated as confirmed so the next Merge restores the store's copy.
func (b *DayBook) Revert(id string, rev uint64) {
	i := b.index(id)
	if i < 0 || b.records[i].rev != rev {
		return
	}
	if IsLocalID(id) {
		b.records = slices.Delete(b.records, i, i+1)
		return
	}
	b.records[i].deleted = false
	b.records[i].epoch = EpochConfirmed
}

// Retry moves a failed entry back to local and returns the change to resend.
func (b *DayBook) Retry(id string) (*Change, bool) {
	i := b.index(id)
	if i < 0 || b.records[i].epoch != EpochFailed {
		return nil, false
	}
	return b.touch(&b.records[i]), true
}

func (b *DayBook) index(id string) int {
	return slices.IndexFunc(b.records, func(r record) bool { return r.entry.ID == id })
}

// live is index without tombstones.
func (b *DayBook) live(id string) int {
	i := b.index(id)
	if i >= 0 && b.records[i].deleted {
		return -1
	}
	return i
}

func (b *DayBook) sort() {
	slices.SortStableFunc(b.records, func(x, y record) int {
		if c := x.entry.Start.Compare(y.entry.Start); c != 0 {
			return c
		}
		return strings.Compare(x.entry.ID, y.entry.ID)
	})
}
