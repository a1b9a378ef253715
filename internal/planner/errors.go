package planner

import (
	"errors"
	"fmt"

	"github.com/sadopc/timetable/internal/timeline"
)

var (
	// ErrOverlapRejected is returned when a create, move or resize would make
	// two entries of the same day intersect. Nothing is written.
	ErrOverlapRejected = errors.New("entry overlaps another entry")

	// ErrInvalidQuantizationStep marks a non-positive minEntryMinutes. It is
	// never returned from a commit; a one-minute step is used instead.
	ErrInvalidQuantizationStep = errors.New("invalid quantization step")

	// ErrStoreUnavailable wraps every failure reported by the entry store.
	ErrStoreUnavailable = errors.New("entry store unavailable")

	// ErrMultiDay is returned for entries that would cross midnight.
	ErrMultiDay = errors.New("entry must start and end on the same day")

	// ErrNotSaved is returned when changing an entry whose creation has not
	// been confirmed by the store yet.
	ErrNotSaved = errors.New("entry is still being saved")
)

// OverlapError reports which existing entry a candidate collided with.
type OverlapError struct {
	Candidate timeline.Interval
	Conflict  timeline.Interval
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%s overlaps %s", e.Candidate, e.Conflict)
}

func (e *OverlapError) Unwrap() error {
	return ErrOverlapRejected
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}

// CheckStep returns the step to use for minEntryMinutes together with
// ErrInvalidQuantizationStep when it had to be substituted.
func CheckStep(minEntryMinutes int) (int, error) {
	if !timeline.ValidStep(minEntryMinutes) {
		return timeline.MinStep, fmt.Errorf("%w: %d minutes, using %d", ErrInvalidQuantizationStep, minEntryMinutes, timeline.MinStep)
	}
	return minEntryMinutes, nil
}
