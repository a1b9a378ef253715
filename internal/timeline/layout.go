package timeline

import (
	"cmp"
	"slices"
)

// Band is the vertical slot assigned to one entry, in minutes.
type Band struct {
	ID     string
	Top    int
	Height int
}

// Bottom returns Top + Height.
func (b Band) Bottom() int {
	return b.Top + b.Height
}

// Displaced reports whether the band was pushed below its natural start.
func (b Band) Displaced(start int) bool {
	return b.Top > start
}

// Layout is the result of arranging one day of entries.
type Layout struct {
	Bands          []Band // in placement order
	TimelineHeight int    // total extent the canvas must cover
}

// Band returns the band placed for id.
func (l Layout) Band(id string) (Band, bool) {
	for _, b := range l.Bands {
		if b.ID == id {
			return b, true
		}
	}
	return Band{}, false
}

// Stacker arranges possibly overlapping entries into non-overlapping bands
// in a single column. Colliding entries cascade downward, never sideways.
type Stacker struct {
	Gap       int // minutes left between a band and the one pushed below it
	MinHeight int // floor for short or degenerate entries
}

func (s Stacker) minHeight() int {
	if s.MinHeight < 1 {
		return 1
	}
	return s.MinHeight
}

func (s Stacker) gap() int {
	if s.Gap < 0 {
		return 0
	}
	return s.Gap
}

// Arrange places items by start time (longer first on equal starts, then by
// ID) and pushes each one below every already placed band it intersects.
func (s Stacker) Arrange(items []Interval) Layout {
	type pending struct {
		id     string
		top    int
		height int
	}

	queue := make([]pending, 0, len(items))
	for _, it := range items {
		queue = append(queue, pending{
			id:     it.ID,
			top:    it.Start,
			height: max(it.End-it.Start, s.minHeight()),
		})
	}
	slices.SortStableFunc(queue, func(a, b pending) int {
		if c := cmp.Compare(a.top, b.top); c != 0 {
			return c
		}
		if c := cmp.Compare(b.height, a.height); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})

	gap := s.gap()
	placed := make([]Band, 0, len(queue))
	for _, p := range queue {
		top := p.top
		for {
			bottom, hit := lowestCollision(placed, top, p.height)
			if !hit {
				break
			}
			top = max(top, bottom+gap)
		}
		placed = append(placed, Band{ID: p.id, Top: top, Height: p.height})
	}

	// An empty day measures from the end of the day, like a band ending there.
	bottom := MinutesPerDay
	if len(placed) > 0 {
		bottom = 0
		for _, b := range placed {
			bottom = max(bottom, b.Bottom())
		}
	}
	return Layout{Bands: placed, TimelineHeight: max(MinutesPerDay, bottom+gap)}
}

// lowestCollision returns the largest bottom among bands intersecting
// [top, top+height).
func lowestCollision(placed []Band, top, height int) (int, bool) {
	bottom, hit := 0, false
	for _, b := range placed {
		if top < b.Bottom() && top+height > b.Top {
			bottom = max(bottom, b.Bottom())
			hit = true
		}
	}
	return bottom, hit
}
