package timeline

import (
	"math/rand"
	"testing"
)

func bandOf(t *testing.T, l Layout, id string) Band {
	t.Helper()
	b, ok := l.Band(id)
	if !ok {
		t.Fatalf("no band for %q", id)
	}
	return b
}

func TestArrangeDisjoint(t *testing.T) {
	s := Stacker{Gap: 5, MinHeight: 15}
	l := s.Arrange([]Interval{
		{ID: "B", Start: 60, End: 90},
		{ID: "A", Start: 0, End: 30},
	})
	if a := bandOf(t, l, "A"); a.Top != 0 || a.Height != 30 {
		t.Fatalf("A = %+v", a)
	}
	if b := bandOf(t, l, "B"); b.Top != 60 || b.Height != 30 {
		t.Fatalf("B = %+v", b)
	}
	if l.TimelineHeight != MinutesPerDay {
		t.Fatalf("TimelineHeight = %d, want %d", l.TimelineHeight, MinutesPerDay)
	}
}

func TestArrangeOverlapCascadesDown(t *testing.T) {
	s := Stacker{Gap: 5, MinHeight: 15}
	l := s.Arrange([]Interval{
		{ID: "A", Start: 0, End: 60},
		{ID: "B", Start: 30, End: 90},
	})
	a, b := bandOf(t, l, "A"), bandOf(t, l, "B")
	if a.Top != 0 {
		t.Fatalf("top(A) = %d, want 0", a.Top)
	}
	if b.Top < 60+s.Gap {
		t.Fatalf("top(B) = %d, want >= %d", b.Top, 60+s.Gap)
	}
	if a.Displaced(0) || !b.Displaced(30) {
		t.Fatalf("Displaced: A=%v B=%v", a.Displaced(0), b.Displaced(30))
	}
}

func TestArrangeTieBreakLongerFirst(t *testing.T) {
	s := Stacker{Gap: 0, MinHeight: 1}
	l := s.Arrange([]Interval{
		{ID: "short", Start: 100, End: 130},
		{ID: "long", Start: 100, End: 200},
	})
	if got := bandOf(t, l, "long").Top; got != 100 {
		t.Fatalf("longer entry should keep its start, got top %d", got)
	}
	if got := bandOf(t, l, "short").Top; got != 200 {
		t.Fatalf("shorter entry should be pushed to 200, got %d", got)
	}
}

func TestArrangeCascadeRechecksAfterShift(t *testing.T) {
	// C collides with A; once pushed below A it collides with B, which was
	// itself pushed below A, and has to move again.
	s := Stacker{Gap: 10, MinHeight: 1}
	l := s.Arrange([]Interval{
		{ID: "A", Start: 0, End: 60},
		{ID: "B", Start: 10, End: 40},
		{ID: "C", Start: 30, End: 50},
	})
	if got := bandOf(t, l, "B").Top; got != 70 {
		t.Fatalf("top(B) = %d, want 70", got)
	}
	if got := bandOf(t, l, "C").Top; got != 110 {
		t.Fatalf("top(C) = %d, want 110", got)
	}
}

func TestArrangeMinHeightFloor(t *testing.T) {
	s := Stacker{Gap: 2, MinHeight: 15}
	l := s.Arrange([]Interval{
		{ID: "zero", Start: 300, End: 300},
		{ID: "neg", Start: 400, End: 390},
		{ID: "tiny", Start: 500, End: 505},
	})
	for _, b := range l.Bands {
		if b.Height < 15 {
			t.Fatalf("band %s height %d below floor", b.ID, b.Height)
		}
	}

	l = Stacker{}.Arrange([]Interval{{ID: "z", Start: 10, End: 10}})
	if l.Bands[0].Height != 1 {
		t.Fatalf("zero MinHeight should still floor at 1, got %d", l.Bands[0].Height)
	}
}

func TestArrangeTimelineGrowsPastMidnight(t *testing.T) {
	s := Stacker{Gap: 5, MinHeight: 15}
	l := s.Arrange([]Interval{
		{ID: "A", Start: 1380, End: 1440},
		{ID: "B", Start: 1400, End: 1440},
	})
	b := bandOf(t, l, "B")
	if l.TimelineHeight != b.Bottom()+s.Gap {
		t.Fatalf("TimelineHeight = %d, want %d", l.TimelineHeight, b.Bottom()+s.Gap)
	}
	if empty := s.Arrange(nil); empty.TimelineHeight != MinutesPerDay+s.Gap || len(empty.Bands) != 0 {
		t.Fatalf("empty layout = %+v", empty)
	}
}

func TestArrangeBandsNeverShareMinutes(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := Stacker{Gap: 3, MinHeight: 10}
	for round := 0; round < 200; round++ {
		var items []Interval
		for i := 0; i < 12; i++ {
			start := rng.Intn(1400)
			items = append(items, Interval{
				ID:    string(rune('a' + i)),
				Start: start,
				End:   start + rng.Intn(120),
			})
		}
		l := s.Arrange(items)
		for i := range l.Bands {
			for j := i + 1; j < len(l.Bands); j++ {
				a, b := l.Bands[i], l.Bands[j]
				if a.Top < b.Bottom() && a.Bottom() > b.Top {
					t.Fatalf("round %d: bands %+v and %+v intersect", round, a, b)
				}
			}
		}
	}
}

func TestArrangeIsOrderIndependent(t *testing.T) {
	items := []Interval{
		{ID: "a", Start: 60, End: 120},
		{ID: "b", Start: 60, End: 120},
		{ID: "c", Start: 90, End: 100},
		{ID: "d", Start: 0, End: 90},
		{ID: "e", Start: 60, End: 75},
	}
	s := Stacker{Gap: 4, MinHeight: 15}
	want := s.Arrange(items)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		shuffled := append([]Interval(nil), items...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got := s.Arrange(shuffled)
		for _, wb := range want.Bands {
			gb := bandOf(t, got, wb.ID)
			if gb != wb {
				t.Fatalf("permutation %d: band %s = %+v, want %+v", i, wb.ID, gb, wb)
			}
		}
	}
}
