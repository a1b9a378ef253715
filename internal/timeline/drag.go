package timeline

// Phase is the state of the drag state machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCreating
	PhaseMoving
	PhaseResizing
)

func (p Phase) String() string {
	switch p {
	case PhaseCreating:
		return "creating"
	case PhaseMoving:
		return "moving"
	case PhaseResizing:
		return "resizing"
	}
	return "idle"
}

// PointerKind identifies a pointer event.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	// PointerCancel aborts the interaction: the pointer left the surface or
	// the surface lost focus.
	PointerCancel
)

// HitKind says what lies under the pointer when it is pressed.
type HitKind int

const (
	HitEmpty HitKind = iota
	HitBody
	HitTopEdge
	HitBottomEdge
)

// Hit is the result of hit-testing a pointer-down position.
type Hit struct {
	Kind  HitKind
	Entry Interval // set for everything but HitEmpty
}

// PointerEvent is one input to the state machine. Y is in grid pixels.
type PointerEvent struct {
	Kind PointerKind
	Y    float64
	Hit  Hit
}

// Edge is the band edge grabbed during a resize.
type Edge int

const (
	EdgeTop Edge = iota
	EdgeBottom
)

// DragState is everything captured between pointer-down and the return to
// idle. The zero value is idle.
type DragState struct {
	Phase     Phase
	Anchor    int      // creating: minute under the initial press
	Current   int      // creating: minute under the pointer
	Entry     Interval // moving/resizing: the entry as it was on press
	Offset    float64  // moving: pointer y minus the entry's start pixel
	Edge      Edge     // resizing
	Tentative Interval // moving/resizing: where the entry would land now
}

// Preview returns the ephemeral interval to draw while a drag is active.
func (s DragState) Preview() (Interval, bool) {
	switch s.Phase {
	case PhaseCreating:
		return Interval{Start: min(s.Anchor, s.Current), End: max(s.Anchor, s.Current)}, true
	case PhaseMoving, PhaseResizing:
		return s.Tentative, true
	}
	return Interval{}, false
}

// DragEnv carries the collaborators a transition needs.
type DragEnv struct {
	Grid            Grid
	MinEntryMinutes int    // quantization step and minimum duration
	ProjectID       string // project assigned to newly created entries
}

func (e DragEnv) step() int {
	return Step(e.MinEntryMinutes)
}

// RequestKind identifies the side effect emitted by a transition.
type RequestKind int

const (
	RequestNone RequestKind = iota
	RequestPreview
	RequestCreate
	RequestUpdate
	RequestSelect
)

func (k RequestKind) String() string {
	switch k {
	case RequestPreview:
		return "preview"
	case RequestCreate:
		return "create"
	case RequestUpdate:
		return "update"
	case RequestSelect:
		return "select"
	}
	return "none"
}

// Request is the side effect of a transition. Create and Update requests
// still have to pass the overlap check before anything is written.
type Request struct {
	Kind      RequestKind
	Interval  Interval
	ProjectID string
	Comment   string
}

// Transition computes the next drag state for ev. It is a pure function of its
// arguments. Any transition back to idle returns the zero DragState.
func Transition(s DragState, ev PointerEvent, env DragEnv) (DragState, Request) {
	if ev.Kind == PointerCancel {
		return DragState{}, Request{}
	}

	switch s.Phase {
	case PhaseIdle:
		if ev.Kind != PointerDown {
			return s, Request{}
		}
		return press(ev, env)

	case PhaseCreating:
		switch ev.Kind {
		case PointerMove:
			s.Current = env.Grid.PixelToMinutes(ev.Y, env.step())
			iv, _ := s.Preview()
			return s, Request{Kind: RequestPreview, Interval: iv}
		case PointerUp:
			s.Current = env.Grid.PixelToMinutes(ev.Y, env.step())
			return DragState{}, Request{
				Kind:      RequestCreate,
				Interval:  NormalizeDraft(s.Anchor, s.Current, env.MinEntryMinutes),
				ProjectID: env.ProjectID,
			}
		}

	case PhaseMoving:
		switch ev.Kind {
		case PointerMove:
			s.Tentative = moveTo(s, ev.Y, env)
			return s, Request{Kind: RequestPreview, Interval: s.Tentative}
		case PointerUp:
			return DragState{}, commit(s.Entry, moveTo(s, ev.Y, env))
		}

	case PhaseResizing:
		switch ev.Kind {
		case PointerMove:
			s.Tentative = resizeTo(s, ev.Y, env)
			return s, Request{Kind: RequestPreview, Interval: s.Tentative}
		case PointerUp:
			return DragState{}, commit(s.Entry, resizeTo(s, ev.Y, env))
		}
	}

	// A second press while a drag is active is ignored.
	return s, Request{}
}

func press(ev PointerEvent, env DragEnv) (DragState, Request) {
	switch ev.Hit.Kind {
	case HitBody:
		s := DragState{
			Phase:     PhaseMoving,
			Entry:     ev.Hit.Entry,
			Offset:    ev.Y - env.Grid.MinutesToPixel(ev.Hit.Entry.Start),
			Tentative: ev.Hit.Entry,
		}
		return s, Request{Kind: RequestPreview, Interval: s.Tentative}
	case HitTopEdge, HitBottomEdge:
		s := DragState{
			Phase:     PhaseResizing,
			Entry:     ev.Hit.Entry,
			Edge:      EdgeTop,
			Tentative: ev.Hit.Entry,
		}
		if ev.Hit.Kind == HitBottomEdge {
			s.Edge = EdgeBottom
		}
		return s, Request{Kind: RequestPreview, Interval: s.Tentative}
	}

	m := env.Grid.PixelToMinutes(ev.Y, env.step())
	s := DragState{Phase: PhaseCreating, Anchor: m, Current: m}
	iv, _ := s.Preview()
	return s, Request{Kind: RequestPreview, Interval: iv}
}

func commit(orig, next Interval) Request {
	if next.Start == orig.Start && next.End == orig.End {
		return Request{Kind: RequestSelect, Interval: orig}
	}
	return Request{Kind: RequestUpdate, Interval: next}
}

func moveTo(s DragState, y float64, env DragEnv) Interval {
	step := env.step()
	dur := s.Entry.Duration()
	latest := MinutesPerDay - dur
	latest -= latest % step
	start := clamp(env.Grid.PixelToMinutes(y-s.Offset, step), 0, max(latest, 0))
	return Interval{ID: s.Entry.ID, Start: start, End: start + dur}
}

func resizeTo(s DragState, y float64, env DragEnv) Interval {
	step := env.step()
	m := env.Grid.PixelToMinutes(y, step)
	iv := s.Entry
	if s.Edge == EdgeBottom {
		iv.End = min(max(m, iv.Start+step), MinutesPerDay)
	} else {
		iv.Start = max(min(m, iv.End-step), 0)
	}
	return iv
}

// NormalizeDraft turns the two ends of a create drag into a valid interval:
// ordered, at least minEntryMinutes long and inside the day.
func NormalizeDraft(anchor, current, minEntryMinutes int) Interval {
	step := Step(minEntryMinutes)
	start, end := min(anchor, current), max(anchor, current)
	if end-start < step {
		end = start + step
	}
	if end > MinutesPerDay {
		end = MinutesPerDay
		start = max(min(start, end-step), 0)
	}
	return Interval{Start: start, End: end}
}

// DragController holds the current DragState and feeds events through Step.
type DragController struct {
	env   DragEnv
	state DragState
}

// NewDragController returns an idle controller.
func NewDragController(env DragEnv) *DragController {
	return &DragController{env: env}
}

// Handle applies ev and returns the resulting request.
func (c *DragController) Handle(ev PointerEvent) Request {
	var req Request
	c.state, req = Transition(c.state, ev, c.env)
	return req
}

// Abort releases any captured pointer state.
func (c *DragController) Abort() {
	c.state = DragState{}
}

// SetEnv replaces the environment. Settings changes take effect on the next
// press; an active drag is aborted.
func (c *DragController) SetEnv(env DragEnv) {
	c.env = env
	c.Abort()
}

func (c *DragController) Env() DragEnv     { return c.env }
func (c *DragController) State() DragState { return c.state }
func (c *DragController) Active() bool     { return c.state.Phase != PhaseIdle }

// Preview returns the interval to draw for the active drag, if any.
func (c *DragController) Preview() (Interval, bool) {
	return c.state.Preview()
}
