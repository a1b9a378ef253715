package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timetable/internal/planner"
	"github.com/sadopc/timetable/internal/store"
	"github.com/sadopc/timetable/internal/timeline"
)

const (
	dayHeaderLines = 3 // title, goal bar, blank
	gutterWidth    = 8 // "HH:MM │ "
)

// dayModel is the drag grid of one day. Every terminal row covers
// opts.MinutesPerRow minutes and the grid's pixel unit is one row.
type dayModel struct {
	svc  *planner.Service
	log  *slog.Logger
	opts Options
	now  func() time.Time

	width  int
	height int

	day      time.Time
	book     *planner.DayBook
	projects []store.Project
	settings store.Settings

	drag      *timeline.DragController
	projectID string // assigned to new entries
	selected  string
	scroll    int // first visible row
	scrolled  bool

	notice  string // blocking alert, dismissed by any key or click
	editing bool
	editor  entryEditor

	goal progress.Model
}

func newDayModel(svc *planner.Service, opts Options, log *slog.Logger) dayModel {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	d := dayModel{
		svc:       svc,
		log:       log,
		opts:      opts,
		now:       time.Now,
		projectID: store.DefaultProjectID,
		goal: progress.New(
			progress.WithSolidFill(string(colorPrimary)),
			progress.WithoutPercentage(),
		),
	}
	d.day = planner.DayOf(d.now())
	d.book = planner.NewDayBook(d.day, nil)
	d.settings = store.Settings{MinEntryMinutes: 15, DailyGoalHours: 8}
	d.drag = timeline.NewDragController(d.env(d.settings.MinEntryMinutes))
	return d
}

func (d *dayModel) setSize(w, h int) {
	d.width = w
	d.height = h
	d.goal.Width = max(10, min(40, w/3))
	d.clampScroll()
}

func (d dayModel) Init() tea.Cmd {
	return d.load()
}

func (d dayModel) mpr() int {
	return d.opts.MinutesPerRow
}

func (d dayModel) env(minEntryMinutes int) timeline.DragEnv {
	step, err := planner.CheckStep(minEntryMinutes)
	if err != nil {
		d.log.Warn("substituting quantization step", "err", err)
	}
	return timeline.DragEnv{
		Grid:            timeline.NewGrid(1 / float64(d.mpr())),
		MinEntryMinutes: step,
		ProjectID:       d.projectID,
	}
}

// stacker keeps bands at least one row tall and one row apart.
func (d dayModel) stacker() timeline.Stacker {
	return timeline.Stacker{
		Gap:       max(d.opts.GapMinutes, d.mpr()),
		MinHeight: max(d.opts.MinHeightMinutes, d.mpr()),
	}
}

func (d dayModel) isToday() bool {
	return planner.DayOf(d.now()).Equal(d.day)
}

// --- Loading ---

func (d dayModel) load() tea.Cmd {
	svc, day := d.svc, d.day
	return func() tea.Msg {
		book, err := svc.Day(day)
		if err != nil {
			return dayLoadedMsg{day: day, err: err}
		}
		projects, err := svc.Store().ListProjects()
		if err != nil {
			return dayLoadedMsg{day: day, err: err}
		}
		settings, err := svc.Store().GetSettings()
		if err != nil {
			return dayLoadedMsg{day: day, err: err}
		}
		return dayLoadedMsg{day: day, book: book, projects: projects, settings: settings}
	}
}

func (d dayModel) goTo(day time.Time) (dayModel, tea.Cmd) {
	d.day = planner.DayOf(day)
	d.book = planner.NewDayBook(d.day, nil)
	d.drag.Abort()
	d.selected = ""
	d.scrolled = false
	return d, d.load()
}

func (d *dayModel) applySettings(s store.Settings) {
	d.settings = s
	if env := d.env(s.MinEntryMinutes); env != d.drag.Env() {
		d.drag.SetEnv(env)
	}
}

func (d *dayModel) setProject(id string) {
	d.projectID = id
	d.drag.SetEnv(d.env(d.settings.MinEntryMinutes))
}

// --- Update ---

func (d dayModel) update(msg tea.Msg) (dayModel, tea.Cmd) {
	if d.editing && !isStoreReply(msg) {
		return d.updateEditor(msg)
	}

	switch msg := msg.(type) {
	case dayLoadedMsg:
		if !msg.day.Equal(d.day) {
			return d, nil
		}
		if msg.err != nil {
			d.log.Error("loading day", "day", msg.day.Format(time.DateOnly), "err", msg.err)
			return d, func() tea.Msg { return errStatus("Load failed", msg.err) }
		}
		if d.book != nil && d.book.Day().Equal(msg.day) {
			d.book.Merge(msg.book.Entries())
		} else {
			d.book = msg.book
		}
		d.projects = msg.projects
		d.applySettings(msg.settings)
		if !d.scrolled {
			d.autoScroll()
			d.scrolled = true
		}
		return d, nil

	case settingsChangedMsg:
		d.applySettings(msg.settings)
		return d, nil

	case projectsChangedMsg:
		return d, d.load()

	case entryCreatedMsg:
		if msg.err != nil {
			return d.storeFailed(msg.localID, msg.rev, msg.err)
		}
		if d.book.ConfirmCreate(msg.localID, *msg.entry) {
			if d.selected == msg.localID {
				d.selected = msg.entry.ID
			}
			d.log.Info("entry saved", "id", msg.entry.ID, "local_id", msg.localID)
		}
		return d, nil

	case entrySavedMsg:
		if msg.err != nil {
			return d.storeFailed(msg.id, msg.rev, msg.err)
		}
		if msg.entry == nil {
			d.book.Drop(msg.id)
			return d, func() tea.Msg { return statusMsg{text: "Entry no longer exists", isError: true} }
		}
		if d.book.Confirm(msg.rev, *msg.entry) {
			d.log.Warn("stale reconciliation", "id", msg.id, "rev", msg.rev)
		}
		return d, nil

	case entryDeletedMsg:
		if msg.err != nil {
			d.log.Error("deleting entry", "id", msg.id, "err", msg.err)
			d.book.MarkFailed(msg.id, msg.rev)
			return d, func() tea.Msg {
				return statusMsg{text: "Could not delete entry, press r to retry", isError: true}
			}
		}
		if !msg.ok {
			d.log.Debug("delete of unknown entry", "id", msg.id)
		}
		d.book.ConfirmDelete(msg.id, msg.rev)
		return d, nil

	case tea.BlurMsg:
		if d.drag.Active() {
			d.drag.Handle(timeline.PointerEvent{Kind: timeline.PointerCancel})
		}
		return d, nil

	case tea.MouseMsg:
		return d.updateMouse(msg)

	case tea.KeyMsg:
		if d.notice != "" {
			d.notice = ""
			return d, nil
		}
		return d.updateKeys(msg)
	}
	return d, nil
}

// isStoreReply reports whether msg carries a result the editor must not
// swallow.
func isStoreReply(msg tea.Msg) bool {
	switch msg.(type) {
	case dayLoadedMsg, entryCreatedMsg, entrySavedMsg, entryDeletedMsg,
		settingsChangedMsg, projectsChangedMsg:
		return true
	}
	return false
}

func (d dayModel) updateKeys(msg tea.KeyMsg) (dayModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		if d.drag.Active() {
			d.drag.Abort()
		}
		d.selected = ""
	case key.Matches(msg, keys.Left):
		return d.goTo(d.day.AddDate(0, 0, -1))
	case key.Matches(msg, keys.Right):
		return d.goTo(d.day.AddDate(0, 0, 1))
	case key.Matches(msg, keys.Today):
		return d.goTo(d.now())
	case key.Matches(msg, keys.Up):
		d.scroll--
		d.clampScroll()
	case key.Matches(msg, keys.Down):
		d.scroll++
		d.clampScroll()
	case key.Matches(msg, keys.NextEntry):
		d.selectNeighbour(1)
	case key.Matches(msg, keys.PrevEntry):
		d.selectNeighbour(-1)
	case key.Matches(msg, keys.Enter):
		if d.selected != "" {
			return d.openEditor(d.selected)
		}
	case key.Matches(msg, keys.Delete):
		if d.selected != "" {
			return d.remove(d.selected)
		}
	case key.Matches(msg, keys.New):
		return d.handleRequest(d.quickCreate())
	case key.Matches(msg, keys.Retry):
		return d.retry()
	}
	return d, nil
}

// quickCreate builds a minimum-length create request at the current time,
// or at the top of the visible grid on other days.
func (d dayModel) quickCreate() timeline.Request {
	env := d.drag.Env()
	m := d.scroll * d.mpr()
	if d.isToday() {
		m = planner.MinuteOfDay(d.day, d.now())
	}
	m = timeline.Quantize(m, env.MinEntryMinutes)
	return timeline.Request{
		Kind:      timeline.RequestCreate,
		Interval:  timeline.NormalizeDraft(m, m, env.MinEntryMinutes),
		ProjectID: env.ProjectID,
	}
}

func (d *dayModel) selectNeighbour(delta int) {
	entries := d.book.Entries()
	if len(entries) == 0 {
		return
	}
	i := -1
	for j, e := range entries {
		if e.ID == d.selected {
			i = j
		}
	}
	switch {
	case i < 0 && delta > 0:
		i = 0
	case i < 0:
		i = len(entries) - 1
	default:
		i = (i + delta + len(entries)) % len(entries)
	}
	d.selected = entries[i].ID
	d.reveal(entries[i])
}

// --- Pointer input ---

func (d dayModel) updateMouse(msg tea.MouseMsg) (dayModel, tea.Cmd) {
	if d.notice != "" {
		if msg.Action == tea.MouseActionPress {
			d.notice = ""
		}
		return d, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		d.scroll -= 3
		d.clampScroll()
		return d, nil
	case tea.MouseButtonWheelDown:
		d.scroll += 3
		d.clampScroll()
		return d, nil
	}

	row, inside := d.rowAt(msg.X, msg.Y)
	var ev timeline.PointerEvent
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inside {
			return d, nil
		}
		hit := d.hitAt(row)
		ev = timeline.PointerEvent{Kind: timeline.PointerDown, Y: d.pointerY(row, hit.Kind), Hit: hit}
	case tea.MouseActionMotion:
		if !d.drag.Active() {
			return d, nil
		}
		ev = timeline.PointerEvent{Kind: timeline.PointerMove, Y: d.pointerY(row, timeline.HitEmpty)}
	case tea.MouseActionRelease:
		if !d.drag.Active() {
			return d, nil
		}
		ev = timeline.PointerEvent{Kind: timeline.PointerUp, Y: d.pointerY(row, timeline.HitEmpty)}
	default:
		return d, nil
	}
	if !inside {
		ev = timeline.PointerEvent{Kind: timeline.PointerCancel}
	}
	return d.handleRequest(d.drag.Handle(ev))
}

// rowAt maps a position relative to the view to an absolute grid row.
func (d dayModel) rowAt(x, y int) (int, bool) {
	r := y - dayHeaderLines
	if x < 0 || x >= d.width || r < 0 || r >= d.visibleRows() {
		return 0, false
	}
	return d.scroll + r, true
}

// pointerY converts a row to grid pixels. A row's lower boundary is used
// where the pointer extends an entry downward, so the row under the pointer
// is included.
func (d dayModel) pointerY(row int, hit timeline.HitKind) float64 {
	s := d.drag.State()
	switch {
	case hit == timeline.HitBottomEdge:
		row++
	case s.Phase == timeline.PhaseResizing && s.Edge == timeline.EdgeBottom:
		row++
	case s.Phase == timeline.PhaseCreating && row*d.mpr() >= s.Anchor:
		row++
	}
	return float64(row)
}

// bandSpan is a placed band in rows.
type bandSpan struct {
	band     timeline.Band
	entry    store.Entry
	from, to int // [from, to)
}

func (d dayModel) spans() ([]bandSpan, timeline.Layout) {
	layout := d.book.Layout(d.stacker())
	mpr := d.mpr()
	out := make([]bandSpan, 0, len(layout.Bands))
	for _, b := range layout.Bands {
		e, ok := d.book.Get(b.ID)
		if !ok {
			continue
		}
		from := b.Top / mpr
		to := max(ceilDiv(b.Bottom(), mpr), from+1)
		out = append(out, bandSpan{band: b, entry: e, from: from, to: to})
	}
	return out, layout
}

// hitAt hit-tests an absolute row. Bands of two rows or more have a bottom
// edge on their last row, bands of three rows or more a top edge on their
// first.
func (d dayModel) hitAt(row int) timeline.Hit {
	spans, _ := d.spans()
	for i := len(spans) - 1; i >= 0; i-- {
		s := spans[i]
		if row < s.from || row >= s.to {
			continue
		}
		iv := planner.IntervalOf(d.day, s.entry)
		n := s.to - s.from
		switch {
		case n >= 2 && row == s.to-1:
			return timeline.Hit{Kind: timeline.HitBottomEdge, Entry: iv}
		case n >= 3 && row == s.from:
			return timeline.Hit{Kind: timeline.HitTopEdge, Entry: iv}
		}
		return timeline.Hit{Kind: timeline.HitBody, Entry: iv}
	}
	return timeline.Hit{Kind: timeline.HitEmpty}
}

// --- Requests and store round trips ---

func (d dayModel) handleRequest(req timeline.Request) (dayModel, tea.Cmd) {
	switch req.Kind {
	case timeline.RequestCreate:
		ch, err := d.book.ProposeCreate(req.Interval, req.ProjectID, req.Comment)
		if err != nil {
			return d.reject(err)
		}
		d.selected = ch.Entry.ID
		d.log.Debug("create proposed", "local_id", ch.Entry.ID, "interval", req.Interval.String())
		return d, d.createCmd(ch)

	case timeline.RequestUpdate:
		ch, err := d.book.ProposeUpdate(req.Interval.ID, req.Interval)
		if err != nil {
			return d.reject(err)
		}
		if ch == nil {
			return d, nil
		}
		d.selected = req.Interval.ID
		d.log.Debug("update proposed", "id", req.Interval.ID, "interval", req.Interval.String())
		return d, d.saveCmd(*ch)

	case timeline.RequestSelect:
		d.selected = req.Interval.ID
		return d.openEditor(req.Interval.ID)
	}
	return d, nil
}

func (d dayModel) reject(err error) (dayModel, tea.Cmd) {
	if planner.IsOverlap(err) {
		d.log.Info("change rejected", "err", err)
		d.notice = planner.Describe(err)
		return d, nil
	}
	return d, func() tea.Msg { return errStatus("Cannot change entry", err) }
}

func (d dayModel) storeFailed(id string, rev uint64, err error) (dayModel, tea.Cmd) {
	if planner.IsOverlap(err) {
		// The store knows entries this copy does not.
		d.log.Warn("store rejected change", "id", id, "err", err)
		d.notice = planner.Describe(err)
		d.book.Revert(id, rev)
		return d, d.load()
	}
	d.log.Error("saving entry", "id", id, "err", err)
	d.book.MarkFailed(id, rev)
	return d, func() tea.Msg {
		return statusMsg{text: "Could not save entry, press r to retry", isError: true}
	}
}

func (d dayModel) retry() (dayModel, tea.Cmd) {
	var cmds []tea.Cmd
	for _, e := range d.book.Failed() {
		ch, ok := d.book.Retry(e.ID)
		if !ok {
			continue
		}
		switch {
		case ch.Delete:
			cmds = append(cmds, d.deleteCmd(*ch))
		case planner.IsLocalID(e.ID):
			cmds = append(cmds, d.createCmd(*ch))
		default:
			cmds = append(cmds, d.saveCmd(*ch))
		}
	}
	return d, tea.Batch(cmds...)
}

func (d dayModel) remove(id string) (dayModel, tea.Cmd) {
	_, known := d.book.Get(id)
	ch, err := d.book.ProposeDelete(id)
	if err != nil {
		return d.reject(err)
	}
	if known {
		d.selected = ""
	}
	if ch == nil {
		// Unknown, or a failed create that never reached the store.
		return d, nil
	}
	return d, d.deleteCmd(*ch)
}

func (d dayModel) createCmd(ch planner.Change) tea.Cmd {
	svc := d.svc
	return func() tea.Msg {
		e, err := svc.Create(store.EntryDraft{
			Start:     ch.Entry.Start,
			End:       ch.Entry.End,
			ProjectID: ch.Entry.ProjectID,
			Comment:   ch.Entry.Comment,
		})
		return entryCreatedMsg{localID: ch.Entry.ID, rev: ch.Rev, entry: e, err: err}
	}
}

func (d dayModel) saveCmd(ch planner.Change) tea.Cmd {
	svc := d.svc
	return func() tea.Msg {
		saved, err := svc.Update(ch.Entry)
		return entrySavedMsg{id: ch.Entry.ID, rev: ch.Rev, entry: saved, err: err}
	}
}

func (d dayModel) deleteCmd(ch planner.Change) tea.Cmd {
	svc := d.svc
	return func() tea.Msg {
		ok, err := svc.Delete(ch.Entry.ID)
		return entryDeletedMsg{id: ch.Entry.ID, rev: ch.Rev, ok: ok, err: err}
	}
}

// --- Entry editor ---

func (d dayModel) openEditor(id string) (dayModel, tea.Cmd) {
	e, ok := d.book.Get(id)
	if !ok {
		return d, nil
	}
	if planner.IsLocalID(id) {
		return d.reject(planner.ErrNotSaved)
	}
	d.editor = newEntryEditor(e, d.projects)
	d.editing = true
	return d, d.editor.form.Init()
}

func (d dayModel) updateEditor(msg tea.Msg) (dayModel, tea.Cmd) {
	done, cancelled, cmd := d.editor.update(msg)
	if cancelled {
		d.editing = false
		return d, nil
	}
	if !done {
		return d, cmd
	}

	d.editing = false
	if d.editor.deleted() {
		return d.remove(d.editor.id)
	}
	projectID, comment := d.editor.values()
	ch, err := d.book.ProposePatch(d.editor.id, &projectID, &comment)
	if err != nil {
		return d.reject(err)
	}
	if ch == nil {
		return d, nil
	}
	d.setProject(projectID)
	return d, d.saveCmd(*ch)
}

// --- Scrolling ---

func (d dayModel) visibleRows() int {
	return max(1, d.height-dayHeaderLines-1)
}

func (d dayModel) totalRows() int {
	_, layout := d.spans()
	return ceilDiv(layout.TimelineHeight, d.mpr())
}

func (d *dayModel) clampScroll() {
	if d.book == nil {
		return
	}
	d.scroll = max(0, min(d.scroll, d.totalRows()-d.visibleRows()))
}

// autoScroll puts the current time a third of the way down on today, the
// first entry on other days and 08:00 on empty days.
func (d *dayModel) autoScroll() {
	target := 8 * 60
	switch entries := d.book.Entries(); {
	case d.isToday():
		target = planner.MinuteOfDay(d.day, d.now())
	case len(entries) > 0:
		target = planner.MinuteOfDay(d.day, entries[0].Start)
	}
	d.scroll = target/d.mpr() - d.visibleRows()/3
	d.clampScroll()
}

func (d *dayModel) reveal(e store.Entry) {
	row := planner.MinuteOfDay(d.day, e.Start) / d.mpr()
	if row < d.scroll || row >= d.scroll+d.visibleRows() {
		d.scroll = row - d.visibleRows()/3
		d.clampScroll()
	}
}

// --- View ---

func (d dayModel) projectByID(id string) (store.Project, bool) {
	for _, p := range d.projects {
		if p.ID == id {
			return p, true
		}
	}
	return store.Project{}, false
}

func (d dayModel) view() string {
	if d.width < 30 {
		return "Terminal too small"
	}
	if d.editing {
		title := titleStyle.Render("Edit Entry")
		return panelStyle.Width(d.width - 4).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", d.editor.view()),
		)
	}

	header := d.renderHeader()
	if d.notice != "" {
		box := noticeStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
			errorStyle.Render("Overlap"),
			"",
			d.notice,
			"",
			mutedStyle.Render("press any key to dismiss"),
		))
		body := lipgloss.Place(d.width, d.visibleRows(), lipgloss.Center, lipgloss.Center, box)
		return lipgloss.JoinVertical(lipgloss.Left, header, body)
	}

	hint := mutedStyle.Render("  drag: create  drag entry: move  drag edge: resize  click: edit  ←/→: day  t: today")
	if n := len(d.book.Failed()); n > 0 {
		hint = warningStyle.Render(fmt.Sprintf("  %d unsaved change(s), press r to retry", n))
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, d.renderGrid(), hint)
}

func (d dayModel) renderHeader() string {
	title := titleStyle.Render(d.day.Format("Monday, 02 January 2006"))
	if d.isToday() {
		title += highlightStyle.Render("  today")
	}

	total := d.book.TotalMinutes()
	goal := planner.DayTotal{Day: d.day, Minutes: total, Goal: int(d.settings.DailyGoalHours * 60)}
	summary := fmt.Sprintf("%s / %gh", formatMinutes(total), d.settings.DailyGoalHours)
	if goal.Reached() {
		summary = successStyle.Render(summary + "  ✓")
	} else {
		summary = mutedStyle.Render(summary)
	}

	bar := d.goal.ViewAs(goal.Progress())
	return lipgloss.JoinVertical(lipgloss.Left,
		" "+title,
		" "+bar+"  "+summary,
		"",
	)
}

func (d dayModel) renderGrid() string {
	mpr := d.mpr()
	rows := d.visibleRows()
	gw := max(1, d.width-gutterWidth)
	spans, _ := d.spans()

	owner := make([]int, rows)
	for i := range owner {
		owner[i] = -1
	}
	for i, s := range spans {
		for r := max(s.from, d.scroll); r < min(s.to, d.scroll+rows); r++ {
			owner[r-d.scroll] = i
		}
	}

	state := d.drag.State()
	preview, previewing := d.drag.Preview()
	pFrom, pTo := -1, -1
	if previewing {
		pFrom = preview.Start / mpr
		pTo = max(ceilDiv(preview.End, mpr), pFrom+1)
	}

	nowRow, nowMin := -1, 0
	if d.isToday() {
		nowMin = planner.MinuteOfDay(d.day, d.now())
		nowRow = nowMin / mpr
	}

	lines := make([]string, rows)
	for r := range rows {
		abs := d.scroll + r
		minute := abs * mpr

		label := "     "
		if minute%60 == 0 && minute < timeline.MinutesPerDay {
			label = timeline.FormatMinutes(minute)
		}
		gutter := hourLabelStyle.Render(label) + gridLineStyle.Render(" │ ")
		if abs == nowRow {
			gutter = nowLineStyle.Render(timeline.FormatMinutes(nowMin) + " ┤ ")
		}

		var cell string
		switch {
		case abs >= pFrom && abs < pTo:
			text := ""
			if abs == pFrom {
				text = fmt.Sprintf("%s–%s", timeline.FormatMinutes(preview.Start), timeline.FormatMinutes(preview.End))
				if state.Phase == timeline.PhaseCreating {
					text += "  new"
				}
			}
			cell = previewStyle.Width(gw).Render(truncate(text, gw))
		case owner[r] >= 0:
			s := spans[owner[r]]
			cell = d.renderBandRow(s, abs, gw, state)
		case abs == nowRow:
			cell = nowLineStyle.Render(strings.Repeat("─", gw))
		case minute >= timeline.MinutesPerDay:
			cell = ""
		case minute%60 == 0:
			cell = gridLineStyle.Render(strings.Repeat("┈", gw))
		}
		lines[r] = gutter + cell
	}
	return strings.Join(lines, "\n")
}

func (d dayModel) renderBandRow(s bandSpan, row, width int, state timeline.DragState) string {
	color := string(colorPrimary)
	name := "?"
	if p, ok := d.projectByID(s.entry.ProjectID); ok {
		color, name = p.Color, p.Name
	}
	style := bandStyle(color)
	if state.Phase != timeline.PhaseIdle && state.Phase != timeline.PhaseCreating && state.Entry.ID == s.entry.ID {
		style = style.Faint(true)
	}
	if s.entry.ID == d.selected {
		style = style.Inherit(selectedBandStyle)
	}

	var text string
	switch row - s.from {
	case 0:
		iv := planner.IntervalOf(d.day, s.entry)
		text = fmt.Sprintf("%s  %s–%s  %dm", name, timeline.FormatMinutes(iv.Start), timeline.FormatMinutes(iv.End), iv.Duration())
		switch d.book.Epoch(s.entry.ID) {
		case planner.EpochLocal:
			text += "  …"
		case planner.EpochFailed:
			text += "  ! unsaved"
		}
		if s.band.Displaced(iv.Start) {
			text += "  ↧"
		}
	case 1:
		text = s.entry.Comment
	}
	return style.Width(width).Render(truncate(" "+text, width))
}

func truncate(s string, w int) string {
	if lipgloss.Width(s) <= w {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r)) > w-1 {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
