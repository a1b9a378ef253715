package tui

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/sadopc/timetable/internal/export"
	"github.com/sadopc/timetable/internal/planner"
)

// App is the root Bubble Tea model.
type App struct {
	svc    *planner.Service
	log    *slog.Logger
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	day      dayModel
	week     weekModel
	projects projectsModel
	settings settingsModel

	help     help.Model
	status   string
	statusOK bool
}

func NewApp(svc *planner.Service, opts Options, log *slog.Logger) App {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	opts = opts.withDefaults()

	h := help.New()
	h.ShowAll = false

	return App{
		svc:        svc,
		log:        log,
		activeView: viewDay,
		day:        newDayModel(svc, opts, log),
		week:       newWeekModel(svc, opts, log),
		projects:   newProjectsModel(svc, log),
		settings:   newSettingsModel(svc, opts, log),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.day.Init(),
		tickCmd(),
	)
}

// tickCmd redraws once a minute so the now-line follows the clock.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.resize()
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			a.resize()
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchTo(viewDay)
		case key.Matches(msg, keys.Tab2):
			return a.switchTo(viewWeek)
		case key.Matches(msg, keys.Tab3):
			return a.switchTo(viewProjects)
		case key.Matches(msg, keys.Tab4):
			return a.switchTo(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchTo((a.activeView + 1) % viewState(len(viewNames)))
		}

	case tea.MouseMsg:
		return a.updateMouse(msg)

	case tea.BlurMsg:
		// A drag must not survive focus loss, whichever view is shown.
		var cmd tea.Cmd
		a.day, cmd = a.day.update(msg)
		return a, cmd

	case tickMsg:
		return a, tickCmd()

	case statusMsg:
		a.status = msg.text
		a.statusOK = !msg.isError
		return a, nil

	case openDayMsg:
		a.activeView = viewDay
		var cmd tea.Cmd
		a.day, cmd = a.day.goTo(msg.day)
		return a, cmd

	case settingsChangedMsg:
		a.day, _ = a.day.update(msg)
		a.settings.settings = msg.settings
		a.settings.loaded = true
		a.status = "Settings saved"
		a.statusOK = true
		return a, a.week.refresh()

	case projectsChangedMsg:
		var cmd tea.Cmd
		a.day, cmd = a.day.update(msg)
		return a, tea.Batch(cmd, a.projects.refresh(), a.week.refresh())

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusOK = true
		return a, nil

	case dayLoadedMsg, entryCreatedMsg, entrySavedMsg, entryDeletedMsg:
		// Store replies belong to the day view even when it is hidden.
		var cmd tea.Cmd
		a.day, cmd = a.day.update(msg)
		return a, cmd

	case weekDataMsg:
		var cmd tea.Cmd
		a.week, cmd = a.week.update(msg)
		return a, cmd
	}

	return a.updateActiveView(msg)
}

func (a *App) resize() {
	contentHeight := max(1, a.height-lipgloss.Height(a.renderHeader())-lipgloss.Height(a.renderFooter()))
	a.day.setSize(a.width, contentHeight)
	a.week.setSize(a.width, contentHeight)
	a.projects.setSize(a.width, contentHeight)
	a.settings.setSize(a.width, contentHeight)
}

func (a App) switchTo(v viewState) (tea.Model, tea.Cmd) {
	if v != viewDay {
		// The release will go to another view.
		a.day.drag.Abort()
	}
	a.activeView = v
	return a, a.refreshCurrentView()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDay:
		a.day, cmd = a.day.update(msg)
	case viewWeek:
		a.week, cmd = a.week.update(msg)
	case viewProjects:
		a.projects, cmd = a.projects.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

// updateMouse handles tab clicks and hands everything else to the active
// view with Y made relative to the content area.
func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if a.exportPicking {
		return a, nil
	}
	top := lipgloss.Height(a.renderHeader())
	if msg.Y < top && msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && !a.isFormActive() {
		if v, ok := a.tabAt(msg.X); ok {
			return a.switchTo(v)
		}
		return a, nil
	}
	msg.Y -= top
	return a.updateActiveView(msg)
}

// tabAt maps a header column to the tab drawn there.
func (a App) tabAt(x int) (viewState, bool) {
	tabs := a.renderTabs()
	pos := 1 + a.headerGap() + lipgloss.Width(a.renderTitle())
	for i, t := range tabs {
		w := lipgloss.Width(t)
		if x >= pos && x < pos+w {
			return viewState(i), true
		}
		pos += w
	}
	return 0, false
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewDay:
		return a.day.editing
	case viewProjects:
		return a.projects.formActive()
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDay:
		return a.day.load()
	case viewWeek:
		return a.week.refresh()
	case viewProjects:
		return a.projects.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDay:
		content = a.day.view()
	case viewWeek:
		content = a.week.view()
	case viewProjects:
		content = a.projects.view()
	case viewSettings:
		content = a.settings.view()
	}

	contentHeight := max(1, a.height-lipgloss.Height(header)-lipgloss.Height(footer))

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderTabs() []string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	return tabs
}

func (a App) renderTitle() string {
	return lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("timetable")
}

func (a App) headerGap() int {
	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, a.renderTabs()...)
	return max(1, a.width-lipgloss.Width(a.renderTitle())-lipgloss.Width(tabRow)-4)
}

func (a App) renderHeader() string {
	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, a.renderTabs()...)
	spacer := lipgloss.NewStyle().Width(a.headerGap()).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, a.renderTitle(), spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := errorStyle
		if a.statusOK {
			style = mutedStyle
		}
		status = style.Render(" " + a.status)
	}

	pending := ""
	if n := a.day.book.Saving(); n > 0 {
		pending = warningStyle.Render(fmt.Sprintf(" ● saving %d", n))
	}

	left := footerStyle.Render(helpView)
	right := pending + status

	gap := max(1, a.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range export.Formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+strings.ToUpper(string(f))))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export all entries  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(export.Formats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(export.Formats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format export.Format) tea.Cmd {
	st, log := a.svc.Store(), a.log
	return func() tea.Msg {
		entries, err := st.ListEntries(export.AllTime())
		if err != nil {
			log.Error("export", "format", format, "err", err)
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		plist, err := st.ListProjects()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		home, _ := os.UserHomeDir()
		path := export.DefaultPath(home, format, time.Now())
		if err := export.Write(format, entries, export.ProjectIndex(plist), path); err != nil {
			log.Error("export", "format", format, "path", path, "err", err)
			return statusMsg{text: fmt.Sprintf("%s error: %v", strings.ToUpper(string(format)), err), isError: true}
		}

		if fi, err := os.Stat(path); err == nil {
			log.Info("exported", "format", format, "path", path, "entries", len(entries), "size", humanize.Bytes(uint64(fi.Size())))
		}
		return exportDoneMsg{path: path}
	}
}
