package tui

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timetable/internal/planner"
	"github.com/sadopc/timetable/internal/store"
)

type settingsModel struct {
	svc    *planner.Service
	log    *slog.Logger
	opts   Options
	width  int
	height int

	settings store.Settings
	loaded   bool

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	minEntry  *string
	dailyGoal *string
}

func newSettingsModel(svc *planner.Service, opts Options, log *slog.Logger) settingsModel {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	me, dg := "", ""
	return settingsModel{
		svc:       svc,
		log:       log,
		opts:      opts,
		minEntry:  &me,
		dailyGoal: &dg,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings store.Settings
	err      error
}

func (s settingsModel) refresh() tea.Cmd {
	svc := s.svc
	return func() tea.Msg {
		settings, err := svc.Store().GetSettings()
		return settingsDataMsg{settings: settings, err: err}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if _, ok := msg.(settingsDataMsg); !ok && s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		if msg.err != nil {
			s.log.Error("loading settings", "err", msg.err)
			return s, func() tea.Msg { return errStatus("Load failed", msg.err) }
		}
		s.settings = msg.settings
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.minEntry = strconv.Itoa(s.settings.MinEntryMinutes)
	*s.dailyGoal = strconv.FormatFloat(s.settings.DailyGoalHours, 'f', -1, 64)

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Minimum entry length (min)").
				Description("Drags snap to this step and new entries are at least this long.").
				Value(s.minEntry).
				Validate(validateMinEntry),
			huh.NewInput().
				Title("Daily goal (hours)").
				Value(s.dailyGoal).
				Validate(validateDailyGoal),
		).Title("Tracking"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func validateMinEntry(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("enter a whole number of minutes")
	}
	if n < 1 || n > 240 {
		return fmt.Errorf("must be between 1 and 240")
	}
	return nil
}

func validateDailyGoal(v string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return fmt.Errorf("enter a number of hours")
	}
	if f <= 0 || f > 24 {
		return fmt.Errorf("must be above 0 and at most 24")
	}
	return nil
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	switch s.form.State {
	case huh.StateAborted:
		s.formActive = false
		s.form = nil
		return s, nil
	case huh.StateCompleted:
		s.formActive = false
		s.form = nil
		return s, s.save()
	}

	return s, cmd
}

func (s settingsModel) save() tea.Cmd {
	if validateMinEntry(*s.minEntry) != nil || validateDailyGoal(*s.dailyGoal) != nil {
		return nil
	}
	minEntry, _ := strconv.Atoi(strings.TrimSpace(*s.minEntry))
	goal, _ := strconv.ParseFloat(strings.TrimSpace(*s.dailyGoal), 64)

	st, log := s.svc.Store(), s.log
	return func() tea.Msg {
		updated, err := st.UpdateSettings(store.SettingsPatch{
			MinEntryMinutes: &minEntry,
			DailyGoalHours:  &goal,
		})
		if err != nil {
			log.Error("saving settings", "err", err)
			return statusMsg{text: fmt.Sprintf("Save settings: %v", err), isError: true}
		}
		log.Info("settings saved", "min_entry_minutes", updated.MinEntryMinutes, "daily_goal_hours", updated.DailyGoalHours)
		return settingsChangedMsg{settings: updated}
	}
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	title := titleStyle.Render("Settings")
	if !s.loaded {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", mutedStyle.Render("Loading...")),
		)
	}

	row := func(label, value string) string {
		return fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(26).Render(label), highlightStyle.Render(value))
	}

	rows := []string{
		title,
		"",
		row("Minimum entry length", fmt.Sprintf("%d min", s.settings.MinEntryMinutes)),
		row("Daily goal", fmt.Sprintf("%g hours", s.settings.DailyGoalHours)),
		"",
		mutedStyle.Render("  From the config file"),
		row("Minutes per row", fmt.Sprintf("%d min", s.opts.MinutesPerRow)),
		row("Gap between entries", fmt.Sprintf("%d min", s.opts.GapMinutes)),
		row("Minimum entry height", fmt.Sprintf("%d min", s.opts.MinHeightMinutes)),
		row("Week starts on", s.opts.WeekStart.String()),
		"",
		mutedStyle.Render("Press enter to edit settings"),
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
