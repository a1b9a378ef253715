package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timetable/internal/planner"
	"github.com/sadopc/timetable/internal/store"
)

// weekRowsTop is the first line of the day list within the view.
const weekRowsTop = 3

type weekModel struct {
	svc  *planner.Service
	log  *slog.Logger
	opts Options

	width  int
	height int

	first     time.Time // first day of the shown week
	totals    []planner.DayTotal
	summaries []store.DailySummary
	cursor    int

	chart barchart.Model
}

func newWeekModel(svc *planner.Service, opts Options, log *slog.Logger) weekModel {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return weekModel{
		svc:   svc,
		log:   log,
		opts:  opts,
		first: planner.WeekOf(time.Now(), opts.WeekStart),
		chart: barchart.New(60, 12),
	}
}

func (w *weekModel) setSize(width, height int) {
	w.width = width
	w.height = height
	w.buildChart()
}

type weekDataMsg struct {
	first     time.Time
	totals    []planner.DayTotal
	summaries []store.DailySummary
	err       error
}

func (w weekModel) refresh() tea.Cmd {
	svc, first, start := w.svc, w.first, w.opts.WeekStart
	return func() tea.Msg {
		totals, err := svc.Week(first, start)
		if err != nil {
			return weekDataMsg{first: first, err: err}
		}
		summaries, err := svc.Store().DailySummaries(first, first.AddDate(0, 0, 7))
		if err != nil {
			return weekDataMsg{first: first, err: err}
		}
		return weekDataMsg{first: first, totals: totals, summaries: summaries}
	}
}

// show moves to the week containing day.
func (w weekModel) show(day time.Time) (weekModel, tea.Cmd) {
	w.first = planner.WeekOf(day, w.opts.WeekStart)
	w.cursor = int(planner.DayOf(day).Sub(w.first).Hours() / 24)
	w.cursor = max(0, min(w.cursor, 6))
	return w, w.refresh()
}

func (w weekModel) update(msg tea.Msg) (weekModel, tea.Cmd) {
	switch msg := msg.(type) {
	case weekDataMsg:
		if !msg.first.Equal(w.first) {
			return w, nil
		}
		if msg.err != nil {
			w.log.Error("loading week", "first", msg.first.Format(time.DateOnly), "err", msg.err)
			return w, func() tea.Msg { return errStatus("Load failed", msg.err) }
		}
		w.totals = msg.totals
		w.summaries = msg.summaries
		w.buildChart()
		return w, nil

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return w, nil
		}
		if i := msg.Y - weekRowsTop; i >= 0 && i < len(w.totals) {
			w.cursor = i
			return w, w.open()
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			w.first = w.first.AddDate(0, 0, -7)
			return w, w.refresh()
		case key.Matches(msg, keys.Right):
			w.first = w.first.AddDate(0, 0, 7)
			return w, w.refresh()
		case key.Matches(msg, keys.Today):
			return w.show(time.Now())
		case key.Matches(msg, keys.Up):
			if w.cursor > 0 {
				w.cursor--
			}
		case key.Matches(msg, keys.Down):
			if w.cursor < 6 {
				w.cursor++
			}
		case key.Matches(msg, keys.Enter):
			return w, w.open()
		}
	}
	return w, nil
}

func (w weekModel) open() tea.Cmd {
	day := w.first.AddDate(0, 0, w.cursor)
	return func() tea.Msg { return openDayMsg{day: day} }
}

func (w *weekModel) buildChart() {
	chartWidth := max(w.width-8, 20)
	chartHeight := 10
	if w.height > 34 {
		chartHeight = 14
	}

	w.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for i := range 7 {
		d := w.first.AddDate(0, 0, i)
		date := d.Format(time.DateOnly)

		var values []barchart.BarValue
		for _, s := range w.summaries {
			if s.Date == date {
				values = append(values, barchart.BarValue{
					Name:  s.ProjectName,
					Value: float64(s.TotalMinutes) / 60,
					Style: lipgloss.NewStyle().Foreground(lipgloss.Color(s.ProjectColor)),
				})
			}
		}
		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}

		bars = append(bars, barchart.BarData{
			Label:  d.Format("Mon 02"),
			Values: values,
		})
	}

	w.chart.PushAll(bars)
	w.chart.Draw()
}

func (w weekModel) view() string {
	last := w.first.AddDate(0, 0, 6)
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render(" Week"), "  ",
		mutedStyle.Render(fmt.Sprintf("%s - %s", w.first.Format("Jan 02"), last.Format("Jan 02, 2006"))),
	)

	var week int
	for _, t := range w.totals {
		week += t.Minutes
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		mutedStyle.Render(fmt.Sprintf(" %s tracked", formatMinutes(week))),
		"",
		w.renderDays(),
		"",
		w.chart.View(),
		w.renderLegend(),
		"",
		mutedStyle.Render("  ←/→: week  ↑/↓: day  enter/click: open day  t: this week"),
	)
}

func (w weekModel) renderDays() string {
	if len(w.totals) == 0 {
		return mutedStyle.Render("  Loading...")
	}
	today := planner.DayOf(time.Now())
	barWidth := max(10, min(30, w.width/4))

	var rows []string
	for i, t := range w.totals {
		cursor := "  "
		style := normalItemStyle
		if i == w.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		label := t.Day.Format("Mon 02")
		if t.Day.Equal(today) {
			label += "*"
		}
		filled := int(t.Progress() * float64(barWidth))
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		amount := fmt.Sprintf("%8s / %s", formatMinutes(t.Minutes), formatHours(t.Goal))
		if t.Reached() {
			bar = successStyle.Render(bar)
			amount = successStyle.Render(amount + " ✓")
		} else {
			bar = highlightStyle.Render(bar)
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-8s", cursor, label))+" "+bar+" "+amount)
	}
	return strings.Join(rows, "\n")
}

func (w weekModel) renderLegend() string {
	seen := make(map[string]bool)
	var items []string
	for _, s := range w.summaries {
		if seen[s.ProjectID] {
			continue
		}
		seen[s.ProjectID] = true
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(s.ProjectColor)).Render("●")
		items = append(items, fmt.Sprintf("%s %s", dot, s.ProjectName))
	}
	if len(items) == 0 {
		return ""
	}
	return "  " + strings.Join(items, "  ")
}
