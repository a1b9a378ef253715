package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/timetable/internal/planner"
	"github.com/sadopc/timetable/internal/store"
	"github.com/sadopc/timetable/internal/timeline"
)

func (a *App) dayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "day [date]",
		Short: "List the entries of a day",
		Long: `List the entries of a day in start order with the daily total.

Entries that the day grid has to draw below their real start, because a
short entry above them was stretched to the minimum height, are marked
with the time they are drawn at.

Example:
  timetable day
  timetable day yesterday
  timetable day 2025-03-10`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var arg string
			if len(args) > 0 {
				arg = args[0]
			}
			day, err := parseDate(arg, time.Now())
			if err != nil {
				return err
			}
			return a.printDay(cmd.OutOrStdout(), day)
		},
	}
}

func (a *App) printDay(out io.Writer, day time.Time) error {
	entries, err := a.svc.DayEntries(day)
	if err != nil {
		return err
	}
	plist, err := a.store.ListProjects()
	if err != nil {
		return fmt.Errorf("listing projects: %w", err)
	}
	projects := make(map[string]store.Project, len(plist))
	for _, p := range plist {
		projects[p.ID] = p
	}
	settings, err := a.store.GetSettings()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	fmt.Fprintln(out, colorHeader.Sprint(day.Format("Monday, January 2 2006")))
	fmt.Fprintln(out)

	if len(entries) == 0 {
		fmt.Fprintln(out, colorMuted.Sprint("  No entries."))
		fmt.Fprintln(out)
		printGoal(out, 0, settings.DailyGoalHours)
		return nil
	}

	stacker := timeline.Stacker{Gap: a.config.Layout.GapMinutes, MinHeight: a.config.Layout.MinHeightMinutes}
	layout := stacker.Arrange(planner.Intervals(day, entries))

	total := 0
	for _, e := range entries {
		iv := planner.IntervalOf(day, e)
		total += iv.Duration()

		p, ok := projects[e.ProjectID]
		if !ok {
			p = store.Project{Name: e.ProjectID}
		}

		line := fmt.Sprintf("  %s  %-8s %s %s",
			colorTime.Sprintf("%s-%s", timeline.FormatMinutes(iv.Start), timeline.FormatMinutes(iv.End)),
			formatMinutes(iv.Duration()),
			swatch(p.Color),
			p.Name,
		)
		if e.Comment != "" {
			line += "  " + e.Comment
		}
		if b, ok := layout.Band(e.ID); ok && b.Displaced(iv.Start) {
			line += " " + colorWarn.Sprintf("(drawn at %s)", timeline.FormatMinutes(b.Top))
		}
		line += "  " + colorMuted.Sprint(e.ID)
		fmt.Fprintln(out, line)
	}

	fmt.Fprintln(out)
	printGoal(out, total, settings.DailyGoalHours)
	return nil
}

func printGoal(out io.Writer, minutes int, goalHours float64) {
	goal := int(goalHours * 60)
	mark := ""
	c := colorWarn
	if goal > 0 && minutes >= goal {
		c, mark = colorGoal, " ✓"
	}
	fmt.Fprintf(out, "  Total %s / %gh goal%s\n", c.Sprint(formatMinutes(minutes)), goalHours, mark)
}
