package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/timetable/internal/planner"
)

func (a *App) weekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week [date]",
		Short: "Show daily totals for a week",
		Long: `Show the tracked time of each day of the week containing date,
measured against the daily goal.

Example:
  timetable week
  timetable week 2025-03-10`,
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

			totals, err := a.svc.Week(day, a.config.WeekStart())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			first, last := totals[0].Day, totals[len(totals)-1].Day
			fmt.Fprintf(out, "%s\n\n", colorHeader.Sprintf("Week of %s - %s", first.Format("Jan 2"), last.Format("Jan 2 2006")))

			barWidth := min(30, max(10, termWidth()-40))
			sum := 0
			for _, t := range totals {
				sum += t.Minutes
				fmt.Fprintf(out, "  %s  %s  %s\n",
					t.Day.Format("Mon 02"),
					weekBar(t, barWidth),
					weekTotal(t),
				)
			}
			fmt.Fprintf(out, "\n  Total %s\n", colorHeader.Sprint(formatMinutes(sum)))
			return nil
		},
	}
}

func weekBar(t planner.DayTotal, width int) string {
	filled := int(t.Progress() * float64(width))
	bar := strings.Repeat("█", filled)
	if t.Reached() {
		bar = colorGoal.Sprint(bar)
	} else {
		bar = colorTime.Sprint(bar)
	}
	return bar + colorMuted.Sprint(strings.Repeat("░", width-filled))
}

func weekTotal(t planner.DayTotal) string {
	s := fmt.Sprintf("%s / %s", formatMinutes(t.Minutes), formatMinutes(t.Goal))
	if t.Reached() {
		return colorGoal.Sprint(s + " ✓")
	}
	if t.Minutes == 0 {
		return colorMuted.Sprint(s)
	}
	return s
}
