package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/timetable/internal/planner"
	"github.com/sadopc/timetable/internal/store"
	"github.com/sadopc/timetable/internal/timeline"
)

func (a *App) addCmd() *cobra.Command {
	var (
		date    string
		project string
		comment string
	)

	cmd := &cobra.Command{
		Use:   "add START END",
		Short: "Add an entry",
		Long: `Add an entry from START to END (HH:MM). Times are snapped to the
minimum entry length and the entry is refused if it overlaps another one.

Example:
  timetable add 09:00 10:30 --project=Work --comment="Code review"
  timetable add 14:00 15:00 --date=yesterday`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDate(date, time.Now())
			if err != nil {
				return err
			}
			start, end, err := parseSpan(day, args[0], args[1])
			if err != nil {
				return err
			}
			p, err := a.resolveProject(project)
			if err != nil {
				return err
			}

			e, err := a.svc.Create(store.EntryDraft{
				Start:     start,
				End:       end,
				ProjectID: p.ID,
				Comment:   comment,
			})
			if err != nil {
				return errors.New(planner.Describe(err))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s: %s %s %s %s\n",
				e.ID,
				e.Start.Format(time.DateOnly),
				colorTime.Sprint(spanOf(*e)),
				swatch(p.Color),
				p.Name,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, today, yesterday; default: today)")
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name or id (default: General)")
	cmd.Flags().StringVarP(&comment, "comment", "c", "", "Comment")

	return cmd
}

func (a *App) moveCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "move ID START END",
		Short: "Move or resize an entry",
		Long: `Set the start and end (HH:MM) of an existing entry. Without --date
the entry stays on its current day.

Example:
  timetable move e_1c2d... 10:00 11:15`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.store.GetEntry(args[0])
			if err != nil {
				return fmt.Errorf("loading entry: %w", err)
			}
			if e == nil {
				return fmt.Errorf("no entry with id %s", args[0])
			}

			day := planner.DayOf(e.Start)
			if date != "" {
				if day, err = parseDate(date, time.Now()); err != nil {
					return err
				}
			}
			start, end, err := parseSpan(day, args[1], args[2])
			if err != nil {
				return err
			}

			moved, err := a.svc.Reschedule(e.ID, start, end)
			if err != nil {
				return errors.New(planner.Describe(err))
			}
			if moved == nil {
				return fmt.Errorf("no entry with id %s", args[0])
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s: %s -> %s %s\n",
				moved.ID,
				spanOf(*e),
				moved.Start.Format(time.DateOnly),
				colorTime.Sprint(spanOf(*moved)),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Move to this date (YYYY-MM-DD)")

	return cmd
}

func (a *App) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Delete an entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := a.svc.Delete(args[0])
			if err != nil {
				return errors.New(planner.Describe(err))
			}
			if !ok {
				return fmt.Errorf("no entry with id %s", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

// resolveProject finds a project by id or case-insensitive name. An empty
// ref is the default project.
func (a *App) resolveProject(ref string) (store.Project, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		ref = store.DefaultProjectID
	}
	plist, err := a.store.ListProjects()
	if err != nil {
		return store.Project{}, fmt.Errorf("listing projects: %w", err)
	}
	for _, p := range plist {
		if p.ID == ref {
			return p, nil
		}
	}
	for _, p := range plist {
		if strings.EqualFold(p.Name, ref) {
			return p, nil
		}
	}
	return store.Project{}, fmt.Errorf("no project named %q", ref)
}

func spanOf(e store.Entry) string {
	iv := planner.IntervalOf(planner.DayOf(e.Start), e)
	return timeline.FormatMinutes(iv.Start) + "-" + timeline.FormatMinutes(iv.End)
}
