package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sadopc/timetable/internal/export"
	"github.com/sadopc/timetable/internal/planner"
)

func (a *App) exportCmd() *cobra.Command {
	var (
		format string
		out    string
		from   string
		to     string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export entries to CSV, JSON or iCalendar",
		Long: `Export entries to a file. Without --from and --to every entry is
exported. Both bounds are inclusive dates.

Example:
  timetable export --format=ics --out=work.ics
  timetable export --format=csv --from=2025-03-01 --to=2025-03-31`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			start, end := export.AllTime()
			now := time.Now()
			if from != "" {
				if start, err = parseDate(from, now); err != nil {
					return err
				}
			}
			if to != "" {
				day, err := parseDate(to, now)
				if err != nil {
					return err
				}
				_, end = planner.DayRange(day)
			}
			if !end.After(start) {
				return fmt.Errorf("--to must not be before --from")
			}

			entries, err := a.store.ListEntries(start, end)
			if err != nil {
				return fmt.Errorf("listing entries: %w", err)
			}
			plist, err := a.store.ListProjects()
			if err != nil {
				return fmt.Errorf("listing projects: %w", err)
			}

			path := out
			if path == "" {
				path = export.DefaultPath(".", f, now)
			}
			if err := export.Write(f, entries, export.ProjectIndex(plist), path); err != nil {
				return err
			}

			size := ""
			if fi, err := os.Stat(path); err == nil {
				size = " (" + humanize.Bytes(uint64(fi.Size())) + ")"
			}
			a.log.Info("exported", "format", f, "path", path, "entries", len(entries))
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s%s\n", len(entries), path, size)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Format: csv, json or ics")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: ./timetable-export-DATE.FORMAT)")
	cmd.Flags().StringVar(&from, "from", "", "First day to export (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last day to export (YYYY-MM-DD)")

	return cmd
}
