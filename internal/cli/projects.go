package cli

import (
	"fmt"
	"regexp"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sadopc/timetable/internal/store"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func (a *App) projectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "List and manage projects",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plist, err := a.store.ListProjects()
			if err != nil {
				return fmt.Errorf("listing projects: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, colorHeader.Sprint("Projects"))
			fmt.Fprintln(out)
			for _, p := range plist {
				name := p.Name
				if p.ID == store.DefaultProjectID {
					name += colorMuted.Sprint(" (default)")
				}
				fmt.Fprintf(out, "  %s %-24s %s  %s\n",
					swatch(p.Color),
					name,
					colorMuted.Sprint(p.ID),
					colorMuted.Sprint("created "+humanize.Time(p.CreatedAt)),
				)
			}
			return nil
		},
	}

	var color string
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a project",
		Long: `Create a project.

Example:
  timetable projects add Work --color="#4da6ff"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !hexColor.MatchString(color) {
				return fmt.Errorf("color must look like #rrggbb, got %q", color)
			}
			p, err := a.store.AddProject(args[0], color)
			if err != nil {
				return fmt.Errorf("adding project: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s %s (%s)\n", swatch(p.Color), p.Name, p.ID)
			return nil
		},
	}
	add.Flags().StringVar(&color, "color", "#4da6ff", "Color (#rrggbb)")

	rename := &cobra.Command{
		Use:   "rename ID NAME",
		Short: "Rename a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.store.UpdateProject(args[0], store.ProjectPatch{Name: &args[1]})
			if err != nil {
				return fmt.Errorf("renaming project: %w", err)
			}
			if p == nil {
				return fmt.Errorf("no project with id %s", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", p.ID, p.Name)
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a project; its entries move to General",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == store.DefaultProjectID {
				return fmt.Errorf("the default project cannot be deleted")
			}
			ok, err := a.store.DeleteProject(args[0])
			if err != nil {
				return fmt.Errorf("deleting project: %w", err)
			}
			if !ok {
				return fmt.Errorf("no project with id %s", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(add, rename, rm)
	return cmd
}
