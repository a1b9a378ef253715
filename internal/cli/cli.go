// Package cli is the timetable command tree. Without a subcommand it runs
// the terminal UI.
package cli

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/timetable/internal/config"
	"github.com/sadopc/timetable/internal/logging"
	"github.com/sadopc/timetable/internal/planner"
	"github.com/sadopc/timetable/internal/store"
	"github.com/sadopc/timetable/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config     *config.Config
	configPath string
	root       *cobra.Command

	dbPath  string // --db, overrides the config
	noColor bool

	store    *store.Store
	svc      *planner.Service
	log      *slog.Logger
	closeLog func() error
}

// NewApp creates the command tree for cfg.
func NewApp(cfg *config.Config) *App {
	a := &App{config: cfg, configPath: config.DefaultConfigPath()}

	a.root = &cobra.Command{
		Use:   "timetable",
		Short: "A calendar-style time tracker for the terminal",
		Long: `timetable records what you worked on as entries on a day grid.

Drag on the grid to create an entry, drag an entry to move it and drag
its top or bottom edge to resize it. Entries never overlap.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.noColor {
				DisableColor()
			}
			if cmd.Annotations["store"] == "none" {
				return nil
			}
			return a.open()
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.Close()
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runTUI()
		},
	}

	a.root.PersistentFlags().StringVar(&a.dbPath, "db", "", "Database path (overrides storage.db_path)")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.dayCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.moveCmd())
	a.root.AddCommand(a.removeCmd())
	a.root.AddCommand(a.projectsCmd())
	a.root.AddCommand(a.exportCmd())

	return a
}

// open starts logging and opens the store.
func (a *App) open() error {
	if a.store != nil {
		return nil
	}

	log, closeLog, err := logging.Open(a.config.Log.File, a.config.LogLevel())
	if err != nil {
		return err
	}
	a.log, a.closeLog = log, closeLog

	path := a.dbPath
	if path == "" {
		path = a.config.Storage.DBPath
	}
	if path == "" {
		if path, err = store.DefaultDBPath(); err != nil {
			return err
		}
	}

	s, err := store.New(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.log.Debug("store opened", "path", path)
	a.store = s
	a.svc = planner.NewService(s, a.log)
	return nil
}

// Close releases the store and the log file. It is safe to call twice.
func (a *App) Close() error {
	var err error
	if a.store != nil {
		err = a.store.Close()
		a.store, a.svc = nil, nil
	}
	if a.closeLog != nil {
		if cerr := a.closeLog(); err == nil {
			err = cerr
		}
		a.closeLog = nil
	}
	return err
}

func (a *App) options() tui.Options {
	return tui.Options{
		MinutesPerRow:    a.config.Grid.MinutesPerRow,
		GapMinutes:       a.config.Layout.GapMinutes,
		MinHeightMinutes: a.config.Layout.MinHeightMinutes,
		WeekStart:        a.config.WeekStart(),
	}
}

func (a *App) runTUI() error {
	app := tui.NewApp(a.svc, a.options(), a.log)
	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	a.log.Info("tui started")
	_, err := p.Run()
	return err
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the version number",
		Annotations: map[string]string{"store": "none"},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "timetable %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}
