package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/timetable/internal/store"
)

func ToCSV(entries []store.Entry, projects map[string]*store.Project, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Project", "Start", "End", "Minutes", "Duration", "Comment"}); err != nil {
		return err
	}

	for _, e := range entries {
		mins := minutes(e)
		row := []string{
			e.ID,
			projectName(projects, e.ProjectID),
			e.Start.Local().Format(time.RFC3339),
			e.End.Local().Format(time.RFC3339),
			strconv.Itoa(mins),
			formatDuration(mins),
			e.Comment,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func projectName(projects map[string]*store.Project, id string) string {
	if p, ok := projects[id]; ok {
		return p.Name
	}
	return "Unknown"
}

func minutes(e store.Entry) int {
	return int(e.Duration() / time.Minute)
}

// formatDuration renders minutes as HH:MM.
func formatDuration(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}
