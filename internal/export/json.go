package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/timetable/internal/store"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Entries    []jsonEntry `json:"entries"`
}

type jsonEntry struct {
	ID        string `json:"id"`
	Project   string `json:"project"`
	ProjectID string `json:"project_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Minutes   int    `json:"minutes"`
	Duration  string `json:"duration"`
	Comment   string `json:"comment,omitempty"`
}

func ToJSON(entries []store.Entry, projects map[string]*store.Project, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(entries),
	}

	for _, e := range entries {
		mins := minutes(e)
		export.Entries = append(export.Entries, jsonEntry{
			ID:        e.ID,
			Project:   projectName(projects, e.ProjectID),
			ProjectID: e.ProjectID,
			StartTime: e.Start.Local().Format(time.RFC3339),
			EndTime:   e.End.Local().Format(time.RFC3339),
			Minutes:   mins,
			Duration:  formatDuration(mins),
			Comment:   e.Comment,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
