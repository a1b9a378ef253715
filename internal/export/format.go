package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sadopc/timetable/internal/store"
)

// Format is an export file format.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
	ICS  Format = "ics"
)

// Formats lists the supported formats in menu order.
var Formats = []Format{CSV, JSON, ICS}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q (want csv, json or ics)", s)
}

// Write exports entries to path in format f.
func Write(f Format, entries []store.Entry, projects map[string]*store.Project, path string) error {
	switch f {
	case CSV:
		return ToCSV(entries, projects, path)
	case JSON:
		return ToJSON(entries, projects, path)
	case ICS:
		return ToICS(entries, projects, path)
	}
	return fmt.Errorf("unknown export format %q", f)
}

// DefaultPath returns dir/timetable-export-YYYY-MM-DD.<format>.
func DefaultPath(dir string, f Format, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("timetable-export-%s.%s", now.Format(time.DateOnly), f))
}

// ProjectIndex maps project IDs to projects for the writers.
func ProjectIndex(projects []store.Project) map[string]*store.Project {
	out := make(map[string]*store.Project, len(projects))
	for i := range projects {
		out[projects[i].ID] = &projects[i]
	}
	return out
}

// AllTime is a range wide enough to cover every stored entry.
func AllTime() (from, to time.Time) {
	return time.Unix(0, 0), time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
}
