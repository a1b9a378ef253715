package export

import (
	"fmt"
	"os"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/sadopc/timetable/internal/store"
)

const productID = "-//timetable//time entries//EN"

// ToICS writes entries as VEVENTs. The summary is the comment when there is
// one, the project name otherwise; the project always goes to CATEGORIES.
func ToICS(entries []store.Entry, projects map[string]*store.Project, path string) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	stamp := time.Now().UTC()
	for _, e := range entries {
		name := projectName(projects, e.ProjectID)

		ev := cal.AddEvent(e.ID + "@timetable")
		ev.SetDtStampTime(stamp)
		ev.SetCreatedTime(e.CreatedAt)
		ev.SetStartAt(e.Start)
		ev.SetEndAt(e.End)
		ev.SetProperty(ical.ComponentPropertyCategories, name)
		if e.Comment != "" {
			ev.SetSummary(e.Comment)
			ev.SetDescription(fmt.Sprintf("%s, %s", name, formatDuration(minutes(e))))
		} else {
			ev.SetSummary(name)
		}
	}

	if err := os.WriteFile(path, []byte(cal.Serialize()), 0o644); err != nil {
		return fmt.Errorf("write ics file: %w", err)
	}
	return nil
}
