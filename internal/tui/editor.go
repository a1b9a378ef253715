package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timetable/internal/store"
)

// entryEditor changes the project and comment of one entry, or deletes it.
type entryEditor struct {
	form *huh.Form
	id   string

	// Form field pointers (survive value copies)
	projectID *string
	comment   *string
	remove    *bool
}

func newEntryEditor(e store.Entry, projects []store.Project) entryEditor {
	projectID, comment, remove := e.ProjectID, e.Comment, false
	ed := entryEditor{
		id:        e.ID,
		projectID: &projectID,
		comment:   &comment,
		remove:    &remove,
	}

	options := make([]huh.Option[string], 0, len(projects))
	for _, p := range projects {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color)).Render("●")
		options = append(options, huh.NewOption(dot+" "+p.Name, p.ID))
	}
	if len(options) == 0 {
		options = append(options, huh.NewOption("General", store.DefaultProjectID))
	}

	ed.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Project").Options(options...).Value(ed.projectID),
			huh.NewInput().Title("Comment").Value(ed.comment),
			huh.NewConfirm().Title("Delete this entry?").Affirmative("Delete").Negative("Keep").Value(ed.remove),
		),
	).WithShowHelp(true).WithShowErrors(true)
	return ed
}

// update feeds msg to the form. esc cancels.
func (ed *entryEditor) update(msg tea.Msg) (done, cancelled bool, cmd tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		return false, true, nil
	}
	form, cmd := ed.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		ed.form = f
	}
	switch ed.form.State {
	case huh.StateCompleted:
		return true, false, nil
	case huh.StateAborted:
		return false, true, nil
	}
	return false, false, cmd
}

func (ed entryEditor) deleted() bool {
	return *ed.remove
}

func (ed entryEditor) values() (projectID, comment string) {
	return *ed.projectID, *ed.comment
}

func (ed entryEditor) view() string {
	return ed.form.View()
}
