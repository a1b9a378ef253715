package tui

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timetable/internal/planner"
	"github.com/sadopc/timetable/internal/store"
)

var projectColors = []string{"#8b4dff", "#6C63FF", "#2EC4B6", "#FF6B6B", "#F39C12", "#2ECC71", "#E74C3C", "#3498DB"}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// projectRowsTop is the first list line: border, padding, title, blank
// and the table header come before it.
const projectRowsTop = 5

type projectForm int

const (
	formNone projectForm = iota
	formNewProject
	formEditProject
	formDeleteProject
)

type projectsModel struct {
	svc    *planner.Service
	log    *slog.Logger
	width  int
	height int

	projects []store.Project
	cursor   int

	form     *huh.Form
	formType projectForm

	// Form field pointers (survive value copies)
	formName    *string
	formColor   *string
	formConfirm *bool

	editingID string
}

func newProjectsModel(svc *planner.Service, log *slog.Logger) projectsModel {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	name, color, confirm := "", projectColors[0], false
	return projectsModel{
		svc:         svc,
		log:         log,
		formName:    &name,
		formColor:   &color,
		formConfirm: &confirm,
	}
}

func (p *projectsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p projectsModel) formActive() bool {
	return p.formType != formNone && p.form != nil
}

type projectsDataMsg struct {
	projects []store.Project
	err      error
}

func (p projectsModel) refresh() tea.Cmd {
	svc := p.svc
	return func() tea.Msg {
		projects, err := svc.Store().ListProjects()
		return projectsDataMsg{projects: projects, err: err}
	}
}

func (p projectsModel) update(msg tea.Msg) (projectsModel, tea.Cmd) {
	if _, ok := msg.(projectsDataMsg); !ok && p.formActive() {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case projectsDataMsg:
		if msg.err != nil {
			p.log.Error("listing projects", "err", msg.err)
			return p, func() tea.Msg { return errStatus("Load failed", msg.err) }
		}
		p.projects = msg.projects
		if p.cursor >= len(p.projects) {
			p.cursor = max(0, len(p.projects)-1)
		}
		return p, nil

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if i := msg.Y - projectRowsTop; i >= 0 && i < len(p.projects) {
				p.cursor = i
			}
		}
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
		case key.Matches(msg, keys.Down):
			if p.cursor < len(p.projects)-1 {
				p.cursor++
			}
		case key.Matches(msg, keys.New):
			return p.showProjectForm(formNewProject)
		case key.Matches(msg, keys.Enter):
			if len(p.projects) > 0 {
				return p.showProjectForm(formEditProject)
			}
		case key.Matches(msg, keys.Delete):
			if len(p.projects) > 0 {
				return p.showDeleteForm()
			}
		}
	}
	return p, nil
}

func (p projectsModel) showProjectForm(kind projectForm) (projectsModel, tea.Cmd) {
	*p.formName = ""
	*p.formColor = projectColors[len(p.projects)%len(projectColors)]
	p.editingID = ""
	if kind == formEditProject {
		proj := p.projects[p.cursor]
		*p.formName = proj.Name
		*p.formColor = proj.Color
		p.editingID = proj.ID
	}
	p.formType = kind

	colorOptions := make([]huh.Option[string], 0, len(projectColors)+1)
	known := false
	for _, c := range projectColors {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("●")
		colorOptions = append(colorOptions, huh.NewOption(fmt.Sprintf("%s %s", dot, c), c))
		known = known || strings.EqualFold(c, *p.formColor)
	}
	if !known {
		colorOptions = append(colorOptions, huh.NewOption("● "+*p.formColor, *p.formColor))
	}

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Project Name").Value(p.formName).Validate(validateProjectName),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(p.formColor),
		),
	).WithShowHelp(true).WithShowErrors(true)

	return p, p.form.Init()
}

func (p projectsModel) showDeleteForm() (projectsModel, tea.Cmd) {
	proj := p.projects[p.cursor]
	if proj.ID == store.DefaultProjectID {
		return p, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("%q is the default project and cannot be deleted", proj.Name), isError: true}
		}
	}
	*p.formConfirm = false
	p.editingID = proj.ID
	p.formType = formDeleteProject
	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", proj.Name)).
				Description("Its entries move to the default project.").
				Affirmative("Delete").
				Negative("Keep").
				Value(p.formConfirm),
		),
	).WithShowHelp(true)
	return p, p.form.Init()
}

func validateProjectName(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}

func (p projectsModel) updateForm(msg tea.Msg) (projectsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		p.formType = formNone
		p.form = nil
		return p, nil
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	switch p.form.State {
	case huh.StateAborted:
		p.formType = formNone
		p.form = nil
		return p, nil
	case huh.StateCompleted:
		kind := p.formType
		p.formType = formNone
		p.form = nil
		return p, p.save(kind)
	}
	return p, cmd
}

// save writes the completed form and reports the outcome.
func (p projectsModel) save(kind projectForm) tea.Cmd {
	st, log := p.svc.Store(), p.log
	name := strings.TrimSpace(*p.formName)
	color := *p.formColor
	id := p.editingID
	confirmed := *p.formConfirm

	return func() tea.Msg {
		switch kind {
		case formNewProject:
			if !hexColor.MatchString(color) {
				return statusMsg{text: "Invalid color " + color, isError: true}
			}
			proj, err := st.AddProject(name, color)
			if err != nil {
				log.Error("adding project", "name", name, "err", err)
				return statusMsg{text: fmt.Sprintf("Add project: %v", err), isError: true}
			}
			log.Info("project added", "id", proj.ID, "name", proj.Name)
		case formEditProject:
			proj, err := st.UpdateProject(id, store.ProjectPatch{Name: &name, Color: &color})
			if err != nil {
				log.Error("updating project", "id", id, "err", err)
				return statusMsg{text: fmt.Sprintf("Update project: %v", err), isError: true}
			}
			if proj == nil {
				return statusMsg{text: "Project no longer exists", isError: true}
			}
		case formDeleteProject:
			if !confirmed {
				return nil
			}
			ok, err := st.DeleteProject(id)
			if err != nil {
				log.Error("deleting project", "id", id, "err", err)
				return statusMsg{text: fmt.Sprintf("Delete project: %v", err), isError: true}
			}
			if !ok {
				return statusMsg{text: "Project not deleted", isError: true}
			}
			log.Info("project deleted", "id", id)
		}
		return projectsChangedMsg{}
	}
}

func (p projectsModel) view() string {
	w := p.width - 4
	if p.formActive() {
		title := "New Project"
		switch p.formType {
		case formEditProject:
			title = "Edit Project"
		case formDeleteProject:
			title = "Delete Project"
		}
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), "", p.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Projects")
	if len(p.projects) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No projects yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-3s %-24s %-10s", "", "Name", "Color")))

	for i, proj := range p.projects {
		colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(proj.Color)).Render("●")
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		name := proj.Name
		if proj.ID == store.DefaultProjectID {
			name += " (default)"
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %-24s %-10s", cursor, colorDot, name, proj.Color)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  enter: edit  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
