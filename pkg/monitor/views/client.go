package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/openpanel/panel/internal/catalog"
	"github.com/openpanel/panel/internal/models"
	"github.com/openpanel/panel/pkg/monitor/modal"
	"github.com/openpanel/panel/pkg/monitor/modals"
)

const (
	clientWidth = 60

	fieldName     = "name"
	fieldProject  = "project"
	fieldProjects = "projects"
	fieldCORS     = "cors"
	fieldSecret   = "secret"

	actionSave   = "save"
	actionCancel = "cancel"
)

// noProjectItem is the list item standing for an organization-wide client.
const (
	noProjectItem  = "none"
	noProjectLabel = "No project (organization-wide)"
)

func itemID(projectID string) string {
	if projectID == "" {
		return noProjectItem
	}
	return projectID
}

func projectOf(item modal.ListItem) string {
	if item.ID == noProjectItem {
		return ""
	}
	return item.ID
}

// projectsMsg delivers the project list a client dialog offers.
type projectsMsg struct {
	key      string
	projects []models.Project
	err      error
}

// clientDialog implements AddClient and EditClient.
type clientDialog struct {
	deps Deps
	env  modals.Env
	edit bool
	// id of the client being edited
	id string

	name   textinput.Model
	cors   textinput.Model
	secret bool

	projectID string
	loaded    bool
	// Exactly one of picker and list is set, depending on Deps.ProjectPicker.
	picker  *projectPicker
	list    *modal.ListSection
	listIdx int

	modal     *modal.Modal
	lastFocus string
	saving    bool
	nameErr   string
	err       string
}

func newAddClient(deps Deps) modals.Factory {
	return func(props any, env modals.Env) (modals.View, error) {
		var p AddClientProps
		switch v := props.(type) {
		case nil:
		case AddClientProps:
			p = v
		case *AddClientProps:
			p = *v
		default:
			return nil, badProps(env.Name, props)
		}
		return newClientDialog(deps, env, false, models.Client{ProjectID: p.ProjectID}), nil
	}
}

func newEditClient(deps Deps) modals.Factory {
	return func(props any, env modals.Env) (modals.View, error) {
		var p EditClientProps
		switch v := props.(type) {
		case EditClientProps:
			p = v
		case *EditClientProps:
			p = *v
		default:
			return nil, badProps(env.Name, props)
		}
		if p.Client.ID == "" {
			return nil, badProps(env.Name, props)
		}
		return newClientDialog(deps, env, true, p.Client), nil
	}
}

func newClientDialog(deps Deps, env modals.Env, edit bool, c models.Client) *clientDialog {
	v := &clientDialog{
		deps:      deps,
		env:       env,
		edit:      edit,
		id:        c.ID,
		name:      textinput.New(),
		cors:      textinput.New(),
		projectID: c.ProjectID,
	}
	v.name.Placeholder = "Website"
	v.name.CharLimit = 64
	v.name.SetValue(c.Name)
	v.cors.Placeholder = "https://example.com, https://app.example.com"
	v.cors.SetValue(strings.Join(c.CORS, ", "))

	title := "Create client"
	if edit {
		title = "Edit client"
	}
	m := modal.New(title, modal.WithWidth(clientWidth), modal.WithPrimaryAction(actionSave)).
		AddSection(modal.Input(fieldName, &v.name, modal.WithLabel("Name"), modal.WithError(func() string { return v.nameErr }))).
		AddSection(modal.Spacer())

	if deps.ProjectPicker {
		v.picker = newProjectPicker()
		m.AddSection(modal.Input(fieldProject, &v.picker.input, modal.WithLabel("Project")))
	} else {
		v.list = modal.List(fieldProjects, nil, &v.listIdx, modal.WithMaxVisible(4))
		m.AddSection(modal.Text(modal.MutedText.Render("Project"))).AddSection(v.list)
	}

	m.AddSection(modal.Spacer()).
		AddSection(modal.Input(fieldCORS, &v.cors, modal.WithLabel("Allowed origins")))

	if edit {
		m.AddSection(modal.Text(modal.MutedText.Render(fmt.Sprintf("Client %s · %s", c.ID, c.Type()))))
	} else {
		m.AddSection(modal.Checkbox(fieldSecret, "Server-side client (generate a secret)", &v.secret))
	}

	m.AddSection(modal.Spacer()).
		AddSection(modal.Custom(v.renderStatus, nil)).
		AddSection(modal.Buttons(
			modal.Btn(" Save ", actionSave),
			modal.Btn(" Cancel ", actionCancel),
		))

	v.modal = m
	return v
}

func (v *clientDialog) Init() tea.Cmd {
	focus := v.modal.Focus()
	v.lastFocus = v.modal.FocusedID()
	return tea.Batch(focus, v.fetchProjects())
}

func (v *clientDialog) fetchProjects() tea.Cmd {
	key, deps := v.env.Key, v.deps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deps.timeout())
		defer cancel()
		projects, err := deps.Catalog.ListProjects(ctx, deps.OrgID)
		return projectsMsg{key: key, projects: projects, err: err}
	}
}

func (v *clientDialog) Update(msg tea.Msg) (modals.View, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsMsg:
		if msg.key == v.env.Key {
			v.setProjects(msg.projects, msg.err)
		}
		return v, nil

	case SavedMsg:
		if msg.Key != v.env.Key {
			return v, nil
		}
		v.saving = false
		if msg.Err != nil {
			v.err = msg.Err.Error()
			return v, nil
		}
		v.env.Close()
		return v, nil

	case tea.KeyMsg:
		if v.saving {
			return v, nil
		}
		if v.picker != nil && v.modal.FocusedID() == fieldProject {
			if handled, cmd := v.pickerKey(msg); handled {
				return v, cmd
			}
		}
		action, cmd := v.modal.HandleKey(msg)
		v.focusChanged()
		if v.picker != nil && v.picker.open && v.modal.FocusedID() == fieldProject {
			v.picker.refilter()
		}
		return v, tea.Batch(cmd, v.act(action))

	case tea.MouseMsg:
		if v.saving {
			return v, nil
		}
		if v.picker != nil && v.picker.open && v.picker.rect.Contains(msg.X, msg.Y) {
			if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
				if idx, ok := v.picker.itemAt(msg.X, msg.Y); ok {
					v.choose(idx)
				}
			}
			return v, nil
		}
		action, cmd := v.modal.HandleMouse(msg)
		v.focusChanged()
		return v, tea.Batch(cmd, v.act(action))
	}
	return v, nil
}

// pickerKey handles navigation keys while the project input is focused.
func (v *clientDialog) pickerKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	p := v.picker
	switch msg.String() {
	case "down":
		if !p.open {
			p.activate()
		} else {
			p.move(1)
		}
		return true, nil
	case "up":
		if p.open {
			p.move(-1)
			return true, nil
		}
	case "enter":
		if p.open {
			v.choose(p.cursor)
			return true, nil
		}
	}
	return false, nil
}

func (v *clientDialog) choose(idx int) {
	if v.picker.choose(idx) {
		v.projectID = projectOf(v.picker.chosen)
	}
}

// focusChanged opens the picker when focus enters the project field and
// closes it when focus leaves.
func (v *clientDialog) focusChanged() {
	focus := v.modal.FocusedID()
	if focus == v.lastFocus {
		return
	}
	if v.picker != nil {
		switch {
		case focus == fieldProject:
			v.picker.activate()
		case v.lastFocus == fieldProject:
			v.picker.deactivate()
		}
	}
	v.lastFocus = focus
}

func (v *clientDialog) act(action string) tea.Cmd {
	switch action {
	case actionCancel:
		v.env.Close()
		return nil
	case actionSave:
		return v.submit()
	}
	// Other actions are list item ids; the list tracks its own selection.
	return nil
}

func (v *clientDialog) projectIndex(id string) int {
	if v.list == nil {
		return -1
	}
	for i, it := range v.list.Items() {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (v *clientDialog) setProjects(projects []models.Project, err error) {
	if err != nil {
		v.err = fmt.Sprintf("load projects: %v", err)
		return
	}
	items := []modal.ListItem{{ID: noProjectItem, Label: noProjectLabel}}
	for _, p := range projects {
		items = append(items, modal.ListItem{ID: p.ID, Label: p.Name, Data: p})
	}
	v.loaded = true

	if v.picker != nil {
		v.picker.setItems(items, itemID(v.projectID))
		return
	}
	v.list.SetItems(items)
	if idx := v.projectIndex(itemID(v.projectID)); idx >= 0 {
		v.listIdx = idx
	}
}

func (v *clientDialog) submit() tea.Cmd {
	if strings.TrimSpace(v.name.Value()) == "" {
		v.nameErr = "name is required"
		return v.modal.SetFocus(fieldName)
	}
	v.nameErr = ""
	v.err = ""

	if v.list != nil {
		if it, ok := v.list.Selected(); ok && v.loaded {
			v.projectID = projectOf(it)
		}
	}

	in := catalog.ClientInput{
		Name:       v.name.Value(),
		ProjectID:  v.projectID,
		CORS:       models.ParseOrigins(v.cors.Value()),
		WithSecret: v.secret,
	}
	v.saving = true
	deps, id, edit := v.deps, v.id, v.edit
	return deps.saveCmd(v.env.Key, func(ctx context.Context) (ChangedMsg, error) {
		if edit {
			c, err := deps.Catalog.UpdateClient(ctx, id, in)
			return ChangedMsg{Kind: ClientUpdated, Client: c}, err
		}
		c, err := deps.Catalog.CreateClient(ctx, deps.OrgID, in)
		return ChangedMsg{Kind: ClientCreated, Client: c}, err
	})
}

func (v *clientDialog) renderStatus(width int, _, _ string) modal.RenderedSection {
	switch {
	case v.saving:
		return modal.RenderedSection{Content: savingText.Render("Saving…")}
	case v.err != "":
		return modal.RenderedSection{Content: errorText.Width(width).Render(v.err)}
	case !v.loaded:
		return modal.RenderedSection{Content: savingText.Render("Loading projects…")}
	}
	return modal.RenderedSection{}
}

func (v *clientDialog) View(maxWidth int) string {
	return v.modal.Render(maxWidth)
}

// Portals draws the project dropdown while it is open.
func (v *clientDialog) Portals() []modals.Portal {
	if v.picker == nil || !v.picker.open || v.modal.FocusedID() != fieldProject {
		return nil
	}
	anchor, ok := v.modal.Region(fieldProject)
	if !ok {
		return nil
	}
	rect, content := v.picker.portal(anchor)
	return []modals.Portal{{Rect: rect, Content: content}}
}
