// Package monitor implements the organization settings dashboard. The
// dashboard is a bubbletea model with two pages, projects and clients, and
// the team's members and invites. It opens every dialog through a single
// modal Provider.
package monitor

import (
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/openpanel/panel/internal/catalog"
	"github.com/openpanel/panel/internal/config"
	"github.com/openpanel/panel/internal/features"
	"github.com/openpanel/panel/internal/models"
	"github.com/openpanel/panel/pkg/monitor/modals"
	"github.com/openpanel/panel/pkg/monitor/mouse"
	"github.com/openpanel/panel/pkg/monitor/views"
)

// Pane identifies one of the dashboard lists.
type Pane int

const (
	PaneProjects Pane = iota
	PaneClients
	PaneMembers
	PaneInvites
)

func (p Pane) String() string {
	switch p {
	case PaneClients:
		return "clients"
	case PaneMembers:
		return "members"
	case PaneInvites:
		return "invites"
	}
	return "projects"
}

// Pages pair the panes shown side by side.
var pages = [][2]Pane{
	{PaneProjects, PaneClients},
	{PaneMembers, PaneInvites},
}

func (p Pane) page() int {
	if p >= PaneMembers {
		return 1
	}
	return 0
}

// Options configures a dashboard model.
type Options struct {
	Catalog catalog.Catalog
	Org     models.Organization
	Config  config.Config
	Logger  *slog.Logger
	// Timeout bounds each catalog call. Zero means 10s.
	Timeout time.Duration
	// ModalOptions are appended to the Provider options derived from Config.
	ModalOptions []modals.Option
}

// Model is the settings dashboard.
type Model struct {
	Width  int
	Height int

	Org      models.Organization
	Projects []models.Project
	Clients  []models.Client
	Members  []models.Member
	Invites  []models.Invite

	ActivePane    Pane
	ProjectRow    int
	ClientRow     int
	MemberRow     int
	InviteRow     int
	ProjectScroll int
	ClientScroll  int
	MemberScroll  int
	InviteScroll  int

	StatusMessage string
	StatusIsError bool
	LastRefresh   time.Time
	// Err is set when the dashboard quit because of an unrecoverable error.
	Err error

	catalog catalog.Catalog
	timeout time.Duration
	logger  *slog.Logger

	bus    *modals.Bus
	modals *modals.Provider
	mouse  *mouse.Handler

	// clipboard is swapped in tests.
	clipboard func(string) error
}

// NewModel builds a dashboard and mounts its modal Provider.
func NewModel(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	deps := views.Deps{
		Catalog:       opts.Catalog,
		OrgID:         opts.Org.ID,
		ProjectPicker: features.IsEnabled(opts.Config, features.ClientProjectPicker.Name),
		Timeout:       timeout,
		Logger:        logger,
	}

	bus := modals.NewBus()
	providerOpts := []modals.Option{
		modals.WithDismissByKey(features.IsEnabled(opts.Config, features.ModalDismissByKey.Name)),
		modals.WithBackdrop(opts.Config.UI.Backdrop),
		modals.WithLogger(logger),
	}
	provider := modals.NewProvider(bus, views.Registry(deps), append(providerOpts, opts.ModalOptions...)...)
	provider.Mount()

	return Model{
		Org:       opts.Org,
		catalog:   opts.Catalog,
		timeout:   timeout,
		logger:    logger,
		bus:       bus,
		modals:    provider,
		mouse:     mouse.NewHandler(),
		clipboard: copyToClipboard,
	}
}

// Modals returns the dashboard's modal Provider.
func (m Model) Modals() *modals.Provider { return m.modals }

// Init starts the first data fetch.
func (m Model) Init() tea.Cmd {
	return m.fetchData()
}

// Update implements tea.Model. Every message goes to the modal Provider
// first; handled messages stop there.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	handled, cmd := m.modals.Update(msg)
	if handled {
		return m, tea.Batch(cmd, m.modals.Flush())
	}
	var own tea.Cmd
	m, own = m.handle(msg)
	return m, tea.Batch(cmd, own, m.modals.Flush())
}

func (m Model) handle(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.ensureVisible()
		return m, nil

	case RefreshDataMsg:
		if msg.Err != nil {
			m.setStatus(fmt.Sprintf("refresh failed: %v", msg.Err), true)
			return m, nil
		}
		m.Projects = msg.Projects
		m.Clients = msg.Clients
		m.Members = msg.Members
		m.Invites = msg.Invites
		m.LastRefresh = msg.Timestamp
		m.clampRows()
		m.ensureVisible()
		return m, nil

	case views.SavedMsg:
		if msg.Err != nil {
			// An open dialog shows its own error.
			if _, open := m.modals.Stack().Find(msg.Key); !open {
				m.setStatus(fmt.Sprintf("save failed: %v", msg.Err), true)
			}
			return m, nil
		}
		return m.handle(msg.Changed)

	case views.ChangedMsg:
		m.setStatus(msg.Status(), false)
		m.logger.Info("settings changed", "kind", string(msg.Kind))
		return m, m.fetchData()

	case removedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("delete %s: %v", msg.what, msg.err), true)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Deleted %s %q", msg.what, msg.name), false)
		m.logger.Info("settings removed", "what", msg.what, "id", msg.id)
		return m, m.fetchData()

	case revokedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("revoke invite for %s: %v", msg.email, msg.err), true)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Invite for %s revoked", msg.email), false)
		m.logger.Info("invite revoked", "id", msg.id)
		return m, m.fetchData()

	case statusMsg:
		m.setStatus(msg.text, msg.isError)
		return m, nil

	case modals.LoadErrorMsg:
		m.logger.Error("modal failed", "name", string(msg.Name), "err", msg.Err)
		m.Err = msg
		return m, m.quit()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m *Model) setStatus(text string, isError bool) {
	m.StatusMessage = text
	m.StatusIsError = isError
}

func (m Model) quit() tea.Cmd {
	m.modals.Unmount()
	return tea.Quit
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, m.quit()
	case "tab", "shift+tab":
		pair := pages[m.ActivePane.page()]
		if m.ActivePane == pair[0] {
			m.ActivePane = pair[1]
		} else {
			m.ActivePane = pair[0]
		}
	case "1":
		if m.ActivePane.page() != 0 {
			m.ActivePane = PaneProjects
		}
	case "2":
		if m.ActivePane.page() != 1 {
			m.ActivePane = PaneMembers
		}
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "g", "home":
		m.setCursor(0)
	case "G", "end":
		m.setCursor(m.paneLen(m.ActivePane) - 1)
	case "R":
		m.setStatus("Refreshing…", false)
		return m, m.fetchData()

	case "a":
		m.bus.PushModal(modals.AddProject, nil)
	case "e":
		m.editSelected()
	case "d":
		m.confirmDelete()
	case "c":
		props := views.AddClientProps{}
		if p, ok := m.selectedProject(); ok && m.ActivePane == PaneProjects {
			props.ProjectID = p.ID
		}
		m.bus.PushModal(modals.AddClient, props)
	case "C":
		if c, ok := m.selectedClient(); ok {
			m.bus.PushModal(modals.EditClient, views.EditClientProps{Client: c})
		}
	case "i":
		m.bus.PushModal(modals.AddInvite, views.AddInviteProps{Projects: m.Projects})
	case "r":
		if p, ok := m.selectedProject(); ok {
			m.bus.PushModal(modals.SaveReport, views.SaveReportProps{ProjectID: p.ID})
		} else {
			m.setStatus("Create a project before saving reports", true)
		}
	case "y":
		if c, ok := m.selectedClient(); ok {
			return m, m.copyCmd(c.ID, "client id")
		}
	case "Y":
		if c, ok := m.selectedClient(); ok {
			return m, m.copyCmd(formatClientAsMarkdown(c, m.projectName(c.ProjectID)), "client details")
		}
	}
	return m, nil
}

func (m *Model) editSelected() {
	switch m.ActivePane {
	case PaneProjects:
		if p, ok := m.selectedProject(); ok {
			m.bus.PushModal(modals.EditProject, views.EditProjectProps{Project: p})
		}
	case PaneClients:
		if c, ok := m.selectedClient(); ok {
			m.bus.PushModal(modals.EditClient, views.EditClientProps{Client: c})
		}
	}
}

// confirmDelete asks before removing the selected project or client, or
// revoking the selected invite.
func (m *Model) confirmDelete() {
	switch m.ActivePane {
	case PaneProjects:
		p, ok := m.selectedProject()
		if !ok {
			return
		}
		m.bus.ShowConfirm(modals.ConfirmProps{
			Title:        "Delete project",
			Text:         fmt.Sprintf("Delete **%s**? Its saved reports are removed and its clients become organization-wide.", p.Name),
			ConfirmLabel: "Delete",
			Danger:       true,
			OnConfirm:    func() tea.Cmd { return m.removeProjectCmd(p) },
		})
	case PaneClients:
		c, ok := m.selectedClient()
		if !ok {
			return
		}
		m.bus.ShowConfirm(modals.ConfirmProps{
			Title:        "Delete client",
			Text:         fmt.Sprintf("Delete **%s** (`%s`)? Applications using it stop sending events.", c.Name, c.ID),
			ConfirmLabel: "Delete",
			Danger:       true,
			OnConfirm:    func() tea.Cmd { return m.removeClientCmd(c) },
		})
	case PaneInvites:
		inv, ok := m.selectedInvite()
		if !ok {
			return
		}
		if inv.Status != models.InvitePending {
			m.setStatus(fmt.Sprintf("Invite for %s is already %s", inv.Email, inv.Status), true)
			return
		}
		m.bus.ShowConfirm(modals.ConfirmProps{
			Title:        "Revoke invite",
			Text:         fmt.Sprintf("Revoke the invite for **%s**? The link in their email stops working.", inv.Email),
			ConfirmLabel: "Revoke",
			Danger:       true,
			OnConfirm:    func() tea.Cmd { return m.revokeInviteCmd(inv) },
		})
	}
}

func (m Model) copyCmd(text, what string) tea.Cmd {
	write := m.clipboard
	return func() tea.Msg {
		if err := write(text); err != nil {
			return statusMsg{text: fmt.Sprintf("copy failed: %v", err), isError: true}
		}
		return statusMsg{text: "Copied " + what}
	}
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	action := m.mouse.HandleMouse(msg)
	switch action.Type {
	case mouse.ActionScrollUp, mouse.ActionScrollDown:
		if action.Region == nil {
			return m, nil
		}
		if pane, ok := paneOf(action.Region); ok {
			m.ActivePane = pane
			delta := 1
			if action.Type == mouse.ActionScrollUp {
				delta = -1
			}
			m.moveCursor(delta)
		}
	case mouse.ActionClick, mouse.ActionDoubleClick:
		if action.Region == nil {
			return m, nil
		}
		row, ok := action.Region.Data.(rowRef)
		if !ok {
			if pane, ok := paneOf(action.Region); ok {
				m.ActivePane = pane
			}
			return m, nil
		}
		m.ActivePane = row.pane
		m.setCursor(row.index)
		if action.Type == mouse.ActionDoubleClick {
			m.editSelected()
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.Width == 0 || m.Height == 0 {
		return "Loading…"
	}
	return m.modals.View(m.renderDashboard(), m.Width, m.Height)
}

func (m Model) selectedProject() (models.Project, bool) {
	if m.ProjectRow < 0 || m.ProjectRow >= len(m.Projects) {
		return models.Project{}, false
	}
	return m.Projects[m.ProjectRow], true
}

func (m Model) selectedClient() (models.Client, bool) {
	if m.ClientRow < 0 || m.ClientRow >= len(m.Clients) {
		return models.Client{}, false
	}
	return m.Clients[m.ClientRow], true
}

func (m Model) selectedInvite() (models.Invite, bool) {
	if m.InviteRow < 0 || m.InviteRow >= len(m.Invites) {
		return models.Invite{}, false
	}
	return m.Invites[m.InviteRow], true
}

func (m Model) projectName(id string) string {
	for _, p := range m.Projects {
		if p.ID == id {
			return p.Name
		}
	}
	return ""
}
