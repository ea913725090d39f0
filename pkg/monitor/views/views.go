// Package views implements the registered modal kinds of the settings
// dashboard: Confirm, AddProject, EditProject, AddClient, EditClient,
// SaveReport and AddInvite.
package views

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/openpanel/panel/internal/catalog"
	"github.com/openpanel/panel/internal/models"
	"github.com/openpanel/panel/pkg/monitor/modals"
)

// Deps are the collaborators shared by every modal kind.
type Deps struct {
	Catalog catalog.Catalog
	OrgID   string
	// ProjectPicker enables the fuzzy dropdown in client dialogs. When off
	// client dialogs show an inline project list.
	ProjectPicker bool
	// Timeout bounds each catalog call. Zero means 10s.
	Timeout time.Duration
	Logger  *slog.Logger
}

func (d Deps) timeout() time.Duration {
	if d.Timeout > 0 {
		return d.Timeout
	}
	return 10 * time.Second
}

func (d Deps) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// EditProjectProps opens EditProject for an existing project.
type EditProjectProps struct {
	Project models.Project
}

// AddProjectProps configures AddProject. A nil props value is accepted.
type AddProjectProps struct {
	Name string // initial value
}

// EditClientProps opens EditClient for an existing client.
type EditClientProps struct {
	Client models.Client
}

// AddClientProps configures AddClient. A nil props value is accepted.
type AddClientProps struct {
	ProjectID string // preselected project
}

// SaveReportProps configures SaveReport.
type SaveReportProps struct {
	ProjectID string
	Name      string
	Chart     models.Chart
}

// AddInviteProps configures AddInvite. Projects are the ones the invite can
// grant; without them the dialog offers no access choice. A nil props value
// is accepted.
type AddInviteProps struct {
	Projects []models.Project
	Email    string      // initial value
	Role     models.Role // defaults to member
	Access   []string    // preselected project IDs
}

// ChangeKind identifies what a dialog changed.
type ChangeKind string

const (
	ProjectCreated ChangeKind = "project_created"
	ProjectUpdated ChangeKind = "project_updated"
	ClientCreated  ChangeKind = "client_created"
	ClientUpdated  ChangeKind = "client_updated"
	ReportSaved    ChangeKind = "report_saved"
	InviteCreated  ChangeKind = "invite_created"
)

// ChangedMsg describes a successful save, so the host can refetch the data
// it shows.
type ChangedMsg struct {
	Kind    ChangeKind
	Project models.Project
	Client  models.Client
	Report  models.Report
	Invite  models.Invite
}

// Status renders the change as a one-line confirmation.
func (m ChangedMsg) Status() string {
	switch m.Kind {
	case ProjectCreated:
		return fmt.Sprintf("created project %s", m.Project.Name)
	case ProjectUpdated:
		return fmt.Sprintf("renamed project to %s", m.Project.Name)
	case ClientCreated:
		if m.Client.Secret != "" {
			return fmt.Sprintf("created client %s (secret %s)", m.Client.Name, m.Client.Secret)
		}
		return fmt.Sprintf("created client %s", m.Client.Name)
	case ClientUpdated:
		return fmt.Sprintf("updated client %s", m.Client.Name)
	case ReportSaved:
		return fmt.Sprintf("saved report %s", m.Report.Name)
	case InviteCreated:
		return fmt.Sprintf("invited %s as %s", m.Invite.Email, m.Invite.Role.Label())
	}
	return ""
}

// SavedMsg carries the result of a dialog's catalog call. The dialog with
// Key reacts to it, and the host sees it too, even when that dialog was
// dismissed while saving.
type SavedMsg struct {
	Key     string
	Changed ChangedMsg
	Err     error
}

// saveCmd runs fn off the UI goroutine with the configured timeout.
func (d Deps) saveCmd(key string, fn func(ctx context.Context) (ChangedMsg, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout())
		defer cancel()
		changed, err := fn(ctx)
		return SavedMsg{Key: key, Changed: changed, Err: err}
	}
}

// Registry returns the modal registry for the settings dashboard.
func Registry(deps Deps) modals.Registry {
	return modals.Registry{
		modals.Confirm:     {Load: loadConfirm},
		modals.AddProject:  {Load: modals.Eager(newAddProject(deps))},
		modals.EditProject: {Load: modals.Eager(newEditProject(deps))},
		modals.AddClient:   {Load: modals.Eager(newAddClient(deps))},
		modals.EditClient:  {Load: modals.Eager(newEditClient(deps))},
		modals.SaveReport:  {Load: modals.Eager(newSaveReport(deps))},
		modals.AddInvite:   {Load: modals.Eager(newAddInvite(deps))},
	}
}

func badProps(name modals.Name, props any) error {
	return fmt.Errorf("%s got %T: %w", name, props, modals.ErrBadProps)
}
