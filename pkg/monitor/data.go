package monitor

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/openpanel/panel/internal/catalog"
	"github.com/openpanel/panel/internal/models"
)

// RefreshDataMsg carries the lists shown by the dashboard.
type RefreshDataMsg struct {
	Projects  []models.Project
	Clients   []models.Client
	Members   []models.Member
	Invites   []models.Invite
	Timestamp time.Time
	Err       error
}

// removedMsg reports the outcome of a confirmed delete.
type removedMsg struct {
	what string
	id   string
	name string
	err  error
}

// revokedMsg reports the outcome of a confirmed invite revocation.
type revokedMsg struct {
	id    string
	email string
	err   error
}

// statusMsg sets the footer status line.
type statusMsg struct {
	text    string
	isError bool
}

// FetchData retrieves everything the dashboard displays for orgID.
func FetchData(ctx context.Context, cat catalog.Catalog, orgID string) RefreshDataMsg {
	msg := RefreshDataMsg{Timestamp: time.Now()}

	projects, err := cat.ListProjects(ctx, orgID)
	if err != nil {
		msg.Err = fmt.Errorf("list projects: %w", err)
		return msg
	}
	msg.Projects = projects

	clients, err := cat.ListClients(ctx, orgID)
	if err != nil {
		msg.Err = fmt.Errorf("list clients: %w", err)
		return msg
	}
	msg.Clients = clients

	members, err := cat.ListMembers(ctx, orgID)
	if err != nil {
		msg.Err = fmt.Errorf("list members: %w", err)
		return msg
	}
	msg.Members = members

	invites, err := cat.ListInvites(ctx, orgID)
	if err != nil {
		msg.Err = fmt.Errorf("list invites: %w", err)
		return msg
	}
	msg.Invites = invites

	return msg
}

func (m Model) fetchData() tea.Cmd {
	cat, orgID, timeout := m.catalog, m.Org.ID, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return FetchData(ctx, cat, orgID)
	}
}

func (m Model) removeProjectCmd(p models.Project) tea.Cmd {
	cat, timeout := m.catalog, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := cat.RemoveProject(ctx, p.ID)
		return removedMsg{what: "project", id: p.ID, name: p.Name, err: err}
	}
}

func (m Model) removeClientCmd(c models.Client) tea.Cmd {
	cat, timeout := m.catalog, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := cat.RemoveClient(ctx, c.ID)
		return removedMsg{what: "client", id: c.ID, name: c.Name, err: err}
	}
}

func (m Model) revokeInviteCmd(inv models.Invite) tea.Cmd {
	cat, timeout := m.catalog, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := cat.RevokeInvite(ctx, inv.ID)
		return revokedMsg{id: inv.ID, email: inv.Email, err: err}
	}
}

// clientCounts returns the number of clients attached to each project.
func clientCounts(clients []models.Client) map[string]int {
	counts := make(map[string]int, len(clients))
	for _, c := range clients {
		counts[c.ProjectID]++
	}
	return counts
}
