package catalog

import (
	"context"
	"fmt"

	"github.com/openpanel/panel/internal/models"
)

// NewDemo returns a store seeded with one organization, a few projects,
// clients and a small team, for the settings command and manual testing.
func NewDemo(org models.Organization) (*Memory, error) {
	m := NewMemory(org)
	ctx := context.Background()

	var projects []models.Project
	for _, name := range []string{"Marketing site", "Mobile app", "Docs"} {
		p, err := m.CreateProject(ctx, org.ID, name)
		if err != nil {
			return nil, fmt.Errorf("seed project %q: %w", name, err)
		}
		projects = append(projects, p)
	}

	clients := []ClientInput{
		{Name: "Website", ProjectID: projects[0].ID, CORS: []string{"https://example.com"}},
		{Name: "Backend", ProjectID: projects[1].ID, WithSecret: true},
		{Name: "Organization export", WithSecret: true},
	}
	for _, in := range clients {
		if _, err := m.CreateClient(ctx, org.ID, in); err != nil {
			return nil, fmt.Errorf("seed client %q: %w", in.Name, err)
		}
	}

	team := []struct {
		name string
		in   InviteInput
	}{
		{"Ada Admin", InviteInput{Email: "ada@example.com", Role: models.RoleAdmin}},
		{"Max Member", InviteInput{Email: "max@example.com", Access: []string{projects[1].ID}}},
	}
	for _, u := range team {
		inv, err := m.CreateInvite(ctx, org.ID, u.in)
		if err != nil {
			return nil, fmt.Errorf("seed invite %q: %w", u.in.Email, err)
		}
		if _, err := m.AcceptInvite(ctx, inv.ID, u.name); err != nil {
			return nil, fmt.Errorf("seed member %q: %w", u.name, err)
		}
	}

	invites := []InviteInput{
		{Email: "old@example.com"},
		{Email: "designer@example.com", Access: []string{projects[0].ID, projects[2].ID}},
	}
	for _, in := range invites {
		if _, err := m.CreateInvite(ctx, org.ID, in); err != nil {
			return nil, fmt.Errorf("seed invite %q: %w", in.Email, err)
		}
	}
	stale, _ := m.ListInvites(ctx, org.ID)
	for _, inv := range stale {
		if inv.Email == "old@example.com" {
			if err := m.RevokeInvite(ctx, inv.ID); err != nil {
				return nil, fmt.Errorf("seed revoked invite: %w", err)
			}
		}
	}
	return m, nil
}
