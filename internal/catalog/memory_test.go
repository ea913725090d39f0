package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/openpanel/panel/internal/models"
)

var testOrg = models.Organization{ID: "acme", Name: "Acme"}

func newTestStore(t *testing.T) *Memory {
	t.Helper()
	m := NewMemory(testOrg, models.Organization{ID: "other", Name: "Other"})

	// Deterministic clock: each call advances a second.
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var tick int
	m.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return m
}

func TestCreateProjectValidation(t *testing.T) {
	ctx := context.Background()
	m := newTestStore(t)

	tests := []struct {
		name    string
		orgID   string
		project string
		wantErr error
	}{
		{"valid", "acme", "Web", nil},
		{"trims name", "acme", "  Docs  ", nil},
		{"empty name", "acme", "", ErrInvalid},
		{"blank name", "acme", "   ", ErrInvalid},
		{"unknown org", "nope", "Web", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := m.CreateProject(ctx, tt.orgID, tt.project)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if !strings.HasPrefix(p.ID, projectIDPrefix) {
				t.Errorf("ID %q missing prefix", p.ID)
			}
			if p.Name != strings.TrimSpace(tt.project) {
				t.Errorf("Name = %q", p.Name)
			}
		})
	}
}

func TestProjectLifecycle(t *testing.T) {
	ctx := context.Background()
	m := newTestStore(t)

	p, err := m.CreateProject(ctx, "acme", "Web")
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if _, err := m.CreateProject(ctx, "other", "Elsewhere"); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	list, _ := m.ListProjects(ctx, "acme")
	if len(list) != 1 || list[0].ID != p.ID {
		t.Fatalf("ListProjects = %+v", list)
	}
	if list, _ := m.ListProjects(ctx, ""); list != nil {
		t.Errorf("empty org should list nothing, got %+v", list)
	}

	updated, err := m.UpdateProject(ctx, p.ID, "Website")
	if err != nil || updated.Name != "Website" {
		t.Fatalf("UpdateProject = %+v, %v", updated, err)
	}
	if _, err := m.UpdateProject(ctx, "pj-missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("update missing: err = %v", err)
	}

	c, err := m.CreateClient(ctx, "acme", ClientInput{Name: "Browser", ProjectID: p.ID})
	if err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}
	if _, err := m.SaveReport(ctx, p.ID, "Visitors", models.ChartLinear); err != nil {
		t.Fatalf("SaveReport failed: %v", err)
	}

	if err := m.RemoveProject(ctx, p.ID); err != nil {
		t.Fatalf("RemoveProject failed: %v", err)
	}
	if err := m.RemoveProject(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second remove: err = %v", err)
	}
	if reports, _ := m.ListReports(ctx, p.ID); len(reports) != 0 {
		t.Errorf("reports survived project removal: %+v", reports)
	}
	clients, _ := m.ListClients(ctx, "acme")
	if len(clients) != 1 || clients[0].ID != c.ID || clients[0].ProjectID != "" {
		t.Errorf("client not detached from removed project: %+v", clients)
	}
}

func TestCreateInviteValidation(t *testing.T) {
	ctx := context.Background()
	m := newTestStore(t)
	web, _ := m.CreateProject(ctx, "acme", "Web")
	foreign, _ := m.CreateProject(ctx, "other", "Elsewhere")
	if _, err := m.CreateInvite(ctx, "acme", InviteInput{Email: "taken@example.com"}); err != nil {
		t.Fatalf("CreateInvite failed: %v", err)
	}

	tests := []struct {
		name    string
		org     string
		in      InviteInput
		wantErr error
	}{
		{"valid", "acme", InviteInput{Email: " New@Example.com ", Access: []string{web.ID}}, nil},
		{"missing at", "acme", InviteInput{Email: "example.com"}, ErrInvalid},
		{"display name", "acme", InviteInput{Email: "Bob <bob@example.com>"}, ErrInvalid},
		{"undotted domain", "acme", InviteInput{Email: "bob@localhost"}, ErrInvalid},
		{"unknown role", "acme", InviteInput{Email: "bob@example.com", Role: "owner"}, ErrInvalid},
		{"unknown project", "acme", InviteInput{Email: "bob@example.com", Access: []string{"pj-missing"}}, ErrNotFound},
		{"project of another org", "acme", InviteInput{Email: "bob@example.com", Access: []string{foreign.ID}}, ErrInvalid},
		{"pending invite exists", "acme", InviteInput{Email: "TAKEN@example.com"}, ErrInvalid},
		{"same address elsewhere", "other", InviteInput{Email: "taken@example.com"}, nil},
		{"missing org", "nope", InviteInput{Email: "bob@example.com"}, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := m.CreateInvite(ctx, tt.org, tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if inv.Status != models.InvitePending || inv.Role != models.RoleMember {
				t.Errorf("invite = %+v, want pending member", inv)
			}
			if inv.Email != strings.ToLower(strings.TrimSpace(tt.in.Email)) {
				t.Errorf("Email = %q", inv.Email)
			}
		})
	}
}

func TestInviteLifecycle(t *testing.T) {
	ctx := context.Background()
	m := newTestStore(t)
	web, _ := m.CreateProject(ctx, "acme", "Web")
	app, _ := m.CreateProject(ctx, "acme", "App")

	first, err := m.CreateInvite(ctx, "acme", InviteInput{Email: "a@example.com", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("CreateInvite failed: %v", err)
	}
	second, err := m.CreateInvite(ctx, "acme", InviteInput{Email: "b@example.com", Access: []string{web.ID, app.ID}})
	if err != nil {
		t.Fatalf("CreateInvite failed: %v", err)
	}

	list, _ := m.ListInvites(ctx, "acme")
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("ListInvites not newest first: %+v", list)
	}
	list[0].Access[0] = "mutated"
	if again, _ := m.ListInvites(ctx, "acme"); again[0].Access[0] != web.ID {
		t.Error("ListInvites exposed internal access slice")
	}

	if err := m.RevokeInvite(ctx, first.ID); err != nil {
		t.Fatalf("RevokeInvite failed: %v", err)
	}
	if err := m.RevokeInvite(ctx, first.ID); !errors.Is(err, ErrInvalid) {
		t.Errorf("second revoke: err = %v", err)
	}
	if err := m.RevokeInvite(ctx, "inv-missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("revoke missing: err = %v", err)
	}
	if _, err := m.AcceptInvite(ctx, first.ID, "Ann"); !errors.Is(err, ErrInvalid) {
		t.Errorf("accept revoked: err = %v", err)
	}
	// A revoked address can be invited again.
	if _, err := m.CreateInvite(ctx, "acme", InviteInput{Email: "a@example.com"}); err != nil {
		t.Errorf("re-invite after revoke: %v", err)
	}

	u, err := m.AcceptInvite(ctx, second.ID, "Bea")
	if err != nil {
		t.Fatalf("AcceptInvite failed: %v", err)
	}
	if u.Email != "b@example.com" || u.Role != models.RoleMember || len(u.Access) != 2 {
		t.Errorf("member = %+v", u)
	}
	if err := m.RevokeInvite(ctx, second.ID); !errors.Is(err, ErrInvalid) {
		t.Errorf("revoke accepted: err = %v", err)
	}
	if _, err := m.CreateInvite(ctx, "acme", InviteInput{Email: "b@example.com"}); !errors.Is(err, ErrInvalid) {
		t.Errorf("invite existing member: err = %v", err)
	}

	if err := m.RemoveProject(ctx, web.ID); err != nil {
		t.Fatalf("RemoveProject failed: %v", err)
	}
	members, _ := m.ListMembers(ctx, "acme")
	if len(members) != 1 || len(members[0].Access) != 1 || members[0].Access[0] != app.ID {
		t.Errorf("member access kept removed project: %+v", members)
	}
	if others, _ := m.ListMembers(ctx, "other"); len(others) != 0 {
		t.Errorf("members leaked across organizations: %+v", others)
	}
}

func TestListClientsOldestFirst(t *testing.T) {
	ctx := context.Background()
	m := newTestStore(t)

	var want []string
	for i := range 4 {
		c, err := m.CreateClient(ctx, "acme", ClientInput{Name: fmt.Sprintf("c%d", i)})
		if err != nil {
			t.Fatalf("CreateClient failed: %v", err)
		}
		want = append(want, c.ID)
	}

	got, _ := m.ListClients(ctx, "acme")
	for i, c := range got {
		if c.ID != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestClientValidation(t *testing.T) {
	ctx := context.Background()
	m := newTestStore(t)
	foreign, _ := m.CreateProject(ctx, "other", "Theirs")

	tests := []struct {
		name    string
		in      ClientInput
		wantErr error
	}{
		{"org wide", ClientInput{Name: "Export"}, nil},
		{"empty name", ClientInput{}, ErrInvalid},
		{"unknown project", ClientInput{Name: "x", ProjectID: "pj-nope"}, ErrNotFound},
		{"foreign project", ClientInput{Name: "x", ProjectID: foreign.ID}, ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.CreateClient(ctx, "acme", tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClientSecretAndUpdate(t *testing.T) {
	ctx := context.Background()
	m := newTestStore(t)

	c, err := m.CreateClient(ctx, "acme", ClientInput{Name: "Server", WithSecret: true, CORS: []string{"https://a.com"}})
	if err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}
	if len(c.Secret) != 32 || c.Type() != models.ClientTypeWrite {
		t.Errorf("secret = %q type = %s", c.Secret, c.Type())
	}

	updated, err := m.UpdateClient(ctx, c.ID, ClientInput{Name: "Renamed"})
	if err != nil {
		t.Fatalf("UpdateClient failed: %v", err)
	}
	if updated.Name != "Renamed" || updated.Secret != c.Secret || len(updated.CORS) != 0 {
		t.Errorf("UpdateClient = %+v", updated)
	}

	if err := m.RemoveClient(ctx, c.ID); err != nil {
		t.Fatalf("RemoveClient failed: %v", err)
	}
	if _, err := m.UpdateClient(ctx, c.ID, ClientInput{Name: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("update removed client: err = %v", err)
	}
}

func TestListClientsReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := newTestStore(t)
	if _, err := m.CreateClient(ctx, "acme", ClientInput{Name: "Web", CORS: []string{"https://a.com"}}); err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}

	list, _ := m.ListClients(ctx, "acme")
	list[0].CORS[0] = "mutated"

	again, _ := m.ListClients(ctx, "acme")
	if again[0].CORS[0] != "https://a.com" {
		t.Errorf("store shares CORS slice with callers")
	}
}

func TestSaveReportValidation(t *testing.T) {
	ctx := context.Background()
	m := newTestStore(t)
	p, _ := m.CreateProject(ctx, "acme", "Web")

	if _, err := m.SaveReport(ctx, p.ID, "", models.ChartBar); !errors.Is(err, ErrInvalid) {
		t.Errorf("empty name: err = %v", err)
	}
	if _, err := m.SaveReport(ctx, p.ID, "x", "table"); !errors.Is(err, ErrInvalid) {
		t.Errorf("bad chart: err = %v", err)
	}
	if _, err := m.SaveReport(ctx, "pj-nope", "x", models.ChartBar); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown project: err = %v", err)
	}
	r, err := m.SaveReport(ctx, p.ID, "Top pages", models.ChartBar)
	if err != nil || !strings.HasPrefix(r.ID, reportIDPrefix) {
		t.Errorf("SaveReport = %+v, %v", r, err)
	}
}

func TestIDGeneratorOverride(t *testing.T) {
	orig := idGenerator
	defer func() { idGenerator = orig }()

	idGenerator = func(prefix string, _ int) (string, error) { return prefix + "fixed", nil }
	m := newTestStore(t)
	p, err := m.CreateProject(context.Background(), "acme", "Web")
	if err != nil || p.ID != "pj-fixed" {
		t.Errorf("CreateProject = %+v, %v", p, err)
	}

	idGenerator = func(string, int) (string, error) { return "", errors.New("entropy exhausted") }
	if _, err := m.CreateProject(context.Background(), "acme", "Web"); err == nil {
		t.Error("expected id generation error")
	}
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(testOrg)
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.CreateProject(ctx, "acme", fmt.Sprintf("p%d", i)); err != nil {
				t.Errorf("CreateProject failed: %v", err)
			}
			_, _ = m.ListProjects(ctx, "acme")
		}()
	}
	wg.Wait()

	list, _ := m.ListProjects(ctx, "acme")
	if len(list) != 20 {
		t.Errorf("got %d projects, want 20", len(list))
	}
}

func TestNewDemo(t *testing.T) {
	m, err := NewDemo(testOrg)
	if err != nil {
		t.Fatalf("NewDemo failed: %v", err)
	}
	projects, _ := m.ListProjects(context.Background(), testOrg.ID)
	clients, _ := m.ListClients(context.Background(), testOrg.ID)
	if len(projects) == 0 || len(clients) == 0 {
		t.Errorf("demo store empty: %d projects, %d clients", len(projects), len(clients))
	}
	members, _ := m.ListMembers(context.Background(), testOrg.ID)
	invites, _ := m.ListInvites(context.Background(), testOrg.ID)
	var pending int
	for _, inv := range invites {
		if inv.Status == models.InvitePending {
			pending++
		}
	}
	if len(members) == 0 || pending == 0 {
		t.Errorf("demo team empty: %d members, %d pending invites", len(members), pending)
	}
}
