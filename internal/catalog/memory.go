package catalog

import (
	"context"
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/openpanel/panel/internal/models"
)

// Memory is an in-process Catalog. It is safe for concurrent use, since
// dashboard commands run off the UI goroutine.
type Memory struct {
	mu       sync.RWMutex
	orgs     map[string]models.Organization
	projects []models.Project
	clients  []models.Client
	reports  []models.Report
	invites  []models.Invite
	members  []models.Member
	now      func() time.Time
}

// NewMemory returns an empty store holding the given organizations.
func NewMemory(orgs ...models.Organization) *Memory {
	m := &Memory{
		orgs: make(map[string]models.Organization),
		now:  time.Now,
	}
	for _, o := range orgs {
		m.orgs[o.ID] = o
	}
	return m
}

var _ Catalog = (*Memory)(nil)

func (m *Memory) Organization(_ context.Context, orgID string) (models.Organization, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orgs[orgID]
	if !ok {
		return models.Organization{}, fmt.Errorf("organization %s: %w", orgID, ErrNotFound)
	}
	return o, nil
}

func (m *Memory) ListProjects(_ context.Context, orgID string) ([]models.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if orgID == "" {
		return nil, nil
	}
	var out []models.Project
	for _, p := range m.projects {
		if p.OrganizationID == orgID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *Memory) CreateProject(_ context.Context, orgID, name string) (models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Project{}, fmt.Errorf("project name is required: %w", ErrInvalid)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orgs[orgID]; !ok {
		return models.Project{}, fmt.Errorf("organization %s: %w", orgID, ErrNotFound)
	}
	id, err := generateProjectID()
	if err != nil {
		return models.Project{}, fmt.Errorf("generate project id: %w", err)
	}
	p := models.Project{ID: id, OrganizationID: orgID, Name: name, CreatedAt: m.now()}
	m.projects = append(m.projects, p)
	return p, nil
}

func (m *Memory) UpdateProject(_ context.Context, id, name string) (models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Project{}, fmt.Errorf("project name is required: %w", ErrInvalid)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.projects, func(p models.Project) bool { return p.ID == id })
	if i < 0 {
		return models.Project{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	m.projects[i].Name = name
	return m.projects[i], nil
}

// RemoveProject deletes the project and its reports. Clients bound to it
// become organization-wide.
func (m *Memory) RemoveProject(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.projects, func(p models.Project) bool { return p.ID == id })
	if i < 0 {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	m.projects = slices.Delete(m.projects, i, i+1)
	m.reports = slices.DeleteFunc(m.reports, func(r models.Report) bool { return r.ProjectID == id })
	for j := range m.clients {
		if m.clients[j].ProjectID == id {
			m.clients[j].ProjectID = ""
		}
	}
	drop := func(pid string) bool { return pid == id }
	for j := range m.invites {
		m.invites[j].Access = slices.DeleteFunc(m.invites[j].Access, drop)
	}
	for j := range m.members {
		m.members[j].Access = slices.DeleteFunc(m.members[j].Access, drop)
	}
	return nil
}

func (m *Memory) ListClients(_ context.Context, orgID string) ([]models.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Client
	for _, c := range m.clients {
		if c.OrganizationID == orgID {
			c.CORS = slices.Clone(c.CORS)
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Client) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (m *Memory) CreateClient(_ context.Context, orgID string, in ClientInput) (models.Client, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Client{}, fmt.Errorf("client name is required: %w", ErrInvalid)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orgs[orgID]; !ok {
		return models.Client{}, fmt.Errorf("organization %s: %w", orgID, ErrNotFound)
	}
	if err := m.checkProjectLocked(orgID, in.ProjectID); err != nil {
		return models.Client{}, err
	}

	id, err := generateClientID()
	if err != nil {
		return models.Client{}, fmt.Errorf("generate client id: %w", err)
	}
	c := models.Client{
		ID:             id,
		OrganizationID: orgID,
		ProjectID:      in.ProjectID,
		Name:           name,
		CORS:           slices.Clone(in.CORS),
		CreatedAt:      m.now(),
	}
	if in.WithSecret {
		if c.Secret, err = generateSecret(); err != nil {
			return models.Client{}, fmt.Errorf("generate client secret: %w", err)
		}
	}
	m.clients = append(m.clients, c)
	return c, nil
}

func (m *Memory) UpdateClient(_ context.Context, id string, in ClientInput) (models.Client, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Client{}, fmt.Errorf("client name is required: %w", ErrInvalid)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.clients, func(c models.Client) bool { return c.ID == id })
	if i < 0 {
		return models.Client{}, fmt.Errorf("client %s: %w", id, ErrNotFound)
	}
	if err := m.checkProjectLocked(m.clients[i].OrganizationID, in.ProjectID); err != nil {
		return models.Client{}, err
	}
	m.clients[i].Name = name
	m.clients[i].ProjectID = in.ProjectID
	m.clients[i].CORS = slices.Clone(in.CORS)
	return m.clients[i], nil
}

func (m *Memory) RemoveClient(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.clients, func(c models.Client) bool { return c.ID == id })
	if i < 0 {
		return fmt.Errorf("client %s: %w", id, ErrNotFound)
	}
	m.clients = slices.Delete(m.clients, i, i+1)
	return nil
}

func (m *Memory) SaveReport(_ context.Context, projectID, name string, chart models.Chart) (models.Report, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Report{}, fmt.Errorf("report name is required: %w", ErrInvalid)
	}
	if !models.IsValidChart(chart) {
		return models.Report{}, fmt.Errorf("chart %q: %w", chart, ErrInvalid)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !slices.ContainsFunc(m.projects, func(p models.Project) bool { return p.ID == projectID }) {
		return models.Report{}, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	id, err := generateReportID()
	if err != nil {
		return models.Report{}, fmt.Errorf("generate report id: %w", err)
	}
	r := models.Report{ID: id, ProjectID: projectID, Name: name, Chart: chart, CreatedAt: m.now()}
	m.reports = append(m.reports, r)
	return r, nil
}

func (m *Memory) ListReports(_ context.Context, projectID string) ([]models.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Report
	for _, r := range m.reports {
		if r.ProjectID == projectID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Memory) ListInvites(_ context.Context, orgID string) ([]models.Invite, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Invite
	for _, inv := range m.invites {
		if inv.OrganizationID == orgID {
			inv.Access = slices.Clone(inv.Access)
			out = append(out, inv)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Invite) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

// CreateInvite records a pending invite. An address may hold one pending
// invite per organization and must not belong to a member already.
func (m *Memory) CreateInvite(_ context.Context, orgID string, in InviteInput) (models.Invite, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !validEmail(email) {
		return models.Invite{}, fmt.Errorf("email %q: %w", in.Email, ErrInvalid)
	}
	role := in.Role
	if role == "" {
		role = models.RoleMember
	}
	if !models.IsValidRole(role) {
		return models.Invite{}, fmt.Errorf("role %q: %w", role, ErrInvalid)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orgs[orgID]; !ok {
		return models.Invite{}, fmt.Errorf("organization %s: %w", orgID, ErrNotFound)
	}
	for _, pid := range in.Access {
		if pid == "" {
			return models.Invite{}, fmt.Errorf("empty project in access: %w", ErrInvalid)
		}
		if err := m.checkProjectLocked(orgID, pid); err != nil {
			return models.Invite{}, err
		}
	}
	if slices.ContainsFunc(m.invites, func(inv models.Invite) bool {
		return inv.OrganizationID == orgID && inv.Email == email && inv.Status == models.InvitePending
	}) {
		return models.Invite{}, fmt.Errorf("%s already has a pending invite: %w", email, ErrInvalid)
	}
	if slices.ContainsFunc(m.members, func(u models.Member) bool {
		return u.OrganizationID == orgID && u.Email == email
	}) {
		return models.Invite{}, fmt.Errorf("%s is already a member: %w", email, ErrInvalid)
	}

	id, err := generateInviteID()
	if err != nil {
		return models.Invite{}, fmt.Errorf("generate invite id: %w", err)
	}
	inv := models.Invite{
		ID:             id,
		OrganizationID: orgID,
		Email:          email,
		Role:           role,
		Status:         models.InvitePending,
		Access:         slices.Clone(in.Access),
		CreatedAt:      m.now(),
	}
	m.invites = append(m.invites, inv)
	inv.Access = slices.Clone(inv.Access)
	return inv, nil
}

func (m *Memory) RevokeInvite(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.invites, func(inv models.Invite) bool { return inv.ID == id })
	if i < 0 {
		return fmt.Errorf("invite %s: %w", id, ErrNotFound)
	}
	if m.invites[i].Status != models.InvitePending {
		return fmt.Errorf("invite %s is %s: %w", id, m.invites[i].Status, ErrInvalid)
	}
	m.invites[i].Status = models.InviteRevoked
	return nil
}

// AcceptInvite turns a pending invite into a member with the invite's role
// and access. It is the sign-up side of an invitation, outside the Catalog
// the dashboard uses.
func (m *Memory) AcceptInvite(_ context.Context, id, name string) (models.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Member{}, fmt.Errorf("member name is required: %w", ErrInvalid)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.invites, func(inv models.Invite) bool { return inv.ID == id })
	if i < 0 {
		return models.Member{}, fmt.Errorf("invite %s: %w", id, ErrNotFound)
	}
	inv := &m.invites[i]
	if inv.Status != models.InvitePending {
		return models.Member{}, fmt.Errorf("invite %s is %s: %w", id, inv.Status, ErrInvalid)
	}
	uid, err := generateMemberID()
	if err != nil {
		return models.Member{}, fmt.Errorf("generate member id: %w", err)
	}
	inv.Status = models.InviteAccepted
	u := models.Member{
		ID:             uid,
		OrganizationID: inv.OrganizationID,
		Name:           name,
		Email:          inv.Email,
		Role:           inv.Role,
		Access:         slices.Clone(inv.Access),
		CreatedAt:      m.now(),
	}
	m.members = append(m.members, u)
	u.Access = slices.Clone(u.Access)
	return u, nil
}

// ListMembers returns members oldest first.
func (m *Memory) ListMembers(_ context.Context, orgID string) ([]models.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Member
	for _, u := range m.members {
		if u.OrganizationID == orgID {
			u.Access = slices.Clone(u.Access)
			out = append(out, u)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Member) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

// validEmail accepts a bare address with a dotted domain.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	_, domain, _ := strings.Cut(s, "@")
	dot := strings.LastIndex(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

// checkProjectLocked verifies that projectID, when set, belongs to orgID.
func (m *Memory) checkProjectLocked(orgID, projectID string) error {
	if projectID == "" {
		return nil
	}
	i := slices.IndexFunc(m.projects, func(p models.Project) bool { return p.ID == projectID })
	if i < 0 {
		return fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	if m.projects[i].OrganizationID != orgID {
		return fmt.Errorf("project %s belongs to another organization: %w", projectID, ErrInvalid)
	}
	return nil
}
