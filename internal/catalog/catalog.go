// Package catalog is the settings data seam: projects, clients, saved
// reports and the team of an organization.
package catalog

import (
	"context"
	"errors"

	"github.com/openpanel/panel/internal/models"
)

var (
	// ErrNotFound is returned when an ID does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrInvalid is returned for input that fails validation.
	ErrInvalid = errors.New("invalid input")
)

// ClientInput carries the editable fields of a client.
type ClientInput struct {
	Name      string
	ProjectID string
	CORS      []string
	// WithSecret generates a secret on create. Ignored on update.
	WithSecret bool
}

// InviteInput carries the fields of a new invitation. Role defaults to
// models.RoleMember; empty Access grants every project.
type InviteInput struct {
	Email  string
	Role   models.Role
	Access []string
}

// Catalog is the data access the settings dashboard needs.
type Catalog interface {
	Organization(ctx context.Context, orgID string) (models.Organization, error)

	ListProjects(ctx context.Context, orgID string) ([]models.Project, error)
	CreateProject(ctx context.Context, orgID, name string) (models.Project, error)
	UpdateProject(ctx context.Context, id, name string) (models.Project, error)
	RemoveProject(ctx context.Context, id string) error

	// ListClients returns clients oldest first.
	ListClients(ctx context.Context, orgID string) ([]models.Client, error)
	CreateClient(ctx context.Context, orgID string, in ClientInput) (models.Client, error)
	UpdateClient(ctx context.Context, id string, in ClientInput) (models.Client, error)
	RemoveClient(ctx context.Context, id string) error

	SaveReport(ctx context.Context, projectID, name string, chart models.Chart) (models.Report, error)
	ListReports(ctx context.Context, projectID string) ([]models.Report, error)

	// ListInvites returns invites newest first, settled ones included.
	ListInvites(ctx context.Context, orgID string) ([]models.Invite, error)
	CreateInvite(ctx context.Context, orgID string, in InviteInput) (models.Invite, error)
	// RevokeInvite marks a pending invite revoked.
	RevokeInvite(ctx context.Context, id string) error
	ListMembers(ctx context.Context, orgID string) ([]models.Member, error)
}
