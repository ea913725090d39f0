package models

import (
	"strings"
	"time"
)

// Organization owns projects and clients.
type Organization struct {
	ID   string
	Name string
}

// Project is a tracked site or app inside an organization.
type Project struct {
	ID             string
	OrganizationID string
	Name           string
	CreatedAt      time.Time
}

// Client is an API credential for ingesting events. ProjectID is empty for
// organization-wide clients.
type Client struct {
	ID             string
	OrganizationID string
	ProjectID      string
	Name           string
	Secret         string
	// CORS lists allowed origins, empty for server-side clients.
	CORS      []string
	CreatedAt time.Time
}

// ClientType derives how a client authenticates.
type ClientType string

const (
	ClientTypeRead  ClientType = "read"
	ClientTypeWrite ClientType = "write"
)

// Chart lists the report visualisations.
type Chart string

const (
	ChartLinear    Chart = "linear"
	ChartBar       Chart = "bar"
	ChartHistogram Chart = "histogram"
	ChartPie       Chart = "pie"
	ChartMetric    Chart = "metric"
	ChartMap       Chart = "map"
)

// Charts returns all chart types in display order.
func Charts() []Chart {
	return []Chart{ChartLinear, ChartBar, ChartHistogram, ChartPie, ChartMetric, ChartMap}
}

// IsValidChart reports whether c is a known chart type.
func IsValidChart(c Chart) bool {
	for _, known := range Charts() {
		if c == known {
			return true
		}
	}
	return false
}

// Report is a saved chart configuration.
type Report struct {
	ID        string
	ProjectID string
	Name      string
	Chart     Chart
	CreatedAt time.Time
}

// Role is an organization membership role.
type Role string

const (
	RoleAdmin  Role = "org:admin"
	RoleMember Role = "org:member"
)

// Roles returns the assignable roles in display order.
func Roles() []Role {
	return []Role{RoleMember, RoleAdmin}
}

// IsValidRole reports whether r is a known role.
func IsValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleMember
}

// Label is the role name without its scope.
func (r Role) Label() string {
	return strings.TrimPrefix(string(r), "org:")
}

// InviteStatus tracks an invitation from sent to settled.
type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteRevoked  InviteStatus = "revoked"
)

// Invite asks someone by email to join an organization. Access lists the
// project IDs the invitee will see; empty means every project.
type Invite struct {
	ID             string
	OrganizationID string
	Email          string
	Role           Role
	Status         InviteStatus
	Access         []string
	CreatedAt      time.Time
}

// Member is a user belonging to an organization. Access has the same
// meaning as on Invite.
type Member struct {
	ID             string
	OrganizationID string
	Name           string
	Email          string
	Role           Role
	Access         []string
	CreatedAt      time.Time
}

// AccessLabels names the projects in access, in order. It returns
// "All projects" for empty access and "Unknown" for IDs missing from
// projects.
func AccessLabels(access []string, projects []Project) []string {
	if len(access) == 0 {
		return []string{"All projects"}
	}
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}
	out := make([]string, 0, len(access))
	for _, id := range access {
		if name, ok := names[id]; ok {
			out = append(out, name)
		} else {
			out = append(out, "Unknown")
		}
	}
	return out
}

// Type returns the client type. Clients with a secret write events from
// servers, clients without one are browser clients.
func (c Client) Type() ClientType {
	if c.Secret != "" {
		return ClientTypeWrite
	}
	return ClientTypeRead
}

// ParseOrigins splits a comma or whitespace separated list of origins.
func ParseOrigins(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})
	var out []string
	for _, f := range fields {
		if f = strings.TrimSuffix(strings.TrimSpace(f), "/"); f != "" {
			out = append(out, f)
		}
	}
	return out
}
