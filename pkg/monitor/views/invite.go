package views

import (
	"context"
	"errors"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/openpanel/panel/internal/catalog"
	"github.com/openpanel/panel/internal/models"
	"github.com/openpanel/panel/pkg/monitor/modals"
)

func newAddInvite(deps Deps) modals.Factory {
	return func(props any, env modals.Env) (modals.View, error) {
		var p AddInviteProps
		switch v := props.(type) {
		case nil:
		case AddInviteProps:
			p = v
		case *AddInviteProps:
			p = *v
		default:
			return nil, badProps(env.Name, props)
		}

		email, role := p.Email, p.Role
		if !models.IsValidRole(role) {
			role = models.RoleMember
		}
		access := slices.Clone(p.Access)

		build := func() *huh.Form {
			roles := make([]huh.Option[models.Role], 0, len(models.Roles()))
			for _, r := range models.Roles() {
				roles = append(roles, huh.NewOption(r.Label(), r))
			}
			fields := []huh.Field{
				huh.NewInput().
					Key("email").
					Title("Email").
					Placeholder("jane@example.com").
					Value(&email).
					Validate(requireEmail),
				huh.NewSelect[models.Role]().
					Key("role").
					Title("Role").
					Options(roles...).
					Value(&role),
			}
			if len(p.Projects) > 0 {
				options := make([]huh.Option[string], 0, len(p.Projects))
				for _, pr := range p.Projects {
					options = append(options, huh.NewOption(pr.Name, pr.ID))
				}
				fields = append(fields, huh.NewMultiSelect[string]().
					Key("access").
					Title("Access").
					Description("None selected grants every project").
					Options(options...).
					Value(&access))
			}
			return huh.NewForm(huh.NewGroup(fields...))
		}
		save := func() tea.Cmd {
			return deps.saveCmd(env.Key, func(ctx context.Context) (ChangedMsg, error) {
				inv, err := deps.Catalog.CreateInvite(ctx, deps.OrgID, catalog.InviteInput{
					Email:  email,
					Role:   role,
					Access: access,
				})
				return ChangedMsg{Kind: InviteCreated, Invite: inv}, err
			})
		}
		return newFormDialog(env, "Invite member", build, save), nil
	}
}

// requireEmail catches obvious typos. The catalog has the final say.
func requireEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("email is required")
	}
	if at := strings.IndexByte(s, '@'); at <= 0 || at == len(s)-1 {
		return errors.New("enter an email address")
	}
	return nil
}
