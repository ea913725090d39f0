package views

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/openpanel/panel/pkg/monitor/modals"
)

func projectForm(name *string) func() *huh.Form {
	return func() *huh.Form {
		return huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Placeholder("My website").
				Value(name).
				Validate(requireName),
		))
	}
}

func newAddProject(deps Deps) modals.Factory {
	return func(props any, env modals.Env) (modals.View, error) {
		var p AddProjectProps
		switch v := props.(type) {
		case nil:
		case AddProjectProps:
			p = v
		case *AddProjectProps:
			p = *v
		default:
			return nil, badProps(env.Name, props)
		}

		name := p.Name
		save := func() tea.Cmd {
			return deps.saveCmd(env.Key, func(ctx context.Context) (ChangedMsg, error) {
				created, err := deps.Catalog.CreateProject(ctx, deps.OrgID, name)
				return ChangedMsg{Kind: ProjectCreated, Project: created}, err
			})
		}
		return newFormDialog(env, "Create project", projectForm(&name), save), nil
	}
}

func newEditProject(deps Deps) modals.Factory {
	return func(props any, env modals.Env) (modals.View, error) {
		var p EditProjectProps
		switch v := props.(type) {
		case EditProjectProps:
			p = v
		case *EditProjectProps:
			p = *v
		default:
			return nil, badProps(env.Name, props)
		}
		if p.Project.ID == "" {
			return nil, badProps(env.Name, props)
		}

		name := p.Project.Name
		save := func() tea.Cmd {
			return deps.saveCmd(env.Key, func(ctx context.Context) (ChangedMsg, error) {
				updated, err := deps.Catalog.UpdateProject(ctx, p.Project.ID, name)
				return ChangedMsg{Kind: ProjectUpdated, Project: updated}, err
			})
		}
		return newFormDialog(env, "Edit project", projectForm(&name), save), nil
	}
}
