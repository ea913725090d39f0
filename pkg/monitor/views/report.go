package views

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/openpanel/panel/internal/models"
	"github.com/openpanel/panel/pkg/monitor/modals"
)

func newSaveReport(deps Deps) modals.Factory {
	return func(props any, env modals.Env) (modals.View, error) {
		var p SaveReportProps
		switch v := props.(type) {
		case SaveReportProps:
			p = v
		case *SaveReportProps:
			p = *v
		default:
			return nil, badProps(env.Name, props)
		}
		if p.ProjectID == "" {
			return nil, badProps(env.Name, props)
		}

		name, chart := p.Name, p.Chart
		if !models.IsValidChart(chart) {
			chart = models.ChartLinear
		}

		build := func() *huh.Form {
			return huh.NewForm(huh.NewGroup(
				huh.NewInput().
					Key("name").
					Title("Report name").
					Placeholder("Visitors per day").
					Value(&name).
					Validate(requireName),
				huh.NewSelect[models.Chart]().
					Key("chart").
					Title("Chart").
					Options(huh.NewOptions(models.Charts()...)...).
					Value(&chart),
			))
		}
		save := func() tea.Cmd {
			return deps.saveCmd(env.Key, func(ctx context.Context) (ChangedMsg, error) {
				r, err := deps.Catalog.SaveReport(ctx, p.ProjectID, name, chart)
				return ChangedMsg{Kind: ReportSaved, Report: r}, err
			})
		}
		return newFormDialog(env, "Save report", build, save), nil
	}
}
