package views

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/openpanel/panel/pkg/monitor/modal"
	"github.com/openpanel/panel/pkg/monitor/modals"
)

const formWidth = 48

var (
	errorText  = lipgloss.NewStyle().Foreground(modal.Error)
	savingText = lipgloss.NewStyle().Foreground(modal.Muted).Italic(true)
)

// formDialog hosts a huh form inside a modal box. Submitting the form runs
// save; a failed save shows the error and rebuilds the form with the
// values entered so far.
type formDialog struct {
	env   modals.Env
	build func() *huh.Form
	save  func() tea.Cmd

	form   *huh.Form
	frame  *modal.Modal
	saving bool
	err    string
}

func newFormDialog(env modals.Env, title string, build func() *huh.Form, save func() tea.Cmd) *formDialog {
	d := &formDialog{env: env, build: build, save: save}
	d.form = d.newForm()
	d.frame = modal.New(title, modal.WithWidth(formWidth+6), modal.WithHints(false)).
		AddSection(modal.Custom(d.renderForm, nil)).
		AddSection(modal.Custom(d.renderStatus, nil))
	return d
}

func (d *formDialog) newForm() *huh.Form {
	f := d.build().
		WithShowHelp(false).
		WithWidth(formWidth).
		WithTheme(huh.ThemeCharm())
	// Embedded forms must not quit the program.
	f.SubmitCmd = nil
	f.CancelCmd = nil
	return f
}

func (d *formDialog) Init() tea.Cmd { return d.form.Init() }

func (d *formDialog) Update(msg tea.Msg) (modals.View, tea.Cmd) {
	switch msg := msg.(type) {
	case SavedMsg:
		if msg.Key != d.env.Key {
			return d, nil
		}
		d.saving = false
		if msg.Err != nil {
			d.err = msg.Err.Error()
			d.form = d.newForm()
			return d, d.form.Init()
		}
		d.env.Close()
		return d, nil
	case tea.MouseMsg:
		return d, nil
	}

	if d.saving {
		return d, nil
	}

	m, cmd := d.form.Update(msg)
	if f, ok := m.(*huh.Form); ok {
		d.form = f
	}
	if d.form.State == huh.StateCompleted {
		return d, tea.Batch(cmd, d.submit())
	}
	return d, cmd
}

func (d *formDialog) submit() tea.Cmd {
	d.saving = true
	d.err = ""
	return d.save()
}

func (d *formDialog) View(maxWidth int) string {
	return d.frame.Render(maxWidth)
}

func (d *formDialog) renderForm(int, string, string) modal.RenderedSection {
	return modal.RenderedSection{Content: strings.TrimRight(d.form.View(), "\n")}
}

func (d *formDialog) renderStatus(width int, _, _ string) modal.RenderedSection {
	switch {
	case d.saving:
		return modal.RenderedSection{Content: savingText.Render("Saving…")}
	case d.err != "":
		return modal.RenderedSection{Content: errorText.Width(width).Render(d.err)}
	}
	return modal.RenderedSection{Content: modal.MutedText.Render("enter next · esc cancel")}
}

func requireName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("name is required")
	}
	return nil
}
