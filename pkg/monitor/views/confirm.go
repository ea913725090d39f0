package views

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/openpanel/panel/pkg/monitor/modal"
	"github.com/openpanel/panel/pkg/monitor/modals"
)

const (
	confirmWidth = 56
	// Content width inside the box: border (2) and padding (4).
	confirmWrap = confirmWidth - 6
)

// loadConfirm builds the markdown renderer once for all Confirm dialogs.
func loadConfirm(context.Context) (modals.Factory, error) {
	// Dark style directly, auto-detection queries the terminal.
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(confirmWrap),
	)
	if err != nil {
		return nil, fmt.Errorf("markdown renderer: %w", err)
	}
	return func(props any, env modals.Env) (modals.View, error) {
		var p modals.ConfirmProps
		switch v := props.(type) {
		case nil:
		case modals.ConfirmProps:
			p = v
		case *modals.ConfirmProps:
			p = *v
		default:
			return nil, badProps(env.Name, props)
		}
		return newConfirmView(p, env, renderMarkdown(renderer, p.Text)), nil
	}, nil
}

// renderMarkdown falls back to the raw text if rendering fails.
func renderMarkdown(r *glamour.TermRenderer, text string) string {
	if text == "" {
		return ""
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	// Glamour pads output with blank lines and a left margin.
	return strings.Trim(out, "\n\r\t ")
}

type confirmView struct {
	env   modals.Env
	props modals.ConfirmProps
	modal *modal.Modal
}

func newConfirmView(p modals.ConfirmProps, env modals.Env, body string) *confirmView {
	if p.Title == "" {
		p.Title = "Are you sure?"
	}
	if p.ConfirmLabel == "" {
		p.ConfirmLabel = "Confirm"
	}

	variant := modal.VariantDefault
	confirmOpts := []modal.BtnOption{}
	if p.Danger {
		variant = modal.VariantDanger
		confirmOpts = append(confirmOpts, modal.BtnDanger())
	}

	m := modal.New(p.Title, modal.WithWidth(confirmWidth), modal.WithVariant(variant))
	if body != "" {
		m.AddSection(modal.Raw(body)).AddSection(modal.Spacer())
	}
	m.AddSection(modal.Buttons(
		modal.Btn(" Cancel ", "cancel"),
		modal.Btn(" "+p.ConfirmLabel+" ", "confirm", confirmOpts...),
	))

	return &confirmView{env: env, props: p, modal: m}
}

func (v *confirmView) Init() tea.Cmd {
	cmd := v.modal.Focus()
	if !v.props.Danger {
		cmd = tea.Batch(cmd, v.modal.SetFocus("confirm"))
	}
	return cmd
}

func (v *confirmView) Update(msg tea.Msg) (modals.View, tea.Cmd) {
	var action string
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "y":
			action = "confirm"
		case "n":
			action = "cancel"
		default:
			action, cmd = v.modal.HandleKey(msg)
		}
	case tea.MouseMsg:
		action, cmd = v.modal.HandleMouse(msg)
	}

	switch action {
	case "confirm":
		return v, tea.Batch(cmd, v.close(v.props.OnConfirm))
	case "cancel":
		return v, tea.Batch(cmd, v.close(v.props.OnCancel))
	}
	return v, cmd
}

// close pops this dialog, then runs the callback.
func (v *confirmView) close(callback func() tea.Cmd) tea.Cmd {
	v.env.Close()
	if callback == nil {
		return nil
	}
	return callback()
}

func (v *confirmView) View(maxWidth int) string {
	return v.modal.Render(maxWidth)
}
