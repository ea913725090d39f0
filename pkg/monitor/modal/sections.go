package modal

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// textSection renders static, word-wrapped text.
type textSection struct {
	text string
	wrap bool
}

// Text creates a section with static text wrapped to the content width.
func Text(s string) Section {
	return &textSection{text: s, wrap: true}
}

// Raw creates a section with pre-rendered content that is not re-wrapped,
// such as markdown output.
func Raw(s string) Section {
	return &textSection{text: strings.TrimRight(s, "\n")}
}

// Spacer creates a blank line.
func Spacer() Section {
	return &textSection{}
}

func (s *textSection) Render(contentWidth int, _, _ string) RenderedSection {
	if !s.wrap {
		return RenderedSection{Content: s.text}
	}
	return RenderedSection{Content: Body.Width(contentWidth).Render(s.text)}
}

func (s *textSection) Update(tea.Msg, string) (string, tea.Cmd) { return "", nil }

// ButtonDef describes one button in a button row.
type ButtonDef struct {
	Label  string
	ID     string
	Danger bool
}

// BtnOption configures a ButtonDef.
type BtnOption func(*ButtonDef)

// BtnDanger styles the button as destructive.
func BtnDanger() BtnOption {
	return func(b *ButtonDef) { b.Danger = true }
}

// Btn creates a button definition. id is the action returned on activation.
func Btn(label, id string, opts ...BtnOption) ButtonDef {
	b := ButtonDef{Label: label, ID: id}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// buttonSection renders a row of buttons.
type buttonSection struct {
	buttons []ButtonDef
}

// Buttons creates a button row.
func Buttons(btns ...ButtonDef) Section {
	return &buttonSection{buttons: btns}
}

func (s *buttonSection) Render(_ int, focusID, hoverID string) RenderedSection {
	var (
		rendered   []string
		focusables []FocusableInfo
	)
	x := 0
	for i, b := range s.buttons {
		label := s.style(b, focusID, hoverID).Render(b.Label)
		w := ansi.StringWidth(label)
		focusables = append(focusables, FocusableInfo{ID: b.ID, OffsetX: x, Width: w, Height: 1})
		rendered = append(rendered, label)
		x += w
		if i < len(s.buttons)-1 {
			rendered = append(rendered, "  ")
			x += 2
		}
	}
	return RenderedSection{Content: strings.Join(rendered, ""), Focusables: focusables}
}

func (s *buttonSection) style(b ButtonDef, focusID, hoverID string) lipgloss.Style {
	switch {
	case b.ID == focusID && b.Danger:
		return ButtonDangerFocused
	case b.ID == focusID:
		return ButtonFocused
	case b.ID == hoverID && b.Danger:
		return ButtonDangerHover
	case b.ID == hoverID:
		return ButtonHover
	case b.Danger:
		return ButtonDanger
	default:
		return Button
	}
}

func (s *buttonSection) owns(id string) bool {
	for _, b := range s.buttons {
		if b.ID == id {
			return true
		}
	}
	return false
}

func (s *buttonSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	switch msg := msg.(type) {
	case ClickMsg:
		if s.owns(msg.ID) {
			return msg.ID, nil
		}
	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter && s.owns(focusID) {
			return focusID, nil
		}
	}
	return "", nil
}

// checkboxSection renders a toggleable checkbox bound to a bool.
type checkboxSection struct {
	id      string
	label   string
	checked *bool
}

// Checkbox creates a checkbox toggled with space, enter or a click.
func Checkbox(id, label string, checked *bool) Section {
	return &checkboxSection{id: id, label: label, checked: checked}
}

func (s *checkboxSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	mark := "[ ]"
	if s.checked != nil && *s.checked {
		mark = "[x]"
	}
	style := ListItemNormal
	switch s.id {
	case focusID:
		style = ListItemFocused
	case hoverID:
		style = ListItemSelected
	}
	line := style.Render(mark + " " + s.label)
	return RenderedSection{
		Content:    line,
		Focusables: []FocusableInfo{{ID: s.id, Width: min(ansi.StringWidth(line), contentWidth), Height: 1}},
	}
}

func (s *checkboxSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if s.checked == nil {
		return "", nil
	}
	switch msg := msg.(type) {
	case ClickMsg:
		if msg.ID == s.id {
			*s.checked = !*s.checked
		}
	case tea.KeyMsg:
		if focusID == s.id && (msg.String() == " " || msg.Type == tea.KeySpace) {
			*s.checked = !*s.checked
		}
	}
	return "", nil
}

// InputOption configures an Input section.
type InputOption func(*inputSection)

// WithLabel sets a label rendered above the input.
func WithLabel(label string) InputOption {
	return func(s *inputSection) { s.label = label }
}

// WithError sets a validation message rendered below the input. The
// function is evaluated on every render.
func WithError(fn func() string) InputOption {
	return func(s *inputSection) { s.errFn = fn }
}

// inputSection wraps a textinput.Model owned by the caller.
type inputSection struct {
	id    string
	model *textinput.Model
	label string
	errFn func() string
}

// Input creates a single-line text input section.
func Input(id string, model *textinput.Model, opts ...InputOption) Section {
	s := &inputSection{id: id, model: model}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *inputSection) Render(contentWidth int, focusID, _ string) RenderedSection {
	var lines []string
	offsetY := 0
	if s.label != "" {
		label := MutedText.Render(s.label)
		if focusID == s.id {
			label = ModalTitle.Render(s.label)
		}
		lines = append(lines, label)
		offsetY = 1
	}
	s.model.Width = max(contentWidth-ansi.StringWidth(s.model.Prompt)-1, 1)
	lines = append(lines, s.model.View())
	if s.errFn != nil {
		if msg := s.errFn(); msg != "" {
			lines = append(lines, lipgloss.NewStyle().Foreground(Error).Render(msg))
		}
	}
	return RenderedSection{
		Content:    strings.Join(lines, "\n"),
		Focusables: []FocusableInfo{{ID: s.id, OffsetY: offsetY, Width: contentWidth, Height: 1}},
	}
}

func (s *inputSection) SetFocus(focusID string) tea.Cmd {
	if focusID == s.id {
		return s.model.Focus()
	}
	s.model.Blur()
	return nil
}

func (s *inputSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if focusID != s.id {
		return "", nil
	}
	if _, ok := msg.(ClickMsg); ok {
		return "", nil
	}
	m, cmd := s.model.Update(msg)
	*s.model = m
	return "", cmd
}

// whenSection renders its inner section only while the condition holds.
type whenSection struct {
	cond  func() bool
	inner Section
}

// When wraps a section so that it is rendered and updated only while cond
// returns true.
func When(cond func() bool, s Section) Section {
	return &whenSection{cond: cond, inner: s}
}

func (s *whenSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	if !s.cond() {
		return RenderedSection{}
	}
	return s.inner.Render(contentWidth, focusID, hoverID)
}

func (s *whenSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if !s.cond() {
		return "", nil
	}
	return s.inner.Update(msg, focusID)
}

// customSection adapts plain functions to Section.
type customSection struct {
	render func(contentWidth int, focusID, hoverID string) RenderedSection
	update func(msg tea.Msg, focusID string) (string, tea.Cmd)
}

// Custom creates a section from render and update functions. update may be
// nil for display-only content.
func Custom(render func(contentWidth int, focusID, hoverID string) RenderedSection, update func(msg tea.Msg, focusID string) (string, tea.Cmd)) Section {
	return &customSection{render: render, update: update}
}

func (s *customSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	return s.render(contentWidth, focusID, hoverID)
}

func (s *customSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if s.update == nil {
		return "", nil
	}
	return s.update(msg, focusID)
}
