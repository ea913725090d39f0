package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/openpanel/panel/pkg/monitor/mouse"
)

// Variant selects the visual style of a modal.
type Variant int

const (
	VariantDefault Variant = iota
	VariantDanger
	VariantWarning
	VariantInfo
)

const (
	defaultWidth = 50
	minWidth     = 20

	// Box chrome: one border cell plus horizontal padding of two cells and
	// vertical padding of one line.
	borderSize = 1
	padX       = 2
	padY       = 1
)

// FocusableInfo describes a focusable element inside a rendered section.
// Offsets are relative to the section's top-left corner.
type FocusableInfo struct {
	ID      string
	OffsetX int
	OffsetY int
	Width   int
	Height  int
	// HitOnly regions receive clicks but are skipped by Tab navigation.
	HitOnly bool
}

// RenderedSection is the output of Section.Render.
type RenderedSection struct {
	Content    string
	Focusables []FocusableInfo
}

// Section is one block of modal content.
type Section interface {
	// Render draws the section for the given content width. focusID and
	// hoverID identify the focused and hovered elements, if any.
	Render(contentWidth int, focusID, hoverID string) RenderedSection
	// Update handles a message. A non-empty return value is an action ID
	// that the caller should act on.
	Update(msg tea.Msg, focusID string) (string, tea.Cmd)
}

// focusAware sections are told whenever the modal's focus changes.
type focusAware interface {
	SetFocus(focusID string) tea.Cmd
}

// ClickMsg is delivered to sections when a focusable element is clicked.
type ClickMsg struct {
	ID string
}

// Option configures a Modal.
type Option func(*Modal)

// WithWidth sets the outer width of the modal.
func WithWidth(w int) Option {
	return func(m *Modal) {
		if w >= minWidth {
			m.width = w
		}
	}
}

// WithVariant sets the visual style.
func WithVariant(v Variant) Option {
	return func(m *Modal) { m.variant = v }
}

// WithHints shows or hides the keyboard hint line.
func WithHints(show bool) Option {
	return func(m *Modal) { m.showHints = show }
}

// WithPrimaryAction sets the action returned when Enter is pressed on an
// element that does not produce an action of its own (e.g. a text input).
func WithPrimaryAction(actionID string) Option {
	return func(m *Modal) { m.primaryAction = actionID }
}

// Modal is a declarative dialog made of sections.
type Modal struct {
	title         string
	width         int
	variant       Variant
	showHints     bool
	primaryAction string

	sections []Section

	// Layout from the last Render, relative to the box origin.
	focusables []FocusableInfo
	rendered   bool

	focusID string
	hoverID string
	hits    *mouse.HitMap
}

// New creates a modal with the given title.
func New(title string, opts ...Option) *Modal {
	m := &Modal{
		title:     title,
		width:     defaultWidth,
		showHints: true,
		hits:      mouse.NewHitMap(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddSection appends a section and returns the modal for chaining.
func (m *Modal) AddSection(s Section) *Modal {
	m.sections = append(m.sections, s)
	return m
}

// Width returns the configured outer width.
func (m *Modal) Width() int { return m.width }

// FocusedID returns the ID of the focused element.
func (m *Modal) FocusedID() string { return m.focusID }

// SetFocus moves focus to id.
func (m *Modal) SetFocus(id string) tea.Cmd {
	m.focusID = id
	return m.notifyFocus()
}

// Focus initializes focus on the first focusable element and returns any
// command the focused section needs (e.g. cursor blink).
func (m *Modal) Focus() tea.Cmd {
	m.ensureLayout()
	if m.focusID == "" && len(m.focusables) > 0 {
		m.focusID = m.focusables[0].ID
	}
	return m.notifyFocus()
}

func (m *Modal) notifyFocus() tea.Cmd {
	var cmds []tea.Cmd
	for _, s := range m.sections {
		if fa, ok := s.(focusAware); ok {
			cmds = append(cmds, fa.SetFocus(m.focusID))
		}
	}
	return tea.Batch(cmds...)
}

func (m *Modal) ensureLayout() {
	if !m.rendered {
		m.Render(m.width)
	}
}

// Render draws the modal box no wider than maxWidth and records focusable
// hit regions relative to the box's top-left corner.
func (m *Modal) Render(maxWidth int) string {
	width := m.width
	if maxWidth > 0 && width > maxWidth {
		width = max(maxWidth, minWidth)
	}
	contentWidth := width - 2*borderSize - 2*padX

	m.hits.Clear()
	m.focusables = m.focusables[:0]

	originX := borderSize + padX
	originY := borderSize + padY

	var parts []string
	y := 0

	if m.title != "" {
		parts = append(parts, m.titleStyle().Render(m.title), "")
		y += 2
	}

	for _, s := range m.sections {
		rs := s.Render(contentWidth, m.focusID, m.hoverID)
		for _, f := range rs.Focusables {
			abs := FocusableInfo{
				ID:      f.ID,
				OffsetX: originX + f.OffsetX,
				OffsetY: originY + y + f.OffsetY,
				Width:   f.Width,
				Height:  max(f.Height, 1),
			}
			m.hits.AddRect(abs.ID, abs.OffsetX, abs.OffsetY, abs.Width, abs.Height, f.HitOnly)
			if !f.HitOnly {
				m.focusables = append(m.focusables, abs)
			}
		}
		parts = append(parts, rs.Content)
		y += lipgloss.Height(rs.Content)
	}

	if m.showHints {
		parts = append(parts, "", MutedText.Render(m.hintLine()))
	}

	m.rendered = true
	m.focusID = m.validFocus(m.focusID)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.borderColor()).
		Padding(padY, padX).
		Width(width - 2*borderSize)

	return box.Render(strings.Join(parts, "\n"))
}

func (m *Modal) hintLine() string {
	if len(m.focusables) > 1 {
		return "tab next · enter select · esc close"
	}
	return "enter select · esc close"
}

func (m *Modal) validFocus(id string) string {
	for _, f := range m.focusables {
		if f.ID == id {
			return id
		}
	}
	if len(m.focusables) > 0 && id != "" {
		return m.focusables[0].ID
	}
	return id
}

func (m *Modal) titleStyle() lipgloss.Style {
	return ModalTitle.Foreground(m.borderColor())
}

func (m *Modal) borderColor() lipgloss.Color {
	switch m.variant {
	case VariantDanger:
		return Error
	case VariantWarning:
		return Warning
	case VariantInfo:
		return Info
	default:
		return Primary
	}
}

// Region returns the box-relative rectangle of a focusable element from the
// last Render.
func (m *Modal) Region(id string) (mouse.Rect, bool) {
	r := m.hits.Find(id)
	if r == nil {
		return mouse.Rect{}, false
	}
	return r.Rect, true
}

// HandleKey processes a key press. It returns the triggered action ID, if
// any, and a command for the section that handled the key.
func (m *Modal) HandleKey(msg tea.KeyMsg) (string, tea.Cmd) {
	m.ensureLayout()

	switch msg.String() {
	case "tab":
		return "", m.cycleFocus(1)
	case "shift+tab":
		return "", m.cycleFocus(-1)
	case "down":
		if m.focusIsInput() {
			return "", m.cycleFocus(1)
		}
	case "up":
		if m.focusIsInput() {
			return "", m.cycleFocus(-1)
		}
	}

	var cmds []tea.Cmd
	for _, s := range m.sections {
		action, cmd := s.Update(msg, m.focusID)
		cmds = append(cmds, cmd)
		if action != "" {
			return action, tea.Batch(cmds...)
		}
	}

	if msg.Type == tea.KeyEnter && m.primaryAction != "" {
		return m.primaryAction, tea.Batch(cmds...)
	}
	return "", tea.Batch(cmds...)
}

// focusIsInput reports whether focus sits on a text input, where up and
// down mean nothing to the input itself and move between fields.
func (m *Modal) focusIsInput() bool {
	for _, s := range m.sections {
		if in, ok := s.(*inputSection); ok && in.id == m.focusID {
			return true
		}
	}
	return false
}

func (m *Modal) cycleFocus(delta int) tea.Cmd {
	if len(m.focusables) == 0 {
		return nil
	}
	idx := 0
	for i, f := range m.focusables {
		if f.ID == m.focusID {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(m.focusables)) % len(m.focusables)
	return m.SetFocus(m.focusables[idx].ID)
}

// HandleMouse processes a mouse event whose coordinates are relative to the
// box origin. Clicking a focusable element focuses it and may trigger its
// action.
func (m *Modal) HandleMouse(msg tea.MouseMsg) (string, tea.Cmd) {
	m.ensureLayout()
	region := m.hits.Test(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionMotion:
		m.hoverID = ""
		if region != nil {
			m.hoverID = region.ID
		}
		return "", nil
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || region == nil {
			return "", nil
		}
		var focusCmd tea.Cmd
		if hitOnly, _ := region.Data.(bool); !hitOnly {
			focusCmd = m.SetFocus(region.ID)
		}
		for _, s := range m.sections {
			if action, cmd := s.Update(ClickMsg{ID: region.ID}, m.focusID); action != "" {
				return action, tea.Batch(focusCmd, cmd)
			}
		}
		return "", focusCmd
	}
	return "", nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
