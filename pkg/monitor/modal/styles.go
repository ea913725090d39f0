package modal

import "github.com/charmbracelet/lipgloss"

// Palette shared with the settings dashboard.
var (
	Primary      = lipgloss.Color("39")  // accent blue
	Error        = lipgloss.Color("196") // destructive actions
	Warning      = lipgloss.Color("214")
	Info         = lipgloss.Color("45")
	Muted        = lipgloss.Color("241")
	Backdrop     = lipgloss.Color("238") // dimmed frame behind open modals
	BorderNormal = lipgloss.Color("240")

	textBright = lipgloss.Color("255")
	textNormal = lipgloss.Color("252")
	surface    = lipgloss.Color("238")
	highlight  = lipgloss.Color("237")
)

func button(fg, bg lipgloss.Color, bold bool) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(fg).Background(bg).Bold(bold).Padding(0, 2)
}

// Buttons are drawn in three states. Danger buttons only differ once they
// have focus or the pointer.
var (
	Button        = button(textNormal, surface, false)
	ButtonFocused = button(textBright, Primary, true)
	ButtonHover   = button(textBright, lipgloss.Color("245"), false)

	ButtonDanger        = Button
	ButtonDangerFocused = button(textBright, Error, true)
	ButtonDangerHover   = button(textBright, lipgloss.Color("203"), false)
)

var (
	ModalTitle = lipgloss.NewStyle().Bold(true)
	MutedText  = lipgloss.NewStyle().Foreground(Muted)
	Body       = lipgloss.NewStyle()
)

// List rows: the selected row is highlighted, and bold as well while the
// list has focus.
var (
	ListItemNormal   = lipgloss.NewStyle().Foreground(textNormal)
	ListItemSelected = lipgloss.NewStyle().Foreground(textBright).Background(highlight)
	ListItemFocused  = ListItemSelected.Bold(true)
	ListCursor       = lipgloss.NewStyle().Foreground(Primary).Bold(true)
)
