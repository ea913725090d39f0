package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/openpanel/panel/internal/models"
	"github.com/openpanel/panel/pkg/monitor/modal"
	"github.com/openpanel/panel/pkg/monitor/mouse"
)

// Rows above the pane lists: title, divider, pane headers.
const (
	listTop      = 3
	chromeHeight = listTop + 2 // plus footer divider and footer
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(modal.Primary)
	hintStyle     = lipgloss.NewStyle().Foreground(modal.Muted)
	sepStyle      = lipgloss.NewStyle().Foreground(modal.BorderNormal)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("237")).Bold(true)
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(modal.Primary).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(modal.Info)
	errorStyle    = lipgloss.NewStyle().Foreground(modal.Error)
	badgeStyle    = lipgloss.NewStyle().Foreground(modal.Warning)
)

// rowRef is the hit region payload of a list row.
type rowRef struct {
	pane  Pane
	index int
}

func paneRegionID(p Pane) string { return "pane:" + p.String() }

func paneOf(r *mouse.Region) (Pane, bool) {
	switch d := r.Data.(type) {
	case Pane:
		return d, true
	case rowRef:
		return d.pane, true
	}
	return 0, false
}

var allPanes = []Pane{PaneProjects, PaneClients, PaneMembers, PaneInvites}

func (m Model) paneLen(p Pane) int {
	switch p {
	case PaneClients:
		return len(m.Clients)
	case PaneMembers:
		return len(m.Members)
	case PaneInvites:
		return len(m.Invites)
	}
	return len(m.Projects)
}

// paneWidths splits the width between the two panes and their separator.
func (m Model) paneWidths() (int, int) {
	left := max((m.Width-1)/2, 0)
	right := max(m.Width-1-left, 0)
	return left, right
}

func (m Model) visibleRows() int {
	return max(m.Height-chromeHeight, 1)
}

func (m *Model) cursor(p Pane) (*int, *int) {
	switch p {
	case PaneClients:
		return &m.ClientRow, &m.ClientScroll
	case PaneMembers:
		return &m.MemberRow, &m.MemberScroll
	case PaneInvites:
		return &m.InviteRow, &m.InviteScroll
	}
	return &m.ProjectRow, &m.ProjectScroll
}

func (m *Model) moveCursor(delta int) {
	row, _ := m.cursor(m.ActivePane)
	m.setCursor(*row + delta)
}

func (m *Model) setCursor(idx int) {
	row, _ := m.cursor(m.ActivePane)
	n := m.paneLen(m.ActivePane)
	if n == 0 {
		*row = 0
		return
	}
	*row = min(max(idx, 0), n-1)
	m.ensureVisible()
}

func (m *Model) clampRows() {
	for _, p := range allPanes {
		row, _ := m.cursor(p)
		n := m.paneLen(p)
		switch {
		case n == 0:
			*row = 0
		case *row >= n:
			*row = n - 1
		}
	}
}

// ensureVisible scrolls every pane so its cursor is on screen.
func (m *Model) ensureVisible() {
	visible := m.visibleRows()
	for _, p := range allPanes {
		row, scroll := m.cursor(p)
		if *row < *scroll {
			*scroll = *row
		} else if *row >= *scroll+visible {
			*scroll = *row - visible + 1
		}
		maxScroll := max(m.paneLen(p)-visible, 0)
		*scroll = min(max(*scroll, 0), maxScroll)
	}
}

// renderDashboard draws the full frame and records row hit regions.
func (m Model) renderDashboard() string {
	m.mouse.Clear()
	leftW, rightW := m.paneWidths()
	visible := m.visibleRows()

	pair := pages[m.ActivePane.page()]

	title := titleStyle.Render(fmt.Sprintf(" Settings: %s ", m.Org.Name))
	hints := hintStyle.Render("  2:team  tab:pane  a:add project  c:add client  e:edit  d:delete  r:report  y:copy id  q:quit")
	if pair[0] == PaneMembers {
		hints = hintStyle.Render("  1:projects  tab:pane  i:invite  d:revoke invite  q:quit")
	}
	header := ansi.Truncate(title+hints, m.Width, "…")
	divider := sepStyle.Render(strings.Repeat("─", m.Width))
	sep := sepStyle.Render("│")

	m.mouse.HitMap.AddRect(paneRegionID(pair[0]), 0, listTop-1, leftW, visible+1, pair[0])
	m.mouse.HitMap.AddRect(paneRegionID(pair[1]), leftW+1, listTop-1, rightW, visible+1, pair[1])

	left := m.renderPane(pair[0], leftW, visible, 0, m.lineFunc(pair[0]))
	right := m.renderPane(pair[1], rightW, visible, leftW+1, m.lineFunc(pair[1]))

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(divider)
	for i := range left {
		b.WriteString("\n")
		b.WriteString(left[i])
		b.WriteString(sep)
		b.WriteString(right[i])
	}
	b.WriteString("\n")
	b.WriteString(divider)
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// lineFunc returns the row renderer of pane p.
func (m Model) lineFunc(p Pane) func(i, width int) string {
	switch p {
	case PaneClients:
		return func(i, w int) string {
			return clientLine(m.Clients[i], m.projectName(m.Clients[i].ProjectID), w)
		}
	case PaneMembers:
		return func(i, w int) string {
			u := m.Members[i]
			return memberLine(u, models.AccessLabels(u.Access, m.Projects), w)
		}
	case PaneInvites:
		return func(i, w int) string {
			inv := m.Invites[i]
			return inviteLine(inv, models.AccessLabels(inv.Access, m.Projects), w)
		}
	}
	counts := clientCounts(m.Clients)
	return func(i, w int) string {
		return projectLine(m.Projects[i], counts[m.Projects[i].ID], w)
	}
}

// renderPane returns the header line plus visible rows, each exactly width
// cells wide.
func (m Model) renderPane(p Pane, width, visible, x int, line func(i, width int) string) []string {
	n := m.paneLen(p)
	row, scroll := m.cursor(p)

	label := fmt.Sprintf("%s (%d)", strings.ToUpper(p.String()), n)
	headerStyle := hintStyle.Bold(true)
	if p == m.ActivePane {
		headerStyle = activeStyle
	}
	lines := []string{fit(headerStyle.Render(" "+label+" "), width)}

	for v := range visible {
		i := v + *scroll
		if i >= n {
			text := ""
			if n == 0 && v == 0 {
				text = hintStyle.Render("  nothing here yet")
			}
			lines = append(lines, fit(text, width))
			continue
		}
		text := line(i, max(width-2, 0))
		switch {
		case i == *row && p == m.ActivePane:
			text = selectedStyle.Render("▸ " + ansi.Strip(text))
		case i == *row:
			text = "▸ " + text
		default:
			text = "  " + text
		}
		lines = append(lines, fit(text, width))
		m.mouse.HitMap.AddRect(fmt.Sprintf("%s:%d", p, i), x, listTop+v, width, 1, rowRef{pane: p, index: i})
	}
	return lines
}

// fit truncates or pads s to exactly width cells.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) > width {
		s = ansi.Truncate(s, width, "…")
	}
	if pad := width - lipgloss.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

func projectLine(p models.Project, clients, width int) string {
	meta := hintStyle.Render(fmt.Sprintf(" %s · %d clients", p.ID, clients))
	return ansi.Truncate(p.Name+meta, width, "…")
}

func clientLine(c models.Client, project string, width int) string {
	if project == "" {
		project = "organization-wide"
	}
	kind := string(c.Type())
	if c.Type() == models.ClientTypeWrite {
		kind = badgeStyle.Render(kind)
	}
	meta := hintStyle.Render(" · " + project)
	return ansi.Truncate(c.Name+" "+kind+meta, width, "…")
}

func roleBadge(r models.Role) string {
	if r == models.RoleAdmin {
		return badgeStyle.Render(r.Label())
	}
	return r.Label()
}

func memberLine(u models.Member, access []string, width int) string {
	meta := hintStyle.Render(fmt.Sprintf(" · %s · %s", u.Email, strings.Join(access, ", ")))
	return ansi.Truncate(u.Name+" "+roleBadge(u.Role)+meta, width, "…")
}

func inviteLine(inv models.Invite, access []string, width int) string {
	status := string(inv.Status)
	switch inv.Status {
	case models.InvitePending:
		status = statusStyle.Render(status)
	case models.InviteRevoked:
		status = errorStyle.Render(status)
	}
	meta := hintStyle.Render(" · " + strings.Join(access, ", "))
	return ansi.Truncate(inv.Email+" "+roleBadge(inv.Role)+" "+status+meta, width, "…")
}

func (m Model) renderFooter() string {
	counts := fmt.Sprintf("%d projects · %d clients", len(m.Projects), len(m.Clients))
	if m.ActivePane.page() == 1 {
		counts = fmt.Sprintf("%d members · %d invites", len(m.Members), len(m.Invites))
	}
	status := hintStyle.Render(counts)
	if m.StatusMessage != "" {
		style := statusStyle
		if m.StatusIsError {
			style = errorStyle
		}
		status = style.Render(m.StatusMessage)
	}
	return fit(status, m.Width)
}
