package views

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/openpanel/panel/pkg/monitor/modal"
	"github.com/openpanel/panel/pkg/monitor/mouse"
)

const pickerListID = "picker"

var pickerStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(modal.Primary)

// projectPicker is a filter input with a fuzzy-matched dropdown drawn as
// a portal below the input.
type projectPicker struct {
	input textinput.Model

	all      []modal.ListItem
	filtered []modal.ListItem
	list     *modal.ListSection
	cursor   int

	open   bool
	chosen modal.ListItem
	// rect is where the dropdown was last drawn, relative to the dialog box.
	rect mouse.Rect
}

func newProjectPicker() *projectPicker {
	p := &projectPicker{input: textinput.New()}
	p.input.Placeholder = "type to search projects"
	p.input.Prompt = "▸ "
	p.list = modal.List(pickerListID, nil, &p.cursor, modal.WithMaxVisible(5))
	return p
}

func (p *projectPicker) setItems(items []modal.ListItem, chosenID string) {
	p.all = items
	for _, it := range items {
		if it.ID == chosenID {
			p.chosen = it
		}
	}
	p.refilter()
	if !p.open {
		p.input.SetValue(p.chosen.Label)
	}
}

// refilter matches the query against every item label. An empty query
// lists everything in catalog order.
func (p *projectPicker) refilter() {
	query := p.input.Value()
	if !p.open || query == "" {
		p.filtered = p.all
	} else {
		labels := make([]string, len(p.all))
		for i, it := range p.all {
			labels[i] = it.Label
		}
		p.filtered = p.filtered[:0:0]
		for _, m := range fuzzy.Find(query, labels) {
			p.filtered = append(p.filtered, p.all[m.Index])
		}
	}
	p.cursor = 0
	p.list.SetItems(p.filtered)
}

// activate opens the dropdown with an empty query.
func (p *projectPicker) activate() {
	p.open = true
	p.input.SetValue("")
	p.refilter()
}

// deactivate closes the dropdown and shows the chosen project again.
func (p *projectPicker) deactivate() {
	p.open = false
	p.input.SetValue(p.chosen.Label)
	p.refilter()
}

// choose picks the filtered item at idx and closes the dropdown.
func (p *projectPicker) choose(idx int) bool {
	if idx < 0 || idx >= len(p.filtered) {
		return false
	}
	p.chosen = p.filtered[idx]
	p.deactivate()
	return true
}

func (p *projectPicker) move(delta int) {
	if len(p.filtered) == 0 {
		return
	}
	p.cursor = clampInt(p.cursor+delta, 0, len(p.filtered)-1)
}

// portal renders the dropdown below the input field at anchor.
func (p *projectPicker) portal(anchor mouse.Rect) (mouse.Rect, string) {
	inner := max(anchor.W-2, 10)
	rs := p.list.Render(inner, pickerListID, "")
	content := pickerStyle.Width(inner).Render(rs.Content)
	p.rect = mouse.Rect{
		X: anchor.X,
		Y: anchor.Y + anchor.H,
		W: lipgloss.Width(content),
		H: lipgloss.Height(content),
	}
	return p.rect, content
}

// itemAt maps a dialog-relative point inside the dropdown to a filtered
// item index.
func (p *projectPicker) itemAt(x, y int) (int, bool) {
	if !p.rect.Contains(x, y) {
		return 0, false
	}
	// One border row above the list.
	return p.list.ItemAt(y - p.rect.Y - 1)
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
