package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ListItem represents an item in a list section.
type ListItem struct {
	ID    string // Unique identifier for this item
	Label string // Display text
	Data  any    // Optional associated data
}

// ListOption is a functional option for List sections.
type ListOption func(*ListSection)

// ListSection renders a scrollable list of items.
type ListSection struct {
	id           string
	items        []ListItem
	selectedIdx  *int // Owned by the caller
	maxVisible   int
	scrollOffset int

	// Row layout of the last render: the item index drawn on each line, or
	// -1 for scroll indicators.
	rows []int
}

// List creates a list section with selectable items.
// selectedIdx points at the selected index and may be nil for a read-only list.
func List(id string, items []ListItem, selectedIdx *int, opts ...ListOption) *ListSection {
	s := &ListSection{
		id:          id,
		items:       items,
		selectedIdx: selectedIdx,
		maxVisible:  5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithMaxVisible sets the maximum number of visible items.
func WithMaxVisible(n int) ListOption {
	return func(s *ListSection) {
		if n > 0 {
			s.maxVisible = n
		}
	}
}

// SetItems replaces the items and clamps the selection.
func (s *ListSection) SetItems(items []ListItem) {
	s.items = items
	if s.selectedIdx != nil {
		*s.selectedIdx = clamp(*s.selectedIdx, 0, max(len(items)-1, 0))
	}
}

// Items returns the current items.
func (s *ListSection) Items() []ListItem { return s.items }

// Selected returns the selected item, if any.
func (s *ListSection) Selected() (ListItem, bool) {
	if s.selectedIdx == nil || *s.selectedIdx < 0 || *s.selectedIdx >= len(s.items) {
		return ListItem{}, false
	}
	return s.items[*s.selectedIdx], true
}

// ItemAt returns the index of the item drawn on the given line of the last
// render.
func (s *ListSection) ItemAt(row int) (int, bool) {
	if row < 0 || row >= len(s.rows) || s.rows[row] < 0 {
		return 0, false
	}
	return s.rows[row], true
}

func (s *ListSection) itemRegionID(item ListItem) string {
	return s.id + ":" + item.ID
}

func (s *ListSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	s.rows = s.rows[:0]
	if len(s.items) == 0 {
		s.rows = append(s.rows, -1)
		return RenderedSection{Content: MutedText.Render("(no items)")}
	}

	visibleCount := min(s.maxVisible, len(s.items))
	selectedIdx := 0
	if s.selectedIdx != nil {
		selectedIdx = *s.selectedIdx
	}

	// Keep the selection visible
	if selectedIdx < s.scrollOffset {
		s.scrollOffset = selectedIdx
	} else if selectedIdx >= s.scrollOffset+visibleCount {
		s.scrollOffset = selectedIdx - visibleCount + 1
	}
	s.scrollOffset = clamp(s.scrollOffset, 0, max(0, len(s.items)-visibleCount))

	listIsFocused := focusID == s.id

	var lines []string
	var focusables []FocusableInfo

	if s.scrollOffset > 0 {
		lines = append(lines, MutedText.Render("↑ more above"))
		s.rows = append(s.rows, -1)
	}
	firstItemRow := len(lines)

	for i := 0; i < visibleCount; i++ {
		itemIdx := s.scrollOffset + i
		if itemIdx >= len(s.items) {
			break
		}

		item := s.items[itemIdx]
		isSelected := s.selectedIdx != nil && *s.selectedIdx == itemIdx
		isHovered := s.itemRegionID(item) == hoverID

		style := ListItemNormal
		switch {
		case isSelected && listIsFocused:
			style = ListItemFocused
		case isSelected, isHovered:
			style = ListItemSelected
		}

		cursor := "  "
		if isSelected {
			cursor = ListCursor.Render("> ")
		}

		lines = append(lines, cursor+style.Render(item.Label))
		s.rows = append(s.rows, itemIdx)
		focusables = append(focusables, FocusableInfo{
			ID:      s.itemRegionID(item),
			OffsetY: len(lines) - 1,
			Width:   contentWidth,
			Height:  1,
			HitOnly: true,
		})
	}

	if s.scrollOffset+visibleCount < len(s.items) {
		lines = append(lines, MutedText.Render("↓ more below"))
		s.rows = append(s.rows, -1)
	}

	// The list itself is a single Tab stop; items are only click targets.
	focusables = append([]FocusableInfo{{
		ID:      s.id,
		OffsetY: firstItemRow,
		Width:   contentWidth,
		Height:  visibleCount,
	}}, focusables...)

	return RenderedSection{
		Content:    strings.Join(lines, "\n"),
		Focusables: focusables,
	}
}

func (s *ListSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if click, ok := msg.(ClickMsg); ok {
		for i, item := range s.items {
			if s.itemRegionID(item) == click.ID {
				if s.selectedIdx != nil {
					*s.selectedIdx = i
				}
				return item.ID, nil
			}
		}
		return "", nil
	}

	if focusID != s.id || s.selectedIdx == nil {
		return "", nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return "", nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if *s.selectedIdx > 0 {
			*s.selectedIdx--
		}
	case "down", "j":
		if *s.selectedIdx < len(s.items)-1 {
			*s.selectedIdx++
		}
	case "enter":
		if item, ok := s.Selected(); ok {
			return item.ID, nil
		}
	case "home":
		*s.selectedIdx = 0
	case "end":
		*s.selectedIdx = max(len(s.items)-1, 0)
	}

	return "", nil
}
