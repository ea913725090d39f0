// Package mouse provides hit testing and click classification for
// bubbletea mouse events.
package mouse

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// doubleClickWindow is the maximum delay between two clicks on the same
// region for them to count as a double click.
const doubleClickWindow = 400 * time.Millisecond

// Rect is a screen rectangle in cell coordinates. W and H are exclusive.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the point (x, y) lies inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Offset returns the rect translated by (dx, dy).
func (r Rect) Offset(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Region is a named, hit-testable area.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap holds regions in insertion order. Regions added later take
// priority over overlapping earlier ones.
type HitMap struct {
	regions []Region
}

// NewHitMap creates an empty hit map.
func NewHitMap() *HitMap {
	return &HitMap{}
}

// Add registers a region.
func (h *HitMap) Add(id string, r Rect, data any) {
	h.regions = append(h.regions, Region{ID: id, Rect: r, Data: data})
}

// AddRect registers a region from its coordinates.
func (h *HitMap) AddRect(id string, x, y, w, h2 int, data any) {
	h.Add(id, Rect{X: x, Y: y, W: w, H: h2}, data)
}

// Test returns the highest priority region containing (x, y), or nil.
func (h *HitMap) Test(x, y int) *Region {
	for i := len(h.regions) - 1; i >= 0; i-- {
		if h.regions[i].Rect.Contains(x, y) {
			r := h.regions[i]
			return &r
		}
	}
	return nil
}

// Find returns the most recently added region with the given id, or nil.
func (h *HitMap) Find(id string) *Region {
	for i := len(h.regions) - 1; i >= 0; i-- {
		if h.regions[i].ID == id {
			r := h.regions[i]
			return &r
		}
	}
	return nil
}

// Clear removes all regions.
func (h *HitMap) Clear() {
	h.regions = h.regions[:0]
}

// ActionType classifies a mouse event.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionDoubleClick
	ActionHover
	ActionScrollUp
	ActionScrollDown
	ActionScrollLeft
	ActionScrollRight
)

// MouseAction is the classified result of a mouse event.
type MouseAction struct {
	Type   ActionType
	Region *Region
	X, Y   int
}

// ClickResult reports the outcome of a click.
type ClickResult struct {
	Region        *Region
	IsDoubleClick bool
}

// Handler classifies mouse events against its hit map and tracks click
// state between events.
type Handler struct {
	HitMap *HitMap

	now func() time.Time

	lastClickAt     time.Time
	lastClickRegion string
}

// NewHandler creates a handler with an empty hit map.
func NewHandler() *Handler {
	return &Handler{HitMap: NewHitMap(), now: time.Now}
}

// Clear drops all hit regions. Click state is kept.
func (h *Handler) Clear() {
	h.HitMap.Clear()
}

// HandleClick hit-tests (x, y) and detects double clicks on the same region.
func (h *Handler) HandleClick(x, y int) ClickResult {
	region := h.HitMap.Test(x, y)
	now := h.now()

	result := ClickResult{Region: region}
	if region != nil && region.ID == h.lastClickRegion && now.Sub(h.lastClickAt) <= doubleClickWindow {
		result.IsDoubleClick = true
		// A double click consumes the pair; the next click starts over.
		h.lastClickRegion = ""
		h.lastClickAt = time.Time{}
		return result
	}

	h.lastClickAt = now
	h.lastClickRegion = ""
	if region != nil {
		h.lastClickRegion = region.ID
	}
	return result
}

// HandleMouse classifies a bubbletea mouse message.
func (h *Handler) HandleMouse(msg tea.MouseMsg) MouseAction {
	action := MouseAction{X: msg.X, Y: msg.Y}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			action.Type = ActionScrollUp
			if msg.Shift {
				action.Type = ActionScrollLeft
			}
			action.Region = h.HitMap.Test(msg.X, msg.Y)
		case tea.MouseButtonWheelDown:
			action.Type = ActionScrollDown
			if msg.Shift {
				action.Type = ActionScrollRight
			}
			action.Region = h.HitMap.Test(msg.X, msg.Y)
		case tea.MouseButtonWheelLeft:
			action.Type = ActionScrollLeft
			action.Region = h.HitMap.Test(msg.X, msg.Y)
		case tea.MouseButtonWheelRight:
			action.Type = ActionScrollRight
			action.Region = h.HitMap.Test(msg.X, msg.Y)
		case tea.MouseButtonLeft:
			click := h.HandleClick(msg.X, msg.Y)
			action.Region = click.Region
			action.Type = ActionClick
			if click.IsDoubleClick {
				action.Type = ActionDoubleClick
			}
		}

	case tea.MouseActionMotion:
		action.Type = ActionHover
		action.Region = h.HitMap.Test(msg.X, msg.Y)
	}

	return action
}
