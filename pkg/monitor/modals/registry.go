package modals

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/openpanel/panel/pkg/monitor/mouse"
)

// ErrUnknownModal is reported when an entry names a kind missing from the
// registry.
var ErrUnknownModal = errors.New("modals: unknown modal kind")

// ErrBadProps is returned by factories given props of the wrong type.
var ErrBadProps = errors.New("modals: props do not match modal kind")

// View is one rendered modal instance.
type View interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (View, tea.Cmd)
	// View renders the modal box no wider than maxWidth.
	View(maxWidth int) string
}

// Portal is overlay content a view draws outside its own box, such as an
// open dropdown. Rect is relative to the view's top-left corner.
type Portal struct {
	Rect    mouse.Rect
	Content string
}

// PortalView is implemented by views that spawn portals. Clicks inside a
// portal are not outside clicks.
type PortalView interface {
	View
	Portals() []Portal
}

// Env is handed to a view when it is constructed.
type Env struct {
	Bus  *Bus
	Key  string
	Name Name
}

// Close removes this exact instance from the stack.
func (e Env) Close() {
	if e.Bus != nil {
		e.Bus.Emit(EventPop, Event{Name: e.Name, Key: e.Key})
	}
}

// Factory builds a view for one entry.
type Factory func(props any, env Env) (View, error)

// LoadFunc resolves a kind's factory. It runs once per kind, off the UI
// goroutine, the first time an entry of that kind is opened.
type LoadFunc func(ctx context.Context) (Factory, error)

// Registration describes one modal kind.
type Registration struct {
	Load LoadFunc
}

// Registry maps modal names to their registrations. Adding a modal kind
// means adding an entry here; the provider never changes.
type Registry map[Name]Registration

// Eager wraps a factory that needs no loading.
func Eager(f Factory) LoadFunc {
	return func(context.Context) (Factory, error) { return f, nil }
}
