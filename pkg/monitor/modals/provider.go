package modals

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/openpanel/panel/pkg/monitor/mouse"
)

// LoadErrorMsg reports that a modal kind could not be loaded or its view
// could not be built. The Provider does not recover from it; the host
// decides what to do.
type LoadErrorMsg struct {
	Name Name
	Key  string
	Err  error
}

func (m LoadErrorMsg) Error() string {
	return fmt.Sprintf("load modal %s: %v", m.Name, m.Err)
}

// viewLoadedMsg carries the result of an asynchronous kind load.
type viewLoadedMsg struct {
	name    Name
	factory Factory
	err     error
}

// Option configures a Provider.
type Option func(*Provider)

// WithKeyFunc overrides entry key generation.
func WithKeyFunc(fn func() string) Option {
	return func(p *Provider) { p.newKey = fn }
}

// WithDismissByKey makes outside clicks close the clicked instance by key
// instead of the last entry sharing its name.
func WithDismissByKey(enabled bool) Option {
	return func(p *Provider) { p.dismissByKey = enabled }
}

// WithBackdrop toggles dimming of the host frame while modals are open.
func WithBackdrop(enabled bool) Option {
	return func(p *Provider) { p.backdrop = enabled }
}

// WithLogger sets the logger used for stack transitions.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) { p.logger = l }
}

// WithContext sets the context passed to kind loaders.
func WithContext(ctx context.Context) Option {
	return func(p *Provider) { p.ctx = ctx }
}

// Provider owns the modal stack. It is the only writer of the stack: every
// other component asks for changes through the bus.
//
// Host models forward every message to Update first and skip their own
// handling when it reports the message as handled. After handling, hosts
// append Flush to their returned commands so views opened during the update
// start loading.
type Provider struct {
	bus      *Bus
	registry Registry

	newKey       func() string
	dismissByKey bool
	backdrop     bool
	logger       *slog.Logger
	ctx          context.Context

	mu        sync.Mutex
	mounted   bool
	stack     Stack
	views     map[string]View
	failed    map[string]error
	factories map[Name]Factory
	loading   map[Name]bool
	pending   []tea.Cmd
	origins   map[string]mouse.Rect

	loads    singleflight.Group
	hits     *mouse.HitMap
	spinner  spinner.Model
	spinning bool
}

// NewProvider creates an unmounted provider for bus.
func NewProvider(bus *Bus, registry Registry, opts ...Option) *Provider {
	p := &Provider{
		bus:       bus,
		registry:  registry,
		newKey:    uuid.NewString,
		backdrop:  true,
		logger:    slog.Default(),
		ctx:       context.Background(),
		views:     make(map[string]View),
		failed:    make(map[string]error),
		factories: make(map[Name]Factory),
		loading:   make(map[Name]bool),
		origins:   make(map[string]mouse.Rect),
		hits:      mouse.NewHitMap(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Bus returns the bus the provider listens on.
func (p *Provider) Bus() *Bus { return p.bus }

// Mount subscribes the provider to its bus. Calling it twice is a no-op.
func (p *Provider) Mount() {
	p.mu.Lock()
	if p.mounted {
		p.mu.Unlock()
		return
	}
	p.mounted = true
	p.mu.Unlock()

	p.bus.On(EventPush, p.onPush)
	p.bus.On(EventReplace, p.onReplace)
	p.bus.On(EventPop, p.onPop)
	p.bus.On(EventUnshift, p.onUnshift)
}

// Unmount clears the bus and drops all state. Events emitted afterwards
// have no effect.
func (p *Provider) Unmount() {
	p.bus.Clear()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.mounted = false
	p.stack = nil
	p.views = make(map[string]View)
	p.failed = make(map[string]error)
	p.origins = make(map[string]mouse.Rect)
	p.loading = make(map[Name]bool)
	p.pending = nil
	p.hits.Clear()
}

// Stack returns a snapshot of the open modals.
func (p *Provider) Stack() Stack {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(Stack, len(p.stack))
	copy(out, p.stack)
	return out
}

// Len returns the number of open modals.
func (p *Provider) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.stack)
}

// Open reports whether any modal is open.
func (p *Provider) Open() bool { return p.Len() > 0 }

func (p *Provider) onPush(ev Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := p.newKey()
	p.stack = p.stack.Push(key, ev.Name, ev.Props)
	p.prepare(Entry{Key: key, Name: ev.Name, Props: ev.Props})
	p.logger.Debug("modal push", "name", string(ev.Name), "key", key, "depth", len(p.stack))
}

func (p *Provider) onReplace(ev Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := p.newKey()
	p.stack = Replace(key, ev.Name, ev.Props)
	p.prune()
	p.prepare(Entry{Key: key, Name: ev.Name, Props: ev.Props})
	p.logger.Debug("modal replace", "name", string(ev.Name), "key", key)
}

func (p *Provider) onPop(ev Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	before := len(p.stack)
	if ev.Key != "" {
		p.stack = p.stack.PopKey(ev.Key)
	} else {
		p.stack = p.stack.Pop(ev.Name)
	}
	p.prune()
	p.logger.Debug("modal pop", "name", string(ev.Name), "key", ev.Key, "removed", before-len(p.stack), "depth", len(p.stack))
}

func (p *Provider) onUnshift(ev Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	before := len(p.stack)
	p.stack = p.stack.Unshift(ev.Name)
	p.prune()
	p.logger.Debug("modal unshift", "name", string(ev.Name), "removed", before-len(p.stack), "depth", len(p.stack))
}

// prune drops per-instance state for keys no longer on the stack.
// Callers hold p.mu.
func (p *Provider) prune() {
	for key := range p.views {
		if p.stack.IndexKey(key) < 0 {
			delete(p.views, key)
		}
	}
	for key := range p.failed {
		if p.stack.IndexKey(key) < 0 {
			delete(p.failed, key)
		}
	}
	for key := range p.origins {
		if p.stack.IndexKey(key) < 0 {
			delete(p.origins, key)
		}
	}
}

// prepare builds the view for a new entry, or queues a load of its kind.
// At most one load per kind is queued; entries pushed while it runs are
// built when it completes. Callers hold p.mu.
func (p *Provider) prepare(e Entry) {
	if f, ok := p.factories[e.Name]; ok {
		p.instantiate(e, f)
		return
	}
	reg, ok := p.registry[e.Name]
	if !ok || reg.Load == nil {
		p.fail(e, ErrUnknownModal)
		return
	}
	if p.loading[e.Name] {
		return
	}
	p.loading[e.Name] = true
	p.pending = append(p.pending, p.loadCmd(e.Name, reg))
}

// instantiate builds a view from a loaded factory. Callers hold p.mu.
func (p *Provider) instantiate(e Entry, f Factory) {
	v, err := f(e.Props, Env{Bus: p.bus, Key: e.Key, Name: e.Name})
	if err != nil {
		p.fail(e, err)
		return
	}
	p.views[e.Key] = v
	if cmd := v.Init(); cmd != nil {
		p.pending = append(p.pending, cmd)
	}
}

// fail records a failed entry and queues the error for the host.
// Callers hold p.mu.
func (p *Provider) fail(e Entry, err error) {
	p.failed[e.Key] = err
	msg := LoadErrorMsg{Name: e.Name, Key: e.Key, Err: err}
	p.logger.Error("modal load failed", "name", string(e.Name), "key", e.Key, "err", err)
	p.pending = append(p.pending, func() tea.Msg { return msg })
}

// loadCmd runs a kind's Load off the update loop. The singleflight group
// also merges a load still running from before an Unmount with a new one.
func (p *Provider) loadCmd(name Name, reg Registration) tea.Cmd {
	return func() tea.Msg {
		v, err, _ := p.loads.Do(string(name), func() (any, error) {
			if f, ok := p.cachedFactory(name); ok {
				return f, nil
			}
			return reg.Load(p.ctx)
		})
		if err != nil {
			return viewLoadedMsg{name: name, err: err}
		}
		f, _ := v.(Factory)
		if f == nil {
			return viewLoadedMsg{name: name, err: ErrUnknownModal}
		}
		return viewLoadedMsg{name: name, factory: f}
	}
}

func (p *Provider) cachedFactory(name Name) (Factory, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	f, ok := p.factories[name]
	return f, ok
}

func (p *Provider) handleLoaded(msg viewLoadedMsg) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.loading, msg.name)
	if msg.err == nil {
		p.factories[msg.name] = msg.factory
	}

	waiting := 0
	for _, e := range p.stack {
		if e.Name != msg.name {
			continue
		}
		_, built := p.views[e.Key]
		_, failed := p.failed[e.Key]
		if built || failed {
			continue
		}
		waiting++
		if msg.err != nil {
			p.fail(e, msg.err)
		} else {
			p.instantiate(e, msg.factory)
		}
	}
	if waiting == 0 {
		p.logger.Debug("modal load discarded", "name", string(msg.name))
	}
}

// Flush returns the commands queued by stack changes since the last call:
// kind loads, view Init commands and the loading spinner.
func (p *Provider) Flush() tea.Cmd {
	p.mu.Lock()
	cmds := p.pending
	p.pending = nil
	if p.loadingLocked() && !p.spinning {
		p.spinning = true
		cmds = append(cmds, p.spinner.Tick)
	}
	p.mu.Unlock()
	return tea.Batch(cmds...)
}

// loadingLocked reports whether any entry is still waiting for its view.
func (p *Provider) loadingLocked() bool {
	for _, e := range p.stack {
		_, built := p.views[e.Key]
		_, failed := p.failed[e.Key]
		if !built && !failed {
			return true
		}
	}
	return false
}

// Update routes a message through the stack. handled reports whether the
// host should skip the message.
func (p *Provider) Update(msg tea.Msg) (handled bool, cmd tea.Cmd) {
	switch msg := msg.(type) {
	case EmitMsg:
		p.bus.Emit(msg.Kind, msg.Event)
		return true, p.Flush()

	case viewLoadedMsg:
		p.handleLoaded(msg)
		return true, p.Flush()

	case spinner.TickMsg:
		if msg.ID == p.spinner.ID() {
			return true, p.tick(msg)
		}
		return false, p.broadcast(msg)

	case tea.KeyMsg:
		return p.handleKey(msg)

	case tea.MouseMsg:
		return p.handleMouse(msg)
	}

	return false, tea.Batch(p.broadcast(msg), p.Flush())
}

func (p *Provider) tick(msg spinner.TickMsg) tea.Cmd {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.loadingLocked() {
		p.spinning = false
		return nil
	}
	var cmd tea.Cmd
	p.spinner, cmd = p.spinner.Update(msg)
	return cmd
}

func (p *Provider) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	p.mu.Lock()
	top, ok := p.stack.Top()
	if !ok || msg.String() == "ctrl+c" {
		p.mu.Unlock()
		return false, nil
	}
	if msg.Type == tea.KeyEsc {
		p.stack = p.stack.PopTop()
		p.prune()
		p.logger.Debug("modal escape", "name", string(top.Name), "depth", len(p.stack))
		p.mu.Unlock()
		return true, nil
	}
	p.mu.Unlock()

	cmd := p.updateView(top.Key, msg)
	return true, tea.Batch(cmd, p.Flush())
}

func (p *Provider) handleMouse(msg tea.MouseMsg) (bool, tea.Cmd) {
	p.mu.Lock()
	top, ok := p.stack.Top()
	origin := p.origins[top.Key]
	p.mu.Unlock()
	if !ok {
		return false, nil
	}

	region := p.hits.Test(msg.X, msg.Y)
	inside := region != nil && (region.ID == top.Key || region.ID == portalID(top.Key))

	if !inside {
		// Any button counts, like a DOM mousedown; the wheel does not.
		if msg.Action == tea.MouseActionPress && !tea.MouseEvent(msg).IsWheel() {
			p.dismiss(top)
			return true, p.Flush()
		}
		return true, nil
	}

	local := msg
	local.X -= origin.X
	local.Y -= origin.Y
	cmd := p.updateView(top.Key, local)
	return true, tea.Batch(cmd, p.Flush())
}

// dismiss closes the top entry in response to an outside click.
func (p *Provider) dismiss(top Entry) {
	if p.dismissByKey {
		p.bus.Emit(EventPop, Event{Name: top.Name, Key: top.Key})
		return
	}
	p.bus.Emit(EventPop, Event{Name: top.Name})
}

// updateView runs one view's Update without holding the lock, so the view
// may emit bus events, and stores the result if the instance survived.
func (p *Provider) updateView(key string, msg tea.Msg) tea.Cmd {
	p.mu.Lock()
	v, ok := p.views[key]
	p.mu.Unlock()
	if !ok {
		return nil
	}

	next, cmd := v.Update(msg)

	p.mu.Lock()
	if _, live := p.views[key]; live && next != nil {
		p.views[key] = next
	}
	p.mu.Unlock()
	return cmd
}

// broadcast delivers a non-input message to every built view.
func (p *Provider) broadcast(msg tea.Msg) tea.Cmd {
	p.mu.Lock()
	keys := make([]string, 0, len(p.stack))
	for _, e := range p.stack {
		if _, ok := p.views[e.Key]; ok {
			keys = append(keys, e.Key)
		}
	}
	p.mu.Unlock()

	var cmds []tea.Cmd
	for _, key := range keys {
		cmds = append(cmds, p.updateView(key, msg))
	}
	return tea.Batch(cmds...)
}

func portalID(key string) string { return key + "/portal" }

// View draws the open modals over base, which is the host's frame for a
// width×height viewport. With no open modals base is returned unchanged.
func (p *Provider) View(base string, width, height int) string {
	p.mu.Lock()
	stack := make(Stack, len(p.stack))
	copy(stack, p.stack)
	views := make(map[string]View, len(p.views))
	for k, v := range p.views {
		views[k] = v
	}
	failed := make(map[string]error, len(p.failed))
	for k, err := range p.failed {
		failed[k] = err
	}
	spin := p.spinner.View()
	p.mu.Unlock()

	p.hits.Clear()
	if len(stack) == 0 {
		return base
	}

	frame := fillFrame(base, height)
	if p.backdrop {
		frame = dimFrame(base, width, height)
	}

	origins := make(map[string]mouse.Rect, len(stack))
	maxWidth := max(width-2, 0)
	for i, e := range stack {
		var box string
		v, built := views[e.Key]
		switch {
		case built:
			box = v.View(maxWidth)
		case failed[e.Key] != nil:
			box = failedStyle.Render("Could not open " + string(e.Name))
		default:
			box = placeholderStyle.Render(spin + " Loading…")
		}

		w, h := lipgloss.Width(box), lipgloss.Height(box)
		x, y := centerOrigin(w, h, width, height)
		frame = overlayAt(frame, box, x, y, width, height)

		rect := mouse.Rect{X: x, Y: y, W: w, H: h}
		origins[e.Key] = rect
		p.hits.Add(e.Key, rect, i)

		if pv, ok := v.(PortalView); ok && built && i == len(stack)-1 {
			for _, portal := range pv.Portals() {
				r := portal.Rect.Offset(x, y)
				frame = overlayAt(frame, portal.Content, r.X, r.Y, width, height)
				p.hits.Add(portalID(e.Key), r, i)
			}
		}
	}

	p.mu.Lock()
	for k, r := range origins {
		if p.stack.IndexKey(k) >= 0 {
			p.origins[k] = r
		}
	}
	p.mu.Unlock()

	return frame
}
