package blueprint

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// State is the root controller lifecycle state.
type State uint8

const (
	Uninitialized State = iota
	Ready
	Reloading
	Destroyed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	case Reloading:
		return "reloading"
	case Destroyed:
		return "destroyed"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Root is the top-level orchestrator: it owns one Tree and one Bridge,
// registers the built-in view types, and drives the scheduler tick,
// resize and reload transitions.
//
// A Root and everything it owns belong to a single goroutine. The host
// is responsible for delivering ticks on that goroutine; Tick itself
// never spawns one.
type Root struct {
	state    State
	registry *Registry
	tree     *Tree
	bridge   *Bridge
	logger   *log.Logger

	tickInterval  time.Duration
	ticking       bool
	width, height float64
	surface       Surface
}

// Option configures a Root before initialization.
type Option func(*Root)

// WithLogger sets the controller's logger. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(r *Root) { r.logger = l }
}

// WithTickInterval sets the scheduler interrupt cadence.
func WithTickInterval(d time.Duration) Option {
	return func(r *Root) { r.tickInterval = d }
}

// WithSurface attaches the repaint target.
func WithSurface(s Surface) Option {
	return func(r *Root) { r.surface = s }
}

// NewRoot constructs a controller in the Ready state: fresh evaluation
// context, native API installed, built-in view types registered, root
// pair created.
func NewRoot(opts ...Option) *Root {
	r := &Root{
		state:        Uninitialized,
		logger:       log.Default(),
		tickInterval: DefaultTickInterval,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.registry = NewRegistry()
	registerBuiltins(r.registry)
	r.initialize()
	return r
}

// initialize builds a fresh tree and evaluation context. The factory
// registry survives across reloads; everything else is rebuilt.
func (r *Root) initialize() {
	r.tree = NewTree(r.registry)
	r.tree.SetSurface(r.surface)
	r.tree.SetBounds(r.width, r.height)
	r.bridge = NewBridge(r.tree, r.logger)
	r.state = Ready
	r.logger.Debug("blueprint root ready")
}

// State returns the current lifecycle state.
func (r *Root) State() State { return r.state }

// Tree returns the tree manager.
func (r *Root) Tree() *Tree { return r.tree }

// Bridge returns the script bridge.
func (r *Root) Bridge() *Bridge { return r.bridge }

// RegisterViewType adds a dynamic view type. Registered types survive
// reloads; registering a duplicate identifier panics.
func (r *Root) RegisterViewType(typeID string, f ViewFactory) {
	r.registry.Register(typeID, f)
}

// RegisterNativeMethod exposes a host closure to the script under
// __BlueprintNative__.<name>.
func (r *Root) RegisterNativeMethod(name string, fn NativeMethod) {
	r.bridge.RegisterNativeMethod(name, fn)
}

// EvalScript evaluates a script body in the context and starts the
// scheduler tick. A failed evaluation is logged, not fatal — the tick
// starts regardless so a partially-evaluated script still gets its
// interrupts.
func (r *Root) EvalScript(src string) error {
	if r.state != Ready {
		return fmt.Errorf("blueprint: cannot evaluate script in state %s", r.state)
	}
	err := r.bridge.EvalScript(src)
	r.ticking = true
	return err
}

// Tick delivers one scheduler interrupt. Failures are logged by the
// bridge and the cadence continues — no backoff, no cancellation.
func (r *Root) Tick() {
	if r.state != Ready || !r.ticking {
		return
	}
	r.bridge.Interrupt()
}

// Ticking reports whether scheduler interrupts are being delivered.
func (r *Root) Ticking() bool { return r.ticking }

// TickInterval returns the scheduler interrupt cadence.
func (r *Root) TickInterval() time.Duration { return r.tickInterval }

// Resize updates the root bounds and recomputes layout. Not a teardown.
func (r *Root) Resize(w, h float64) {
	r.width, r.height = w, h
	if r.state != Ready {
		return
	}
	r.tree.SetBounds(w, h)
}

// Reload quiesces the tick, destroys the evaluation context, the method
// registry and the node tables, then recreates the root pair and a fresh
// context. Re-evaluating the script body is the caller's responsibility.
func (r *Root) Reload() {
	if r.state != Ready {
		return
	}
	r.state = Reloading
	r.ticking = false // quiesce before teardown; no interrupt may land mid-rebuild
	r.bridge = nil
	r.tree = nil
	r.initialize()
	r.logger.Debug("blueprint root reloaded")
}

// DispatchEvent forwards an event to the script-side event bridge.
func (r *Root) DispatchEvent(eventType string, args ...Value) {
	if r.state != Ready {
		return
	}
	r.bridge.DispatchEvent(eventType, args...)
}

// DispatchViewEvent forwards a view-targeted event to the script side.
func (r *Root) DispatchViewEvent(id ViewID, eventType string, args ...Value) {
	if r.state != Ready {
		return
	}
	r.bridge.DispatchViewEvent(id, eventType, args...)
}

// Render paints the current tree into a frame string for the host.
func (r *Root) Render(w, h int) string {
	if r.state != Ready {
		return ""
	}
	return RenderTree(r.tree, w, h)
}

// Close tears the controller down. No further operations are valid.
func (r *Root) Close() {
	if r.state == Destroyed {
		return
	}
	r.ticking = false
	r.bridge = nil
	r.tree = nil
	r.state = Destroyed
	r.logger.Debug("blueprint root destroyed")
}
