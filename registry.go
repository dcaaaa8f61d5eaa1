package blueprint

import "fmt"

// ViewFactory produces a paired render and geometry node. The shadow may
// be nil only for view kinds that are laid out by their parent, which is
// raw text alone among the built-ins.
type ViewFactory func() (*View, *ShadowView)

// Registry maps a view type identifier to its factory. Registration
// happens during setup on the owning goroutine; the table is read-only
// afterwards.
type Registry struct {
	factories map[string]ViewFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]ViewFactory)}
}

// Register adds a factory for typeID. Registering the same identifier
// twice is a programmer error and panics.
func (r *Registry) Register(typeID string, f ViewFactory) {
	if _, ok := r.factories[typeID]; ok {
		panic(fmt.Sprintf("blueprint: view type %q already registered", typeID))
	}
	r.factories[typeID] = f
}

// Registered reports whether typeID has a factory.
func (r *Registry) Registered(typeID string) bool {
	_, ok := r.factories[typeID]
	return ok
}

// New invokes the factory for typeID. Unregistered types are a programmer
// error and panic; callers holding script-supplied identifiers must check
// Registered first.
func (r *Registry) New(typeID string) (*View, *ShadowView) {
	f, ok := r.factories[typeID]
	if !ok {
		panic(fmt.Sprintf("blueprint: view type %q not registered", typeID))
	}
	return f()
}

// pairFactory builds the common case: a view of the given kind with a
// plain shadow node.
func pairFactory(kind ViewKind) ViewFactory {
	return func() (*View, *ShadowView) {
		v := NewView(kind)
		return v, NewShadowView(v)
	}
}

// registerBuiltins installs the natively supported view types.
func registerBuiltins(r *Registry) {
	r.Register("View", pairFactory(GenericView))
	r.Register("Text", pairFactory(TextView))
	r.Register("Image", pairFactory(ImageView))
	r.Register("ScrollView", pairFactory(ScrollView))
	r.Register("ScrollViewContentView", pairFactory(ScrollContentView))
}
