package blueprint

import "fmt"

// ViewID is the stable identifier correlating a render node with its
// (possibly absent) geometry node. It packs an arena slot index with a
// generation counter, so a stale id — one whose node has been removed —
// fails validation instead of silently dangling. Ids are never reused
// within a Tree's lifetime and stay within float64-exact integer range,
// so they cross the script boundary as plain numbers.
type ViewID int64

const idGenBits = 16

func makeViewID(slot int32, gen uint16) ViewID {
	return ViewID(int64(slot)<<idGenBits | int64(gen))
}

func (id ViewID) slot() int32 { return int32(id >> idGenBits) }
func (id ViewID) gen() uint16 { return uint16(id & (1<<idGenBits - 1)) }

// arenaSlot owns one (render, shadow) node pair. The shadow is nil for
// raw text nodes. The generation survives frees so stale ids stay
// detectable.
type arenaSlot struct {
	gen    uint16
	live   bool
	view   *View
	shadow *ShadowView
}

// Tree owns the render and geometry trees and implements the mutation
// protocol. Every mutation triggers a full layout recompute and a
// repaint request; invalidation is deliberately coarse — no dependency
// tracking between properties and layout.
//
// All methods must be called from the owning goroutine.
type Tree struct {
	registry *Registry
	slots    []arenaSlot
	free     []int32
	rootID   ViewID
	epoch    uint16

	width, height float64
	solver        LayoutFunc
	surface       Surface
}

// idEpoch seeds slot generations per tree, so ids minted by a torn-down
// tree stay detectably stale in its successor after a reload.
var idEpoch uint16

func nextEpoch() uint16 {
	idEpoch++
	if idEpoch == 0 {
		idEpoch = 1
	}
	return idEpoch
}

// NewTree creates a tree with a fresh root pair registered under the
// given factory registry.
func NewTree(registry *Registry) *Tree {
	t := &Tree{
		registry: registry,
		solver:   FlexLayout,
		epoch:    nextEpoch(),
	}
	rootView := NewView(GenericView)
	t.rootID = t.alloc(rootView, NewShadowView(rootView))
	return t
}

// RootID returns the identifier of the distinguished root pair.
func (t *Tree) RootID() ViewID { return t.rootID }

// Registry returns the view factory registry.
func (t *Tree) Registry() *Registry { return t.registry }

// SetSolver replaces the layout solver. Intended for hosts and tests.
func (t *Tree) SetSolver(f LayoutFunc) { t.solver = f }

// SetSurface attaches the repaint target.
func (t *Tree) SetSurface(s Surface) { t.surface = s }

// SetBounds updates the viewport and recomputes layout.
func (t *Tree) SetBounds(w, h float64) {
	t.width, t.height = w, h
	t.PerformLayout()
}

// Bounds returns the current viewport size.
func (t *Tree) Bounds() (w, h float64) { return t.width, t.height }

// alloc places a node pair into a fresh arena slot and assigns its id.
func (t *Tree) alloc(v *View, s *ShadowView) ViewID {
	var idx int32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.slots = append(t.slots, arenaSlot{})
		idx = int32(len(t.slots) - 1)
	}
	sl := &t.slots[idx]
	if sl.gen == 0 {
		sl.gen = t.epoch // fresh slot
	} else {
		sl.gen++
		if sl.gen == 0 {
			sl.gen = 1 // wrapped; zero would collide with the invalid id
		}
	}
	sl.live = true
	sl.view = v
	sl.shadow = s

	id := makeViewID(idx, sl.gen)
	v.id = id
	return id
}

// release frees the slot behind id. The generation is kept so the id
// stays detectably stale.
func (t *Tree) release(id ViewID) {
	idx := id.slot()
	sl := &t.slots[idx]
	sl.live = false
	sl.view = nil
	sl.shadow = nil
	t.free = append(t.free, idx)
}

// Valid reports whether id names a live node pair.
func (t *Tree) Valid(id ViewID) bool {
	idx := id.slot()
	if idx < 0 || int(idx) >= len(t.slots) {
		return false
	}
	sl := &t.slots[idx]
	return sl.live && sl.gen == id.gen()
}

// Lookup returns the node pair for id; the shadow is nil for raw text
// nodes. An unknown or stale id is a programmer error and panics —
// callers holding script-supplied ids must check Valid first.
func (t *Tree) Lookup(id ViewID) (*View, *ShadowView) {
	if !t.Valid(id) {
		panic(fmt.Sprintf("blueprint: unknown or stale view id %d", id))
	}
	sl := &t.slots[id.slot()]
	return sl.view, sl.shadow
}

// FindByRef returns the first render node whose refId property equals
// refID, scanning in slot order (root first), or nil when absent.
func (t *Tree) FindByRef(refID string) *View {
	for i := range t.slots {
		sl := &t.slots[i]
		if sl.live && sl.view.RefID() == refID {
			return sl.view
		}
	}
	return nil
}

// CreateViewInstance constructs a node pair of the registered type and
// returns its id. No layout or paint side effect. Unregistered types are
// a programmer error and panic.
func (t *Tree) CreateViewInstance(typeID string) ViewID {
	return t.alloc(t.registry.New(typeID))
}

// CreateTextInstance constructs a raw text render node with the given
// content. Raw text has no geometry node: its parent Text view carries
// the combined text layout.
func (t *Tree) CreateTextInstance(text string) ViewID {
	v := NewView(RawTextView)
	v.SetText(text)
	return t.alloc(v, nil)
}

// SetProperty applies a property to both halves of the pair, recomputes
// layout and requests a repaint of the affected node.
func (t *Tree) SetProperty(id ViewID, key string, val Value) {
	view, shadow := t.Lookup(id)
	view.SetProp(key, val)
	if shadow != nil {
		shadow.SetProperty(key, val)
	}
	t.PerformLayout()
	t.repaint()
}

// SetRawText replaces a raw text node's content. When the node is
// mounted under a Text view the parent's geometry is marked dirty, layout
// is recomputed and the parent is repainted — the raw text node cannot
// paint itself.
func (t *Tree) SetRawText(id ViewID, text string) {
	view, _ := t.Lookup(id)
	if view.Kind() != RawTextView {
		return
	}
	view.SetText(text)

	parent := view.Parent()
	if parent == nil || parent.Kind() != TextView {
		return
	}
	if _, parentShadow := t.Lookup(parent.ID()); parentShadow != nil {
		parentShadow.MarkDirty()
		t.PerformLayout()
	}
	t.repaint()
}

// AddChild attaches child under parent at index (negative appends). The
// render child is always attached; the geometry child only when one
// exists. A Text parent accepts raw text children only — their combined
// content is the parent's layout input, so the parent geometry is marked
// dirty instead of gaining a child.
//
// The child must be detached and must not be an ancestor of the parent;
// violating either is a programmer error and panics. Callers holding
// script-supplied ids validate at the boundary first.
func (t *Tree) AddChild(parentID, childID ViewID, index int) {
	parentView, parentShadow := t.Lookup(parentID)
	childView, childShadow := t.Lookup(childID)

	if childView.Parent() != nil {
		panic(fmt.Sprintf("blueprint: view %d is already attached", childID))
	}
	for v := parentView; v != nil; v = v.Parent() {
		if v == childView {
			panic(fmt.Sprintf("blueprint: attaching view %d under %d would create a cycle", childID, parentID))
		}
	}

	switch {
	case parentView.Kind() == TextView:
		if childView.Kind() != RawTextView || childShadow != nil {
			panic(fmt.Sprintf("blueprint: Text view %d accepts raw text children only, got %s", parentID, childView.Kind()))
		}
		parentView.addChild(childView, index)
		parentShadow.MarkDirty()

	default:
		parentView.addChild(childView, index)
		if parentShadow != nil && childShadow != nil {
			parentShadow.addChild(childShadow, index)
		}
	}

	t.PerformLayout()
}

// RemoveChild detaches child from parent and purges the whole detached
// subtree from the arena: a removed subtree root takes every descendant
// id with it, so stale lookups fail instead of finding orphans. A child
// not attached under parent is a no-op; the still-reachable subtree
// keeps its slots. The root is never purgeable — it has no parent.
func (t *Tree) RemoveChild(parentID, childID ViewID) {
	parentView, parentShadow := t.Lookup(parentID)
	childView, childShadow := t.Lookup(childID)

	if !parentView.removeChild(childView) {
		return
	}
	if parentShadow != nil && childShadow != nil {
		parentShadow.removeChild(childShadow)
	}

	var ids []ViewID
	collectSubtreeIDs(childView, &ids)
	for _, id := range ids {
		t.release(id)
	}

	t.PerformLayout()
}

// collectSubtreeIDs gathers every id in the subtree, children before the
// node itself.
func collectSubtreeIDs(v *View, ids *[]ViewID) {
	for _, c := range v.Children() {
		collectSubtreeIDs(c, ids)
	}
	*ids = append(*ids, v.ID())
}

// PerformLayout recomputes the geometry tree from the root with the
// current viewport and flushes the resulting bounds onto the render
// nodes. Idempotent given unchanged inputs.
func (t *Tree) PerformLayout() {
	_, rootShadow := t.Lookup(t.rootID)
	t.solver(rootShadow, t.width, t.height)
	flushLayout(rootShadow, 0, 0)
}

// flushLayout pushes absolute bounds onto each paired render node.
func flushLayout(s *ShadowView, absX, absY float64) {
	b := s.Bounds()
	x := absX + b.X
	y := absY + b.Y
	if s.view != nil {
		s.view.frame = Rect{X: x, Y: y, W: b.W, H: b.H}
	}
	for _, c := range s.children {
		flushLayout(c, x, y)
	}
}

func (t *Tree) repaint() {
	if t.surface != nil {
		t.surface.Repaint()
	}
}
