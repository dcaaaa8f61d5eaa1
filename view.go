package blueprint

import "fmt"

// ViewKind identifies the closed set of render node variants. Kind
// specific behaviour is expressed as switch dispatch, never as runtime
// type tests between node subtypes.
type ViewKind uint8

const (
	GenericView ViewKind = iota
	TextView
	ImageView
	ScrollView
	ScrollContentView
	RawTextView
)

func (k ViewKind) String() string {
	switch k {
	case GenericView:
		return "View"
	case TextView:
		return "Text"
	case ImageView:
		return "Image"
	case ScrollView:
		return "ScrollView"
	case ScrollContentView:
		return "ScrollViewContentView"
	case RawTextView:
		return "RawText"
	}
	return fmt.Sprintf("ViewKind(%d)", uint8(k))
}

// View is a render tree node: a paintable element owning its children
// and a property bag. A RawTextView carries text content only and never
// has a paired shadow node; its parent Text view lays the text out.
type View struct {
	id       ViewID
	kind     ViewKind
	parent   *View
	children []*View
	props    map[string]Value
	refID    string
	text     string // RawTextView content
	frame    Rect   // absolute bounds, flushed after layout
}

// NewView creates a detached render node of the given kind. The id is
// assigned when the node enters a Tree.
func NewView(kind ViewKind) *View {
	return &View{kind: kind, props: make(map[string]Value)}
}

// ID returns the node's stable identifier.
func (v *View) ID() ViewID { return v.id }

// Kind returns the node's variant tag.
func (v *View) Kind() ViewKind { return v.kind }

// Parent returns the owning parent, or nil for a detached node or the root.
func (v *View) Parent() *View { return v.parent }

// Children returns the ordered child nodes. The slice is owned by the view.
func (v *View) Children() []*View { return v.children }

// RefID returns the external lookup id, or "" when unset.
func (v *View) RefID() string { return v.refID }

// Text returns the raw text content. Meaningful for RawTextView only.
func (v *View) Text() string { return v.text }

// SetText replaces the raw text content.
func (v *View) SetText(s string) { v.text = s }

// Frame returns the absolute bounds computed by the last layout pass.
func (v *View) Frame() Rect { return v.frame }

// Prop returns a property bag entry.
func (v *View) Prop(key string) (Value, bool) {
	val, ok := v.props[key]
	return val, ok
}

// SetProp stores a property bag entry. The "refId" key additionally
// updates the external lookup id.
func (v *View) SetProp(key string, val Value) {
	v.props[key] = val
	if key == "refId" {
		v.refID = val.AsString()
	}
}

// addChild inserts child at index; a negative index appends.
func (v *View) addChild(child *View, index int) {
	child.parent = v
	if index < 0 || index >= len(v.children) {
		v.children = append(v.children, child)
		return
	}
	v.children = append(v.children, nil)
	copy(v.children[index+1:], v.children[index:])
	v.children[index] = child
}

// removeChild detaches child. Returns false when child is not a child of v.
func (v *View) removeChild(child *View) bool {
	for i, c := range v.children {
		if c == child {
			v.children = append(v.children[:i], v.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// combinedText concatenates the text of all RawTextView children, in
// child order. Used by Text views for measurement and painting.
func (v *View) combinedText() string {
	if v.kind == RawTextView {
		return v.text
	}
	var s string
	for _, c := range v.children {
		if c.kind == RawTextView {
			s += c.text
		}
	}
	return s
}
