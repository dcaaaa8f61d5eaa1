package blueprint

import (
	"strings"
	"unicode/utf8"
)

// Direction controls how a shadow node stacks its children.
type Direction uint8

const (
	Column Direction = iota
	Row
)

// ShadowView is a geometry tree node. It mirrors the render tree except
// where the render node is raw text, carries the layout inputs parsed
// from the property bag, and holds the computed bounds.
//
// The back-reference to the render node is weak: the node pair's lifetime
// is owned by the Tree's arena slot, not by either node.
type ShadowView struct {
	view     *View
	parent   *ShadowView
	children []*ShadowView

	// Layout inputs. Zero means auto, matching the solver's defaults.
	direction  Direction
	grow       float64
	explicitW  float64
	explicitH  float64
	minW, minH float64
	padding    float64
	gap        float64

	// Computed output, relative to the parent's content box.
	x, y, w, h float64

	dirty bool
}

// NewShadowView creates a geometry node paired with the given render node.
func NewShadowView(v *View) *ShadowView {
	return &ShadowView{view: v, dirty: true}
}

// View returns the paired render node.
func (s *ShadowView) View() *View { return s.view }

// Children returns the ordered child geometry nodes.
func (s *ShadowView) Children() []*ShadowView { return s.children }

// Bounds returns the computed position and size, relative to the parent.
func (s *ShadowView) Bounds() Rect { return Rect{X: s.x, Y: s.y, W: s.w, H: s.h} }

// Dirty reports whether the node needs recomputation on the next pass.
func (s *ShadowView) Dirty() bool { return s.dirty }

// MarkDirty flags the node for recomputation.
func (s *ShadowView) MarkDirty() { s.dirty = true }

// SetProperty applies one property bag entry to the layout inputs.
// Keys outside the layout vocabulary are ignored; the painter reads them
// from the render node's bag directly.
func (s *ShadowView) SetProperty(key string, val Value) {
	switch key {
	case "flex-direction":
		if val.AsString() == "row" {
			s.direction = Row
		} else {
			s.direction = Column
		}
	case "flex-grow":
		s.grow = val.AsNumber()
	case "width":
		s.explicitW = val.AsNumber()
	case "height":
		s.explicitH = val.AsNumber()
	case "min-width":
		s.minW = val.AsNumber()
	case "min-height":
		s.minH = val.AsNumber()
	case "padding":
		s.padding = val.AsNumber()
	case "gap":
		s.gap = val.AsNumber()
	}
	s.dirty = true
}

// addChild inserts child at index; a negative index appends.
func (s *ShadowView) addChild(child *ShadowView, index int) {
	child.parent = s
	if index < 0 || index >= len(s.children) {
		s.children = append(s.children, child)
		return
	}
	s.children = append(s.children, nil)
	copy(s.children[index+1:], s.children[index:])
	s.children[index] = child
}

// removeChild detaches child. Returns false when child is not a child of s.
func (s *ShadowView) removeChild(child *ShadowView) bool {
	for i, c := range s.children {
		if c == child {
			s.children = append(s.children[:i], s.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// measureText wraps the paired Text view's combined raw text to maxW
// columns and returns the occupied width and height in cells.
func (s *ShadowView) measureText(maxW float64) (w, h float64) {
	if s.view == nil {
		return 0, 0
	}
	lines := wrapText(s.view.combinedText(), int(maxW))
	for _, line := range lines {
		if lw := float64(utf8.RuneCountInString(line)); lw > w {
			w = lw
		}
	}
	return w, float64(len(lines))
}

// wrapText splits s into lines no wider than width runes, breaking at
// spaces where possible. width <= 0 yields the unwrapped lines.
func wrapText(s string, width int) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, para := range strings.Split(s, "\n") {
		if width <= 0 || utf8.RuneCountInString(para) <= width {
			out = append(out, para)
			continue
		}
		line := ""
		lineLen := 0
		for _, word := range strings.Fields(para) {
			wl := utf8.RuneCountInString(word)
			switch {
			case lineLen == 0:
				line, lineLen = word, wl
			case lineLen+1+wl <= width:
				line += " " + word
				lineLen += 1 + wl
			default:
				out = append(out, line)
				line, lineLen = word, wl
			}
			// Hard-break words longer than the full width.
			for lineLen > width {
				runes := []rune(line)
				out = append(out, string(runes[:width]))
				line = string(runes[width:])
				lineLen = len(runes) - width
			}
		}
		if lineLen > 0 {
			out = append(out, line)
		}
	}
	return out
}
