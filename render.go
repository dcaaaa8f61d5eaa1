package blueprint

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Surface is the paint target. The tree requests a repaint after every
// mutation; how and when the frame is actually redrawn is the host's
// concern (the bubbletea host redraws on its own cadence and can ignore
// the request entirely).
type Surface interface {
	Repaint()
}

// cell is one character of the frame. The style pointer is shared per
// view, so run grouping during flush is pointer comparison.
type cell struct {
	r     rune
	style *lipgloss.Style
}

// frameBuffer is a 2D grid of cells the painter composes views into.
type frameBuffer struct {
	cells  []cell
	width  int
	height int
}

func newFrameBuffer(width, height int) *frameBuffer {
	cells := make([]cell, width*height)
	for i := range cells {
		cells[i].r = ' '
	}
	return &frameBuffer{cells: cells, width: width, height: height}
}

func (f *frameBuffer) inBounds(x, y int) bool {
	return x >= 0 && x < f.width && y >= 0 && y < f.height
}

func (f *frameBuffer) set(x, y int, r rune, style *lipgloss.Style) {
	if !f.inBounds(x, y) {
		return
	}
	f.cells[y*f.width+x] = cell{r: r, style: style}
}

// fillRect fills a region with the given rune and style, clipped to the
// buffer.
func (f *frameBuffer) fillRect(r Rect, ch rune, style *lipgloss.Style) {
	x0, y0 := int(r.X), int(r.Y)
	x1, y1 := int(r.X+r.W), int(r.Y+r.H)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			f.set(x, y, ch, style)
		}
	}
}

// writeString draws s at (x, y), stopping at the clip rectangle's right
// edge. Rows outside the clip are skipped by the caller.
func (f *frameBuffer) writeString(x, y int, s string, style *lipgloss.Style, clip Rect) {
	if y < int(clip.Y) || y >= int(clip.Y+clip.H) {
		return
	}
	for _, r := range s {
		if x >= int(clip.X+clip.W) {
			return
		}
		if x >= int(clip.X) {
			f.set(x, y, r, style)
		}
		x++
	}
}

// borderChars is one box-drawing character set.
type borderChars struct {
	tl, tr, bl, br, h, v rune
}

var (
	borderSingle  = borderChars{'┌', '┐', '└', '┘', '─', '│'}
	borderRounded = borderChars{'╭', '╮', '╰', '╯', '─', '│'}
	borderDouble  = borderChars{'╔', '╗', '╚', '╝', '═', '║'}
)

// drawBorder draws a box on the rectangle's edge, clipped.
func (f *frameBuffer) drawBorder(r Rect, b borderChars, style *lipgloss.Style, clip Rect) {
	x0, y0 := int(r.X), int(r.Y)
	x1, y1 := int(r.X+r.W)-1, int(r.Y+r.H)-1
	if x1 <= x0 || y1 <= y0 {
		return
	}
	in := func(x, y int) bool {
		return x >= int(clip.X) && x < int(clip.X+clip.W) && y >= int(clip.Y) && y < int(clip.Y+clip.H)
	}
	put := func(x, y int, ch rune) {
		if in(x, y) {
			f.set(x, y, ch, style)
		}
	}
	put(x0, y0, b.tl)
	put(x1, y0, b.tr)
	put(x0, y1, b.bl)
	put(x1, y1, b.br)
	for x := x0 + 1; x < x1; x++ {
		put(x, y0, b.h)
		put(x, y1, b.h)
	}
	for y := y0 + 1; y < y1; y++ {
		put(x0, y, b.v)
		put(x1, y, b.v)
	}
}

// String flushes the buffer to a frame string, rendering runs of equally
// styled cells through lipgloss.
func (f *frameBuffer) String() string {
	var sb strings.Builder
	var run strings.Builder
	for y := 0; y < f.height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		row := f.cells[y*f.width : (y+1)*f.width]
		var runStyle *lipgloss.Style
		run.Reset()
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runStyle == nil {
				sb.WriteString(run.String())
			} else {
				sb.WriteString(runStyle.Render(run.String()))
			}
			run.Reset()
		}
		for i, c := range row {
			if i > 0 && c.style != runStyle {
				flush()
			}
			runStyle = c.style
			run.WriteRune(c.r)
		}
		flush()
	}
	return sb.String()
}

// RenderTree paints the whole view tree into a frame string of the given
// dimensions. Bounds come from the last layout pass.
func RenderTree(t *Tree, w, h int) string {
	f := newFrameBuffer(w, h)
	root, _ := t.Lookup(t.RootID())
	paintView(f, root, 0, 0, Rect{W: float64(w), H: float64(h)})
	return f.String()
}

// paintView draws one view and recurses. dx/dy accumulate scroll
// translation; clip shrinks at every scroll container.
func paintView(f *frameBuffer, v *View, dx, dy float64, clip Rect) {
	if v.Kind() == RawTextView {
		return // visually inert; the parent Text view paints its content
	}

	fr := v.Frame()
	fr.X += dx
	fr.Y += dy
	vis := fr.Intersect(clip)
	if vis.Empty() {
		return
	}

	ps := paintStyleFor(v)
	if ps.bg != nil {
		f.fillRect(vis, ' ', ps.bg)
	}
	if ps.border != nil {
		f.drawBorder(fr, *ps.border, ps.borderStyle, vis)
	}

	switch v.Kind() {
	case TextView:
		lines := wrapText(v.combinedText(), int(fr.W))
		for i, line := range lines {
			f.writeString(int(fr.X), int(fr.Y)+i, line, ps.text, vis)
		}
	case ImageView:
		// No raster backend on a terminal; show the source as a tag.
		if src, ok := v.Prop("source"); ok {
			f.writeString(int(fr.X), int(fr.Y), "["+src.AsString()+"]", ps.text, vis)
		}
	}

	cdx, cdy := dx, dy
	childClip := clip
	if v.Kind() == ScrollView {
		if off, ok := v.Prop("scroll-top"); ok {
			cdy -= off.AsNumber()
		}
		childClip = vis
	}
	for _, c := range v.Children() {
		paintView(f, c, cdx, cdy, childClip)
	}
}
