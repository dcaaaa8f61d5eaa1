package blueprint

import (
	"strings"
	"testing"
)

func containsText(frame, s string) bool {
	return strings.Contains(frame, s)
}

func frameLines(frame string) []string {
	return strings.Split(frame, "\n")
}

func buildTextView(tr *Tree, content string) ViewID {
	id := tr.CreateViewInstance("Text")
	raw := tr.CreateTextInstance(content)
	tr.AddChild(id, raw, -1)
	return id
}

func TestRenderTextAtPosition(t *testing.T) {
	tr := newTestTree()
	text := buildTextView(tr, "hi")
	tr.AddChild(tr.RootID(), text, -1)
	tr.SetBounds(20, 5)

	lines := frameLines(RenderTree(tr, 20, 5))
	if len(lines) != 5 {
		t.Fatalf("frame should have 5 rows, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "hi ") {
		t.Errorf("first row should start with the text, got %q", lines[0])
	}
}

func TestRenderStackedText(t *testing.T) {
	tr := newTestTree()
	tr.AddChild(tr.RootID(), buildTextView(tr, "one"), -1)
	tr.AddChild(tr.RootID(), buildTextView(tr, "two"), -1)
	tr.SetBounds(20, 5)

	lines := frameLines(RenderTree(tr, 20, 5))
	if !strings.HasPrefix(lines[0], "one") || !strings.HasPrefix(lines[1], "two") {
		t.Errorf("stacked text should land on consecutive rows, got %q / %q", lines[0], lines[1])
	}
}

func TestRenderBorderBox(t *testing.T) {
	tr := newTestTree()
	box := tr.CreateViewInstance("View")
	tr.AddChild(tr.RootID(), box, -1)
	tr.SetProperty(box, "width", Number(10))
	tr.SetProperty(box, "height", Number(3))
	tr.SetProperty(box, "border", String("single"))
	tr.SetBounds(20, 5)

	lines := frameLines(RenderTree(tr, 20, 5))
	top := []rune(lines[0])
	mid := []rune(lines[1])
	bot := []rune(lines[2])
	if top[0] != '┌' || top[9] != '┐' {
		t.Errorf("top corners misplaced: %q", lines[0])
	}
	if top[4] != '─' {
		t.Errorf("top edge should be horizontal rule, got %q", top[4])
	}
	if mid[0] != '│' || mid[9] != '│' {
		t.Errorf("side edges misplaced: %q", lines[1])
	}
	if bot[0] != '└' || bot[9] != '┘' {
		t.Errorf("bottom corners misplaced: %q", lines[2])
	}
}

func TestRenderRoundedAndDoubleBorders(t *testing.T) {
	for prop, corner := range map[string]rune{"rounded": '╭', "double": '╔'} {
		tr := newTestTree()
		box := tr.CreateViewInstance("View")
		tr.AddChild(tr.RootID(), box, -1)
		tr.SetProperty(box, "width", Number(6))
		tr.SetProperty(box, "height", Number(3))
		tr.SetProperty(box, "border", String(prop))
		tr.SetBounds(20, 5)

		lines := frameLines(RenderTree(tr, 20, 5))
		if []rune(lines[0])[0] != corner {
			t.Errorf("border %q should start with %q, got %q", prop, corner, lines[0])
		}
	}
}

func TestRenderImageTag(t *testing.T) {
	tr := newTestTree()
	img := tr.CreateViewInstance("Image")
	tr.AddChild(tr.RootID(), img, -1)
	tr.SetProperty(img, "source", String("logo.png"))
	tr.SetProperty(img, "height", Number(1))
	tr.SetBounds(20, 5)

	if frame := RenderTree(tr, 20, 5); !containsText(frame, "[logo.png]") {
		t.Errorf("image should paint its source tag, got %q", frame)
	}
}

func TestRenderScrollOffsetAndClip(t *testing.T) {
	tr := newTestTree()
	scroll := tr.CreateViewInstance("ScrollView")
	tr.AddChild(tr.RootID(), scroll, -1)
	tr.SetProperty(scroll, "height", Number(2))
	tr.AddChild(scroll, buildTextView(tr, "aaa"), -1)
	tr.AddChild(scroll, buildTextView(tr, "bbb"), -1)
	tr.AddChild(scroll, buildTextView(tr, "ccc"), -1)
	tr.SetProperty(scroll, "scroll-top", Number(1))
	tr.SetBounds(20, 5)

	lines := frameLines(RenderTree(tr, 20, 5))
	if !strings.HasPrefix(lines[0], "bbb") {
		t.Errorf("scrolled-past content should be hidden, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "ccc") {
		t.Errorf("offset content should shift up, got %q", lines[1])
	}
	if strings.HasPrefix(lines[2], "ccc") || containsText(lines[2], "aaa") {
		t.Errorf("rows past the viewport should stay clear, got %q", lines[2])
	}
}

func TestRenderScrollClipsOverflow(t *testing.T) {
	tr := newTestTree()
	scroll := tr.CreateViewInstance("ScrollView")
	tr.AddChild(tr.RootID(), scroll, -1)
	tr.SetProperty(scroll, "height", Number(2))
	tr.AddChild(scroll, buildTextView(tr, "one"), -1)
	tr.AddChild(scroll, buildTextView(tr, "two"), -1)
	tr.AddChild(scroll, buildTextView(tr, "three"), -1)
	tr.SetBounds(20, 5)

	lines := frameLines(RenderTree(tr, 20, 5))
	if !strings.HasPrefix(lines[0], "one") || !strings.HasPrefix(lines[1], "two") {
		t.Errorf("visible rows should paint, got %q / %q", lines[0], lines[1])
	}
	if containsText(lines[2], "three") {
		t.Errorf("overflowing content should be clipped, got %q", lines[2])
	}
}

func TestRenderRawTextIsInert(t *testing.T) {
	tr := newTestTree()
	// A raw text node attached under a generic view never paints itself;
	// only Text parents render combined raw text.
	raw := tr.CreateTextInstance("stray")
	_ = raw
	tr.SetBounds(20, 3)

	if frame := RenderTree(tr, 20, 3); containsText(frame, "stray") {
		t.Errorf("detached raw text must not paint, got %q", frame)
	}
}

func TestFrameBufferWriteClips(t *testing.T) {
	f := newFrameBuffer(10, 2)
	f.writeString(8, 0, "abcdef", nil, Rect{W: 10, H: 2})
	f.writeString(0, 5, "below", nil, Rect{W: 10, H: 2})
	lines := frameLines(f.String())
	if lines[0] != "        ab" {
		t.Errorf("write should clip at the right edge, got %q", lines[0])
	}
	if lines[1] != strings.Repeat(" ", 10) {
		t.Errorf("out-of-bounds rows should be untouched, got %q", lines[1])
	}
}

func TestFrameBufferBlank(t *testing.T) {
	f := newFrameBuffer(4, 2)
	want := "    \n    "
	if got := f.String(); got != want {
		t.Errorf("empty buffer should flush to spaces, got %q", got)
	}
}
