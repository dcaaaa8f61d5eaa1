package blueprint

import "github.com/charmbracelet/lipgloss"

// paintStyle is the painter's interpretation of a view's property bag.
// Pointers are shared across the view's cells so the flush path can group
// runs by identity.
type paintStyle struct {
	text        *lipgloss.Style
	bg          *lipgloss.Style
	border      *borderChars
	borderStyle *lipgloss.Style
}

// colorNames maps the basic color vocabulary to ANSI palette indices.
// Anything else (hex strings, palette numbers) passes through to
// lipgloss untouched.
var colorNames = map[string]string{
	"black":          "0",
	"red":            "1",
	"green":          "2",
	"yellow":         "3",
	"blue":           "4",
	"magenta":        "5",
	"cyan":           "6",
	"white":          "7",
	"bright-black":   "8",
	"bright-red":     "9",
	"bright-green":   "10",
	"bright-yellow":  "11",
	"bright-blue":    "12",
	"bright-magenta": "13",
	"bright-cyan":    "14",
	"bright-white":   "15",
}

// colorProp reads a color-valued property.
func colorProp(v *View, key string) (lipgloss.Color, bool) {
	val, ok := v.Prop(key)
	if !ok || val.Kind() != StringKind {
		return "", false
	}
	s := val.AsString()
	if idx, ok := colorNames[s]; ok {
		s = idx
	}
	return lipgloss.Color(s), true
}

func boolProp(v *View, key string) bool {
	val, ok := v.Prop(key)
	return ok && val.AsBool()
}

// paintStyleFor derives the paint style from a view's property bag.
func paintStyleFor(v *View) paintStyle {
	var ps paintStyle

	text := lipgloss.NewStyle()
	styled := false
	if c, ok := colorProp(v, "color"); ok {
		text = text.Foreground(c)
		styled = true
	}
	if boolProp(v, "bold") {
		text = text.Bold(true)
		styled = true
	}
	if boolProp(v, "italic") {
		text = text.Italic(true)
		styled = true
	}
	if boolProp(v, "underline") {
		text = text.Underline(true)
		styled = true
	}

	if c, ok := colorProp(v, "background-color"); ok {
		bg := lipgloss.NewStyle().Background(c)
		ps.bg = &bg
		text = text.Background(c)
		styled = true
	}
	if styled {
		ps.text = &text
	}

	if val, ok := v.Prop("border"); ok {
		switch val.AsString() {
		case "single":
			ps.border = &borderSingle
		case "rounded":
			ps.border = &borderRounded
		case "double":
			ps.border = &borderDouble
		}
		if ps.border != nil {
			bs := lipgloss.NewStyle()
			if c, ok := colorProp(v, "border-color"); ok {
				bs = bs.Foreground(c)
			}
			ps.borderStyle = &bs
		}
	}

	return ps
}
