package blueprint

// Two-phase flex layout over the shadow tree:
//
//	distribute (top→down): parents hand widths to children
//	arrange    (bottom→up): children measure heights, parents position them
//
// The solver is pluggable so hosts and tests can substitute their own;
// FlexLayout is the default.

// LayoutFunc computes geometry for the shadow tree rooted at root within
// the given viewport. Implementations set Bounds on every node.
type LayoutFunc func(root *ShadowView, w, h float64)

// FlexLayout is the default solver.
func FlexLayout(root *ShadowView, w, h float64) {
	if root == nil {
		return
	}
	root.x, root.y = 0, 0
	root.w, root.h = w, h
	distribute(root)
	arrange(root)
	clearDirty(root)
}

// distribute assigns widths to children, top-down.
func distribute(n *ShadowView) {
	inner := n.w - 2*n.padding

	switch n.direction {
	case Column:
		// Children default to full content width.
		for _, c := range n.children {
			if c.explicitW > 0 {
				c.w = c.explicitW
			} else {
				c.w = inner
			}
			if c.w < c.minW {
				c.w = c.minW
			}
			if c.explicitH > 0 {
				c.h = c.explicitH
			} else {
				c.h = 0 // measured bottom-up
			}
		}

	case Row:
		// Fixed widths first, then share the remainder by grow factor.
		var fixed, totalGrow float64
		for i, c := range n.children {
			if c.explicitW > 0 {
				fixed += c.explicitW
			} else {
				g := c.grow
				if g <= 0 {
					g = 1
				}
				totalGrow += g
			}
			if i > 0 {
				fixed += n.gap
			}
		}
		remaining := inner - fixed
		if remaining < 0 {
			remaining = 0
		}
		for _, c := range n.children {
			if c.explicitW > 0 {
				c.w = c.explicitW
			} else {
				g := c.grow
				if g <= 0 {
					g = 1
				}
				c.w = remaining * (g / totalGrow)
			}
			if c.w < c.minW {
				c.w = c.minW
			}
			if c.explicitH > 0 {
				c.h = c.explicitH
			} else {
				c.h = 0
			}
		}
	}

	for _, c := range n.children {
		distribute(c)
	}
}

// arrange computes heights and child positions, bottom-up.
func arrange(n *ShadowView) {
	for _, c := range n.children {
		arrange(c)
	}

	if len(n.children) == 0 {
		measureLeaf(n)
		return
	}

	switch n.direction {
	case Column:
		arrangeColumn(n)
	case Row:
		arrangeRow(n)
	}
	if n.h < n.minH {
		n.h = n.minH
	}
}

// measureLeaf sizes a node with no shadow children from its content.
func measureLeaf(n *ShadowView) {
	if n.view != nil && n.view.Kind() == TextView {
		w, h := n.measureText(n.w)
		if n.w <= 0 {
			n.w = w
		}
		if n.explicitH <= 0 {
			n.h = h
		}
	}
	if n.w < n.minW {
		n.w = n.minW
	}
	if n.h < n.minH {
		n.h = n.minH
	}
}

func arrangeColumn(n *ShadowView) {
	var contentH, totalGrow float64
	for i, c := range n.children {
		contentH += c.h
		if c.grow > 0 {
			totalGrow += c.grow
		}
		if i < len(n.children)-1 {
			contentH += n.gap
		}
	}

	// Hand leftover vertical space to grow children.
	if n.h > 0 && totalGrow > 0 {
		remaining := n.h - 2*n.padding - contentH
		if remaining > 0 {
			for _, c := range n.children {
				if c.grow > 0 {
					add := remaining * (c.grow / totalGrow)
					c.h += add
					stretch(c)
				}
			}
			contentH += remaining
		}
	}

	y := n.padding
	for i, c := range n.children {
		c.x = n.padding
		c.y = y
		y += c.h
		if i < len(n.children)-1 {
			y += n.gap
		}
	}

	if n.h == 0 {
		n.h = y + n.padding
	}
}

func arrangeRow(n *ShadowView) {
	x := n.padding
	var maxH float64
	for i, c := range n.children {
		c.x = x
		c.y = n.padding
		x += c.w
		if i < len(n.children)-1 {
			x += n.gap
		}
		if c.h > maxH {
			maxH = c.h
		}
	}
	if n.h == 0 {
		n.h = maxH + 2*n.padding
	}

	// Children without an explicit height stretch to fill the row.
	inner := n.h - 2*n.padding
	for _, c := range n.children {
		if c.explicitH <= 0 && c.h < inner {
			c.h = inner
			stretch(c)
		}
	}
}

// stretch redistributes a container's height among its children after
// the parent enlarged it: grow children absorb the slack in a column,
// auto-height children refill a row. Positions are recomputed.
func stretch(n *ShadowView) {
	if len(n.children) == 0 {
		return
	}
	inner := n.h - 2*n.padding

	if n.direction == Row {
		for _, c := range n.children {
			if c.explicitH <= 0 && c.h < inner {
				c.h = inner
				stretch(c)
			}
		}
		return
	}

	var contentH, totalGrow float64
	for i, c := range n.children {
		contentH += c.h
		totalGrow += c.grow
		if i < len(n.children)-1 {
			contentH += n.gap
		}
	}
	if remaining := inner - contentH; remaining > 0 && totalGrow > 0 {
		for _, c := range n.children {
			if c.grow > 0 {
				c.h += remaining * (c.grow / totalGrow)
				stretch(c)
			}
		}
	}

	y := n.padding
	for i, c := range n.children {
		c.y = y
		y += c.h
		if i < len(n.children)-1 {
			y += n.gap
		}
	}
}

func clearDirty(n *ShadowView) {
	n.dirty = false
	for _, c := range n.children {
		clearDirty(c)
	}
}
