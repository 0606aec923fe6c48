package layout

import "github.com/ehrlich-b/browsercore/internal/style"

// Layout lays out box's children within containingWidth and sets box's own
// content height, dispatching to the formatting context named by box's
// computed `display`, per spec §4.5.
func Layout(box *Box, containingWidth float64) {
	switch innerDisplay(box.Style.Display) {
	case "flex":
		layoutFlex(box, containingWidth)
	case "grid":
		layoutGrid(box, containingWidth)
	case "table":
		layoutTable(box, containingWidth)
	default:
		layoutBlockChildren(box, containingWidth)
	}
}

// resolveWidth implements spec §4.5.1 step 1-2: used content width and
// margins for a block-level box laid out against containingWidth.
func resolveWidth(st *style.ComputedStyle, containingWidth float64) (contentWidth, ml, mr float64, pad, bord Edges) {
	pad = Edges{
		Top:    st.PaddingTop.Resolve(containingWidth, 0),
		Right:  st.PaddingRight.Resolve(containingWidth, 0),
		Bottom: st.PaddingBottom.Resolve(containingWidth, 0),
		Left:   st.PaddingLeft.Resolve(containingWidth, 0),
	}
	bord = Edges{
		Top: st.BorderTopWidth, Right: st.BorderRightWidth,
		Bottom: st.BorderBottomWidth, Left: st.BorderLeftWidth,
	}
	horizNonContent := pad.Left + pad.Right + bord.Left + bord.Right

	mlSet := st.MarginLeft.Kind != style.LengthAuto
	mrSet := st.MarginRight.Kind != style.LengthAuto
	if mlSet {
		ml = st.MarginLeft.Resolve(containingWidth, 0)
	}
	if mrSet {
		mr = st.MarginRight.Resolve(containingWidth, 0)
	}

	widthAuto := st.Width.Kind == style.LengthAuto
	if !widthAuto {
		w := st.Width.Resolve(containingWidth, 0)
		if st.BoxSizing == "border-box" {
			w -= horizNonContent
		}
		contentWidth = w
	} else {
		contentWidth = containingWidth - horizNonContent - ml - mr
	}
	contentWidth = clampWidth(contentWidth, st, containingWidth)

	remaining := containingWidth - contentWidth - horizNonContent
	switch {
	case !mlSet && !mrSet:
		if !widthAuto {
			half := remaining / 2
			ml, mr = half, half
		}
	case !mlSet:
		ml = remaining - mr
	case !mrSet:
		mr = remaining - ml
	}
	return contentWidth, ml, mr, pad, bord
}

func clampWidth(w float64, st *style.ComputedStyle, containingWidth float64) float64 {
	minW := st.MinWidth.Resolve(containingWidth, 0)
	if w < minW {
		w = minW
	}
	if st.MaxWidth.Kind != style.LengthAuto {
		maxW := st.MaxWidth.Resolve(containingWidth, w)
		if w > maxW {
			w = maxW
		}
	}
	if w < 0 {
		w = 0
	}
	return w
}

// collapseMargins implements spec §4.5.1 step 4's three-case rule.
func collapseMargins(m1, m2 float64) float64 {
	switch {
	case m1 >= 0 && m2 >= 0:
		return max(m1, m2)
	case m1 <= 0 && m2 <= 0:
		return min(m1, m2)
	default:
		return m1 + m2
	}
}

// layoutBlockChildren implements spec §4.5.1: partitions children into
// absolutely-positioned, floated, and in-flow; lays out in-flow children
// with margin collapsing between siblings; lays out floats; positions
// absolutely-positioned children; derives aspect-ratio; sets box.Content.
func layoutBlockChildren(box *Box, containingWidth float64) {
	var inFlow, floated, absolute []*Box
	for _, c := range box.Children {
		if c.IsText {
			inFlow = append(inFlow, c)
			continue
		}
		switch {
		case c.Style.Position == "absolute" || c.Style.Position == "fixed":
			absolute = append(absolute, c)
		case c.Style.Float == "left" || c.Style.Float == "right":
			floated = append(floated, c)
		default:
			inFlow = append(inFlow, c)
		}
	}

	flowHeight := layoutInFlowChildren(box, inFlow, containingWidth)
	floatHeight := layoutFloats(box, floated, containingWidth, flowHeight)
	contentHeight := flowHeight
	if floatHeight > contentHeight {
		contentHeight = floatHeight
	}

	if box.Style.Height.Kind != style.LengthAuto {
		contentHeight = box.Style.Height.Resolve(containingWidth, contentHeight)
	}
	if box.Style.AspectRatio > 0 {
		if box.Style.Width.Kind == style.LengthAuto && box.Style.Height.Kind != style.LengthAuto {
			box.Content.Width = contentHeight * box.Style.AspectRatio
		} else if box.Style.Height.Kind == style.LengthAuto {
			contentHeight = box.Content.Width / box.Style.AspectRatio
		}
	}
	box.Content.Height = contentHeight

	for _, c := range absolute {
		layoutAbsolute(box, c, containingWidth, contentHeight)
	}
}

// layoutInFlowChildren lays out the in-flow (non-floated, non-positioned)
// child stream: contiguous inline-level runs go through layoutInline,
// block-level children recurse through Layout, and adjacent block margins
// collapse per spec §4.5.1 step 4.
func layoutInFlowChildren(box *Box, children []*Box, containingWidth float64) float64 {
	y := 0.0
	prevBottomMargin := 0.0
	havePrev := false

	i := 0
	for i < len(children) {
		c := children[i]
		if c.IsText || isInlineLevel(c.Style) {
			j := i
			var run []*Box
			for j < len(children) && (children[j].IsText || isInlineLevel(children[j].Style)) {
				run = append(run, children[j])
				j++
			}
			lineHeight := layoutInline(run, containingWidth)
			for _, r := range run {
				r.Content.Y += y
			}
			y += lineHeight
			havePrev = false
			prevBottomMargin = 0
			i = j
			continue
		}

		contentWidth, ml, mr, pad, bord := resolveWidth(c.Style, containingWidth)
		c.Content.Width = contentWidth
		c.Padding = pad
		c.Border = bord
		mt := 0.0
		if c.Style.MarginTop.Kind != style.LengthAuto {
			mt = c.Style.MarginTop.Resolve(containingWidth, 0)
		}
		mb := 0.0
		if c.Style.MarginBottom.Kind != style.LengthAuto {
			mb = c.Style.MarginBottom.Resolve(containingWidth, 0)
		}
		c.Margin = Edges{Top: mt, Right: mr, Bottom: mb, Left: ml}

		if havePrev {
			y += collapseMargins(prevBottomMargin, mt)
		} else {
			y += mt
		}

		c.Content.X = ml + bord.Left + pad.Left
		c.Content.Y = bord.Top + pad.Top

		Layout(c, contentWidth)

		childMarginBoxHeight := bord.Top + pad.Top + c.Content.Height + pad.Bottom + bord.Bottom
		c.Content.Y += y
		y += childMarginBoxHeight
		prevBottomMargin = mb
		havePrev = true
		i++
	}
	if havePrev {
		y += prevBottomMargin
	}
	return y
}

// layoutFloats implements spec §4.5.1 step 5: each floated child gets half
// the container width, left floats from the left edge, right floats from
// the right edge, starting below startY.
func layoutFloats(box *Box, floats []*Box, containingWidth, startY float64) float64 {
	halfWidth := containingWidth / 2
	leftX, rightX := 0.0, containingWidth
	leftY, rightY := startY, startY
	maxBottom := startY
	for _, c := range floats {
		contentWidth, ml, mr, pad, bord := resolveWidth(c.Style, halfWidth)
		c.Content.Width = contentWidth
		c.Padding = pad
		c.Border = bord
		c.Margin = Edges{Left: ml, Right: mr}
		Layout(c, contentWidth)
		marginBoxH := bord.Top + pad.Top + c.Content.Height + pad.Bottom + bord.Bottom
		if c.Style.Float == "left" {
			c.Content.X = leftX + ml + bord.Left + pad.Left
			c.Content.Y = leftY + bord.Top + pad.Top
			leftY += marginBoxH
		} else {
			rightX -= halfWidth
			c.Content.X = rightX + ml + bord.Left + pad.Left
			c.Content.Y = rightY + bord.Top + pad.Top
			rightY += marginBoxH
		}
		if leftY > maxBottom {
			maxBottom = leftY
		}
		if rightY > maxBottom {
			maxBottom = rightY
		}
	}
	return maxBottom
}

// layoutAbsolute implements spec §4.5.1 step 6: position an
// absolutely-positioned child relative to the container's content box
// using its top/right/bottom/left offsets.
func layoutAbsolute(container, c *Box, containingWidth, containingHeight float64) {
	contentWidth, _, _, pad, bord := resolveWidth(c.Style, containingWidth)
	c.Content.Width = contentWidth
	c.Padding = pad
	c.Border = bord
	Layout(c, contentWidth)

	x := 0.0
	if c.Style.Left.Kind != style.LengthAuto {
		x = c.Style.Left.Resolve(containingWidth, 0)
	} else if c.Style.Right.Kind != style.LengthAuto {
		x = containingWidth - c.Style.Right.Resolve(containingWidth, 0) - (bord.Left + pad.Left + contentWidth + pad.Right + bord.Right)
	}
	y := 0.0
	if c.Style.Top.Kind != style.LengthAuto {
		y = c.Style.Top.Resolve(containingHeight, 0)
	} else if c.Style.Bottom.Kind != style.LengthAuto {
		y = containingHeight - c.Style.Bottom.Resolve(containingHeight, 0) - (bord.Top + pad.Top + c.Content.Height + pad.Bottom + bord.Bottom)
	}
	c.Content.X = x + bord.Left + pad.Left
	c.Content.Y = y + bord.Top + pad.Top
}
