package layout

import "github.com/ehrlich-b/browsercore/internal/style"

// layoutFlex implements spec §4.5.3's simplified flex algorithm: base sizes from flex-basis, grow/shrink distribution of free
// space, cross-axis alignment via align-items/align-self, and main-axis
// placement via justify-content. flex-wrap packs a new line on overflow.
func layoutFlex(box *Box, containingWidth float64) {
	row := box.Style.FlexDirection == "row" || box.Style.FlexDirection == "row-reverse"
	reverse := box.Style.FlexDirection == "row-reverse" || box.Style.FlexDirection == "column-reverse"
	wrap := box.Style.FlexWrap == "wrap" || box.Style.FlexWrap == "wrap-reverse"

	mainSize := containingWidth
	if !row {
		mainSize = 0 // column main size derives from content below; see per-line sizing
	}

	var lines [][]*Box
	var cur []*Box
	curMain := 0.0
	for _, c := range box.Children {
		if c.IsText {
			continue
		}
		base := flexBaseSize(c, containingWidth, row)
		if wrap && row && len(cur) > 0 && curMain+base > mainSize {
			lines = append(lines, cur)
			cur = nil
			curMain = 0
		}
		cur = append(cur, c)
		curMain += base
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}

	y := 0.0
	for _, line := range lines {
		crossSize := layoutFlexLine(box, line, containingWidth, row, reverse)
		if row {
			for _, c := range line {
				c.Content.Y += y
			}
		}
		y += crossSize
	}
	box.Content.Height = y
}

func flexBaseSize(c *Box, containingWidth float64, row bool) float64 {
	st := c.Style
	if st.FlexBasis.Kind != style.LengthAuto {
		return st.FlexBasis.Resolve(containingWidth, 0)
	}
	if row && st.Width.Kind != style.LengthAuto {
		return st.Width.Resolve(containingWidth, 0)
	}
	if !row && st.Height.Kind != style.LengthAuto {
		return st.Height.Resolve(containingWidth, 0)
	}
	return 0
}

// layoutFlexLine lays out one flex line's items along the main axis and
// returns the line's cross-axis size.
func layoutFlexLine(box *Box, line []*Box, containingWidth float64, row bool, reverse bool) float64 {
	mainSize := containingWidth
	bases := make([]float64, len(line))
	sumBase := 0.0
	for i, c := range line {
		bases[i] = flexBaseSize(c, containingWidth, row)
		sumBase += bases[i]
	}
	free := mainSize - sumBase

	sizes := make([]float64, len(line))
	if free > 0 {
		sumGrow := 0.0
		for _, c := range line {
			sumGrow += c.Style.FlexGrow
		}
		for i, c := range line {
			sizes[i] = bases[i]
			if sumGrow > 0 {
				sizes[i] += free * (c.Style.FlexGrow / sumGrow)
			}
		}
	} else if free < 0 {
		sumShrink := 0.0
		for i, c := range line {
			sumShrink += c.Style.FlexShrink * bases[i]
		}
		for i, c := range line {
			sizes[i] = bases[i]
			w := c.Style.FlexShrink * bases[i]
			if sumShrink > 0 {
				sizes[i] += free * (w / sumShrink)
			}
			if sizes[i] < 0 {
				sizes[i] = 0
			}
		}
	} else {
		copy(sizes, bases)
	}

	// lay out each item at its resolved main size to get cross size (height
	// for row direction, width for column direction).
	crossSize := 0.0
	for i, c := range line {
		pad := Edges{
			Top:    c.Style.PaddingTop.Resolve(containingWidth, 0),
			Right:  c.Style.PaddingRight.Resolve(containingWidth, 0),
			Bottom: c.Style.PaddingBottom.Resolve(containingWidth, 0),
			Left:   c.Style.PaddingLeft.Resolve(containingWidth, 0),
		}
		bord := Edges{Top: c.Style.BorderTopWidth, Right: c.Style.BorderRightWidth, Bottom: c.Style.BorderBottomWidth, Left: c.Style.BorderLeftWidth}
		c.Padding, c.Border = pad, bord
		if row {
			c.Content.Width = sizes[i]
			Layout(c, sizes[i])
		} else {
			c.Content.Width = containingWidth - pad.Left - pad.Right - bord.Left - bord.Right
			Layout(c, c.Content.Width)
			c.Content.Height = sizes[i]
		}
		h := bord.Top + pad.Top + c.Content.Height + pad.Bottom + bord.Bottom
		if row && h > crossSize {
			crossSize = h
		}
		if !row {
			w := bord.Left + pad.Left + c.Content.Width + pad.Right + bord.Right
			if w > crossSize {
				crossSize = w
			}
		}
	}

	alignCross(box, line, crossSize, row)
	placeMainAxis(box, line, sizes, mainSize, row, reverse)
	return crossSize
}

func alignCross(box *Box, line []*Box, crossSize float64, row bool) {
	for _, c := range line {
		align := c.Style.AlignSelf
		if align == "auto" || align == "" {
			align = box.Style.AlignItems
		}
		childCross := c.Border.Top + c.Padding.Top + c.Content.Height + c.Padding.Bottom + c.Border.Bottom
		if !row {
			childCross = c.Border.Left + c.Padding.Left + c.Content.Width + c.Padding.Right + c.Border.Right
		}
		offset := 0.0
		switch align {
		case "center":
			offset = (crossSize - childCross) / 2
		case "end", "flex-end":
			offset = crossSize - childCross
		case "stretch":
			if row {
				c.Content.Height = crossSize - c.Padding.Top - c.Padding.Bottom - c.Border.Top - c.Border.Bottom
			} else {
				c.Content.Width = crossSize - c.Padding.Left - c.Padding.Right - c.Border.Left - c.Border.Right
			}
		}
		if row {
			c.Content.Y = offset + c.Border.Top + c.Padding.Top
		} else {
			c.Content.X = offset + c.Border.Left + c.Padding.Left
		}
	}
}

// placeMainAxis implements spec §4.5.3 step 6's justify-content placement.
func placeMainAxis(box *Box, line []*Box, sizes []float64, mainSize float64, row, reverse bool) {
	n := len(line)
	if n == 0 {
		return
	}
	marginBoxSizes := make([]float64, n)
	sum := 0.0
	for i, c := range line {
		s := sizes[i] + c.Border.Left + c.Padding.Left + c.Padding.Right + c.Border.Right
		if !row {
			s = sizes[i] + c.Border.Top + c.Padding.Top + c.Padding.Bottom + c.Border.Bottom
		}
		marginBoxSizes[i] = s
		sum += s
	}
	free := mainSize - sum
	if free < 0 {
		free = 0
	}

	var gapBefore, gapBetween, startOffset float64
	switch box.Style.JustifyContent {
	case "center":
		startOffset = free / 2
	case "flex-end", "end":
		startOffset = free
	case "space-between":
		if n > 1 {
			gapBetween = free / float64(n-1)
		}
	case "space-around":
		gapBetween = free / float64(n)
		gapBefore = gapBetween / 2
	case "space-evenly":
		gapBetween = free / float64(n+1)
		gapBefore = gapBetween
	}

	pos := startOffset + gapBefore
	order := make([]int, n)
	for i := range order {
		if reverse {
			order[i] = n - 1 - i
		} else {
			order[i] = i
		}
	}
	for _, i := range order {
		c := line[i]
		if row {
			c.Content.X = pos + c.Border.Left + c.Padding.Left
		} else {
			c.Content.Y = pos + c.Border.Top + c.Padding.Top
		}
		pos += marginBoxSizes[i] + gapBetween
	}
}
