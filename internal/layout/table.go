package layout

// layoutTable implements spec §4.5.5: flattens through row groups
// (thead/tbody/tfoot), distributes container width equally among each
// row's cells, sets row height to the max cell border-box height, applies
// border-spacing between rows when border-collapse is separate, and
// positions caption-side: bottom captions after the rows.
func layoutTable(box *Box, containingWidth float64) {
	rows, topCaptions, bottomCaptions := flattenTableChildren(box)
	spacing := 0.0
	if box.Style.BorderCollapse == "separate" {
		spacing = box.Style.BorderSpacing
	}

	y := 0.0
	for _, capt := range topCaptions {
		y += layoutTableCaption(capt, containingWidth, y)
	}

	for _, row := range rows {
		cells := nonTextChildren(row)
		if len(cells) == 0 {
			continue
		}
		cellWidth := containingWidth / float64(len(cells))
		rowHeight := 0.0
		x := 0.0
		for _, cell := range cells {
			contentWidth, _, _, pad, bord := resolveWidth(cell.Style, cellWidth)
			cell.Padding, cell.Border = pad, bord
			cell.Content.Width = contentWidth
			Layout(cell, contentWidth)
			cell.Content.X = x + bord.Left + pad.Left
			cell.Content.Y = y + bord.Top + pad.Top
			h := bord.Top + pad.Top + cell.Content.Height + pad.Bottom + bord.Bottom
			if h > rowHeight {
				rowHeight = h
			}
			x += cellWidth
		}
		row.Content.Width = containingWidth
		row.Content.Height = rowHeight
		row.Content.Y = y
		y += rowHeight + spacing
	}

	for _, capt := range bottomCaptions {
		y += layoutTableCaption(capt, containingWidth, y)
	}

	box.Content.Height = y
}

func layoutTableCaption(capt *Box, containingWidth, y float64) float64 {
	contentWidth, _, _, pad, bord := resolveWidth(capt.Style, containingWidth)
	capt.Padding, capt.Border = pad, bord
	capt.Content.Width = contentWidth
	Layout(capt, contentWidth)
	capt.Content.X = bord.Left + pad.Left
	capt.Content.Y = y + bord.Top + pad.Top
	return bord.Top + pad.Top + capt.Content.Height + pad.Bottom + bord.Bottom
}

// flattenTableChildren walks through anonymous row-group wrappers
// (thead/tbody/tfoot) to produce a flat row list, plus captions split by
// caption-side.
func flattenTableChildren(box *Box) (rows []*Box, topCaptions, bottomCaptions []*Box) {
	for _, c := range box.Children {
		if c.IsText {
			continue
		}
		switch tagOf(c) {
		case "caption":
			if c.Style.CaptionSide == "bottom" {
				bottomCaptions = append(bottomCaptions, c)
			} else {
				topCaptions = append(topCaptions, c)
			}
		case "thead", "tbody", "tfoot":
			for _, r := range nonTextChildren(c) {
				rows = append(rows, r)
			}
		default:
			rows = append(rows, c)
		}
	}
	return rows, topCaptions, bottomCaptions
}

func nonTextChildren(b *Box) []*Box {
	var out []*Box
	for _, c := range b.Children {
		if !c.IsText {
			out = append(out, c)
		}
	}
	return out
}

func tagOf(b *Box) string {
	return b.Tag
}
