package layout

import (
	"strings"

	"github.com/ehrlich-b/browsercore/internal/style"
)

// resolvedTrack is one grid track after size resolution (spec §4.5.4 step 3).
type resolvedTrack struct {
	size float64
}

// layoutGrid implements spec §4.5.4's simplified grid algorithm: cursor-based
// auto-placement, fixed/auto/fr/minmax track resolution, and placing each
// item in the pixel rectangle of its cell. Row tracks take their pixel
// value when fixed; every other row track takes its tallest item's height.
func layoutGrid(box *Box, containingWidth float64) {
	cols := box.Style.GridTemplateColumns
	if len(cols) == 0 {
		cols = []style.TrackSize{{Kind: "fr", Value: 1}}
	}
	colGap := box.Style.GridColumnGap
	rowGap := box.Style.GridRowGap

	items := make([]*Box, 0, len(box.Children))
	for _, c := range box.Children {
		if !c.IsText {
			items = append(items, c)
		}
	}

	// auto-place: cursor wraps at len(cols) for row flow (the default) or
	// at len(rows) for grid-auto-flow: column.
	columnFlow := strings.Contains(box.Style.GridAutoFlow, "column")

	rows := box.Style.GridTemplateRows
	if len(rows) == 0 {
		nRows := (len(items) + len(cols) - 1) / len(cols)
		if nRows == 0 {
			nRows = 1
		}
		rows = make([]style.TrackSize, nRows)
		for i := range rows {
			rows[i] = style.TrackSize{Kind: "auto"}
		}
	}

	colPlacement := make([]int, len(items))
	rowPlacement := make([]int, len(items))
	if columnFlow {
		for i := range items {
			rowPlacement[i] = i % len(rows)
			colPlacement[i] = i / len(rows)
		}
	} else {
		for i := range items {
			colPlacement[i] = i % len(cols)
			rowPlacement[i] = i / len(cols)
		}
	}

	// spec §4.18: an item placed past the explicit track count grows
	// grid-auto-rows/grid-auto-columns tracks on demand, sized the same
	// way as explicit auto tracks (an unset grid-auto-* behaves as "auto").
	rows = growTracks(rows, rowPlacement, box.Style.GridAutoRows)
	cols = growTracks(cols, colPlacement, box.Style.GridAutoColumns)

	colWidths := resolveTracks(cols, containingWidth, colGap, items, colPlacement, true)
	// row tracks with Kind "auto" take the max intrinsic height of items
	// placed primarily in that row; approximate intrinsic height by laying
	// the item out at its resolved column width first.
	itemHeights := make([]float64, len(items))
	for i, it := range items {
		w := colWidths[colPlacement[i]].size
		pad := Edges{
			Top: it.Style.PaddingTop.Resolve(w, 0), Right: it.Style.PaddingRight.Resolve(w, 0),
			Bottom: it.Style.PaddingBottom.Resolve(w, 0), Left: it.Style.PaddingLeft.Resolve(w, 0),
		}
		bord := Edges{Top: it.Style.BorderTopWidth, Right: it.Style.BorderRightWidth, Bottom: it.Style.BorderBottomWidth, Left: it.Style.BorderLeftWidth}
		it.Padding, it.Border = pad, bord
		it.Content.Width = w - pad.Left - pad.Right - bord.Left - bord.Right
		Layout(it, it.Content.Width)
		itemHeights[i] = bord.Top + pad.Top + it.Content.Height + pad.Bottom + bord.Bottom
	}
	rowHeights := resolveTrackHeights(rows, itemHeights, rowPlacement)

	colOffsets := trackOffsets(colWidths, colGap)
	rowOffsets := trackOffsets(rowHeights, rowGap)

	maxBottom := 0.0
	for i, it := range items {
		cx := colOffsets[colPlacement[i]]
		ry := rowOffsets[rowPlacement[i]]
		it.Content.X = cx + it.Border.Left + it.Padding.Left
		it.Content.Y = ry + it.Border.Top + it.Padding.Top
		bottom := ry + rowHeights[rowPlacement[i]].size
		if bottom > maxBottom {
			maxBottom = bottom
		}
	}
	box.Content.Height = maxBottom
}

// growTracks appends auto-sized implicit tracks until no placement index
// falls past the end of tracks, so items beyond the explicit track count
// (more items than explicit rows*cols) don't index out of range.
func growTracks(tracks []style.TrackSize, placement []int, autoTrack style.TrackSize) []style.TrackSize {
	needed := len(tracks)
	for _, p := range placement {
		if p+1 > needed {
			needed = p + 1
		}
	}
	if needed <= len(tracks) {
		return tracks
	}
	if autoTrack.Kind == "" {
		autoTrack = style.TrackSize{Kind: "auto"}
	}
	for len(tracks) < needed {
		tracks = append(tracks, autoTrack)
	}
	return tracks
}

func trackOffsets(tracks []resolvedTrack, gap float64) []float64 {
	offsets := make([]float64, len(tracks))
	pos := 0.0
	for i, t := range tracks {
		offsets[i] = pos
		pos += t.size + gap
	}
	return offsets
}

// resolveTracks implements spec §4.5.4 step 3 for one axis: fixed tracks
// take their pixel value, auto tracks take the max intrinsic main-axis size
// of items primarily placed there, fr tracks share remaining space, and
// minmax resolves to its minimum then shares in the fr distribution.
func resolveTracks(tracks []style.TrackSize, containingWidth, gap float64, items []*Box, placement []int, isColumn bool) []resolvedTrack {
	n := len(tracks)
	out := make([]resolvedTrack, n)
	frWeights := make([]float64, n)
	totalFixed := 0.0
	for i, t := range tracks {
		switch t.Kind {
		case "fixed":
			out[i].size = t.Value
			totalFixed += t.Value
		case "fr":
			frWeights[i] = t.Value
		case "minmax":
			if t.Min != nil && t.Min.Kind == "fixed" {
				out[i].size = t.Min.Value
				totalFixed += t.Min.Value
			}
			if t.Max != nil && t.Max.Kind == "fr" {
				frWeights[i] = t.Max.Value
			}
		case "auto":
			maxIntrinsic := 0.0
			for idx, it := range items {
				if placement[idx] != i {
					continue
				}
				w := intrinsicMainSize(it, isColumn)
				if w > maxIntrinsic {
					maxIntrinsic = w
				}
			}
			out[i].size = maxIntrinsic
			totalFixed += maxIntrinsic
		}
	}
	totalGap := gap * float64(max(n-1, 0))
	remaining := containingWidth - totalFixed - totalGap
	sumFr := 0.0
	for _, w := range frWeights {
		sumFr += w
	}
	if sumFr > 0 && remaining > 0 {
		for i, w := range frWeights {
			if w > 0 {
				out[i].size += remaining * (w / sumFr)
			}
		}
	}
	return out
}

func intrinsicMainSize(it *Box, isColumn bool) float64 {
	if !isColumn {
		return 0
	}
	if it.Style.Width.Kind != style.LengthAuto {
		return it.Style.Width.Value
	}
	return 80 // heuristic minimum intrinsic width for auto-sized grid items
}

func resolveTrackHeights(rows []style.TrackSize, itemHeights []float64, placement []int) []resolvedTrack {
	out := make([]resolvedTrack, len(rows))
	for i := range rows {
		if rows[i].Kind == "fixed" {
			out[i].size = rows[i].Value
			continue
		}
		maxH := 0.0
		for idx, h := range itemHeights {
			if placement[idx] == i && h > maxH {
				maxH = h
			}
		}
		out[i].size = maxH
	}
	return out
}
