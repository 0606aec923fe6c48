// Package paint implements spec §4.6: a single walk of the laid-out box
// tree that emits a flat display list in CSS stacking order (CSS 2.1
// Appendix E, simplified), ready for a rasterizer to consume.
package paint

import (
	"sort"

	"github.com/ehrlich-b/browsercore/internal/css"
	"github.com/ehrlich-b/browsercore/internal/layout"
	"github.com/ehrlich-b/browsercore/internal/style"
)

// Kind tags the variant of a display-list Item, following this codebase's
// tagged-struct convention (css.Value, css.Token) rather than an interface
// hierarchy.
type Kind int

const (
	KindClipPush Kind = iota
	KindClipPop
	KindOpacityPush
	KindOpacityPop
	KindBoxShadow
	KindBackground
	KindBorder
	KindOutline
	KindListMarker
	KindText
)

// Glyph is one positioned character, baseline-relative, per spec §4.6's
// "(glyph_id, x, y) pairs positioned on the baseline".
type Glyph struct {
	Rune rune
	X, Y float64
}

// TextRun carries a resolved color, font-size, and glyph vector, per spec
// §4.6.
type TextRun struct {
	Color    css.Color
	FontSize float64
	Glyphs   []Glyph
}

// BorderEdge is one side of a Border item's per-side width/style/color.
type BorderEdge struct {
	Side  string // "top" | "right" | "bottom" | "left"
	Width float64
	Style string
	Color css.Color
}

// Item is one entry of a display list. Only the fields relevant to Kind are
// populated; the rest are the struct's zero value.
type Item struct {
	Kind Kind

	Rect   layout.Rect // page-absolute rectangle this item paints or bounds
	Radius float64     // border-radius, for rounded-rect paths

	Color   css.Color
	Opacity float64 // KindOpacityPush

	Shadow ShadowPaint // KindBoxShadow
	Border *BorderEdge // KindBorder, one side per item
	Text   *TextRun    // KindText
}

// ShadowPaint is one box-shadow layer positioned in page-absolute space,
// per spec §4.18's multi-layer/inset supplement.
type ShadowPaint struct {
	Rect   layout.Rect
	Radius float64
	Color  css.Color
	Inset  bool
}

const glyphWidthRatio = 0.6 // matches internal/layout's text-measurement heuristic
const baselineRatio = 0.8   // baseline sits 80% of the way down the em box

// Build walks root and returns its display list in stacking order, per spec
// §4.6 steps 1-4. root must already have gone through layout.Layout and
// layout.Resolve (AbsX/AbsY populated).
func Build(root *layout.Box) []Item {
	var out []Item
	buildBox(&out, root)
	return out
}

func buildBox(out *[]Item, b *layout.Box) {
	if b == nil {
		return
	}
	if b.IsText {
		emitText(out, b)
		return
	}
	st := b.Style
	if st == nil || st.Display == "none" {
		return
	}

	opacityPushed := st.Opacity < 1
	if opacityPushed {
		*out = append(*out, Item{Kind: KindOpacityPush, Opacity: st.Opacity})
	}
	clipPushed := st.Overflow == "hidden" || st.Overflow == "scroll"
	if clipPushed {
		*out = append(*out, Item{Kind: KindClipPush, Rect: b.BorderBoxAbs(), Radius: st.BorderRadius})
	}

	if st.Visibility == "visible" {
		emitBoxShadows(out, b)
		emitBackground(out, b)
		emitBorders(out, b)
		emitOutline(out, b)
		emitListMarker(out, b)
	}

	recurseChildren(out, b)

	if clipPushed {
		*out = append(*out, Item{Kind: KindClipPop})
	}
	if opacityPushed {
		*out = append(*out, Item{Kind: KindOpacityPop})
	}
}

// recurseChildren implements spec §4.6 step 3's child ordering: negative
// z-index positioned children, then non-positioned block children, then
// inline children, then non-negative z-index positioned children
// (stable-sorted by z-index).
func recurseChildren(out *[]Item, b *layout.Box) {
	var negPositioned, nonNegPositioned, blockChildren, inlineChildren []*layout.Box
	for _, c := range b.Children {
		switch {
		case c.Positioned && zIndexOf(c) < 0:
			negPositioned = append(negPositioned, c)
		case c.Positioned:
			nonNegPositioned = append(nonNegPositioned, c)
		case c.IsText || isInlineLevelChild(c):
			inlineChildren = append(inlineChildren, c)
		default:
			blockChildren = append(blockChildren, c)
		}
	}
	sort.SliceStable(nonNegPositioned, func(i, j int) bool {
		return zIndexOf(nonNegPositioned[i]) < zIndexOf(nonNegPositioned[j])
	})

	for _, c := range negPositioned {
		buildBox(out, c)
	}
	for _, c := range blockChildren {
		buildBox(out, c)
	}
	for _, c := range inlineChildren {
		buildBox(out, c)
	}
	for _, c := range nonNegPositioned {
		buildBox(out, c)
	}
}

func zIndexOf(b *layout.Box) int {
	if b.ZIndex == nil {
		return 0
	}
	return *b.ZIndex
}

func isInlineLevelChild(b *layout.Box) bool {
	if b.Style == nil {
		return false
	}
	switch b.Style.Display {
	case "inline", "inline-block", "inline-flex", "inline-grid":
		return true
	}
	return false
}

// emitBoxShadows implements spec §4.18: one command per comma-separated
// shadow layer, innermost-last so the layer closest to the box paints last
// (and therefore on top of the others, underneath the background).
func emitBoxShadows(out *[]Item, b *layout.Box) {
	shadows := b.Style.BoxShadow
	for i := len(shadows) - 1; i >= 0; i-- {
		s := shadows[i]
		border := b.BorderBoxAbs()
		rect := layout.Rect{
			X:      border.X + s.DX - s.Spread,
			Y:      border.Y + s.DY - s.Spread,
			Width:  border.Width + 2*s.Spread,
			Height: border.Height + 2*s.Spread,
		}
		if s.Inset {
			// inset shadows paint inside the border box, inset by the spread;
			// the rect is not clipped to the border box, so a large offset
			// can carry it past the box's edge.
			rect = layout.Rect{
				X:      border.X + s.DX + s.Spread,
				Y:      border.Y + s.DY + s.Spread,
				Width:  border.Width - 2*s.Spread,
				Height: border.Height - 2*s.Spread,
			}
		}
		*out = append(*out, Item{
			Kind:  KindBoxShadow,
			Shadow: ShadowPaint{Rect: rect, Radius: b.Style.BorderRadius, Color: s.Color, Inset: s.Inset},
		})
	}
}

func emitBackground(out *[]Item, b *layout.Box) {
	st := b.Style
	if st.BackgroundColor.A <= 0 {
		return
	}
	*out = append(*out, Item{
		Kind:   KindBackground,
		Rect:   b.BorderBoxAbs(),
		Radius: st.BorderRadius,
		Color:  st.BackgroundColor,
	})
}

func emitBorders(out *[]Item, b *layout.Box) {
	st := b.Style
	border := b.BorderBoxAbs()
	type side struct {
		name  string
		width float64
		style string
		color css.Color
	}
	sides := []side{
		{"top", st.BorderTopWidth, st.BorderTopStyle, st.BorderTopColor},
		{"right", st.BorderRightWidth, st.BorderRightStyle, st.BorderRightColor},
		{"bottom", st.BorderBottomWidth, st.BorderBottomStyle, st.BorderBottomColor},
		{"left", st.BorderLeftWidth, st.BorderLeftStyle, st.BorderLeftColor},
	}
	for _, s := range sides {
		if s.width <= 0 || s.style == "none" {
			continue
		}
		*out = append(*out, Item{
			Kind:   KindBorder,
			Rect:   border,
			Radius: st.BorderRadius,
			Border: &BorderEdge{Side: s.name, Width: s.width, Style: s.style, Color: s.color},
		})
	}
}

// emitOutline draws outside the border box by outline-offset +
// outline-width, per spec §4.6 step 2.
func emitOutline(out *[]Item, b *layout.Box) {
	st := b.Style
	if st.OutlineStyle == "none" || st.OutlineWidth <= 0 {
		return
	}
	border := b.BorderBoxAbs()
	inflate := st.OutlineOffset + st.OutlineWidth
	rect := layout.Rect{
		X:      border.X - inflate,
		Y:      border.Y - inflate,
		Width:  border.Width + 2*inflate,
		Height: border.Height + 2*inflate,
	}
	*out = append(*out, Item{
		Kind:   KindOutline,
		Rect:   rect,
		Border: &BorderEdge{Side: "all", Width: st.OutlineWidth, Style: st.OutlineStyle, Color: st.OutlineColor},
	})
}

var listMarkerGlyph = map[string]rune{
	"disc":      '•',
	"circle":    '◦',
	"square":    '▪',
	"decimal":   '1', // every decimal marker shows '1'; no counter value is computed
	"none":      0,
}

func emitListMarker(out *[]Item, b *layout.Box) {
	st := b.Style
	if st.Display != "list-item" {
		return
	}
	g, ok := listMarkerGlyph[st.ListStyleType]
	if !ok || g == 0 {
		return
	}
	border := b.BorderBoxAbs()
	markerWidth := st.FontSize * glyphWidthRatio
	*out = append(*out, Item{
		Kind: KindListMarker,
		Rect: layout.Rect{X: border.X - markerWidth - 4, Y: border.Y, Width: markerWidth, Height: st.FontSize},
		Text: &TextRun{Color: st.Color, FontSize: st.FontSize, Glyphs: []Glyph{{Rune: g, X: 0, Y: st.FontSize * baselineRatio}}},
	})
}

// emitText lays out one text box's glyphs on its baseline, applies
// text-shadow (spec §4.18) as extra runs behind the main one, and truncates
// with an ellipsis glyph when the containing block asks for
// text-overflow: ellipsis and overflow is clipped (spec §4.6).
func emitText(out *[]Item, b *layout.Box) {
	st := b.Style
	if st == nil || st.Visibility != "visible" {
		return
	}
	runes := []rune(b.Text)
	maxWidth := availableWidth(b)
	runes = truncateForOverflow(st, runes, maxWidth)
	if len(runes) == 0 {
		return
	}

	for i := len(st.TextShadow) - 1; i >= 0; i-- {
		s := st.TextShadow[i]
		*out = append(*out, Item{Kind: KindText, Text: glyphRun(runes, st.FontSize, s.Color, b.AbsX+s.DX, b.AbsY+s.DY)})
	}
	*out = append(*out, Item{Kind: KindText, Text: glyphRun(runes, st.FontSize, st.Color, b.AbsX, b.AbsY)})
}

func availableWidth(b *layout.Box) float64 {
	if b.Parent == nil {
		return 0
	}
	return (b.Parent.AbsX + b.Parent.Content.Width) - b.AbsX
}

// truncateForOverflow implements spec §4.6's "text-overflow: ellipsis
// truncates glyphs that overflow the content-box width and appends a
// U+2026 glyph".
func truncateForOverflow(st *style.ComputedStyle, runes []rune, maxWidth float64) []rune {
	if st.TextOverflow != "ellipsis" || st.Overflow == "visible" || maxWidth <= 0 {
		return runes
	}
	charWidth := st.FontSize * glyphWidthRatio
	fullWidth := float64(len(runes)) * charWidth
	if fullWidth <= maxWidth {
		return runes
	}
	fit := int(maxWidth/charWidth) - 1
	if fit <= 0 {
		return []rune{'…'}
	}
	if fit > len(runes) {
		fit = len(runes)
	}
	out := make([]rune, 0, fit+1)
	out = append(out, runes[:fit]...)
	out = append(out, '…')
	return out
}

func glyphRun(runes []rune, fontSize float64, color css.Color, originX, originY float64) *TextRun {
	glyphs := make([]Glyph, len(runes))
	x := 0.0
	charWidth := fontSize * glyphWidthRatio
	for i, r := range runes {
		glyphs[i] = Glyph{Rune: r, X: originX + x, Y: originY + fontSize*baselineRatio}
		x += charWidth
	}
	return &TextRun{Color: color, FontSize: fontSize, Glyphs: glyphs}
}
