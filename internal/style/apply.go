package style

import (
	"strconv"
	"strings"

	"github.com/ehrlich-b/browsercore/internal/css"
)

// pxPerUnit converts absolute CSS units to pixels at the engine's fixed
// 96dpi reference (spec §9 point 3: no real font metrics, fixed ratios).
var pxPerUnit = map[string]float64{
	"px": 1,
	"pt": 96.0 / 72.0,
	"pc": 16,
	"in": 96,
	"cm": 96.0 / 2.54,
	"mm": 96.0 / 25.4,
	"q":  96.0 / 25.4 / 4,
}

// lengthFromValue converts a parsed css.Value into a Length, resolving
// em/rem against fontSizePx. Returns ok=false if v isn't length-like.
func lengthFromValue(v css.Value, fontSizePx float64) (Length, bool) {
	switch v.Kind {
	case css.VKeyword:
		if v.Keyword == "auto" {
			return auto(), true
		}
		return Length{}, false
	case css.VNumber:
		if v.Number == 0 {
			return px(0), true
		}
		return Length{}, false
	case css.VPercentage:
		return pct(v.Number), true
	case css.VLength:
		unit := strings.ToLower(v.Unit)
		if unit == "em" || unit == "rem" || unit == "ex" || unit == "ch" {
			return px(v.Number * fontSizePx), true
		}
		if ratio, ok := pxPerUnit[unit]; ok {
			return px(v.Number * ratio), true
		}
		return Length{}, false
	}
	return Length{}, false
}

func lengthToFloat(v css.Value, fontSizePx float64) (float64, bool) {
	l, ok := lengthFromValue(v, fontSizePx)
	if !ok || l.Kind == LengthAuto {
		return 0, false
	}
	if l.Kind == LengthPercent {
		return 0, false // border widths etc. don't accept percentages
	}
	return l.Value, true
}

func colorFromValue(v css.Value, current css.Color) (css.Color, bool) {
	switch v.Kind {
	case css.VColor:
		return v.Color, true
	case css.VKeyword:
		switch strings.ToLower(v.Keyword) {
		case "currentcolor":
			return current, true
		case "transparent":
			return css.Color{}, true
		}
	}
	return css.Color{}, false
}

func keywordOf(v css.Value) (string, bool) {
	if v.Kind == css.VKeyword {
		return strings.ToLower(v.Keyword), true
	}
	return "", false
}

func numberOf(v css.Value) (float64, bool) {
	switch v.Kind {
	case css.VNumber:
		return v.Number, true
	case css.VPercentage:
		return v.Number, true
	}
	return 0, false
}

// expandFour maps a 1-, 2-, 3- or 4-value shorthand list to top/right/bottom/left,
// per the standard CSS box-edge expansion rule used by margin/padding/border-*.
func expandFour(vals []css.Value) (a, b, c, d css.Value) {
	switch len(vals) {
	case 1:
		return vals[0], vals[0], vals[0], vals[0]
	case 2:
		return vals[0], vals[1], vals[0], vals[1]
	case 3:
		return vals[0], vals[1], vals[2], vals[1]
	default:
		return vals[0], vals[1], vals[2], vals[3]
	}
}

// applyDeclaration applies one cascaded declaration onto s in place, per
// spec §4.4. parent is s's already-resolved parent style, used for
// `inherit`/`unset`/currentColor resolution (nil at the document root).
func applyDeclaration(s *ComputedStyle, d css.Declaration, parent *ComputedStyle) {
	if len(d.Value) == 0 {
		return
	}
	if len(d.Value) == 1 {
		if kw, ok := keywordOf(d.Value[0]); ok && (kw == "initial" || kw == "inherit" || kw == "unset") {
			applyGlobalKeyword(s, d.Name, kw, parent)
			return
		}
	}

	v0 := d.Value[0]
	switch d.Name {
	case "display":
		if kw, ok := keywordOf(v0); ok {
			s.Display = kw
		}
	case "position":
		if kw, ok := keywordOf(v0); ok {
			s.Position = kw
		}
	case "float":
		if kw, ok := keywordOf(v0); ok {
			s.Float = kw
		}
	case "clear":
		if kw, ok := keywordOf(v0); ok {
			s.Clear = kw
		}

	case "width":
		if l, ok := lengthFromValue(v0, s.FontSize); ok {
			s.Width = l
		}
	case "height":
		if l, ok := lengthFromValue(v0, s.FontSize); ok {
			s.Height = l
		}
	case "min-width":
		if l, ok := lengthFromValue(v0, s.FontSize); ok {
			s.MinWidth = l
		}
	case "max-width":
		if l, ok := lengthFromValue(v0, s.FontSize); ok {
			s.MaxWidth = l
		}
	case "min-height":
		if l, ok := lengthFromValue(v0, s.FontSize); ok {
			s.MinHeight = l
		}
	case "max-height":
		if l, ok := lengthFromValue(v0, s.FontSize); ok {
			s.MaxHeight = l
		}

	case "margin":
		a, b, c, dd := expandFour(d.Value)
		if l, ok := lengthFromValue(a, s.FontSize); ok {
			s.MarginTop = l
		}
		if l, ok := lengthFromValue(b, s.FontSize); ok {
			s.MarginRight = l
		}
		if l, ok := lengthFromValue(c, s.FontSize); ok {
			s.MarginBottom = l
		}
		if l, ok := lengthFromValue(dd, s.FontSize); ok {
			s.MarginLeft = l
		}
	case "margin-top":
		if l, ok := lengthFromValue(v0, s.FontSize); ok {
			s.MarginTop = l
		}
	case "margin-right":
		if l, ok := lengthFromValue(v0, s.FontSize); ok {
			s.MarginRight = l
		}
	case "margin-bottom":
		if l, ok := lengthFromValue(v0, s.FontSize); ok {
			s.MarginBottom = l
		}
	case "margin-left":
		if l, ok := lengthFromValue(v0, s.FontSize); ok {
			s.MarginLeft = l
		}

	case "padding":
		a, b, c, dd := expandFour(d.Value)
		if l, ok := lengthFromValue(a, s.FontSize); ok {
			s.PaddingTop = l
		}
		if l, ok := lengthFromValue(b, s.FontSize); ok {
			s.PaddingRight = l
		}
		if l, ok := lengthFromValue(c, s.FontSize); ok {
			s.PaddingBottom = l
		}
		if l, ok := lengthFromValue(dd, s.FontSize); ok {
			s.PaddingLeft = l
		}
	case "padding-top":
		if l, ok := lengthFromValue(v0, s.FontSize); ok {
			s.PaddingTop = l
		}
	case "padding-right":
		if l, ok := lengthFromValue(v0, s.FontSize); ok {
			s.PaddingRight = l
		}
	case "padding-bottom":
		if l, ok := lengthFromValue(v0, s.FontSize); ok {
			s.PaddingBottom = l
		}
	case "padding-left":
		if l, ok := lengthFromValue(v0, s.FontSize); ok {
			s.PaddingLeft = l
		}

	case "border-width":
		a, b, c, dd := expandFour(d.Value)
		if f, ok := lengthToFloat(a, s.FontSize); ok {
			s.BorderTopWidth = f
		}
		if f, ok := lengthToFloat(b, s.FontSize); ok {
			s.BorderRightWidth = f
		}
		if f, ok := lengthToFloat(c, s.FontSize); ok {
			s.BorderBottomWidth = f
		}
		if f, ok := lengthToFloat(dd, s.FontSize); ok {
			s.BorderLeftWidth = f
		}
	case "border-top-width":
		if f, ok := lengthToFloat(v0, s.FontSize); ok {
			s.BorderTopWidth = f
		}
	case "border-right-width":
		if f, ok := lengthToFloat(v0, s.FontSize); ok {
			s.BorderRightWidth = f
		}
	case "border-bottom-width":
		if f, ok := lengthToFloat(v0, s.FontSize); ok {
			s.BorderBottomWidth = f
		}
	case "border-left-width":
		if f, ok := lengthToFloat(v0, s.FontSize); ok {
			s.BorderLeftWidth = f
		}

	case "border-style":
		a, b, c, dd := expandFour(d.Value)
		if kw, ok := keywordOf(a); ok {
			s.BorderTopStyle = kw
		}
		if kw, ok := keywordOf(b); ok {
			s.BorderRightStyle = kw
		}
		if kw, ok := keywordOf(c); ok {
			s.BorderBottomStyle = kw
		}
		if kw, ok := keywordOf(dd); ok {
			s.BorderLeftStyle = kw
		}
	case "border-top-style":
		if kw, ok := keywordOf(v0); ok {
			s.BorderTopStyle = kw
		}
	case "border-right-style":
		if kw, ok := keywordOf(v0); ok {
			s.BorderRightStyle = kw
		}
	case "border-bottom-style":
		if kw, ok := keywordOf(v0); ok {
			s.BorderBottomStyle = kw
		}
	case "border-left-style":
		if kw, ok := keywordOf(v0); ok {
			s.BorderLeftStyle = kw
		}

	case "border-color":
		a, b, c, dd := expandFour(d.Value)
		if col, ok := colorFromValue(a, s.Color); ok {
			s.BorderTopColor = col
		}
		if col, ok := colorFromValue(b, s.Color); ok {
			s.BorderRightColor = col
		}
		if col, ok := colorFromValue(c, s.Color); ok {
			s.BorderBottomColor = col
		}
		if col, ok := colorFromValue(dd, s.Color); ok {
			s.BorderLeftColor = col
		}
	case "border-top-color":
		if col, ok := colorFromValue(v0, s.Color); ok {
			s.BorderTopColor = col
		}
	case "border-right-color":
		if col, ok := colorFromValue(v0, s.Color); ok {
			s.BorderRightColor = col
		}
	case "border-bottom-color":
		if col, ok := colorFromValue(v0, s.Color); ok {
			s.BorderBottomColor = col
		}
	case "border-left-color":
		if col, ok := colorFromValue(v0, s.Color); ok {
			s.BorderLeftColor = col
		}

	case "border", "border-top", "border-right", "border-bottom", "border-left":
		applyBorderShorthand(s, d.Name, d.Value)

	case "border-radius":
		if f, ok := lengthToFloat(v0, s.FontSize); ok {
			s.BorderRadius = f
		}

	case "background-color":
		if col, ok := colorFromValue(v0, s.Color); ok {
			s.BackgroundColor = col
		}
	case "background":
		for _, v := range d.Value {
			if col, ok := colorFromValue(v, s.Color); ok {
				s.BackgroundColor = col
				break
			}
		}

	case "color":
		parentColor := s.Color
		if parent != nil {
			parentColor = parent.Color
		}
		if col, ok := colorFromValue(v0, parentColor); ok {
			s.Color = col
		}

	case "font-size":
		base := s.FontSize
		if parent != nil {
			base = parent.FontSize
		}
		if kw, ok := keywordOf(v0); ok {
			if f, ok := absoluteFontKeyword(kw); ok {
				s.FontSize = f
			}
			break
		}
		if l, ok := lengthFromValue(v0, base); ok {
			s.FontSize = l.Resolve(base, base)
		}
	case "font-weight":
		if kw, ok := keywordOf(v0); ok {
			s.FontWeight = kw
		} else if n, ok := numberOf(v0); ok {
			s.FontWeight = strconv.Itoa(int(n))
		}
	case "line-height":
		if kw, ok := keywordOf(v0); ok && kw == "normal" {
			s.LineHeight = -1
		} else if n, ok := numberOf(v0); ok && v0.Kind == css.VNumber {
			s.LineHeight = n * s.FontSize
		} else if l, ok := lengthFromValue(v0, s.FontSize); ok {
			s.LineHeight = l.Resolve(s.FontSize, s.FontSize)
		}
	case "text-align":
		if kw, ok := keywordOf(v0); ok {
			s.TextAlign = kw
		}

	case "opacity":
		if n, ok := numberOf(v0); ok {
			if v0.Kind == css.VPercentage {
				n /= 100
			}
			s.Opacity = clamp01(n)
		}
	case "z-index":
		if kw, ok := keywordOf(v0); ok && kw == "auto" {
			s.ZIndex = nil
		} else if n, ok := numberOf(v0); ok {
			z := int(n)
			s.ZIndex = &z
		}
	case "overflow":
		if kw, ok := keywordOf(v0); ok {
			s.Overflow = kw
		}
	case "visibility":
		if kw, ok := keywordOf(v0); ok {
			s.Visibility = kw
		}
	case "box-sizing":
		if kw, ok := keywordOf(v0); ok {
			s.BoxSizing = kw
		}

	case "flex-direction":
		if kw, ok := keywordOf(v0); ok {
			s.FlexDirection = kw
		}
	case "flex-wrap":
		if kw, ok := keywordOf(v0); ok {
			s.FlexWrap = kw
		}
	case "justify-content":
		if kw, ok := keywordOf(v0); ok {
			s.JustifyContent = kw
		}
	case "align-items":
		if kw, ok := keywordOf(v0); ok {
			s.AlignItems = kw
		}
	case "align-self":
		if kw, ok := keywordOf(v0); ok {
			s.AlignSelf = kw
		}
	case "flex-grow":
		if n, ok := numberOf(v0); ok {
			s.FlexGrow = n
		}
	case "flex-shrink":
		if n, ok := numberOf(v0); ok {
			s.FlexShrink = n
		}
	case "flex-basis":
		if l, ok := lengthFromValue(v0, s.FontSize); ok {
			s.FlexBasis = l
		}
	case "flex":
		applyFlexShorthand(s, d.Value)

	case "grid-template-columns":
		s.GridTemplateColumns = parseTrackList(d.Value, s.FontSize)
	case "grid-template-rows":
		s.GridTemplateRows = parseTrackList(d.Value, s.FontSize)
	case "grid-auto-flow":
		var parts []string
		for _, v := range d.Value {
			if kw, ok := keywordOf(v); ok {
				parts = append(parts, kw)
			}
		}
		s.GridAutoFlow = strings.Join(parts, " ")
	case "grid-auto-rows":
		s.GridAutoRows = trackFromValue(v0, s.FontSize)
	case "grid-auto-columns":
		s.GridAutoColumns = trackFromValue(v0, s.FontSize)
	case "gap":
		a, b := d.Value[0], d.Value[0]
		if len(d.Value) > 1 {
			b = d.Value[1]
		}
		if f, ok := lengthToFloat(a, s.FontSize); ok {
			s.GridRowGap = f
		}
		if f, ok := lengthToFloat(b, s.FontSize); ok {
			s.GridColumnGap = f
		}
	case "row-gap":
		if f, ok := lengthToFloat(v0, s.FontSize); ok {
			s.GridRowGap = f
		}
	case "column-gap":
		if f, ok := lengthToFloat(v0, s.FontSize); ok {
			s.GridColumnGap = f
		}

	case "top":
		if l, ok := lengthFromValue(v0, s.FontSize); ok {
			s.Top = l
		}
	case "right":
		if l, ok := lengthFromValue(v0, s.FontSize); ok {
			s.Right = l
		}
	case "bottom":
		if l, ok := lengthFromValue(v0, s.FontSize); ok {
			s.Bottom = l
		}
	case "left":
		if l, ok := lengthFromValue(v0, s.FontSize); ok {
			s.Left = l
		}

	case "transform":
		applyTransform(s, d.Value)

	case "aspect-ratio":
		if len(d.Value) >= 2 {
			n1, ok1 := numberOf(d.Value[0])
			n2, ok2 := numberOf(d.Value[len(d.Value)-1])
			if ok1 && ok2 && n2 != 0 {
				s.AspectRatio = n1 / n2
			}
		} else if n, ok := numberOf(v0); ok {
			s.AspectRatio = n
		}

	case "list-style-type":
		if kw, ok := keywordOf(v0); ok {
			s.ListStyleType = kw
		}

	case "box-shadow":
		s.BoxShadow = parseShadows(d.Value, s.Color)
	case "text-shadow":
		s.TextShadow = parseShadows(d.Value, s.Color)
	case "text-overflow":
		if kw, ok := keywordOf(v0); ok {
			s.TextOverflow = kw
		}

	case "outline-width":
		if f, ok := lengthToFloat(v0, s.FontSize); ok {
			s.OutlineWidth = f
		}
	case "outline-style":
		if kw, ok := keywordOf(v0); ok {
			s.OutlineStyle = kw
		}
	case "outline-color":
		if col, ok := colorFromValue(v0, s.Color); ok {
			s.OutlineColor = col
		}
	case "outline-offset":
		if f, ok := lengthToFloat(v0, s.FontSize); ok {
			s.OutlineOffset = f
		}
	case "outline":
		for _, v := range d.Value {
			if f, ok := lengthToFloat(v, s.FontSize); ok {
				s.OutlineWidth = f
				continue
			}
			if kw, ok := keywordOf(v); ok {
				s.OutlineStyle = kw
				continue
			}
			if col, ok := colorFromValue(v, s.Color); ok {
				s.OutlineColor = col
			}
		}

	case "border-collapse":
		if kw, ok := keywordOf(v0); ok {
			s.BorderCollapse = kw
		}
	case "border-spacing":
		if f, ok := lengthToFloat(v0, s.FontSize); ok {
			s.BorderSpacing = f
		}
	case "caption-side":
		if kw, ok := keywordOf(v0); ok {
			s.CaptionSide = kw
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func absoluteFontKeyword(kw string) (float64, bool) {
	sizes := map[string]float64{
		"xx-small": 9, "x-small": 10, "small": 13, "medium": 16,
		"large": 18, "x-large": 24, "xx-large": 32,
	}
	f, ok := sizes[kw]
	return f, ok
}

var borderStyleKeywords = map[string]bool{
	"none": true, "hidden": true, "dotted": true, "dashed": true,
	"solid": true, "double": true, "groove": true, "ridge": true,
	"inset": true, "outset": true,
}

func applyBorderShorthand(s *ComputedStyle, prop string, vals []css.Value) {
	var width *float64
	var style *string
	var color *css.Color
	for _, v := range vals {
		if f, ok := lengthToFloat(v, s.FontSize); ok {
			width = &f
			continue
		}
		if kw, ok := keywordOf(v); ok && borderStyleKeywords[kw] {
			style = &kw
			continue
		}
		if col, ok := colorFromValue(v, s.Color); ok {
			color = &col
		}
	}
	apply := func(wDst *float64, stDst *string, cDst *css.Color) {
		if width != nil {
			*wDst = *width
		}
		if style != nil {
			*stDst = *style
		}
		if color != nil {
			*cDst = *color
		}
	}

	switch prop {
	case "border":
		apply(&s.BorderTopWidth, &s.BorderTopStyle, &s.BorderTopColor)
		apply(&s.BorderRightWidth, &s.BorderRightStyle, &s.BorderRightColor)
		apply(&s.BorderBottomWidth, &s.BorderBottomStyle, &s.BorderBottomColor)
		apply(&s.BorderLeftWidth, &s.BorderLeftStyle, &s.BorderLeftColor)
	case "border-top":
		apply(&s.BorderTopWidth, &s.BorderTopStyle, &s.BorderTopColor)
	case "border-right":
		apply(&s.BorderRightWidth, &s.BorderRightStyle, &s.BorderRightColor)
	case "border-bottom":
		apply(&s.BorderBottomWidth, &s.BorderBottomStyle, &s.BorderBottomColor)
	case "border-left":
		apply(&s.BorderLeftWidth, &s.BorderLeftStyle, &s.BorderLeftColor)
	}
}

func applyFlexShorthand(s *ComputedStyle, vals []css.Value) {
	if len(vals) == 1 {
		if kw, ok := keywordOf(vals[0]); ok {
			switch kw {
			case "none":
				s.FlexGrow, s.FlexShrink, s.FlexBasis = 0, 0, auto()
				return
			case "auto":
				s.FlexGrow, s.FlexShrink, s.FlexBasis = 1, 1, auto()
				return
			}
		}
	}
	idx := 0
	if n, ok := numberOf(vals[0]); ok {
		s.FlexGrow = n
		idx++
		if idx < len(vals) {
			if n2, ok := numberOf(vals[idx]); ok {
				s.FlexShrink = n2
				idx++
			}
		}
	}
	if idx < len(vals) {
		if l, ok := lengthFromValue(vals[idx], s.FontSize); ok {
			s.FlexBasis = l
		}
	}
}

func parseTrackList(vals []css.Value, fontSize float64) []TrackSize {
	var out []TrackSize
	for _, v := range vals {
		switch v.Kind {
		case css.VKeyword:
			if v.Keyword == "auto" {
				out = append(out, TrackSize{Kind: "auto"})
			}
		case css.VLength:
			if strings.ToLower(v.Unit) == "fr" {
				out = append(out, TrackSize{Kind: "fr", Value: v.Number})
			} else if f, ok := lengthToFloat(v, fontSize); ok {
				out = append(out, TrackSize{Kind: "fixed", Value: f})
			}
		case css.VPercentage:
			out = append(out, TrackSize{Kind: "fixed", Value: v.Number})
		case css.VFunction:
			if v.FuncName == "minmax" && len(v.Args) >= 2 {
				min := trackFromValue(v.Args[0], fontSize)
				max := trackFromValue(v.Args[1], fontSize)
				out = append(out, TrackSize{Kind: "minmax", Min: &min, Max: &max})
			}
		}
	}
	return out
}

func trackFromValue(v css.Value, fontSize float64) TrackSize {
	if v.Kind == css.VKeyword && v.Keyword == "auto" {
		return TrackSize{Kind: "auto"}
	}
	if v.Kind == css.VLength && strings.ToLower(v.Unit) == "fr" {
		return TrackSize{Kind: "fr", Value: v.Number}
	}
	if f, ok := lengthToFloat(v, fontSize); ok {
		return TrackSize{Kind: "fixed", Value: f}
	}
	return TrackSize{Kind: "auto"}
}

func applyTransform(s *ComputedStyle, vals []css.Value) {
	for _, v := range vals {
		if v.Kind != css.VFunction {
			continue
		}
		switch v.FuncName {
		case "translate", "translatex":
			if len(v.Args) >= 1 {
				if f, ok := lengthToFloat(v.Args[0], s.FontSize); ok {
					s.TransformTranslateX = f
				}
			}
			if len(v.Args) >= 2 {
				if f, ok := lengthToFloat(v.Args[1], s.FontSize); ok {
					s.TransformTranslateY = f
				}
			}
		case "translatey":
			if len(v.Args) >= 1 {
				if f, ok := lengthToFloat(v.Args[0], s.FontSize); ok {
					s.TransformTranslateY = f
				}
			}
		case "scale":
			if len(v.Args) >= 1 {
				if n, ok := numberOf(v.Args[0]); ok {
					s.TransformScale = n
				}
			}
		}
	}
}

// parseShadows parses a comma-separated box-shadow/text-shadow value list
// into one ShadowSpec per layer (spec §4.18's multi-layer supplement):
// offsets in order, then optional blur/spread, an optional color anywhere,
// and an optional `inset` keyword, each reset at a top-level comma.
func parseShadows(vals []css.Value, current css.Color) []ShadowSpec {
	var out []ShadowSpec
	var lengths []float64
	spec := ShadowSpec{Color: current}
	flush := func() {
		if len(lengths) > 0 {
			spec.DX = lengths[0]
		}
		if len(lengths) > 1 {
			spec.DY = lengths[1]
		}
		if len(lengths) > 2 {
			spec.Blur = lengths[2]
		}
		if len(lengths) > 3 {
			spec.Spread = lengths[3]
		}
		out = append(out, spec)
		lengths = nil
		spec = ShadowSpec{Color: current}
	}
	for _, v := range vals {
		if v.Kind == css.VComma {
			flush()
			continue
		}
		if kw, ok := keywordOf(v); ok && kw == "inset" {
			spec.Inset = true
			continue
		}
		if col, ok := colorFromValue(v, current); ok {
			spec.Color = col
			continue
		}
		if f, ok := lengthToFloat(v, 16); ok {
			lengths = append(lengths, f)
		}
	}
	flush()
	return out
}

// applyGlobalKeyword handles the CSS-wide `initial`/`inherit`/`unset`
// keywords for a declaration, per spec §4.4's cascade description.
func applyGlobalKeyword(s *ComputedStyle, prop, kw string, parent *ComputedStyle) {
	fresh := Initial()
	var source *ComputedStyle
	switch kw {
	case "initial":
		source = &fresh
	case "inherit":
		if parent != nil {
			source = parent
		} else {
			source = &fresh
		}
	case "unset":
		if inheritedProperties[prop] && parent != nil {
			source = parent
		} else {
			source = &fresh
		}
	}
	copyField(s, source, prop)
}

// copyField copies the field corresponding to prop from src into dst. Only
// properties this package's apply switch recognizes are handled; anything
// else is a silent no-op, mirroring an unsupported-property fallback.
func copyField(dst, src *ComputedStyle, prop string) {
	switch prop {
	case "display":
		dst.Display = src.Display
	case "position":
		dst.Position = src.Position
	case "float":
		dst.Float = src.Float
	case "clear":
		dst.Clear = src.Clear
	case "width":
		dst.Width = src.Width
	case "height":
		dst.Height = src.Height
	case "min-width":
		dst.MinWidth = src.MinWidth
	case "max-width":
		dst.MaxWidth = src.MaxWidth
	case "min-height":
		dst.MinHeight = src.MinHeight
	case "max-height":
		dst.MaxHeight = src.MaxHeight
	case "margin-top":
		dst.MarginTop = src.MarginTop
	case "margin-right":
		dst.MarginRight = src.MarginRight
	case "margin-bottom":
		dst.MarginBottom = src.MarginBottom
	case "margin-left":
		dst.MarginLeft = src.MarginLeft
	case "padding-top":
		dst.PaddingTop = src.PaddingTop
	case "padding-right":
		dst.PaddingRight = src.PaddingRight
	case "padding-bottom":
		dst.PaddingBottom = src.PaddingBottom
	case "padding-left":
		dst.PaddingLeft = src.PaddingLeft
	case "background-color":
		dst.BackgroundColor = src.BackgroundColor
	case "color":
		dst.Color = src.Color
	case "font-size":
		dst.FontSize = src.FontSize
	case "font-weight":
		dst.FontWeight = src.FontWeight
	case "line-height":
		dst.LineHeight = src.LineHeight
	case "text-align":
		dst.TextAlign = src.TextAlign
	case "opacity":
		dst.Opacity = src.Opacity
	case "z-index":
		dst.ZIndex = src.ZIndex
	case "overflow":
		dst.Overflow = src.Overflow
	case "visibility":
		dst.Visibility = src.Visibility
	case "box-sizing":
		dst.BoxSizing = src.BoxSizing
	case "flex-direction":
		dst.FlexDirection = src.FlexDirection
	case "flex-wrap":
		dst.FlexWrap = src.FlexWrap
	case "justify-content":
		dst.JustifyContent = src.JustifyContent
	case "align-items":
		dst.AlignItems = src.AlignItems
	case "align-self":
		dst.AlignSelf = src.AlignSelf
	case "flex-grow":
		dst.FlexGrow = src.FlexGrow
	case "flex-shrink":
		dst.FlexShrink = src.FlexShrink
	case "flex-basis":
		dst.FlexBasis = src.FlexBasis
	case "top":
		dst.Top = src.Top
	case "right":
		dst.Right = src.Right
	case "bottom":
		dst.Bottom = src.Bottom
	case "left":
		dst.Left = src.Left
	case "list-style-type":
		dst.ListStyleType = src.ListStyleType
	case "text-overflow":
		dst.TextOverflow = src.TextOverflow
	case "border-collapse":
		dst.BorderCollapse = src.BorderCollapse
	case "border-spacing":
		dst.BorderSpacing = src.BorderSpacing
	case "caption-side":
		dst.CaptionSide = src.CaptionSide
	}
}
