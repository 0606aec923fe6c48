// Package style implements spec §4.4: cascade resolution producing a
// ComputedStyle per element from the matched, sorted declarations of a
// css.Stylesheet set.
package style

import "github.com/ehrlich-b/browsercore/internal/css"

// LengthKind tags a Length's representation.
type LengthKind int

const (
	LengthAuto LengthKind = iota
	LengthPx
	LengthPercent
)

// Length is a resolved-to-used-form dimension: either the `auto` sentinel,
// an absolute pixel value, or a percentage to be resolved against a
// containing block at layout time (spec §4.4).
type Length struct {
	Kind  LengthKind
	Value float64 // px or percent number, meaningless when Kind==LengthAuto
}

func px(v float64) Length     { return Length{Kind: LengthPx, Value: v} }
func pct(v float64) Length    { return Length{Kind: LengthPercent, Value: v} }
func auto() Length             { return Length{Kind: LengthAuto} }

// Resolve returns the pixel value of l against containingBlock (used for
// percentage layout properties); auto resolves to fallback.
func (l Length) Resolve(containingBlock, fallback float64) float64 {
	switch l.Kind {
	case LengthPx:
		return l.Value
	case LengthPercent:
		return containingBlock * l.Value / 100
	default:
		return fallback
	}
}

// TrackSize is one entry of grid-template-columns/rows (spec §4.5.4).
type TrackSize struct {
	Kind string // "fixed" | "auto" | "fr" | "minmax"
	Value float64
	Min, Max *TrackSize
}

// ShadowSpec is one layer of box-shadow/text-shadow (spec §4.6/§4.18).
type ShadowSpec struct {
	DX, DY, Blur, Spread float64
	Color                css.Color
	Inset                bool
}

// ComputedStyle is the per-element resolved style record of spec §3/§4.4.
type ComputedStyle struct {
	Display  string
	Position string
	Float    string
	Clear    string

	Width, Height             Length
	MinWidth, MaxWidth         Length
	MinHeight, MaxHeight       Length
	MarginTop, MarginRight     Length
	MarginBottom, MarginLeft   Length
	PaddingTop, PaddingRight   Length
	PaddingBottom, PaddingLeft Length

	BorderTopWidth, BorderRightWidth     float64
	BorderBottomWidth, BorderLeftWidth   float64
	BorderTopStyle, BorderRightStyle     string
	BorderBottomStyle, BorderLeftStyle   string
	BorderTopColor, BorderRightColor     css.Color
	BorderBottomColor, BorderLeftColor   css.Color
	BorderRadius                         float64

	BackgroundColor css.Color
	Color           css.Color
	FontSize        float64
	FontWeight      string
	LineHeight      float64
	TextAlign       string

	Opacity    float64
	ZIndex     *int
	Overflow   string
	Visibility string
	BoxSizing  string

	FlexDirection   string
	FlexWrap        string
	JustifyContent  string
	AlignItems      string
	AlignSelf       string
	FlexGrow        float64
	FlexShrink      float64
	FlexBasis       Length

	GridTemplateColumns []TrackSize
	GridTemplateRows    []TrackSize
	GridAutoFlow        string
	GridAutoColumns     TrackSize
	GridAutoRows        TrackSize
	GridColumnGap       float64
	GridRowGap          float64

	Top, Right, Bottom, Left Length

	TransformTranslateX, TransformTranslateY float64
	TransformScale                           float64

	AspectRatio float64 // 0 == unset

	ListStyleType string

	BoxShadow  []ShadowSpec
	TextShadow []ShadowSpec
	TextOverflow string

	OutlineWidth  float64
	OutlineStyle  string
	OutlineColor  css.Color
	OutlineOffset float64

	BorderCollapse string
	BorderSpacing  float64
	CaptionSide    string
}

// Initial returns the UA-default ComputedStyle, per spec §4.4: "otherwise
// the property's initial value".
func Initial() ComputedStyle {
	return ComputedStyle{
		Display:        "inline",
		Position:       "static",
		Float:          "none",
		Clear:          "none",
		Width:          auto(),
		Height:         auto(),
		MinWidth:       px(0),
		MaxWidth:       Length{Kind: LengthAuto},
		MinHeight:      px(0),
		MaxHeight:      Length{Kind: LengthAuto},
		MarginTop:      px(0),
		MarginRight:    px(0),
		MarginBottom:   px(0),
		MarginLeft:     px(0),
		PaddingTop:     px(0),
		PaddingRight:   px(0),
		PaddingBottom:  px(0),
		PaddingLeft:    px(0),
		BorderTopStyle: "none", BorderRightStyle: "none",
		BorderBottomStyle: "none", BorderLeftStyle: "none",
		BackgroundColor: css.Color{R: 0, G: 0, B: 0, A: 0},
		Color:           css.Color{R: 0, G: 0, B: 0, A: 1},
		FontSize:        16,
		FontWeight:      "normal",
		LineHeight:      -1, // -1 == "normal": resolved to 1.2*font-size during layout
		TextAlign:       "left",
		Opacity:         1,
		Overflow:        "visible",
		Visibility:      "visible",
		BoxSizing:       "content-box",
		FlexDirection:   "row",
		FlexWrap:        "nowrap",
		JustifyContent:  "flex-start",
		AlignItems:      "stretch",
		AlignSelf:       "auto",
		FlexGrow:        0,
		FlexShrink:      1,
		FlexBasis:       Length{Kind: LengthAuto},
		GridAutoFlow:    "row",
		Top:             auto(), Right: auto(), Bottom: auto(), Left: auto(),
		TransformScale: 1,
		ListStyleType:  "disc",
		TextOverflow:   "clip",
		OutlineStyle:   "none",
		BorderCollapse: "separate",
		CaptionSide:    "top",
	}
}

// inheritedProperties lists the CSS properties this engine propagates from
// parent to child when no cascaded declaration overrides them (spec §4.4).
var inheritedProperties = map[string]bool{
	"color": true, "font-size": true, "font-weight": true, "font-family": true,
	"line-height": true, "text-align": true, "visibility": true,
	"list-style-type": true, "border-collapse": true, "caption-side": true,
	"cursor": true, "white-space": true,
}

// Inherit produces the starting ComputedStyle for a child given its
// parent's computed style: inheritable properties copy, everything else
// starts from Initial(), per spec §4.4.
func Inherit(parent ComputedStyle) ComputedStyle {
	s := Initial()
	s.Color = parent.Color
	s.FontSize = parent.FontSize
	s.FontWeight = parent.FontWeight
	s.LineHeight = parent.LineHeight
	s.TextAlign = parent.TextAlign
	s.Visibility = parent.Visibility
	s.ListStyleType = parent.ListStyleType
	s.BorderCollapse = parent.BorderCollapse
	s.CaptionSide = parent.CaptionSide
	return s
}
