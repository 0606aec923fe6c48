package css

import (
	"strconv"
	"strings"
)

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	VKeyword ValueKind = iota
	VString
	VNumber
	VLength
	VPercentage
	VColor
	VFunction
	VURL
	VComma // a top-level ',' separating groups (e.g. multiple box-shadow layers)
)

// Color is an sRGB + alpha color, alpha in [0,1].
type Color struct {
	R, G, B uint8
	A       float64
}

// Value is one parsed component of a declaration's value list (spec §3,
// "a parsed value list"). auto (including for horizontal margins) is
// represented as a VKeyword whose Keyword is AutoSentinel; see IsAuto.
type Value struct {
	Kind ValueKind

	Keyword string  // VKeyword
	Str     string  // VString / VURL
	Number  float64 // VNumber / VLength / VPercentage
	Unit    string  // VLength

	Color Color // VColor

	FuncName string  // VFunction
	Args     []Value // VFunction
}

// AutoSentinel is the keyword text of an "auto" value.
const AutoSentinel = "auto"

func autoValue() Value { return Value{Kind: VKeyword, Keyword: "auto"} }

// IsAuto reports whether v is the `auto` keyword.
func (v Value) IsAuto() bool {
	return v.Kind == VKeyword && v.Keyword == "auto"
}

// parseValueList converts a run of component-value tokens (already split
// from surrounding ':'/';' by the declaration parser) into a Value slice,
// skipping whitespace and collapsing named colors/functions.
func parseValueList(toks []Token) []Value {
	var out []Value
	i := 0
	for i < len(toks) {
		t := toks[i]
		switch t.Kind {
		case TokWhitespace:
			i++
			continue
		case TokComma:
			out = append(out, Value{Kind: VComma})
			i++
			continue
		case TokIdent:
			if c, ok := namedColor(t.Text); ok {
				out = append(out, Value{Kind: VColor, Color: c})
			} else {
				out = append(out, Value{Kind: VKeyword, Keyword: strings.ToLower(t.Text)})
			}
			i++
		case TokString:
			out = append(out, Value{Kind: VString, Str: t.Text})
			i++
		case TokURL:
			out = append(out, Value{Kind: VURL, Str: t.Text})
			i++
		case TokNumber:
			out = append(out, Value{Kind: VNumber, Number: t.Number})
			i++
		case TokPercentage:
			out = append(out, Value{Kind: VPercentage, Number: t.Number})
			i++
		case TokDimension:
			out = append(out, Value{Kind: VLength, Number: t.Number, Unit: strings.ToLower(t.Text)})
			i++
		case TokHash:
			if c, ok := parseHexColor(t.Text); ok {
				out = append(out, Value{Kind: VColor, Color: c})
			}
			i++
		case TokFunction:
			name := strings.ToLower(t.Text)
			depth := 1
			j := i + 1
			start := j
			for j < len(toks) && depth > 0 {
				if toks[j].Kind == TokFunction || toks[j].Kind == TokLParen {
					depth++
				} else if toks[j].Kind == TokRParen {
					depth--
					if depth == 0 {
						break
					}
				}
				j++
			}
			inner := toks[start:j]
			if name == "rgb" || name == "rgba" {
				if c, ok := parseFuncColor(name, inner); ok {
					out = append(out, Value{Kind: VColor, Color: c})
					i = j + 1
					continue
				}
			}
			out = append(out, Value{Kind: VFunction, FuncName: name, Args: parseValueList(inner)})
			i = j + 1
		default:
			i++
		}
	}
	return out
}

func parseFuncColor(name string, toks []Token) (Color, bool) {
	var nums []float64
	for _, t := range toks {
		switch t.Kind {
		case TokNumber, TokPercentage:
			nums = append(nums, t.Number)
		}
	}
	if len(nums) < 3 {
		return Color{}, false
	}
	c := Color{R: clampByte(nums[0]), G: clampByte(nums[1]), B: clampByte(nums[2]), A: 1}
	if len(nums) >= 4 {
		c.A = nums[3]
	}
	return c, true
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func parseHexColor(hex string) (Color, bool) {
	hx := func(s string) (uint8, bool) {
		v, err := strconv.ParseUint(s, 16, 8)
		if err != nil {
			return 0, false
		}
		return uint8(v), true
	}
	dup := func(c byte) string { return string([]byte{c, c}) }
	switch len(hex) {
	case 3:
		r, ok1 := hx(dup(hex[0]))
		g, ok2 := hx(dup(hex[1]))
		b, ok3 := hx(dup(hex[2]))
		if ok1 && ok2 && ok3 {
			return Color{R: r, G: g, B: b, A: 1}, true
		}
	case 6:
		r, ok1 := hx(hex[0:2])
		g, ok2 := hx(hex[2:4])
		b, ok3 := hx(hex[4:6])
		if ok1 && ok2 && ok3 {
			return Color{R: r, G: g, B: b, A: 1}, true
		}
	case 8:
		r, ok1 := hx(hex[0:2])
		g, ok2 := hx(hex[2:4])
		b, ok3 := hx(hex[4:6])
		a, ok4 := hx(hex[6:8])
		if ok1 && ok2 && ok3 && ok4 {
			return Color{R: r, G: g, B: b, A: float64(a) / 255}, true
		}
	}
	return Color{}, false
}

var namedColors = map[string]Color{
	"red":         {255, 0, 0, 1},
	"green":       {0, 128, 0, 1},
	"blue":        {0, 0, 255, 1},
	"white":       {255, 255, 255, 1},
	"black":       {0, 0, 0, 1},
	"transparent": {0, 0, 0, 0},
	"gray":        {128, 128, 128, 1},
	"grey":        {128, 128, 128, 1},
	"yellow":      {255, 255, 0, 1},
	"orange":      {255, 165, 0, 1},
	"purple":      {128, 0, 128, 1},
	"silver":      {192, 192, 192, 1},
}

func namedColor(name string) (Color, bool) {
	c, ok := namedColors[strings.ToLower(name)]
	return c, ok
}
