package style

import (
	"testing"

	"github.com/ehrlich-b/browsercore/internal/css"
	"github.com/ehrlich-b/browsercore/internal/htmlparse"
)

func parseSheet(t *testing.T, src string, origin css.Origin) *css.Stylesheet {
	t.Helper()
	return css.Parse(src, origin)
}

func TestAuthorBeatsUserAgentRegardlessOfSourceOrder(t *testing.T) {
	tree := htmlparse.Parse([]byte(`<p>hi</p>`))
	p := tree.Children(tree.Root)[0]

	ua := parseSheet(t, "p { color: blue; }", css.OriginUserAgent)
	author := parseSheet(t, "p { color: red; }", css.OriginAuthor)

	got := Resolve(tree, p, nil, []*css.Stylesheet{ua, author})
	if got.Color != (css.Color{R: 255, A: 1}) {
		t.Errorf("author color should win over user-agent, got %+v", got.Color)
	}
}

func TestHigherSpecificityWinsWithinSameOrigin(t *testing.T) {
	tree := htmlparse.Parse([]byte(`<p id="x" class="y">hi</p>`))
	p := tree.Children(tree.Root)[0]

	sheet := parseSheet(t, "#x { color: red; } .y { color: blue; }", css.OriginAuthor)
	got := Resolve(tree, p, nil, []*css.Stylesheet{sheet})
	if got.Color != (css.Color{R: 255, A: 1}) {
		t.Errorf("id selector should win over class selector, got %+v", got.Color)
	}
}

func TestLaterSourceOrderWinsOnTie(t *testing.T) {
	tree := htmlparse.Parse([]byte(`<p>hi</p>`))
	p := tree.Children(tree.Root)[0]

	sheet := parseSheet(t, "p { color: red; } p { color: blue; }", css.OriginAuthor)
	got := Resolve(tree, p, nil, []*css.Stylesheet{sheet})
	if got.Color != (css.Color{B: 255, A: 1}) {
		t.Errorf("later rule of equal specificity should win, got %+v", got.Color)
	}
}

func TestImportantBeatsNormalEvenAcrossOrigin(t *testing.T) {
	tree := htmlparse.Parse([]byte(`<p>hi</p>`))
	p := tree.Children(tree.Root)[0]

	author := parseSheet(t, "p { color: blue !important; }", css.OriginAuthor)
	user := parseSheet(t, "p { color: red; }", css.OriginUser)

	got := Resolve(tree, p, nil, []*css.Stylesheet{author, user})
	if got.Color != (css.Color{B: 255, A: 1}) {
		t.Errorf("author !important should beat normal user rule, got %+v", got.Color)
	}
}

func TestColorInheritsToChildByDefault(t *testing.T) {
	tree := htmlparse.Parse([]byte(`<div><span>x</span></div>`))
	div := tree.Children(tree.Root)[0]
	span := tree.Children(div)[0]

	sheet := parseSheet(t, "div { color: red; }", css.OriginAuthor)
	divStyle := Resolve(tree, div, nil, []*css.Stylesheet{sheet})
	spanStyle := Resolve(tree, span, &divStyle, []*css.Stylesheet{sheet})

	if spanStyle.Color != divStyle.Color {
		t.Errorf("span should inherit color from div, got %+v want %+v", spanStyle.Color, divStyle.Color)
	}
}

func TestMarginDoesNotInherit(t *testing.T) {
	tree := htmlparse.Parse([]byte(`<div><span>x</span></div>`))
	div := tree.Children(tree.Root)[0]
	span := tree.Children(div)[0]

	sheet := parseSheet(t, "div { margin: 10px; }", css.OriginAuthor)
	divStyle := Resolve(tree, div, nil, []*css.Stylesheet{sheet})
	spanStyle := Resolve(tree, span, &divStyle, []*css.Stylesheet{sheet})

	if spanStyle.MarginTop.Kind != LengthPx || spanStyle.MarginTop.Value != 0 {
		t.Errorf("span should not inherit margin, got %+v", spanStyle.MarginTop)
	}
}

func TestInitialKeywordResetsToUADefault(t *testing.T) {
	tree := htmlparse.Parse([]byte(`<div><span>x</span></div>`))
	div := tree.Children(tree.Root)[0]
	span := tree.Children(div)[0]

	sheet := parseSheet(t, "div { color: red; } span { color: initial; }", css.OriginAuthor)
	divStyle := Resolve(tree, div, nil, []*css.Stylesheet{sheet})
	spanStyle := Resolve(tree, span, &divStyle, []*css.Stylesheet{sheet})

	want := Initial().Color
	if spanStyle.Color != want {
		t.Errorf("span color:initial should reset to UA default, got %+v want %+v", spanStyle.Color, want)
	}
}

func TestUnsetFallsBackToInheritForInheritedProperty(t *testing.T) {
	tree := htmlparse.Parse([]byte(`<div><span>x</span></div>`))
	div := tree.Children(tree.Root)[0]
	span := tree.Children(div)[0]

	sheet := parseSheet(t, "div { color: red; } span { color: unset; }", css.OriginAuthor)
	divStyle := Resolve(tree, div, nil, []*css.Stylesheet{sheet})
	spanStyle := Resolve(tree, span, &divStyle, []*css.Stylesheet{sheet})

	if spanStyle.Color != divStyle.Color {
		t.Errorf("color:unset on an inherited property should behave like inherit, got %+v want %+v", spanStyle.Color, divStyle.Color)
	}
}

func TestEmFontSizeResolvesAgainstParent(t *testing.T) {
	tree := htmlparse.Parse([]byte(`<div><span>x</span></div>`))
	div := tree.Children(tree.Root)[0]
	span := tree.Children(div)[0]

	sheet := parseSheet(t, "div { font-size: 20px; } span { font-size: 2em; }", css.OriginAuthor)
	divStyle := Resolve(tree, div, nil, []*css.Stylesheet{sheet})
	spanStyle := Resolve(tree, span, &divStyle, []*css.Stylesheet{sheet})

	if spanStyle.FontSize != 40 {
		t.Errorf("span font-size should resolve to 2*20px=40px, got %v", spanStyle.FontSize)
	}
}

func TestMarginShorthandExpandsFourValues(t *testing.T) {
	tree := htmlparse.Parse([]byte(`<div>x</div>`))
	div := tree.Children(tree.Root)[0]

	sheet := parseSheet(t, "div { margin: 1px 2px 3px 4px; }", css.OriginAuthor)
	got := Resolve(tree, div, nil, []*css.Stylesheet{sheet})

	if got.MarginTop.Value != 1 || got.MarginRight.Value != 2 || got.MarginBottom.Value != 3 || got.MarginLeft.Value != 4 {
		t.Errorf("margin shorthand expansion = %+v %+v %+v %+v", got.MarginTop, got.MarginRight, got.MarginBottom, got.MarginLeft)
	}
}

func TestBorderShorthandSetsWidthStyleColor(t *testing.T) {
	tree := htmlparse.Parse([]byte(`<div>x</div>`))
	div := tree.Children(tree.Root)[0]

	sheet := parseSheet(t, "div { border: 2px solid red; }", css.OriginAuthor)
	got := Resolve(tree, div, nil, []*css.Stylesheet{sheet})

	if got.BorderTopWidth != 2 || got.BorderTopStyle != "solid" || got.BorderTopColor != (css.Color{R: 255, A: 1}) {
		t.Errorf("border shorthand did not apply to top side, got width=%v style=%v color=%+v",
			got.BorderTopWidth, got.BorderTopStyle, got.BorderTopColor)
	}
	if got.BorderLeftWidth != 2 || got.BorderLeftStyle != "solid" {
		t.Errorf("border shorthand should apply to all sides, left width=%v style=%v", got.BorderLeftWidth, got.BorderLeftStyle)
	}
}
