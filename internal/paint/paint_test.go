package paint

import (
	"testing"

	"github.com/ehrlich-b/browsercore/internal/arena"
	"github.com/ehrlich-b/browsercore/internal/css"
	"github.com/ehrlich-b/browsercore/internal/dom"
	"github.com/ehrlich-b/browsercore/internal/htmlparse"
	"github.com/ehrlich-b/browsercore/internal/layout"
	"github.com/ehrlich-b/browsercore/internal/style"
)

func buildStyles(tree *dom.Tree, sheets []*css.Stylesheet) map[arena.Handle]*style.ComputedStyle {
	out := map[arena.Handle]*style.ComputedStyle{}
	var walk func(h arena.Handle, parent *style.ComputedStyle)
	walk = func(h arena.Handle, parent *style.ComputedStyle) {
		n := tree.Node(h)
		if n == nil || n.Kind != dom.KindElement {
			for _, c := range tree.Children(h) {
				walk(c, parent)
			}
			return
		}
		st := style.Resolve(tree, h, parent, sheets)
		out[h] = &st
		for _, c := range tree.Children(h) {
			walk(c, &st)
		}
	}
	walk(tree.Root, nil)
	return out
}

func buildAndPaint(t *testing.T, html, cssSrc string, containingWidth float64) []Item {
	t.Helper()
	tree := htmlparse.Parse([]byte(html))
	sheet := css.Parse(cssSrc, css.OriginAuthor)
	styles := buildStyles(tree, []*css.Stylesheet{style.UserAgentStylesheet(), sheet})
	root := tree.Children(tree.Root)[0]
	box := layout.BuildTree(tree, styles, root)
	box.Content.Width = containingWidth
	layout.Layout(box, containingWidth)
	layout.Resolve(box, 0, 0)
	return Build(box)
}

func countKind(items []Item, k Kind) int {
	n := 0
	for _, it := range items {
		if it.Kind == k {
			n++
		}
	}
	return n
}

func TestBackgroundAndBorderEmittedForVisibleBox(t *testing.T) {
	items := buildAndPaint(t, `<div>x</div>`, "div { background-color: red; border: 2px solid blue; }", 200)
	if countKind(items, KindBackground) != 1 {
		t.Errorf("expected one background item, got %d", countKind(items, KindBackground))
	}
	if countKind(items, KindBorder) != 4 {
		t.Errorf("expected 4 border-edge items, got %d", countKind(items, KindBorder))
	}
}

func TestInvisibleBoxSkipsDecoration(t *testing.T) {
	items := buildAndPaint(t, `<div>x</div>`, "div { background-color: red; visibility: hidden; }", 200)
	if countKind(items, KindBackground) != 0 {
		t.Errorf("hidden box should not emit a background item")
	}
}

func TestOpacityAndClipBracketsBalance(t *testing.T) {
	items := buildAndPaint(t, `<div>x</div>`, "div { opacity: 0.5; overflow: hidden; }", 200)
	if countKind(items, KindOpacityPush) != 1 || countKind(items, KindOpacityPop) != 1 {
		t.Errorf("expected balanced opacity push/pop, got push=%d pop=%d", countKind(items, KindOpacityPush), countKind(items, KindOpacityPop))
	}
	if countKind(items, KindClipPush) != 1 || countKind(items, KindClipPop) != 1 {
		t.Errorf("expected balanced clip push/pop, got push=%d pop=%d", countKind(items, KindClipPush), countKind(items, KindClipPop))
	}
}

func TestNegativeZIndexPaintsBeforeNonPositionedSiblings(t *testing.T) {
	items := buildAndPaint(t,
		`<div><span id="back"></span><div id="front"></div></div>`,
		`#back { position: absolute; z-index: -1; background-color: red; width: 10px; height: 10px; }
		 #front { background-color: blue; width: 10px; height: 10px; }`, 200)

	var backIdx, frontIdx int = -1, -1
	for i, it := range items {
		if it.Kind == KindBackground {
			if it.Color.R == 255 && backIdx == -1 {
				backIdx = i
			}
			if it.Color.B == 255 && frontIdx == -1 {
				frontIdx = i
			}
		}
	}
	if backIdx == -1 || frontIdx == -1 {
		t.Fatalf("expected both backgrounds to be emitted, back=%d front=%d", backIdx, frontIdx)
	}
	if backIdx >= frontIdx {
		t.Errorf("negative z-index box should paint before its non-positioned sibling, got back=%d front=%d", backIdx, frontIdx)
	}
}

func TestBoxShadowMultiLayerInnermostLast(t *testing.T) {
	items := buildAndPaint(t, `<div>x</div>`,
		"div { box-shadow: 1px 1px 0 red, 2px 2px 0 blue; }", 200)
	var shadows []Item
	for _, it := range items {
		if it.Kind == KindBoxShadow {
			shadows = append(shadows, it)
		}
	}
	if len(shadows) != 2 {
		t.Fatalf("expected 2 box-shadow items, got %d", len(shadows))
	}
	// first-specified shadow (red) stacks closest to the box, so it paints
	// last (innermost-last, per spec §4.18).
	if shadows[len(shadows)-1].Shadow.Color.R != 255 {
		t.Errorf("red (first-specified) shadow should be emitted last, got color %+v", shadows[len(shadows)-1].Shadow.Color)
	}
}

func TestTextRunEmitsOneGlyphPerRune(t *testing.T) {
	items := buildAndPaint(t, `<p>hi</p>`, "p { font-size: 10px; }", 200)
	var found bool
	for _, it := range items {
		if it.Kind == KindText && it.Text != nil && len(it.Text.Glyphs) == 2 {
			found = true
		}
	}
	if !found {
		t.Error("expected a text run with 2 glyphs for \"hi\"")
	}
}

func TestEllipsisTruncatesOverflowingText(t *testing.T) {
	// The outer div is the layout root, whose width buildAndPaint sets to
	// 200; the inner div is the one laid out at 40px.
	items := buildAndPaint(t, `<div><div>averylongwordindeed</div></div>`,
		"div { width: 40px; overflow: hidden; text-overflow: ellipsis; font-size: 10px; }", 200)
	for _, it := range items {
		if it.Kind == KindText && it.Text != nil {
			last := it.Text.Glyphs[len(it.Text.Glyphs)-1]
			if last.Rune != '…' {
				t.Errorf("expected truncated run to end in ellipsis glyph, got %q", string(last.Rune))
			}
			if len(it.Text.Glyphs) >= len([]rune("averylongwordindeed"))+1 {
				t.Errorf("expected fewer glyphs than the untruncated word, got %d", len(it.Text.Glyphs))
			}
		}
	}
}
