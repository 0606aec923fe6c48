package devtools

import (
	"context"
	"testing"

	"github.com/ehrlich-b/browsercore/internal/arena"
	"github.com/ehrlich-b/browsercore/internal/css"
	"github.com/ehrlich-b/browsercore/internal/dom"
	"github.com/ehrlich-b/browsercore/internal/htmlparse"
	"github.com/ehrlich-b/browsercore/internal/layout"
	"github.com/ehrlich-b/browsercore/internal/paint"
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

func buildPipeline(t *testing.T, html, cssSrc string) (*dom.Tree, []*css.Stylesheet, *layout.Box, []paint.Item) {
	t.Helper()
	tree := htmlparse.Parse([]byte(html))
	sheets := []*css.Stylesheet{style.UserAgentStylesheet(), css.Parse(cssSrc, css.OriginAuthor)}
	styles := buildStyles(tree, sheets)
	root := tree.Children(tree.Root)[0]
	box := layout.BuildTree(tree, styles, root)
	box.Content.Width = 800
	layout.Layout(box, 800)
	layout.Resolve(box, 0, 0)
	items := paint.Build(box)
	return tree, sheets, box, items
}

// These tests exercise the snapshot builders' walks/counts without a live
// websocket attached — Broadcast with zero attached connections is a
// successful no-op, so any error means the walk itself panicked or failed
// to marshal, not a delivery failure.

func TestEmitDOMSnapshotWalksEveryNode(t *testing.T) {
	tree, _, _, _ := buildPipeline(t, "<div><p>hi</p><span>there</span></div>", "")
	sess := NewHub().Open("dom-test")
	if err := sess.EmitDOMSnapshot(context.Background(), tree); err != nil {
		t.Fatalf("EmitDOMSnapshot: %v", err)
	}
}

func TestEmitStyleSnapshotCountsMatchedRules(t *testing.T) {
	tree, sheets, _, _ := buildPipeline(t, `<div class="a"><p class="a">x</p></div>`, ".a { color: red; }")
	sess := NewHub().Open("style-test")
	if err := sess.EmitStyleSnapshot(context.Background(), tree, sheets); err != nil {
		t.Fatalf("EmitStyleSnapshot: %v", err)
	}
}

func TestEmitLayoutSnapshotReportsRootGeometry(t *testing.T) {
	_, _, box, _ := buildPipeline(t, "<div>hello</div>", "")
	sess := NewHub().Open("layout-test")
	if err := sess.EmitLayoutSnapshot(context.Background(), box); err != nil {
		t.Fatalf("EmitLayoutSnapshot: %v", err)
	}
	if box.Content.Width != 800 {
		t.Errorf("expected containing width to be preserved, got %v", box.Content.Width)
	}
}

func TestEmitDisplayListSnapshotTalliesKinds(t *testing.T) {
	_, _, _, items := buildPipeline(t, `<div style="border: 1px solid black;">x</div>`, "")
	sess := NewHub().Open("displaylist-test")
	if err := sess.EmitDisplayListSnapshot(context.Background(), items); err != nil {
		t.Fatalf("EmitDisplayListSnapshot: %v", err)
	}
}

func TestPaintKindNamesCoverEveryKind(t *testing.T) {
	for name, want := range map[paint.Kind]string{
		paint.KindClipPush:    "clip_push",
		paint.KindClipPop:     "clip_pop",
		paint.KindOpacityPush: "opacity_push",
		paint.KindOpacityPop:  "opacity_pop",
		paint.KindBoxShadow:   "box_shadow",
		paint.KindBackground:  "background",
		paint.KindBorder:      "border",
		paint.KindOutline:     "outline",
		paint.KindListMarker:  "list_marker",
		paint.KindText:        "text",
	} {
		if got := paintKindNames[name]; got != want {
			t.Errorf("paintKindNames[%v] = %q, want %q", name, got, want)
		}
	}
}
