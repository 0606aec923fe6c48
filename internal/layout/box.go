// Package layout implements spec §4.5: block, inline, flex, grid and table
// formatting contexts over a styled DOM tree, producing a tree of Box
// values with resolved box-model rectangles (spec §3's "box model" type).
package layout

import (
	"github.com/ehrlich-b/browsercore/internal/arena"
	"github.com/ehrlich-b/browsercore/internal/dom"
	"github.com/ehrlich-b/browsercore/internal/style"
)

// Rect is an axis-aligned box in parent-content-box-relative coordinates
// until a final pass (Resolve) makes it page-absolute.
type Rect struct {
	X, Y, Width, Height float64
}

// Edges is a four-sided resolved-to-pixels box edge (margin/border/padding).
type Edges struct {
	Top, Right, Bottom, Left float64
}

// Box is one laid-out box in the tree, per spec §3's box-model record: an
// optional owning DOM handle, its computed style, a box-model rectangle
// set, children, and optional text content for text runs.
type Box struct {
	El      arena.Handle
	Tag     string // element tag name, empty for text/anonymous boxes
	IsText  bool
	Text    string
	Style   *style.ComputedStyle
	Parent  *Box
	Children []*Box

	// Content is this box's content-box rectangle, relative to its
	// containing block's content-box origin. Margin/Border/Padding are the
	// resolved edge widths around it (spec §3 box-model invariant).
	Content Rect
	Margin  Edges
	Border  Edges
	Padding Edges

	// AbsX/AbsY are filled in by Resolve: page-absolute content-box origin.
	AbsX, AbsY float64

	// positioned children tracked for the stacking-order pass (§4.6).
	Positioned bool
	ZIndex     *int
}

// MarginBox returns the box's margin-box rectangle relative to its
// container, per spec §3.
func (b *Box) MarginBox() Rect {
	return Rect{
		X:      b.Content.X - b.Padding.Left - b.Border.Left - b.Margin.Left,
		Y:      b.Content.Y - b.Padding.Top - b.Border.Top - b.Margin.Top,
		Width:  b.Content.Width + b.Padding.Left + b.Padding.Right + b.Border.Left + b.Border.Right + b.Margin.Left + b.Margin.Right,
		Height: b.Content.Height + b.Padding.Top + b.Padding.Bottom + b.Border.Top + b.Border.Bottom + b.Margin.Top + b.Margin.Bottom,
	}
}

// BorderBox returns the border-box rectangle relative to the container.
func (b *Box) BorderBox() Rect {
	return Rect{
		X:      b.Content.X - b.Padding.Left - b.Border.Left,
		Y:      b.Content.Y - b.Padding.Top - b.Border.Top,
		Width:  b.Content.Width + b.Padding.Left + b.Padding.Right + b.Border.Left + b.Border.Right,
		Height: b.Content.Height + b.Padding.Top + b.Padding.Bottom + b.Border.Top + b.Border.Bottom,
	}
}

// BorderBoxAbs returns the border-box rectangle in page-absolute
// coordinates; valid only after Resolve has filled in AbsX/AbsY.
func (b *Box) BorderBoxAbs() Rect {
	return Rect{
		X:      b.AbsX - b.Padding.Left - b.Border.Left,
		Y:      b.AbsY - b.Padding.Top - b.Border.Top,
		Width:  b.Content.Width + b.Padding.Left + b.Padding.Right + b.Border.Left + b.Border.Right,
		Height: b.Content.Height + b.Padding.Top + b.Padding.Bottom + b.Border.Top + b.Border.Bottom,
	}
}

// isInlineLevel reports whether a box participates in inline formatting
// rather than block formatting, per its computed `display`.
func isInlineLevel(st *style.ComputedStyle) bool {
	switch st.Display {
	case "inline", "inline-block", "inline-flex", "inline-grid":
		return true
	}
	return false
}

func innerDisplay(d string) string {
	switch d {
	case "flex", "inline-flex":
		return "flex"
	case "grid", "inline-grid":
		return "grid"
	case "table":
		return "table"
	}
	return "block"
}

// BuildTree walks tree from root, skipping `display: none` subtrees, and
// produces the corresponding Box tree using the precomputed per-element
// styles map (handle -> ComputedStyle), per spec §4.4/§4.5.
func BuildTree(tree *dom.Tree, styles map[arena.Handle]*style.ComputedStyle, root arena.Handle) *Box {
	return buildNode(tree, styles, root, nil)
}

func buildNode(tree *dom.Tree, styles map[arena.Handle]*style.ComputedStyle, h arena.Handle, parent *Box) *Box {
	n := tree.Node(h)
	if n == nil {
		return nil
	}
	switch n.Kind {
	case dom.KindText:
		if n.Text == "" {
			return nil
		}
		return &Box{El: h, IsText: true, Text: n.Text, Parent: parent, Style: parent.Style}
	case dom.KindElement:
		st := styles[h]
		if st == nil || st.Display == "none" {
			return nil
		}
		b := &Box{El: h, Tag: n.Element.Tag, Style: st, Parent: parent}
		if st.Position == "absolute" || st.Position == "fixed" {
			b.Positioned = true
			b.ZIndex = st.ZIndex
		}
		for _, c := range tree.Children(h) {
			child := buildNode(tree, styles, c, b)
			if child == nil {
				continue
			}
			if child.IsText {
				// one box per word/space run, so inline layout can place
				// each run on the line it wraps to.
				for _, w := range splitWords(child.Text) {
					b.Children = append(b.Children, &Box{El: c, IsText: true, Text: w, Parent: b, Style: b.Style})
				}
				continue
			}
			b.Children = append(b.Children, child)
		}
		return b
	default:
		return nil
	}
}
