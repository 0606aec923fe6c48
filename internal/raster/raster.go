// Package raster implements spec §4.7's software-rasterizer contract: it
// consumes a paint.Item display list and composites it onto a framebuffer
// with porter-duff source-over blending, honoring the clip/opacity bracket
// structure the display-list builder emits.
package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/ehrlich-b/browsercore/internal/css"
	"github.com/ehrlich-b/browsercore/internal/layout"
	"github.com/ehrlich-b/browsercore/internal/paint"
)

// GlyphProvider rasterizes one glyph into an A8 alpha-coverage bitmap, per
// spec §4.7's "font engine that returns an A8 alpha coverage bitmap"
// contract. No TTF/OpenType parser is grounded anywhere in the example
// pack (spec §1's non-goals exclude shaping/kerning/BIDI entirely), so
// this package ships only a placeholder block-glyph provider; a real font
// engine can be substituted by implementing this interface.
type GlyphProvider interface {
	// Glyph returns the coverage bitmap for r at fontSize, and the offset
	// from the pen position (baseline origin) to the bitmap's top-left.
	Glyph(r rune, fontSize float64) (*image.Alpha, image.Point)
}

// BlockGlyphs is the default GlyphProvider: every non-space rune paints as
// a solid coverage block sized to the glyph-width heuristic shared with
// internal/layout/internal/paint. It exists so the rasterizer contract is
// exercisable without a real font engine.
type BlockGlyphs struct{}

func (BlockGlyphs) Glyph(r rune, fontSize float64) (*image.Alpha, image.Point) {
	if r == ' ' {
		return nil, image.Point{}
	}
	w := int(fontSize * 0.6)
	h := int(fontSize * 0.8)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	img := image.NewAlpha(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img, image.Point{X: 0, Y: -h}
}

// Framebuffer is the pixel surface a display list paints onto. Pix is
// treated as a plain (non-premultiplied) RGBA buffer throughout this
// package — blendPixel does its own source-over math and never goes
// through image/draw, so image.RGBA's usual alpha-premultiplied
// convention doesn't apply here.
type Framebuffer struct {
	Pix *image.RGBA
}

// New allocates a blank (transparent black) framebuffer of the given size.
func New(width, height int) *Framebuffer {
	return &Framebuffer{Pix: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Rasterize walks items in order and composites each onto f, maintaining
// the clip and opacity stacks per spec §4.7's "balanced bracket structure".
func Rasterize(f *Framebuffer, items []paint.Item, glyphs GlyphProvider) {
	if glyphs == nil {
		glyphs = BlockGlyphs{}
	}
	clipStack := []image.Rectangle{f.Pix.Bounds()}
	opacityStack := []float64{1}
	curClip := func() image.Rectangle { return clipStack[len(clipStack)-1] }
	curOpacity := func() float64 { return opacityStack[len(opacityStack)-1] }

	for _, it := range items {
		switch it.Kind {
		case paint.KindClipPush:
			clipStack = append(clipStack, rectToImage(it.Rect).Intersect(curClip()))
		case paint.KindClipPop:
			if len(clipStack) > 1 {
				clipStack = clipStack[:len(clipStack)-1]
			}
		case paint.KindOpacityPush:
			opacityStack = append(opacityStack, curOpacity()*it.Opacity)
		case paint.KindOpacityPop:
			if len(opacityStack) > 1 {
				opacityStack = opacityStack[:len(opacityStack)-1]
			}
		case paint.KindBoxShadow:
			fillRoundedRect(f, rectToImage(it.Shadow.Rect), it.Shadow.Radius, it.Shadow.Color, curOpacity(), curClip())
		case paint.KindBackground:
			fillRoundedRect(f, rectToImage(it.Rect), it.Radius, it.Color, curOpacity(), curClip())
		case paint.KindBorder:
			strokeBorderEdge(f, rectToImage(it.Rect), it.Border, curOpacity(), curClip())
		case paint.KindOutline:
			strokeOutline(f, rectToImage(it.Rect), it.Border, curOpacity(), curClip())
		case paint.KindListMarker, paint.KindText:
			if it.Text != nil {
				drawTextRun(f, it.Text, glyphs, curOpacity(), curClip())
			}
		}
	}
}

func rectToImage(r layout.Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.X+r.Width)), int(math.Round(r.Y+r.Height)),
	)
}

// SolidRect implements spec §4.7's "porter-duff source-over composite with
// per-pixel alpha" for an axis-aligned rectangle, clipped to clip.
func SolidRect(f *Framebuffer, r image.Rectangle, c css.Color, opacity float64, clip image.Rectangle) {
	fillRoundedRect(f, r, 0, c, opacity, clip)
}

// RoundedRect is SolidRect with corner clipping, per spec §4.7.
func RoundedRect(f *Framebuffer, r image.Rectangle, radius float64, c css.Color, opacity float64, clip image.Rectangle) {
	fillRoundedRect(f, r, radius, c, opacity, clip)
}

func fillRoundedRect(f *Framebuffer, r image.Rectangle, radius float64, col css.Color, opacity float64, clip image.Rectangle) {
	r = r.Intersect(clip).Intersect(f.Pix.Bounds())
	if r.Empty() || col.A <= 0 {
		return
	}
	a := col.A * opacity
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if radius > 0 && !withinRoundedRect(x, y, r, radius) {
				continue
			}
			blendPixel(f.Pix, x, y, col, a)
		}
	}
}

// withinRoundedRect approximates RoundedRect's corner clipping (spec
// §4.7): pixels in a corner's radius×radius box are kept only if within
// the quarter-circle.
func withinRoundedRect(x, y int, r image.Rectangle, radius float64) bool {
	rad := radius
	var cx, cy float64
	switch {
	case x < r.Min.X+int(rad) && y < r.Min.Y+int(rad):
		cx, cy = float64(r.Min.X)+rad, float64(r.Min.Y)+rad
	case x >= r.Max.X-int(rad) && y < r.Min.Y+int(rad):
		cx, cy = float64(r.Max.X)-rad, float64(r.Min.Y)+rad
	case x < r.Min.X+int(rad) && y >= r.Max.Y-int(rad):
		cx, cy = float64(r.Min.X)+rad, float64(r.Max.Y)-rad
	case x >= r.Max.X-int(rad) && y >= r.Max.Y-int(rad):
		cx, cy = float64(r.Max.X)-rad, float64(r.Max.Y)-rad
	default:
		return true // not in a corner box
	}
	dx, dy := float64(x)-cx+0.5, float64(y)-cy+0.5
	return dx*dx+dy*dy <= rad*rad
}

func strokeBorderEdge(f *Framebuffer, border image.Rectangle, edge *paint.BorderEdge, opacity float64, clip image.Rectangle) {
	if edge == nil || edge.Width <= 0 {
		return
	}
	w := pxWidth(edge.Width)
	var strip image.Rectangle
	switch edge.Side {
	case "top":
		strip = image.Rect(border.Min.X, border.Min.Y, border.Max.X, border.Min.Y+w)
	case "bottom":
		strip = image.Rect(border.Min.X, border.Max.Y-w, border.Max.X, border.Max.Y)
	case "left":
		strip = image.Rect(border.Min.X, border.Min.Y, border.Min.X+w, border.Max.Y)
	case "right":
		strip = image.Rect(border.Max.X-w, border.Min.Y, border.Max.X, border.Max.Y)
	}
	paintStrip(f, strip, edge.Style, edge.Color, opacity, clip)
}

func strokeOutline(f *Framebuffer, r image.Rectangle, edge *paint.BorderEdge, opacity float64, clip image.Rectangle) {
	if edge == nil || edge.Width <= 0 {
		return
	}
	w := pxWidth(edge.Width)
	top := image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+w)
	bottom := image.Rect(r.Min.X, r.Max.Y-w, r.Max.X, r.Max.Y)
	left := image.Rect(r.Min.X, r.Min.Y, r.Min.X+w, r.Max.Y)
	right := image.Rect(r.Max.X-w, r.Min.Y, r.Max.X, r.Max.Y)
	for _, strip := range []image.Rectangle{top, bottom, left, right} {
		paintStrip(f, strip, edge.Style, edge.Color, opacity, clip)
	}
}

func pxWidth(w float64) int {
	v := int(math.Round(w))
	if v < 1 {
		v = 1
	}
	return v
}

// paintStrip implements the border-style contract (spec §4.7): solid fills
// the whole strip; dashed/dotted alternate on/off segments along the
// strip's long axis; double draws two thin sub-strips with a gap; none
// paints nothing.
func paintStrip(f *Framebuffer, strip image.Rectangle, style string, col css.Color, opacity float64, clip image.Rectangle) {
	if style == "none" || strip.Empty() {
		return
	}
	horizontal := strip.Dx() >= strip.Dy()
	switch style {
	case "dashed", "dotted":
		thickness := strip.Dy()
		if !horizontal {
			thickness = strip.Dx()
		}
		period := maxInt(thickness*3, 2)
		onLen := period / 2
		if style == "dotted" {
			onLen = maxInt(thickness, 1)
		}
		if horizontal {
			for x := strip.Min.X; x < strip.Max.X; x += period {
				fillRoundedRect(f, image.Rect(x, strip.Min.Y, minInt(x+onLen, strip.Max.X), strip.Max.Y), 0, col, opacity, clip)
			}
		} else {
			for y := strip.Min.Y; y < strip.Max.Y; y += period {
				fillRoundedRect(f, image.Rect(strip.Min.X, y, strip.Max.X, minInt(y+onLen, strip.Max.Y)), 0, col, opacity, clip)
			}
		}
	case "double":
		if horizontal {
			third := maxInt(strip.Dy()/3, 1)
			fillRoundedRect(f, image.Rect(strip.Min.X, strip.Min.Y, strip.Max.X, strip.Min.Y+third), 0, col, opacity, clip)
			fillRoundedRect(f, image.Rect(strip.Min.X, strip.Max.Y-third, strip.Max.X, strip.Max.Y), 0, col, opacity, clip)
		} else {
			third := maxInt(strip.Dx()/3, 1)
			fillRoundedRect(f, image.Rect(strip.Min.X, strip.Min.Y, strip.Min.X+third, strip.Max.Y), 0, col, opacity, clip)
			fillRoundedRect(f, image.Rect(strip.Max.X-third, strip.Min.Y, strip.Max.X, strip.Max.Y), 0, col, opacity, clip)
		}
	default: // "solid" and anything else falls back to a solid fill
		fillRoundedRect(f, strip, 0, col, opacity, clip)
	}
}

// drawTextRun rasterizes each glyph at its baseline position and
// composites it source-over, per spec §4.6/§4.7.
func drawTextRun(f *Framebuffer, run *paint.TextRun, glyphs GlyphProvider, opacity float64, clip image.Rectangle) {
	for _, g := range run.Glyphs {
		bmp, offset := glyphs.Glyph(g.Rune, run.FontSize)
		if bmp == nil {
			continue
		}
		b := bmp.Bounds()
		ox, oy := int(math.Round(g.X))+offset.X, int(math.Round(g.Y))+offset.Y
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				coverage := bmp.AlphaAt(x, y).A
				if coverage == 0 {
					continue
				}
				px, py := ox+(x-b.Min.X), oy+(y-b.Min.Y)
				if !(image.Point{X: px, Y: py}).In(clip) {
					continue
				}
				a := run.Color.A * opacity * (float64(coverage) / 255)
				blendPixel(f.Pix, px, py, run.Color, a)
			}
		}
	}
}

func blendPixel(img *image.RGBA, x, y int, col css.Color, alpha float64) {
	if alpha <= 0 || !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return
	}
	if alpha > 1 {
		alpha = 1
	}
	dst := img.RGBAAt(x, y)
	out := color.RGBA{
		R: blendChannel(col.R, dst.R, alpha),
		G: blendChannel(col.G, dst.G, alpha),
		B: blendChannel(col.B, dst.B, alpha),
		A: blendChannel(255, dst.A, alpha),
	}
	img.SetRGBA(x, y, out)
}

func blendChannel(src, dst uint8, alpha float64) uint8 {
	v := float64(src)*alpha + float64(dst)*(1-alpha)
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

func maxInt(a, b int) int { return max(a, b) }
func minInt(a, b int) int { return min(a, b) }
