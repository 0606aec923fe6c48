// Package termpreview implements SPEC_FULL.md §4.17: a presentation-only
// renderer that downsamples a rasterized RGBA framebuffer into a terminal
// cell grid, for `browsercore render --preview=term`. It consumes the
// finished internal/raster.Framebuffer and never feeds back into
// layout/paint.
//
// Grounded on internal/ui/renderer.go's cell-buffer/diffing approach
// (there: ANSI-styled chat transcript cards built with
// github.com/charmbracelet/lipgloss; here: pixel cells styled the same
// way, with a truecolor hex Color per cell instead of a theme palette
// entry). See DESIGN.md for why this package renders through lipgloss
// rather than charmbracelet/ultraviolet's cell/screen model.
package termpreview

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ehrlich-b/browsercore/internal/raster"
)

// upperHalfBlock doubles vertical resolution: one terminal cell carries
// two source pixel rows via fg (top half) / bg (bottom half) color, per
// spec §4.17's "2:1 vertical aspect via half-block glyphs."
const upperHalfBlock = "▀"

// Cell is one downsampled terminal cell: a glyph styled with the
// truecolor foreground/background pair computed from a pixel pair.
type Cell struct {
	Glyph string
	Fg    color.RGBA
	Bg    color.RGBA
}

// Render formats c as one lipgloss-styled, truecolor-escaped glyph.
func (c Cell) Render() string {
	style := lipgloss.NewStyle().
		Foreground(hexColor(c.Fg)).
		Background(hexColor(c.Bg))
	return style.Render(c.Glyph)
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// Line is one rendered row of terminal cells, built from a pair of
// framebuffer pixel rows.
type Line struct {
	Cells []Cell
}

// Render formats one Line as a sequence of styled glyphs.
func (l Line) Render() string {
	var sb strings.Builder
	for _, c := range l.Cells {
		sb.WriteString(c.Render())
	}
	return sb.String()
}

// Render downsamples fb into a terminal cell grid and writes it to w as
// one escaped line per row of cells (height/2 rows, width columns).
func Render(w io.Writer, fb *raster.Framebuffer) error {
	for _, line := range Build(fb) {
		if _, err := io.WriteString(w, line.Render()); err != nil {
			return fmt.Errorf("termpreview: write line: %w", err)
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return fmt.Errorf("termpreview: write newline: %w", err)
		}
	}
	return nil
}

// Build downsamples fb into one Line per pair of pixel rows. An odd
// final row is paired with its own color for both halves.
func Build(fb *raster.Framebuffer) []Line {
	if fb == nil || fb.Pix == nil {
		return nil
	}
	bounds := fb.Pix.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	lines := make([]Line, 0, (height+1)/2)
	for y := 0; y < height; y += 2 {
		cells := make([]Cell, 0, width)
		for x := 0; x < width; x++ {
			top := fb.Pix.RGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
			bottom := top
			if y+1 < height {
				bottom = fb.Pix.RGBAAt(bounds.Min.X+x, bounds.Min.Y+y+1)
			}
			cells = append(cells, Cell{Glyph: upperHalfBlock, Fg: top, Bg: bottom})
		}
		lines = append(lines, Line{Cells: cells})
	}
	return lines
}
