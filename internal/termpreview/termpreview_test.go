package termpreview

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"github.com/ehrlich-b/browsercore/internal/raster"
)

func solidFramebuffer(w, h int, c color.RGBA) *raster.Framebuffer {
	fb := raster.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			fb.Pix.SetRGBA(x, y, c)
		}
	}
	return fb
}

func TestBuildHalvesHeightViaHalfBlockRows(t *testing.T) {
	fb := solidFramebuffer(4, 6, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	lines := Build(fb)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines for height 6, got %d", len(lines))
	}
	for _, line := range lines {
		if len(line.Cells) != 4 {
			t.Fatalf("expected 4 cells per line, got %d", len(line.Cells))
		}
	}
}

func TestBuildOddHeightDuplicatesLastRow(t *testing.T) {
	fb := solidFramebuffer(2, 5, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	lines := Build(fb)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines for height 5, got %d", len(lines))
	}
	last := lines[2].Cells[0]
	if last.Fg != last.Bg {
		t.Errorf("expected duplicated last row to have equal fg/bg, got fg=%v bg=%v", last.Fg, last.Bg)
	}
}

func TestBuildNilFramebufferReturnsNoLines(t *testing.T) {
	if lines := Build(nil); lines != nil {
		t.Errorf("expected nil lines for nil framebuffer, got %v", lines)
	}
}

func TestCellRenderEmitsGlyphAndTruecolorEscape(t *testing.T) {
	c := Cell{Glyph: upperHalfBlock, Fg: color.RGBA{R: 255, A: 255}, Bg: color.RGBA{B: 255, A: 255}}
	out := c.Render()
	if !strings.Contains(out, upperHalfBlock) {
		t.Errorf("expected rendered cell to contain the glyph, got %q", out)
	}
}

func TestRenderWritesOneLinePerRow(t *testing.T) {
	fb := solidFramebuffer(3, 4, color.RGBA{R: 100, G: 100, B: 100, A: 255})
	var buf bytes.Buffer
	if err := Render(&buf, fb); err != nil {
		t.Fatalf("Render: %v", err)
	}
	lineCount := strings.Count(buf.String(), "\n")
	if lineCount != 2 {
		t.Errorf("expected 2 newlines for height 4, got %d", lineCount)
	}
}
