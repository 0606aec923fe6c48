package layout

import "github.com/ehrlich-b/browsercore/internal/style"

// Resolve walks the laid-out tree and turns each box's parent-relative
// Content rectangle into a page-absolute (AbsX, AbsY) by adding each
// ancestor's content-box origin, and applies position: relative offsets
// and transform translate. transform scale and transform-origin are not
// applied: box sizes and positions ignore them.
func Resolve(box *Box, originX, originY float64) {
	x := originX + box.Content.X
	y := originY + box.Content.Y

	if box.Style != nil {
		if box.Style.Position == "relative" {
			if box.Style.Left.Kind != style.LengthAuto {
				x += box.Style.Left.Resolve(box.Content.Width, 0)
			} else if box.Style.Right.Kind != style.LengthAuto {
				x -= box.Style.Right.Resolve(box.Content.Width, 0)
			}
			if box.Style.Top.Kind != style.LengthAuto {
				y += box.Style.Top.Resolve(box.Content.Height, 0)
			} else if box.Style.Bottom.Kind != style.LengthAuto {
				y -= box.Style.Bottom.Resolve(box.Content.Height, 0)
			}
		}
		x += box.Style.TransformTranslateX
		y += box.Style.TransformTranslateY
	}

	box.AbsX, box.AbsY = x, y

	for _, c := range box.Children {
		Resolve(c, x, y)
	}
}
