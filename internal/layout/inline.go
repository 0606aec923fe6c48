package layout

// glyphWidthRatio approximates shaped glyph width as a fraction of
// font-size, per spec §4.5.2: "text runs are assumed to be pre-shaped at
// 0.6 x font-size per ASCII character".
const glyphWidthRatio = 0.6

func textWidth(text string, fontSize float64) float64 {
	return float64(len([]rune(text))) * fontSize * glyphWidthRatio
}

func lineHeightOf(fontSize, lh float64) float64 {
	if lh < 0 {
		return fontSize * 1.2
	}
	return lh
}

// layoutInline assembles a run of inline-level boxes (text runs and
// inline-blocks) into line boxes within availableWidth, per spec §4.5.2.
// It sets each box's Content rectangle relative to the run's own origin
// (0,0); the caller offsets the whole run vertically. Returns the total
// height consumed by all lines.
func layoutInline(run []*Box, availableWidth float64) float64 {
	x, y := 0.0, 0.0
	lineMaxHeight := 0.0
	totalHeight := 0.0
	startedLine := false

	advance := func(w, h float64) {
		if startedLine && x+w > availableWidth {
			totalHeight += lineMaxHeight
			x, y = 0, y+lineMaxHeight
			lineMaxHeight = 0
			startedLine = false
		}
		startedLine = true
		if h > lineMaxHeight {
			lineMaxHeight = h
		}
	}

	for _, b := range run {
		if b.IsText {
			fontSize := b.Style.FontSize
			lh := lineHeightOf(fontSize, b.Style.LineHeight)
			for _, word := range splitWords(b.Text) {
				w := textWidth(word, fontSize)
				advance(w, lh)
				b.Content.X = x
				b.Content.Y = y
				b.Content.Width = w
				b.Content.Height = lh
				x += w
			}
			continue
		}
		contentWidth, ml, mr, pad, bord := resolveWidth(b.Style, availableWidth)
		Layout(b, contentWidth)
		marginBoxW := ml + bord.Left + pad.Left + contentWidth + pad.Right + bord.Right + mr
		lh := lineHeightOf(b.Style.FontSize, b.Style.LineHeight)
		h := bord.Top + pad.Top + b.Content.Height + pad.Bottom + bord.Bottom
		if h > lh {
			lh = h
		}
		advance(marginBoxW, lh)
		b.Content.X = x + ml + bord.Left + pad.Left
		b.Content.Y = y + bord.Top + pad.Top
		b.Padding, b.Border, b.Margin = pad, bord, Edges{Left: ml, Right: mr}
		x += marginBoxW
	}
	if startedLine {
		totalHeight += lineMaxHeight
	}
	return totalHeight
}

// splitWords breaks text on whitespace boundaries ("the last word-break
// opportunity", spec §4.5.2), keeping the separating space as its own run
// so inter-word spacing is preserved in the width accounting.
func splitWords(text string) []string {
	var words []string
	start := 0
	inSpace := false
	runes := []rune(text)
	for i, r := range runes {
		isSpace := r == ' ' || r == '\t' || r == '\n'
		if i == 0 {
			inSpace = isSpace
			continue
		}
		if isSpace != inSpace {
			words = append(words, string(runes[start:i]))
			start = i
			inSpace = isSpace
		}
	}
	if start < len(runes) {
		words = append(words, string(runes[start:]))
	}
	return words
}
