package layout

import (
	"strings"

	"github.com/tsawler/outline/model"
)

// MergeGlyphs joins consecutive glyphs into word fragments. Glyphs are
// merged while they share a font, size and baseline and the horizontal gap
// stays below a fifth of the font size. Whitespace glyphs end the current
// fragment and are dropped; line assembly re-inserts spaces from geometry.
//
// Glyphs are expected in content-stream order.
func MergeGlyphs(glyphs []model.TextFragment) []model.TextFragment {
	var out []model.TextFragment
	var cur *model.TextFragment

	flush := func() {
		if cur != nil && cur.Text != "" {
			out = append(out, *cur)
		}
		cur = nil
	}

	for _, g := range glyphs {
		if strings.TrimSpace(g.Text) == "" {
			flush()
			continue
		}

		if cur != nil && continues(*cur, g) {
			cur.Text += g.Text
			cur.BBox = cur.BBox.Union(g.BBox)
			continue
		}

		flush()
		next := g
		cur = &next
	}
	flush()

	return out
}

func continues(prev model.TextFragment, g model.TextFragment) bool {
	if prev.FontName != g.FontName || prev.FontSize != g.FontSize {
		return false
	}
	if absFloat64(prev.BBox.Y-g.BBox.Y) > g.FontSize*0.1 {
		return false
	}
	gap := g.BBox.X - prev.BBox.Right()
	return gap >= -g.FontSize*0.5 && gap <= g.FontSize*0.2
}
