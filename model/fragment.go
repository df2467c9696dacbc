package model

// TextFragment is a positioned run of text sharing one font and size, as
// produced by a document decoder before line grouping.
type TextFragment struct {
	Text     string
	BBox     BBox
	FontSize float64
	FontName string
}

// Rule is a stroked line or rectangle edge drawn on a page. Table detection
// uses rules to recognise ruled grids.
type Rule struct {
	Start Point
	End   Point
}

// IsHorizontal reports whether the rule runs horizontally within tolerance.
func (r Rule) IsHorizontal(tolerance float64) bool {
	return absFloat(r.Start.Y-r.End.Y) <= tolerance
}

// IsVertical reports whether the rule runs vertically within tolerance.
func (r Rule) IsVertical(tolerance float64) bool {
	return absFloat(r.Start.X-r.End.X) <= tolerance
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
