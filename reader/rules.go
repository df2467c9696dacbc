package reader

import (
	"math"

	"github.com/tsawler/outline/model"
)

// thinRect is the maximum thickness, in points, of a filled rectangle that is
// drawn as a line rather than a box.
const thinRect = 2.0

// rectRules converts a rectangle into ruling lines. Thin rectangles become a
// single rule along their long axis; anything else contributes its four
// edges.
func rectRules(x0, y0, x1, y1 float64) []model.Rule {
	minX, maxX := math.Min(x0, x1), math.Max(x0, x1)
	minY, maxY := math.Min(y0, y1), math.Max(y0, y1)
	w, h := maxX-minX, maxY-minY

	switch {
	case w <= 0 && h <= 0:
		return nil
	case h <= thinRect && w > h:
		y := (minY + maxY) / 2
		return []model.Rule{{Start: model.Point{X: minX, Y: y}, End: model.Point{X: maxX, Y: y}}}
	case w <= thinRect && h > w:
		x := (minX + maxX) / 2
		return []model.Rule{{Start: model.Point{X: x, Y: minY}, End: model.Point{X: x, Y: maxY}}}
	}

	return []model.Rule{
		{Start: model.Point{X: minX, Y: minY}, End: model.Point{X: maxX, Y: minY}},
		{Start: model.Point{X: minX, Y: maxY}, End: model.Point{X: maxX, Y: maxY}},
		{Start: model.Point{X: minX, Y: minY}, End: model.Point{X: minX, Y: maxY}},
		{Start: model.Point{X: maxX, Y: minY}, End: model.Point{X: maxX, Y: maxY}},
	}
}
