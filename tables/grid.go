package tables

import (
	"math"
	"sort"

	"github.com/tsawler/outline/model"
)

// GridDetector detects table grids from stroked rules
type GridDetector struct {
	// Tolerance for considering rules aligned (in points)
	AlignmentTolerance float64

	// Minimum number of aligned rules to form a grid axis
	MinAlignedLines int

	// Minimum rule length to consider (in points)
	MinLineLength float64
}

// NewGridDetector creates a new grid detector with default settings
func NewGridDetector() *GridDetector {
	return &GridDetector{
		AlignmentTolerance: 3.0,
		MinAlignedLines:    2,
		MinLineLength:      10.0,
	}
}

// GridHypothesis represents a potential table grid detected from rules
type GridHypothesis struct {
	// Bounding box of the grid
	BBox model.BBox

	// Horizontal rule positions (Y coordinates, sorted descending)
	HorizontalLines []float64

	// Vertical rule positions (X coordinates, sorted ascending)
	VerticalLines []float64

	// Confidence score (0-1)
	Confidence float64

	// Number of rows and columns
	Rows int
	Cols int

	HasTopBorder    bool
	HasBottomBorder bool
	HasLeftBorder   bool
	HasRightBorder  bool
}

// alignedGroup is a set of rules sharing a position on one axis.
type alignedGroup struct {
	// Position is X for vertical rules, Y for horizontal rules
	Position float64

	Rules []model.Rule

	// Span of the rules on the perpendicular axis
	MinExtent float64
	MaxExtent float64
}

// DetectFromRules finds one grid hypothesis per connected group of rules.
// Rules that are neither horizontal nor vertical are ignored.
func (gd *GridDetector) DetectFromRules(rules []model.Rule) []*GridHypothesis {
	var hypotheses []*GridHypothesis
	for _, component := range gd.connectedComponents(gd.filterByLength(rules)) {
		var horizontals, verticals []model.Rule
		for _, r := range component {
			switch {
			case r.IsHorizontal(gd.AlignmentTolerance):
				horizontals = append(horizontals, r)
			case r.IsVertical(gd.AlignmentTolerance):
				verticals = append(verticals, r)
			}
		}
		if len(horizontals) < gd.MinAlignedLines || len(verticals) < gd.MinAlignedLines {
			continue
		}

		hGroups := gd.groupAlignedLines(horizontals, true)
		vGroups := gd.groupAlignedLines(verticals, false)
		if len(hGroups) < gd.MinAlignedLines || len(vGroups) < gd.MinAlignedLines {
			continue
		}

		if h := gd.findGrid(hGroups, vGroups); h != nil {
			hypotheses = append(hypotheses, h)
		}
	}

	sort.SliceStable(hypotheses, func(i, j int) bool {
		return hypotheses[i].BBox.Top() > hypotheses[j].BBox.Top()
	})
	return hypotheses
}

// filterByLength filters rules by minimum length
func (gd *GridDetector) filterByLength(rules []model.Rule) []model.Rule {
	result := make([]model.Rule, 0, len(rules))
	for _, r := range rules {
		if r.Start.Distance(r.End) >= gd.MinLineLength {
			result = append(result, r)
		}
	}
	return result
}

// connectedComponents partitions rules into groups whose boxes touch
// within the alignment tolerance.
func (gd *GridDetector) connectedComponents(rules []model.Rule) [][]model.Rule {
	parent := make([]int, len(rules))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}

	boxes := make([]model.BBox, len(rules))
	for i, r := range rules {
		boxes[i] = model.NewBBoxFromPoints(r.Start, r.End).Expand(gd.AlignmentTolerance)
	}
	for i := range rules {
		for j := i + 1; j < len(rules); j++ {
			if boxes[i].Intersects(boxes[j]) {
				parent[find(i)] = find(j)
			}
		}
	}

	index := make(map[int]int)
	var components [][]model.Rule
	for i, r := range rules {
		root := find(i)
		k, ok := index[root]
		if !ok {
			k = len(components)
			index[root] = k
			components = append(components, nil)
		}
		components[k] = append(components[k], r)
	}
	return components
}

// groupAlignedLines groups rules that are aligned on the same axis
func (gd *GridDetector) groupAlignedLines(rules []model.Rule, isHorizontal bool) []alignedGroup {
	if len(rules) == 0 {
		return nil
	}

	position := func(r model.Rule) float64 {
		if isHorizontal {
			return (r.Start.Y + r.End.Y) / 2
		}
		return (r.Start.X + r.End.X) / 2
	}

	sorted := make([]model.Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return position(sorted[i]) < position(sorted[j])
	})

	var groups []alignedGroup
	current := alignedGroup{Position: position(sorted[0]), Rules: []model.Rule{sorted[0]}}

	for _, r := range sorted[1:] {
		pos := position(r)
		if pos-current.Position <= gd.AlignmentTolerance {
			current.Rules = append(current.Rules, r)
			n := float64(len(current.Rules))
			current.Position = (current.Position*(n-1) + pos) / n
			continue
		}
		groups = append(groups, finalizeGroup(current, isHorizontal))
		current = alignedGroup{Position: pos, Rules: []model.Rule{r}}
	}

	return append(groups, finalizeGroup(current, isHorizontal))
}

// finalizeGroup calculates the perpendicular extent of a group
func finalizeGroup(group alignedGroup, isHorizontal bool) alignedGroup {
	group.MinExtent = math.MaxFloat64
	group.MaxExtent = -math.MaxFloat64

	for _, r := range group.Rules {
		lo, hi := r.Start.Y, r.End.Y
		if isHorizontal {
			lo, hi = r.Start.X, r.End.X
		}
		group.MinExtent = math.Min(group.MinExtent, math.Min(lo, hi))
		group.MaxExtent = math.Max(group.MaxExtent, math.Max(lo, hi))
	}
	return group
}

// findGrid builds a grid hypothesis from the aligned groups of one
// connected component
func (gd *GridDetector) findGrid(hGroups, vGroups []alignedGroup) *GridHypothesis {
	// Left/Right come from vertical positions, Top/Bottom from horizontal ones
	gridLeft, gridRight := positionRange(vGroups)
	gridBottom, gridTop := positionRange(hGroups)

	if gridRight <= gridLeft || gridTop <= gridBottom {
		return nil
	}

	// Keep rules that span a significant portion of the grid
	relevantH := filterGroupsByExtent(hGroups, gridLeft, gridRight)
	relevantV := filterGroupsByExtent(vGroups, gridBottom, gridTop)

	if len(relevantH) < gd.MinAlignedLines || len(relevantV) < gd.MinAlignedLines {
		return nil
	}

	sort.Slice(relevantH, func(i, j int) bool {
		return relevantH[i].Position > relevantH[j].Position
	})
	sort.Slice(relevantV, func(i, j int) bool {
		return relevantV[i].Position < relevantV[j].Position
	})

	h := &GridHypothesis{
		BBox:            model.NewBBox(gridLeft, gridBottom, gridRight-gridLeft, gridTop-gridBottom),
		HorizontalLines: make([]float64, len(relevantH)),
		VerticalLines:   make([]float64, len(relevantV)),
		Rows:            len(relevantH) - 1,
		Cols:            len(relevantV) - 1,
	}
	for i, g := range relevantH {
		h.HorizontalLines[i] = g.Position
	}
	for i, g := range relevantV {
		h.VerticalLines[i] = g.Position
	}

	h.HasTopBorder = math.Abs(relevantH[0].Position-gridTop) < gd.AlignmentTolerance
	h.HasBottomBorder = math.Abs(relevantH[len(relevantH)-1].Position-gridBottom) < gd.AlignmentTolerance
	h.HasLeftBorder = math.Abs(relevantV[0].Position-gridLeft) < gd.AlignmentTolerance
	h.HasRightBorder = math.Abs(relevantV[len(relevantV)-1].Position-gridRight) < gd.AlignmentTolerance

	h.Confidence = gd.calculateConfidence(h, len(hGroups)+len(vGroups))

	if h.Rows <= 0 || h.Cols <= 0 {
		return nil
	}
	return h
}

// positionRange returns the minimum and maximum position across groups
func positionRange(groups []alignedGroup) (lo, hi float64) {
	lo, hi = groups[0].Position, groups[0].Position
	for _, g := range groups[1:] {
		lo = math.Min(lo, g.Position)
		hi = math.Max(hi, g.Position)
	}
	return lo, hi
}

// filterGroupsByExtent keeps groups covering at least half of the extent
func filterGroupsByExtent(groups []alignedGroup, minExtent, maxExtent float64) []alignedGroup {
	var result []alignedGroup
	for _, g := range groups {
		coverage := g.MaxExtent - g.MinExtent
		if coverage < (maxExtent-minExtent)*0.5 {
			continue
		}
		if math.Min(g.MaxExtent, maxExtent) > math.Max(g.MinExtent, minExtent) {
			result = append(result, g)
		}
	}
	return result
}

// calculateConfidence scores cell count, regularity, borders and rule coverage
func (gd *GridDetector) calculateConfidence(h *GridHypothesis, groupCount int) float64 {
	score := 0.0

	cellCount := h.Rows * h.Cols
	if cellCount >= 4 {
		score += 0.2
	}
	if cellCount >= 9 {
		score += 0.1
	}

	score += gd.calculateRegularity(h) * 0.3

	borderScore := 0.0
	for _, has := range []bool{h.HasTopBorder, h.HasBottomBorder, h.HasLeftBorder, h.HasRightBorder} {
		if has {
			borderScore += 0.25
		}
	}
	score += borderScore * 0.2

	expected := float64(len(h.HorizontalLines) + len(h.VerticalLines))
	score += math.Min(1.0, float64(groupCount)/expected) * 0.2

	return math.Min(1.0, score)
}

// calculateRegularity measures how regular the grid spacing is
func (gd *GridDetector) calculateRegularity(h *GridHypothesis) float64 {
	rowScore := 1.0
	if h.Rows > 1 {
		rowHeights := make([]float64, h.Rows)
		for i := 0; i < h.Rows; i++ {
			rowHeights[i] = h.HorizontalLines[i] - h.HorizontalLines[i+1]
		}
		rowScore = math.Max(0, 1-coefficientOfVariation(rowHeights))
	}

	colScore := 1.0
	if h.Cols > 1 {
		colWidths := make([]float64, h.Cols)
		for i := 0; i < h.Cols; i++ {
			colWidths[i] = h.VerticalLines[i+1] - h.VerticalLines[i]
		}
		colScore = math.Max(0, 1-coefficientOfVariation(colWidths))
	}

	return (rowScore + colScore) / 2
}

// coefficientOfVariation calculates CV (std dev / mean)
func coefficientOfVariation(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	if m == 0 {
		return 0
	}
	return math.Sqrt(variance(values)) / m
}
