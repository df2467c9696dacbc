package tables

import (
	"math"
	"sort"

	"github.com/tsawler/outline/model"
)

// GeometricDetector implements table detection using geometric heuristics.
// Ruled grids are found from stroked rules first; unless RequireRules is
// set, clusters of aligned text are then analyzed for tabular structure.
type GeometricDetector struct {
	config Config
}

// NewGeometricDetector creates a new geometric table detector with default configuration.
func NewGeometricDetector() *GeometricDetector {
	return &GeometricDetector{
		config: DefaultConfig(),
	}
}

// NewGeometricDetectorWithConfig creates a geometric detector with custom configuration.
func NewGeometricDetectorWithConfig(config Config) *GeometricDetector {
	return &GeometricDetector{
		config: config,
	}
}

// Name returns the detector's identifier ("geometric").
func (d *GeometricDetector) Name() string {
	return "geometric"
}

// Configure sets the detector configuration.
func (d *GeometricDetector) Configure(config Config) error {
	d.config = config
	return nil
}

// Detect finds tables on a page, ordered top to bottom.
func (d *GeometricDetector) Detect(fragments []model.TextFragment, rules []model.Rule) ([]Table, error) {
	tables := d.detectRuled(rules)

	if !d.config.RequireRules {
		for _, cluster := range d.clusterFragments(fragments) {
			table, ok := d.detectTableInCluster(cluster, rules)
			if !ok || overlapsAny(table.BBox, tables) {
				continue
			}
			tables = append(tables, table)
		}
	}

	sort.SliceStable(tables, func(i, j int) bool {
		return tables[i].BBox.Top() > tables[j].BBox.Top()
	})
	return tables, nil
}

// detectRuled converts grid hypotheses that meet the configured minimums
// into tables.
func (d *GeometricDetector) detectRuled(rules []model.Rule) []Table {
	if len(rules) == 0 {
		return nil
	}

	gd := NewGridDetector()
	gd.AlignmentTolerance = d.config.AlignmentTolerance
	gd.MinLineLength = d.config.MinRuleLength

	var tables []Table
	for _, h := range gd.DetectFromRules(rules) {
		if h.Rows < d.config.MinRows || h.Cols < d.config.MinCols || h.Confidence < d.config.MinConfidence {
			continue
		}
		tables = append(tables, Table{
			BBox:       h.BBox,
			Rows:       h.Rows,
			Cols:       h.Cols,
			Confidence: h.Confidence,
			HasGrid:    true,
		})
	}
	return tables
}

func overlapsAny(b model.BBox, tables []Table) bool {
	for _, t := range tables {
		if t.BBox.Intersects(b) {
			return true
		}
	}
	return false
}

// clusterFragments groups text fragments that are spatially close by vertical
// proximity. Fragments separated by more than 50 points vertically start new clusters.
func (d *GeometricDetector) clusterFragments(fragments []model.TextFragment) [][]model.TextFragment {
	if len(fragments) == 0 {
		return nil
	}

	sorted := make([]model.TextFragment, len(fragments))
	copy(sorted, fragments)

	// Top to bottom
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BBox.Y > sorted[j].BBox.Y
	})

	var clusters [][]model.TextFragment
	currentCluster := []model.TextFragment{sorted[0]}

	for i := 1; i < len(sorted); i++ {
		lastBBox := currentCluster[len(currentCluster)-1].BBox
		currentBBox := sorted[i].BBox

		verticalGap := lastBBox.Y - (currentBBox.Y + currentBBox.Height)

		if verticalGap > 50 {
			clusters = append(clusters, currentCluster)
			currentCluster = []model.TextFragment{sorted[i]}
		} else {
			currentCluster = append(currentCluster, sorted[i])
		}
	}

	return append(clusters, currentCluster)
}

// tableGrid holds row and column boundaries of a candidate table.
type tableGrid struct {
	// Rows are Y boundaries, descending
	Rows []float64

	// Cols are X boundaries, ascending
	Cols []float64

	HasHLines []bool
	HasVLines []bool
}

func (g *tableGrid) RowCount() int { return max(0, len(g.Rows)-1) }

func (g *tableGrid) ColCount() int { return max(0, len(g.Cols)-1) }

// detectTableInCluster attempts to find a table in a cluster of fragments.
func (d *GeometricDetector) detectTableInCluster(fragments []model.TextFragment, rules []model.Rule) (Table, bool) {
	if len(fragments) < d.config.MinRows*d.config.MinCols {
		return Table{}, false
	}

	grid := d.buildGrid(fragments, rules)
	if grid == nil || grid.RowCount() < d.config.MinRows || grid.ColCount() < d.config.MinCols {
		return Table{}, false
	}

	confidence := d.calculateConfidence(grid, fragments)
	if confidence < d.config.MinConfidence {
		return Table{}, false
	}

	return Table{
		BBox:       d.calculateTableBBox(grid),
		Rows:       grid.RowCount(),
		Cols:       grid.ColCount(),
		Confidence: confidence,
		HasGrid:    d.hasVisibleGrid(grid),
	}, true
}

// buildGrid constructs a grid from text fragment positions and detects which
// grid lines have visible rules.
func (d *GeometricDetector) buildGrid(fragments []model.TextFragment, rules []model.Rule) *tableGrid {
	yCoords := d.extractRowBoundaries(fragments)
	if len(yCoords) < d.config.MinRows+1 {
		return nil
	}

	xCoords := d.extractColumnBoundaries(fragments)
	if len(xCoords) < d.config.MinCols+1 {
		return nil
	}

	return &tableGrid{
		Rows:      yCoords,
		Cols:      xCoords,
		HasHLines: d.detectHorizontalLines(yCoords, rules),
		HasVLines: d.detectVerticalLines(xCoords, rules),
	}
}

// extractRowBoundaries clusters the top and bottom edges of all fragments.
func (d *GeometricDetector) extractRowBoundaries(fragments []model.TextFragment) []float64 {
	yValues := make([]float64, 0, len(fragments)*2)
	for _, frag := range fragments {
		yValues = append(yValues, frag.BBox.Top(), frag.BBox.Bottom())
	}
	sort.Float64s(yValues)

	clustered := clusterValues(yValues, d.config.AlignmentTolerance)

	// PDF coordinates: top is larger
	sort.Sort(sort.Reverse(sort.Float64Slice(clustered)))
	return clustered
}

// extractColumnBoundaries clusters the left and right edges of all fragments.
func (d *GeometricDetector) extractColumnBoundaries(fragments []model.TextFragment) []float64 {
	xValues := make([]float64, 0, len(fragments)*2)
	for _, frag := range fragments {
		xValues = append(xValues, frag.BBox.Left(), frag.BBox.Right())
	}
	sort.Float64s(xValues)

	return clusterValues(xValues, d.config.AlignmentTolerance)
}

// clusterValues clusters sorted values within the given tolerance, averaging
// values that fall within the tolerance of the cluster center.
func clusterValues(values []float64, tolerance float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	clustered := []float64{values[0]}
	for _, v := range values[1:] {
		last := len(clustered) - 1
		if v-clustered[last] > tolerance {
			clustered = append(clustered, v)
		} else {
			clustered[last] = (clustered[last] + v) / 2
		}
	}
	return clustered
}

// detectHorizontalLines reports which row boundaries carry a horizontal rule.
func (d *GeometricDetector) detectHorizontalLines(yCoords []float64, rules []model.Rule) []bool {
	hasLines := make([]bool, len(yCoords))
	for i, y := range yCoords {
		for _, r := range rules {
			if math.Abs(r.Start.Y-y) < d.config.AlignmentTolerance &&
				math.Abs(r.End.Y-y) < d.config.AlignmentTolerance {
				hasLines[i] = true
				break
			}
		}
	}
	return hasLines
}

// detectVerticalLines reports which column boundaries carry a vertical rule.
func (d *GeometricDetector) detectVerticalLines(xCoords []float64, rules []model.Rule) []bool {
	hasLines := make([]bool, len(xCoords))
	for i, x := range xCoords {
		for _, r := range rules {
			if math.Abs(r.Start.X-x) < d.config.AlignmentTolerance &&
				math.Abs(r.End.X-x) < d.config.AlignmentTolerance {
				hasLines[i] = true
				break
			}
		}
	}
	return hasLines
}

// calculateConfidence computes a confidence score (0.0-1.0) for a text grid.
// The score combines grid regularity (30%), alignment quality (30%), rule
// presence (20%), and cell occupancy (20%).
func (d *GeometricDetector) calculateConfidence(grid *tableGrid, fragments []model.TextFragment) float64 {
	score := d.calculateGridRegularity(grid) * 0.3
	score += d.calculateAlignmentQuality(fragments, grid) * 0.3
	score += d.calculateLineScore(grid) * 0.2
	score += d.calculateCellOccupancy(fragments, grid) * 0.2
	return score
}

// calculateGridRegularity is one minus the coefficient of variation of row
// heights and column widths, averaged and clamped at zero.
func (d *GeometricDetector) calculateGridRegularity(grid *tableGrid) float64 {
	if grid.RowCount() < 2 || grid.ColCount() < 2 {
		return 0
	}

	rowHeights := make([]float64, grid.RowCount())
	for i := range rowHeights {
		rowHeights[i] = grid.Rows[i] - grid.Rows[i+1]
	}

	colWidths := make([]float64, grid.ColCount())
	for i := range colWidths {
		colWidths[i] = grid.Cols[i+1] - grid.Cols[i]
	}

	rowScore := math.Max(0, 1-coefficientOfVariation(rowHeights))
	colScore := math.Max(0, 1-coefficientOfVariation(colWidths))
	return (rowScore + colScore) / 2
}

// calculateAlignmentQuality is the fraction of fragments with at least two
// edges near grid lines.
func (d *GeometricDetector) calculateAlignmentQuality(fragments []model.TextFragment, grid *tableGrid) float64 {
	if len(fragments) == 0 {
		return 0
	}

	aligned := 0
	for _, frag := range fragments {
		edges := 0
		for _, near := range []bool{
			d.isNearGridLine(frag.BBox.Left(), grid.Cols),
			d.isNearGridLine(frag.BBox.Right(), grid.Cols),
			d.isNearGridLine(frag.BBox.Top(), grid.Rows),
			d.isNearGridLine(frag.BBox.Bottom(), grid.Rows),
		} {
			if near {
				edges++
			}
		}
		if edges >= 2 {
			aligned++
		}
	}
	return float64(aligned) / float64(len(fragments))
}

// isNearGridLine reports whether a value is within 2x the alignment tolerance
// of any grid line.
func (d *GeometricDetector) isNearGridLine(value float64, gridLines []float64) bool {
	for _, line := range gridLines {
		if math.Abs(value-line) < d.config.AlignmentTolerance*2 {
			return true
		}
	}
	return false
}

// calculateLineScore averages horizontal and vertical rule coverage.
func (d *GeometricDetector) calculateLineScore(grid *tableGrid) float64 {
	if len(grid.HasHLines) == 0 || len(grid.HasVLines) == 0 {
		return 0
	}
	return (fractionTrue(grid.HasHLines) + fractionTrue(grid.HasVLines)) / 2
}

// calculateCellOccupancy is the fraction of cells holding a fragment center.
func (d *GeometricDetector) calculateCellOccupancy(fragments []model.TextFragment, grid *tableGrid) float64 {
	totalCells := grid.RowCount() * grid.ColCount()
	if totalCells == 0 {
		return 0
	}

	occupied := make(map[[2]int]bool)
	for _, frag := range fragments {
		row, col := findCell(frag.BBox.Center(), grid)
		if row >= 0 && col >= 0 {
			occupied[[2]int{row, col}] = true
		}
	}
	return float64(len(occupied)) / float64(totalCells)
}

// findCell returns the row and column of the cell containing p, or -1 for
// both when p is outside the grid.
func findCell(p model.Point, grid *tableGrid) (row, col int) {
	row, col = -1, -1

	for i := 0; i < grid.RowCount(); i++ {
		if p.Y <= grid.Rows[i] && p.Y >= grid.Rows[i+1] {
			row = i
			break
		}
	}
	for i := 0; i < grid.ColCount(); i++ {
		if p.X >= grid.Cols[i] && p.X <= grid.Cols[i+1] {
			col = i
			break
		}
	}
	if row < 0 || col < 0 {
		return -1, -1
	}
	return row, col
}

// calculateTableBBox computes the overall bounding box of the table from the grid.
func (d *GeometricDetector) calculateTableBBox(grid *tableGrid) model.BBox {
	if grid.RowCount() == 0 || grid.ColCount() == 0 {
		return model.BBox{}
	}

	return model.BBox{
		X:      grid.Cols[0],
		Y:      grid.Rows[len(grid.Rows)-1],
		Width:  grid.Cols[len(grid.Cols)-1] - grid.Cols[0],
		Height: grid.Rows[0] - grid.Rows[len(grid.Rows)-1],
	}
}

// hasVisibleGrid reports whether at least half of the grid boundaries carry
// rules.
func (d *GeometricDetector) hasVisibleGrid(grid *tableGrid) bool {
	total := len(grid.HasHLines) + len(grid.HasVLines)
	if total == 0 {
		return false
	}
	visible := fractionTrue(grid.HasHLines)*float64(len(grid.HasHLines)) +
		fractionTrue(grid.HasVLines)*float64(len(grid.HasVLines))
	return visible/float64(total) >= 0.5
}

func fractionTrue(flags []bool) float64 {
	if len(flags) == 0 {
		return 0
	}
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return float64(n) / float64(len(flags))
}

// mean computes the arithmetic mean of a slice of float64 values.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// variance computes the population variance of a slice of float64 values.
func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		diff := v - m
		sum += diff * diff
	}
	return sum / float64(len(values))
}
