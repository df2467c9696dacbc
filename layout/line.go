package layout

import (
	"sort"
	"strings"

	"github.com/tsawler/outline/model"
)

// xTolerance is the fraction of font size within which two fragments are
// treated as starting at the same X, keeping their stream order.
const xTolerance = 0.2

// Line is a single visual line of text on a page.
type Line struct {
	// BBox is the bounding box of the line
	BBox model.BBox

	// Fragments make up the line, sorted left to right
	Fragments []model.TextFragment

	// Baseline is the lowest fragment Y in the line
	Baseline float64

	// Height is the tallest fragment height in the line
	Height float64
}

// LineConfig holds configuration for line detection
type LineConfig struct {
	// LineHeightTolerance is the Y-distance tolerance for grouping fragments into lines
	// as a fraction of fragment height (default: 0.5)
	LineHeightTolerance float64

	// SpaceGapRatio is the horizontal gap, as a fraction of fragment height,
	// above which a space is inserted between fragments (default: 0.1)
	SpaceGapRatio float64
}

// DefaultLineConfig returns sensible default configuration
func DefaultLineConfig() LineConfig {
	return LineConfig{
		LineHeightTolerance: 0.5,
		SpaceGapRatio:       0.1,
	}
}

// LineDetector detects text lines on a page
type LineDetector struct {
	config LineConfig
}

// NewLineDetector creates a new line detector with default configuration
func NewLineDetector() *LineDetector {
	return &LineDetector{
		config: DefaultLineConfig(),
	}
}

// NewLineDetectorWithConfig creates a line detector with custom configuration
func NewLineDetectorWithConfig(config LineConfig) *LineDetector {
	return &LineDetector{
		config: config,
	}
}

// Detect groups fragments into lines ordered top to bottom.
func (d *LineDetector) Detect(fragments []model.TextFragment) []Line {
	groups := d.groupIntoLines(fragments)

	lines := make([]Line, 0, len(groups))
	for _, g := range groups {
		line := Line{
			Fragments: g,
			BBox:      fragmentsBBox(g),
			Baseline:  g[0].BBox.Y,
			Height:    g[0].BBox.Height,
		}
		for _, f := range g[1:] {
			line.Baseline = min(line.Baseline, f.BBox.Y)
			line.Height = max(line.Height, f.BBox.Height)
		}
		lines = append(lines, line)
	}
	return lines
}

// groupIntoLines groups fragments into horizontal lines based on Y position
func (d *LineDetector) groupIntoLines(fragments []model.TextFragment) [][]model.TextFragment {
	if len(fragments) == 0 {
		return nil
	}

	tolerance := d.calculateAdaptiveTolerance(fragments)

	// Higher Y first (top of page). Same-line fragments keep stream order
	// until the line is complete.
	sorted := make([]model.TextFragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		yDiff := sorted[i].BBox.Y - sorted[j].BBox.Y
		if absFloat64(yDiff) > tolerance {
			return yDiff > 0
		}
		return false
	})

	var lines [][]model.TextFragment
	var current []model.TextFragment

	for _, frag := range sorted {
		if len(current) == 0 {
			current = append(current, frag)
			continue
		}

		if absFloat64(frag.BBox.Y-averageLineY(current)) <= tolerance {
			current = append(current, frag)
			continue
		}

		lines = append(lines, sortByX(current))
		current = []model.TextFragment{frag}
	}

	if len(current) > 0 {
		lines = append(lines, sortByX(current))
	}

	return lines
}

func sortByX(line []model.TextFragment) []model.TextFragment {
	sort.SliceStable(line, func(i, j int) bool {
		xTol := line[i].FontSize * xTolerance
		if absFloat64(line[i].BBox.X-line[j].BBox.X) < xTol {
			return false
		}
		return line[i].BBox.X < line[j].BBox.X
	})
	return line
}

// calculateAdaptiveTolerance determines the Y tolerance for line grouping.
// When the smallest inter-line gaps are much tighter than the font height the
// coordinates are compressed, and a gap-based tolerance is used instead.
func (d *LineDetector) calculateAdaptiveTolerance(fragments []model.TextFragment) float64 {
	totalHeight := 0.0
	for _, f := range fragments {
		totalHeight += f.BBox.Height
	}
	avgHeight := totalHeight / float64(len(fragments))
	standard := avgHeight * d.config.LineHeightTolerance

	yPositions := make(map[float64]bool)
	for _, f := range fragments {
		yPositions[float64(int(f.BBox.Y*10))/10] = true
	}
	if len(yPositions) < 3 {
		return standard
	}

	uniqueYs := make([]float64, 0, len(yPositions))
	for y := range yPositions {
		uniqueYs = append(uniqueYs, y)
	}
	sort.Float64s(uniqueYs)

	gaps := make([]float64, 0, len(uniqueYs)-1)
	for i := 1; i < len(uniqueYs); i++ {
		if gap := uniqueYs[i] - uniqueYs[i-1]; gap > 0.1 {
			gaps = append(gaps, gap)
		}
	}
	if len(gaps) == 0 {
		return standard
	}
	sort.Float64s(gaps)

	// 10th percentile gap
	minGap := gaps[len(gaps)/10]
	if minGap < avgHeight*0.5 {
		return max(minGap*0.2, 0.15)
	}
	return standard
}

// averageLineY returns the average Y coordinate of fragments in a line
func averageLineY(fragments []model.TextFragment) float64 {
	total := 0.0
	for _, f := range fragments {
		total += f.BBox.Y
	}
	return total / float64(len(fragments))
}

// Spans folds the line's fragments into spans. Adjacent fragments sharing a
// font and size join one span; a space is inserted wherever the horizontal
// gap exceeds spaceGapRatio of the fragment height.
func (line Line) Spans(spaceGapRatio float64) []model.Span {
	var spans []model.Span
	var sb strings.Builder
	var cur model.Span

	flush := func() {
		if sb.Len() == 0 {
			return
		}
		cur.Text = sb.String()
		spans = append(spans, cur)
		sb.Reset()
	}

	for i, frag := range line.Fragments {
		sep := ""
		if i > 0 {
			prev := line.Fragments[i-1]
			gap := frag.BBox.X - prev.BBox.Right()
			if gap > frag.BBox.Height*spaceGapRatio {
				sep = " "
			}
		}

		if sb.Len() > 0 && (frag.FontName != cur.Font || frag.FontSize != cur.Size) {
			flush()
		}
		if sb.Len() == 0 {
			cur = model.Span{Size: frag.FontSize, Font: frag.FontName}
		}
		sb.WriteString(sep)
		sb.WriteString(frag.Text)
	}
	flush()

	return spans
}

// Text assembles the line's text with the same spacing rule as Spans.
func (line Line) Text(spaceGapRatio float64) string {
	var sb strings.Builder
	for _, s := range line.Spans(spaceGapRatio) {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Raw converts the line to the decoder record consumed by outline
// extraction.
func (line Line) Raw(spaceGapRatio float64) model.RawLine {
	bbox := line.BBox
	return model.RawLine{
		Spans: line.Spans(spaceGapRatio),
		BBox:  &bbox,
	}
}

// fragmentsBBox returns the union of the fragments' boxes.
func fragmentsBBox(fragments []model.TextFragment) model.BBox {
	boxes := make([]model.BBox, len(fragments))
	for i, f := range fragments {
		boxes[i] = f.BBox
	}
	bbox, _ := model.UnionAll(boxes)
	return bbox
}

func absFloat64(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
