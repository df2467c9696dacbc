package layout

import "github.com/tsawler/outline/model"

// BlockConfig holds configuration for block detection
type BlockConfig struct {
	// HorizontalGapThreshold is the minimum horizontal gap to consider lines separate
	// as a fraction of average font size (default: 3.0)
	HorizontalGapThreshold float64

	// VerticalGapThreshold is the minimum vertical gap to start a new block
	// as a fraction of average line height (default: 1.5)
	VerticalGapThreshold float64
}

// DefaultBlockConfig returns sensible default configuration
func DefaultBlockConfig() BlockConfig {
	return BlockConfig{
		HorizontalGapThreshold: 3.0,
		VerticalGapThreshold:   1.5,
	}
}

// BlockDetector groups lines into text blocks
type BlockDetector struct {
	config BlockConfig
}

// NewBlockDetector creates a new block detector with default configuration
func NewBlockDetector() *BlockDetector {
	return &BlockDetector{
		config: DefaultBlockConfig(),
	}
}

// NewBlockDetectorWithConfig creates a block detector with custom configuration
func NewBlockDetectorWithConfig(config BlockConfig) *BlockDetector {
	return &BlockDetector{
		config: config,
	}
}

// Group splits top-to-bottom lines into runs of lines that belong to the
// same block. A new block starts on a large vertical gap, when consecutive
// lines do not overlap horizontally, or when they are far apart sideways.
func (d *BlockDetector) Group(lines []Line) [][]Line {
	if len(lines) == 0 {
		return nil
	}

	var blocks [][]Line
	current := []Line{lines[0]}

	for i := 1; i < len(lines); i++ {
		prev := lines[i-1]
		curr := lines[i]

		// Distance between bottom of prev and top of curr
		gap := prev.BBox.Bottom() - curr.BBox.Top()
		avgHeight := (prev.Height + curr.Height) / 2
		threshold := avgHeight * d.config.VerticalGapThreshold

		hasHorizontalOverlap := prev.BBox.Right() > curr.BBox.Left() && curr.BBox.Right() > prev.BBox.Left()

		horizontalGap := horizontalGapBetween(prev.BBox, curr.BBox)
		largeHorizontalGap := horizontalGap > averageFontSize(prev)*d.config.HorizontalGapThreshold

		if gap > threshold || !hasHorizontalOverlap || largeHorizontalGap {
			blocks = append(blocks, current)
			current = []Line{curr}
			continue
		}
		current = append(current, curr)
	}

	return append(blocks, current)
}

// Detect groups lines into text blocks and converts them to decoder records.
func (d *BlockDetector) Detect(lines []Line, spaceGapRatio float64) []model.Block {
	groups := d.Group(lines)

	blocks := make([]model.Block, 0, len(groups))
	for _, g := range groups {
		block := model.Block{Type: model.BlockText}
		boxes := make([]model.BBox, 0, len(g))
		for _, l := range g {
			block.Lines = append(block.Lines, l.Raw(spaceGapRatio))
			boxes = append(boxes, l.BBox)
		}
		block.BBox, _ = model.UnionAll(boxes)
		blocks = append(blocks, block)
	}
	return blocks
}

// horizontalGapBetween returns 0 for overlapping boxes, otherwise the
// horizontal distance between them.
func horizontalGapBetween(a, b model.BBox) float64 {
	if a.Right() > b.Left() && b.Right() > a.Left() {
		return 0
	}
	if b.Left() > a.Right() {
		return b.Left() - a.Right()
	}
	return a.Left() - b.Right()
}

// averageFontSize returns the average font size in a line
func averageFontSize(line Line) float64 {
	if len(line.Fragments) == 0 {
		return 12.0 // Default
	}
	total := 0.0
	for _, f := range line.Fragments {
		total += f.FontSize
	}
	return total / float64(len(line.Fragments))
}
