package tables

import "github.com/tsawler/outline/model"

// Detector is the interface for table detection algorithms
type Detector interface {
	// Detect finds table regions on a page from its text fragments and
	// stroked rules
	Detect(fragments []model.TextFragment, rules []model.Rule) ([]Table, error)

	// Name returns the detector name
	Name() string

	// Configure sets detector parameters
	Configure(config Config) error
}

// Table is a detected table region.
type Table struct {
	// BBox encloses the whole table
	BBox model.BBox

	Rows int
	Cols int

	// Confidence is in [0, 1]
	Confidence float64

	// HasGrid is true when the table was found from drawn rules
	HasGrid bool
}

// Config holds detector configuration
type Config struct {
	// Minimum rows for a valid table
	MinRows int `mapstructure:"min_rows"`

	// Minimum columns for a valid table
	MinCols int `mapstructure:"min_cols"`

	// Minimum confidence threshold (0-1)
	MinConfidence float64 `mapstructure:"min_confidence"`

	// RequireRules restricts detection to ruled grids. When false, clusters
	// of aligned text without rules are also considered.
	RequireRules bool `mapstructure:"require_rules"`

	// Tolerance for row/column alignment (points)
	AlignmentTolerance float64 `mapstructure:"alignment_tolerance"`

	// Minimum rule length to consider (points)
	MinRuleLength float64 `mapstructure:"min_rule_length"`
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MinRows:            2,
		MinCols:            2,
		MinConfidence:      0.5,
		RequireRules:       true,
		AlignmentTolerance: 2.0,
		MinRuleLength:      10.0,
	}
}

// Regions returns the bounding boxes of tables.
func Regions(tables []Table) []model.BBox {
	if len(tables) == 0 {
		return nil
	}
	boxes := make([]model.BBox, len(tables))
	for i, t := range tables {
		boxes[i] = t.BBox
	}
	return boxes
}
