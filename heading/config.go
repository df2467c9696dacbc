package heading

import "fmt"

// Weights are the per-signal contributions added to a line's score.
type Weights struct {
	// BaseLineLength is scaled by max(0, 1 - runes/100).
	// Default: 5
	BaseLineLength float64 `mapstructure:"base_score_line_length" json:"base_score_line_length" yaml:"base_score_line_length"`

	// FontSizeP99, FontSizeP95 and FontSizeP90 are mutually exclusive; only
	// the largest matching bucket is added.
	// Default: 20, 15, 10
	FontSizeP99 float64 `mapstructure:"font_size_p99" json:"font_size_p99" yaml:"font_size_p99"`
	FontSizeP95 float64 `mapstructure:"font_size_p95" json:"font_size_p95" yaml:"font_size_p95"`
	FontSizeP90 float64 `mapstructure:"font_size_p90" json:"font_size_p90" yaml:"font_size_p90"`

	// Bold is added when the font name contains "bold".
	// Default: 5
	Bold float64 `mapstructure:"font_weight_bold" json:"font_weight_bold" yaml:"font_weight_bold"`

	// NumberedList is added once for a numbered-outline prefix.
	// Default: 10
	NumberedList float64 `mapstructure:"numbered_list_bonus" json:"numbered_list_bonus" yaml:"numbered_list_bonus"`

	// EndsWithPeriod is added when the text ends with ".". It is normally
	// negative.
	// Default: -10
	EndsWithPeriod float64 `mapstructure:"ends_with_period_penalty" json:"ends_with_period_penalty" yaml:"ends_with_period_penalty"`
}

// Thresholds are the minimum scores for each heading level.
type Thresholds struct {
	H1 float64 `mapstructure:"h1" json:"h1" yaml:"h1"`
	H2 float64 `mapstructure:"h2" json:"h2" yaml:"h2"`
	H3 float64 `mapstructure:"h3" json:"h3" yaml:"h3"`
}

// Config holds the complete scoring configuration.
type Config struct {
	Scoring    Weights    `mapstructure:"scoring" json:"scoring" yaml:"scoring"`
	Thresholds Thresholds `mapstructure:"thresholds" json:"thresholds" yaml:"thresholds"`
}

// DefaultConfig returns the hand-tuned weights and thresholds.
func DefaultConfig() Config {
	return Config{
		Scoring: Weights{
			BaseLineLength: 5,
			FontSizeP99:    20,
			FontSizeP95:    15,
			FontSizeP90:    10,
			Bold:           5,
			NumberedList:   10,
			EndsWithPeriod: -10,
		},
		Thresholds: Thresholds{
			H1: 25,
			H2: 20,
			H3: 15,
		},
	}
}

// Validate checks that the thresholds descend strictly.
func (c Config) Validate() error {
	t := c.Thresholds
	if !(t.H1 > t.H2 && t.H2 > t.H3) {
		return fmt.Errorf("heading thresholds must descend: h1=%g h2=%g h3=%g", t.H1, t.H2, t.H3)
	}
	return nil
}
