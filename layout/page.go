package layout

import (
	"strings"

	"github.com/tsawler/outline/model"
)

// Config combines line and block detection settings.
type Config struct {
	Line  LineConfig
	Block BlockConfig
}

// DefaultConfig returns the default line and block settings.
func DefaultConfig() Config {
	return Config{
		Line:  DefaultLineConfig(),
		Block: DefaultBlockConfig(),
	}
}

// Analyzer turns a page's positioned fragments into text blocks.
type Analyzer struct {
	config Config
	lines  *LineDetector
	blocks *BlockDetector
}

// NewAnalyzer creates an analyzer with default configuration.
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithConfig(DefaultConfig())
}

// NewAnalyzerWithConfig creates an analyzer with custom configuration.
func NewAnalyzerWithConfig(config Config) *Analyzer {
	return &Analyzer{
		config: config,
		lines:  NewLineDetectorWithConfig(config.Line),
		blocks: NewBlockDetectorWithConfig(config.Block),
	}
}

// Blocks returns the page's text blocks, top to bottom.
func (a *Analyzer) Blocks(fragments []model.TextFragment) []model.Block {
	lines := a.lines.Detect(fragments)
	return a.blocks.Detect(lines, a.config.Line.SpaceGapRatio)
}

// PageText joins the text of every line of every text block with "\n".
func PageText(blocks []model.Block) string {
	var lines []string
	for _, b := range blocks {
		if b.Type != model.BlockText {
			continue
		}
		for _, l := range b.Lines {
			var sb strings.Builder
			for _, s := range l.Spans {
				sb.WriteString(s.Text)
			}
			lines = append(lines, sb.String())
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
