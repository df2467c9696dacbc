package heading

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/outline/model"
)

var (
	numberedPattern = regexp.MustCompile(`^\p{Nd}+(\.\p{Nd}+)*`)

	// Japanese chapter numbering: optional 第 followed by kanji or digits.
	japaneseNumberedPattern = regexp.MustCompile(`^第?[一二三四五六七八九十百千\p{Nd}]+`)
)

// lengthHorizon is the rune count at which the length contribution reaches
// zero.
const lengthHorizon = 100.0

// Scorer scores lines of a single document. It is safe for concurrent use.
type Scorer struct {
	stats    FontStats
	language string
	config   Config
}

// NewScorer creates a scorer bound to a document's font statistics and
// detected language.
func NewScorer(stats FontStats, language string, config Config) *Scorer {
	return &Scorer{
		stats:    stats,
		language: language,
		config:   config,
	}
}

// Score returns the weighted heading score of line. It has no side effects.
func (s *Scorer) Score(line model.Line) float64 {
	w := s.config.Scoring
	score := 0.0

	runes := float64(utf8.RuneCountInString(line.Text))
	score += max(0, 1-runes/lengthHorizon) * w.BaseLineLength

	switch {
	case line.FontSize >= s.stats.P99:
		score += w.FontSizeP99
	case line.FontSize >= s.stats.P95:
		score += w.FontSizeP95
	case line.FontSize >= s.stats.P90:
		score += w.FontSizeP90
	}

	if line.IsBold {
		score += w.Bold
	}

	if s.IsNumbered(line.Text) {
		score += w.NumberedList
	}

	if strings.HasSuffix(line.Text, ".") {
		score += w.EndsWithPeriod
	}

	return score
}

// IsNumbered reports whether text starts with a numbered-outline prefix.
// The Japanese pattern only applies when the document language is "ja".
func (s *Scorer) IsNumbered(text string) bool {
	if numberedPattern.MatchString(text) {
		return true
	}
	return s.language == "ja" && japaneseNumberedPattern.MatchString(text)
}

// Level maps a score to the highest heading level whose threshold it meets.
// It never returns LevelTitle.
func (s *Scorer) Level(score float64) model.HeadingLevel {
	t := s.config.Thresholds
	switch {
	case score >= t.H1:
		return model.LevelH1
	case score >= t.H2:
		return model.LevelH2
	case score >= t.H3:
		return model.LevelH3
	default:
		return model.LevelNone
	}
}
