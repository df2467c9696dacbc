package heading

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/outline/model"
)

func line(text string, size float64, font string) model.Line {
	box := model.NewBBox(72, 700, 200, size)
	return model.NewLine(model.RawLine{
		Spans: []model.Span{{Text: text, Size: size, Font: font}},
		BBox:  &box,
	}, 1)
}

func TestAnalyze(t *testing.T) {
	stats := Analyze([]float64{10, 24, 10, 10, 12, 10, 10, 10, 10, 10})

	assert.InDelta(t, 13.2, stats.P90, 1e-9)
	assert.InDelta(t, 18.6, stats.P95, 1e-9)
	assert.InDelta(t, 22.92, stats.P99, 1e-9)
	assert.InDelta(t, 10.0, stats.Median, 1e-9)
	assert.Equal(t, 10, stats.Samples)
}

func TestAnalyzeDoesNotReorderInput(t *testing.T) {
	sizes := []float64{14, 9, 11}
	Analyze(sizes)
	assert.Equal(t, []float64{14, 9, 11}, sizes)
}

func TestAnalyzeSingleSize(t *testing.T) {
	stats := Analyze([]float64{11})
	assert.Equal(t, FontStats{P90: 11, P95: 11, P99: 11, Median: 11, Samples: 1}, stats)
}

func TestAnalyzeEmpty(t *testing.T) {
	stats := Analyze(nil)
	assert.Equal(t, DefaultP90, stats.P90)
	assert.Equal(t, DefaultP95, stats.P95)
	assert.Equal(t, DefaultP99, stats.P99)
	assert.Zero(t, stats.Median)
	assert.Zero(t, stats.Samples)
}

var testStats = FontStats{P90: 12, P95: 16, P99: 24, Median: 10, Samples: 100}

func TestScoreNumberedHeadingAtP99(t *testing.T) {
	s := NewScorer(testStats, "en", DefaultConfig())

	score := s.Score(line("1. Introduction", 24, "Helvetica"))

	assert.InDelta(t, 34.25, score, 1e-9)
	assert.Equal(t, model.LevelH1, s.Level(score))
}

func TestScoreSentenceIsPenalized(t *testing.T) {
	s := NewScorer(testStats, "en", DefaultConfig())

	score := s.Score(line("Section on Results.", 10, "Helvetica"))

	assert.InDelta(t, 0.81*5-10, score, 1e-9)
	assert.Equal(t, model.LevelNone, s.Level(score))
}

func TestScoreFontBuckets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scoring.BaseLineLength = 0
	s := NewScorer(testStats, "en", cfg)

	tests := []struct {
		name string
		size float64
		want float64
	}{
		{"below p90", 11.99, 0},
		{"exactly p90", 12, 10},
		{"exactly p95", 16, 15},
		{"between p95 and p99", 20, 15},
		{"exactly p99", 24, 20},
		{"above p99", 40, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Score(line("Overview", tt.size, "Helvetica")))
		})
	}
}

func TestScoreBold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scoring.BaseLineLength = 0
	s := NewScorer(testStats, "en", cfg)

	assert.Equal(t, 5.0, s.Score(line("Overview", 10, "Arial-BoldMT")))
	assert.Equal(t, 0.0, s.Score(line("Overview", 10, "Arial")))
}

func TestScoreLengthClampedAtZero(t *testing.T) {
	cfg := DefaultConfig()
	s := NewScorer(testStats, "en", cfg)

	long := strings.Repeat("word ", 40)
	assert.Equal(t, 0.0, s.Score(line(long, 10, "Helvetica")))
}

func TestScoreLengthCountsRunes(t *testing.T) {
	s := NewScorer(testStats, "fr", DefaultConfig())

	// 10 runes, 20 bytes.
	score := s.Score(line("éééééééééé", 10, "Helvetica"))
	assert.InDelta(t, 4.5, score, 1e-9)
}

func TestPeriodPenaltyAppliedOnce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scoring.BaseLineLength = 0
	s := NewScorer(testStats, "en", cfg)

	assert.Equal(t, -10.0, s.Score(line("Done...", 10, "Helvetica")))
	assert.Equal(t, 10.0-10.0+5.0+20.0, s.Score(line("2.1 Results.", 30, "Times-Bold")))
}

func TestIsNumbered(t *testing.T) {
	tests := []struct {
		name string
		lang string
		text string
		want bool
	}{
		{"single number", "en", "1 Scope", true},
		{"dotted", "en", "2.3.1 Methods", true},
		{"trailing dot", "en", "4. Results", true},
		{"fullwidth digit", "en", "３ 結果", true},
		{"word first", "en", "Chapter 1", false},
		{"kanji outside japanese", "en", "第三章 結論", false},
		{"kanji chapter", "ja", "第三章 結論", true},
		{"kanji without prefix", "ja", "三 方法", true},
		{"prefix alone is not numbered", "ja", "第章", false},
		{"japanese also accepts digits", "ja", "1.2 概要", true},
		{"plain japanese", "ja", "概要", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScorer(testStats, tt.lang, DefaultConfig())
			assert.Equal(t, tt.want, s.IsNumbered(tt.text))
		})
	}
}

func TestNumberedBonusNotCumulative(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scoring.BaseLineLength = 0
	s := NewScorer(testStats, "ja", cfg)

	assert.Equal(t, 10.0, s.Score(line("1章", 10, "MS-Mincho")))
}

func TestLevel(t *testing.T) {
	s := NewScorer(testStats, "en", DefaultConfig())

	tests := []struct {
		score float64
		want  model.HeadingLevel
	}{
		{100, model.LevelH1},
		{25, model.LevelH1},
		{24.99, model.LevelH2},
		{20, model.LevelH2},
		{15, model.LevelH3},
		{14.99, model.LevelNone},
		{-5, model.LevelNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, s.Level(tt.score), "Level(%v)", tt.score)
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Thresholds.H2 = cfg.Thresholds.H1
	assert.Error(t, cfg.Validate())
}
