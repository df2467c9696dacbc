// Package structure builds a document's title and heading outline.
//
// The builder walks pages, text blocks and lines in order. Each valid line
// outside a detected table is scored against document-wide font statistics;
// lines scoring above a level threshold join the outline, and the
// highest-scoring line of page 1 becomes the title.
package structure

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/tsawler/outline/document"
	"github.com/tsawler/outline/heading"
	"github.com/tsawler/outline/langid"
	"github.com/tsawler/outline/model"
	"github.com/tsawler/outline/text"
)

// Builder extracts document structure. A Builder holds no per-document
// state and may be reused for any number of documents.
type Builder struct {
	config      heading.Config
	detector    *langid.Detector
	samplePages int
	tolerance   float64
	logger      *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithConfig sets the scoring weights and level thresholds.
func WithConfig(cfg heading.Config) Option {
	return func(b *Builder) { b.config = cfg }
}

// WithLanguageDetector sets the detector used on the leading pages.
func WithLanguageDetector(d *langid.Detector) Option {
	return func(b *Builder) { b.detector = d }
}

// WithSamplePages sets how many leading pages feed language detection.
func WithSamplePages(n int) Option {
	return func(b *Builder) { b.samplePages = n }
}

// WithTableTolerance sets how far, in points, a line may stick out of a
// table region and still be excluded.
func WithTableTolerance(tol float64) Option {
	return func(b *Builder) { b.tolerance = tol }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a builder. Without a language detector every document
// is reported as langid.DefaultLanguage.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		config:      heading.DefaultConfig(),
		samplePages: langid.DefaultSamplePages,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.detector == nil {
		b.detector = langid.NewDetector(nil, "", b.logger)
	}
	return b
}

// BuildFile decodes path and builds its structure. When decoding fails the
// invalid-document sentinel is returned together with the decode error.
func (b *Builder) BuildFile(ctx context.Context, dec document.Decoder, path string) (model.DocumentStructure, error) {
	doc, err := dec.Open(ctx, path)
	if err != nil {
		return model.InvalidDocument(), err
	}
	defer doc.Close()

	return b.Build(ctx, doc)
}

// Build extracts the title, language and outline of doc. A nil doc yields
// the invalid-document sentinel. The only error is cancellation of ctx.
func (b *Builder) Build(ctx context.Context, doc document.Document) (model.DocumentStructure, error) {
	if doc == nil {
		return model.InvalidDocument(), nil
	}

	language := b.detector.Detect(langid.Sample(doc, b.samplePages))
	stats := heading.Analyze(document.FontSizes(doc))
	scorer := heading.NewScorer(stats, language, b.config)

	result := model.DocumentStructure{
		Title:    FallbackTitle(doc.Name()),
		Language: language,
		Outline:  []model.OutlineEntry{},
	}
	title := titleTracker{}
	seen := make(map[string]struct{})

	for _, page := range doc.Pages() {
		if err := ctx.Err(); err != nil {
			return model.DocumentStructure{}, err
		}

		pageNum := page.Number()
		excluded, err := page.Tables()
		if err != nil {
			b.logger.Warn("table detection failed", "file", doc.Name(), "page", pageNum, "error", err)
			excluded = nil
		}

		for _, block := range page.Blocks() {
			if block.Type != model.BlockText {
				continue
			}
			for _, raw := range block.Lines {
				line := model.NewLine(raw, pageNum)
				if !line.IsValid() {
					continue
				}
				if _, dup := seen[line.Text]; dup {
					continue
				}
				if line.IsInBBoxes(excluded, b.tolerance) {
					continue
				}

				score := scorer.Score(line)

				if pageNum == 1 {
					title.offer(text.Clean(line.Text), score)
				}

				level := scorer.Level(score)
				if !level.IsHeading() {
					continue
				}
				result.Outline = append(result.Outline, model.OutlineEntry{
					Level:      level,
					Text:       text.Clean(line.Text),
					PageNumber: pageNum,
				})
				seen[line.Text] = struct{}{}
			}
		}
	}

	if title.set {
		result.Title = title.text
	}

	b.logger.Debug("structure built",
		"file", doc.Name(),
		"language", language,
		"headings", len(result.Outline),
		"p90", stats.P90, "p95", stats.P95, "p99", stats.P99)

	return result, nil
}

// titleTracker keeps the first line with the strictly highest positive
// score.
type titleTracker struct {
	text  string
	score float64
	set   bool
}

func (t *titleTracker) offer(text string, score float64) {
	if score > t.score {
		t.text = text
		t.score = score
		t.set = true
	}
}

// FallbackTitle derives a title from a file path: its base name with a
// trailing ".pdf" removed, in any letter case.
func FallbackTitle(path string) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	if ext := filepath.Ext(base); strings.EqualFold(ext, ".pdf") {
		return strings.TrimSuffix(base, ext)
	}
	return base
}
