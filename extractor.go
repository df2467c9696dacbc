package outline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tsawler/outline/document"
	"github.com/tsawler/outline/embed"
	"github.com/tsawler/outline/heading"
	"github.com/tsawler/outline/langid"
	"github.com/tsawler/outline/model"
	"github.com/tsawler/outline/rank"
	"github.com/tsawler/outline/reader"
	"github.com/tsawler/outline/report"
	"github.com/tsawler/outline/sections"
	"github.com/tsawler/outline/structure"
)

// Extractor is a fluent, immutable description of an extraction. Each
// configuration method returns a new Extractor, so a base chain can be
// shared between goroutines and specialised.
type Extractor struct {
	path    string
	doc     document.Document // set by FromDocument; not owned
	options extractOptions
}

func (e *Extractor) clone() *Extractor {
	return &Extractor{
		path:    e.path,
		doc:     e.doc,
		options: e.options.clone(),
	}
}

// Config replaces the heading weights and thresholds.
func (e *Extractor) Config(cfg heading.Config) *Extractor {
	n := e.clone()
	n.options.heading = cfg
	return n
}

// Thresholds replaces only the level thresholds.
func (e *Extractor) Thresholds(t heading.Thresholds) *Extractor {
	n := e.clone()
	n.options.heading.Thresholds = t
	return n
}

// ExcludeTables sets whether table detection runs when Open decodes the
// file, so that lines inside tables are dropped from the outline. It is on
// by default and has no effect on documents passed to FromDocument.
func (e *Extractor) ExcludeTables(on bool) *Extractor {
	n := e.clone()
	n.options.excludeTables = on
	return n
}

// TableTolerance widens table boxes by tol points when testing containment.
func (e *Extractor) TableTolerance(tol float64) *Extractor {
	n := e.clone()
	n.options.tolerance = tol
	return n
}

// Language fixes the document language instead of detecting it.
func (e *Extractor) Language(code string) *Extractor {
	n := e.clone()
	n.options.language = code
	return n
}

// SamplePages sets how many leading pages feed language detection.
func (e *Extractor) SamplePages(n int) *Extractor {
	c := e.clone()
	c.options.samplePages = n
	return c
}

// Decoder replaces the PDF decoder, e.g. with one reading another format.
func (e *Extractor) Decoder(d document.Decoder) *Extractor {
	n := e.clone()
	n.options.decoder = d
	return n
}

// Logger sets the logger used by every stage.
func (e *Extractor) Logger(l *slog.Logger) *Extractor {
	n := e.clone()
	n.options.logger = l
	return n
}

func (e *Extractor) logger() *slog.Logger {
	if e.options.logger != nil {
		return e.options.logger
	}
	return slog.Default()
}

func (e *Extractor) builder() *structure.Builder {
	logger := e.logger()

	var id langid.Identifier = langid.NewWhatlang()
	fallback := langid.DefaultLanguage
	if code := e.options.language; code != "" {
		id = langid.IdentifierFunc(func(string, int) ([]langid.Prediction, error) {
			return []langid.Prediction{{Label: langid.LabelPrefix + code, Probability: 1}}, nil
		})
		// Text-less documents never reach the identifier.
		fallback = langid.Canonical(code)
	}

	return structure.NewBuilder(
		structure.WithConfig(e.options.heading),
		structure.WithLanguageDetector(langid.NewDetector(id, fallback, logger)),
		structure.WithSamplePages(e.options.samplePages),
		structure.WithTableTolerance(e.options.tolerance),
		structure.WithLogger(logger),
	)
}

// open returns the document and a function that releases it.
func (e *Extractor) open(ctx context.Context) (document.Document, func(), error) {
	if e.doc != nil {
		return e.doc, func() {}, nil
	}
	if e.path == "" {
		return nil, nil, errors.New("no filename specified")
	}

	dec := e.options.decoder
	if dec == nil {
		opts := reader.DefaultOptions()
		opts.TablesEnabled = e.options.excludeTables
		opts.Logger = e.logger()
		dec = reader.NewDecoder(opts)
	}

	doc, err := dec.Open(ctx, e.path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", e.path, err)
	}
	return doc, func() { doc.Close() }, nil
}

// Structure extracts the title, language and heading outline.
func (e *Extractor) Structure(ctx context.Context) (model.DocumentStructure, error) {
	if err := e.options.heading.Validate(); err != nil {
		return model.DocumentStructure{}, err
	}
	doc, release, err := e.open(ctx)
	if err != nil {
		return model.DocumentStructure{}, err
	}
	defer release()

	return e.builder().Build(ctx, doc)
}

// Outline extracts the structure and converts it to the JSON outline record.
func (e *Extractor) Outline(ctx context.Context) (report.Outline, error) {
	s, err := e.Structure(ctx)
	if err != nil {
		return report.Outline{}, err
	}
	return report.NewOutline(s), nil
}

// Sections splits the document at its headings.
func (e *Extractor) Sections(ctx context.Context) ([]model.Section, error) {
	if err := e.options.heading.Validate(); err != nil {
		return nil, err
	}
	doc, release, err := e.open(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	s, err := e.builder().Build(ctx, doc)
	if err != nil {
		return nil, err
	}
	return sections.FromDocument(doc, s), nil
}

// Rank ranks the document's sections against a persona and job using
// embedder, or the local hashing embedder when embedder is nil.
func (e *Extractor) Rank(ctx context.Context, embedder embed.Embedder, persona, job string) ([]model.RankedSection, error) {
	secs, err := e.Sections(ctx)
	if err != nil {
		return nil, err
	}
	if embedder == nil {
		embedder = embed.NewHashing(0)
	}
	return rank.NewRanker(embedder, e.logger()).Rank(ctx, rank.Query(persona, job), secs)
}
