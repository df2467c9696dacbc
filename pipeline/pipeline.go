// Package pipeline runs the two batch stages over folders of documents:
// outline extraction, which writes one JSON record per document, and
// persona analysis, which ranks the sections of every document against a
// persona and task and writes a single combined record.
//
// A document that fails to decode is logged and skipped; it never aborts
// the rest of the batch.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/tsawler/outline/document"
	"github.com/tsawler/outline/embed"
	"github.com/tsawler/outline/model"
	"github.com/tsawler/outline/rank"
	"github.com/tsawler/outline/report"
	"github.com/tsawler/outline/sections"
	"github.com/tsawler/outline/structure"
)

// Config wires the pipeline's collaborators.
type Config struct {
	Decoder   document.Decoder
	Builder   *structure.Builder
	Embedder  embed.Embedder
	Formatter report.Formatter

	// Validate checks every record against its JSON schema before writing.
	Validate bool

	Logger *slog.Logger
}

// Pipeline runs outline extraction and persona analysis.
type Pipeline struct {
	decoder   document.Decoder
	builder   *structure.Builder
	ranker    *rank.Ranker
	formatter report.Formatter
	validate  bool
	logger    *slog.Logger
}

// New creates a pipeline. A nil Builder gets default scoring; a nil
// Embedder gets the local hashing embedder.
func New(cfg Config) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	builder := cfg.Builder
	if builder == nil {
		builder = structure.NewBuilder(structure.WithLogger(logger))
	}
	embedder := cfg.Embedder
	if embedder == nil {
		embedder = embed.NewHashing(0)
	}

	return &Pipeline{
		decoder:   cfg.Decoder,
		builder:   builder,
		ranker:    rank.NewRanker(embedder, logger),
		formatter: cfg.Formatter,
		validate:  cfg.Validate,
		logger:    logger,
	}
}

// Summary reports the outcome of a batch.
type Summary struct {
	RunID     string
	Processed int
	Failed    int
	Outputs   []string
}

// ListPDFs returns the paths of the PDF files directly inside dir, matched
// by a case-insensitive ".pdf" suffix and sorted by name.
func ListPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".pdf") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	slices.Sort(paths)
	return paths, nil
}

// ExtractOutline builds the outline record of a single document.
func (p *Pipeline) ExtractOutline(ctx context.Context, path string) (report.Outline, error) {
	s, err := p.builder.BuildFile(ctx, p.decoder, path)
	if err != nil {
		return report.Outline{}, err
	}

	rec := report.NewOutline(s)
	if p.validate {
		if err := report.ValidateOutline(rec); err != nil {
			return report.Outline{}, err
		}
	}
	return rec, nil
}

// ExtractOutlines writes "<stem>.json" into outDir for every PDF in inDir.
// The output directory is created if absent. Only failure to create it, or
// cancellation, returns an error.
func (p *Pipeline) ExtractOutlines(ctx context.Context, inDir, outDir string) (Summary, error) {
	sum := Summary{RunID: uuid.NewString()}
	logger := p.logger.With("run_id", sum.RunID, "stage", "outline")

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return sum, fmt.Errorf("create output directory: %w", err)
	}

	paths, err := ListPDFs(inDir)
	if err != nil {
		return sum, err
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		name := filepath.Base(path)
		docLog := logger.With("file", name)
		docLog.Info("processing")

		rec, err := p.ExtractOutline(ctx, path)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return sum, err
			}
			docLog.Error("skipping document", "error", err)
			sum.Failed++
			continue
		}

		out := filepath.Join(outDir, report.OutlineFileName(path))
		if err := report.WriteJSON(out, rec); err != nil {
			docLog.Error("write outline failed", "error", err)
			sum.Failed++
			continue
		}

		docLog.Info("successfully created outline", "output", out, "headings", len(rec.Outline))
		sum.Processed++
		sum.Outputs = append(sum.Outputs, out)
	}

	logger.Info("outline stage complete", "processed", sum.Processed, "failed", sum.Failed)
	return sum, nil
}

// Analyze ranks the sections of every document in paths against the
// persona and job. Documents that fail are logged and contribute no
// sections, but are still listed in the metadata.
func (p *Pipeline) Analyze(ctx context.Context, paths []string, persona, job string) (report.Analysis, error) {
	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID, "stage", "analysis")

	var all []model.Section
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return report.Analysis{}, err
		}

		docLog := logger.With("file", filepath.Base(path))
		docLog.Info("analyzing")

		secs, err := p.documentSections(ctx, path)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return report.Analysis{}, err
			}
			docLog.Warn("skipping document", "error", err)
			continue
		}
		all = append(all, secs...)
	}

	ranked, err := p.ranker.Rank(ctx, rank.Query(persona, job), all)
	if err != nil {
		return report.Analysis{}, err
	}

	a := p.formatter.Format(paths, persona, job, ranked)
	if p.validate {
		if err := report.ValidateAnalysis(a); err != nil {
			return report.Analysis{}, err
		}
	}

	logger.Info("analysis complete", "documents", len(paths), "sections", len(ranked))
	return a, nil
}

func (p *Pipeline) documentSections(ctx context.Context, path string) ([]model.Section, error) {
	doc, err := p.decoder.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	s, err := p.builder.Build(ctx, doc)
	if err != nil {
		return nil, err
	}
	return sections.FromDocument(doc, s), nil
}

// AnalyzeDir runs Analyze over the PDFs in docsDir with persona and job
// read from files, and writes analysis_output.json into outDir. It returns
// the path written.
func (p *Pipeline) AnalyzeDir(ctx context.Context, docsDir, personaFile, jobFile, outDir string) (string, error) {
	persona, err := os.ReadFile(personaFile)
	if err != nil {
		return "", fmt.Errorf("read persona: %w", err)
	}
	job, err := os.ReadFile(jobFile)
	if err != nil {
		return "", fmt.Errorf("read job: %w", err)
	}

	return p.AnalyzeDirText(ctx, docsDir, string(persona), string(job), outDir)
}

// AnalyzeDirText is AnalyzeDir with the persona and job given as text.
func (p *Pipeline) AnalyzeDirText(ctx context.Context, docsDir, persona, job, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	paths, err := ListPDFs(docsDir)
	if err != nil {
		return "", err
	}

	a, err := p.Analyze(ctx, paths, persona, job)
	if err != nil {
		return "", err
	}

	out := filepath.Join(outDir, report.AnalysisFileName)
	if err := report.WriteJSON(out, a); err != nil {
		return "", err
	}

	p.logger.Info("analysis saved", "output", out)
	return out, nil
}
