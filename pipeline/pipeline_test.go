package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/outline/document"
	"github.com/tsawler/outline/embed"
	"github.com/tsawler/outline/model"
	"github.com/tsawler/outline/report"
)

func body(prefix string, n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("%s sentence number %d.", prefix, i+1)
	}
	return lines
}

func docWith(path string, headings ...string) *document.Memory {
	var pages []*document.MemoryPage
	for _, h := range headings {
		pages = append(pages, &document.MemoryPage{BlockList: []model.Block{
			document.TextBlock(740, 24, "Helvetica-Bold", h),
			document.TextBlock(700, 10, "Helvetica", body(h, 20)...),
		}})
	}
	return document.NewMemory(path, pages...)
}

// fixture creates empty files for every name in dir and a decoder that
// serves docs for them.
func fixture(t *testing.T, docs map[string][]string, failures map[string]error, extra ...string) (string, *document.MemoryDecoder) {
	t.Helper()
	dir := t.TempDir()
	dec := &document.MemoryDecoder{Documents: map[string]*document.Memory{}, Failures: map[string]error{}}

	for name, headings := range docs {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		dec.Documents[path] = docWith(path, headings...)
	}
	for name, err := range failures {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		dec.Failures[path] = err
	}
	for _, name := range extra {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	return dir, dec
}

func TestListPDFs(t *testing.T) {
	dir, _ := fixture(t, map[string][]string{"b.pdf": nil, "A.PDF": nil}, nil, "notes.txt", "pdf")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755))

	paths, err := ListPDFs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "A.PDF"), filepath.Join(dir, "b.pdf")}, paths)

	_, err = ListPDFs(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestExtractOutlines(t *testing.T) {
	in, dec := fixture(t,
		map[string][]string{
			"alpha.pdf": {"Overview", "Details"},
			"beta.PDF":  {"Summary"},
		},
		map[string]error{"broken.pdf": errors.New("bad xref")},
	)
	out := filepath.Join(t.TempDir(), "out", "nested")

	p := New(Config{Decoder: dec, Validate: true})
	sum, err := p.ExtractOutlines(context.Background(), in, out)
	require.NoError(t, err)

	assert.NotEmpty(t, sum.RunID)
	assert.Equal(t, 2, sum.Processed)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, []string{filepath.Join(out, "alpha.json"), filepath.Join(out, "beta.json")}, sum.Outputs)

	data, err := os.ReadFile(filepath.Join(out, "alpha.json"))
	require.NoError(t, err)

	var rec report.Outline
	require.NoError(t, json.Unmarshal(data, &rec))
	assert.Equal(t, "Overview", rec.Title)
	assert.Equal(t, "en", rec.Language)
	require.Len(t, rec.Outline, 2)
	assert.Equal(t, "Details", rec.Outline[1].Text)
	assert.Equal(t, 2, rec.Outline[1].Page)

	_, err = os.Stat(filepath.Join(out, "broken.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestExtractOutlinesEmptyFolder(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	sum, err := New(Config{Decoder: &document.MemoryDecoder{}, Logger: logger}).ExtractOutlines(context.Background(), in, out)
	require.NoError(t, err)
	assert.Zero(t, sum.Processed)
	assert.Zero(t, sum.Failed)
	assert.NotContains(t, logs.String(), "level=ERROR")

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExtractOutlinesKeepsEmptyHeadingText(t *testing.T) {
	in, dec := fixture(t, map[string][]string{"zw.pdf": {"Overview", "\u200b"}}, nil)
	out := t.TempDir()

	sum, err := New(Config{Decoder: dec, Validate: true}).ExtractOutlines(context.Background(), in, out)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Processed)
	assert.Zero(t, sum.Failed)

	data, err := os.ReadFile(filepath.Join(out, "zw.json"))
	require.NoError(t, err)

	var rec report.Outline
	require.NoError(t, json.Unmarshal(data, &rec))
	require.Len(t, rec.Outline, 2)
	assert.Equal(t, "Overview", rec.Outline[0].Text)
	assert.Equal(t, "", rec.Outline[1].Text)
	assert.Equal(t, 2, rec.Outline[1].Page)
}

func TestExtractOutlinesCancelled(t *testing.T) {
	in, dec := fixture(t, map[string][]string{"a.pdf": {"Heading"}}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Config{Decoder: dec}).ExtractOutlines(ctx, in, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyze(t *testing.T) {
	in, dec := fixture(t,
		map[string][]string{
			"travel.pdf":  {"Beach Hotels", "Museum Tours"},
			"finance.pdf": {"Quarterly Revenue"},
		},
		map[string]error{"corrupt.pdf": errors.New("truncated")},
	)

	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	p := New(Config{
		Decoder:   dec,
		Embedder:  embed.NewHashing(0),
		Formatter: report.Formatter{Now: func() time.Time { return ts }},
		Validate:  true,
	})

	paths, err := ListPDFs(in)
	require.NoError(t, err)

	a, err := p.Analyze(context.Background(), paths, "Travel planner", "Find beach hotels for a group trip")
	require.NoError(t, err)

	assert.Equal(t, []string{"corrupt.pdf", "finance.pdf", "travel.pdf"}, a.Metadata.InputDocuments)
	assert.Equal(t, "2025-01-02T03:04:05.000000Z", a.Metadata.ProcessingTimestamp)

	require.Len(t, a.ExtractedSections, 3)
	assert.Equal(t, "Beach Hotels", a.ExtractedSections[0].SectionTitle)
	assert.Equal(t, "travel.pdf", a.ExtractedSections[0].Document)
	for i, s := range a.ExtractedSections {
		assert.Equal(t, i+1, s.ImportanceRank)
		assert.True(t, len(s.RefinedText) >= 3 && s.RefinedText[len(s.RefinedText)-3:] == "...")
	}
}

func TestAnalyzeNoDocuments(t *testing.T) {
	called := false
	e := embed.Func(func(context.Context, []string) ([][]float32, error) {
		called = true
		return nil, nil
	})

	a, err := New(Config{Decoder: &document.MemoryDecoder{}, Embedder: e, Validate: true}).
		Analyze(context.Background(), nil, "p", "j")
	require.NoError(t, err)
	assert.Empty(t, a.ExtractedSections)
	assert.NotNil(t, a.ExtractedSections)
	assert.False(t, called)
}

func TestAnalyzeDir(t *testing.T) {
	in, dec := fixture(t, map[string][]string{"guide.pdf": {"Packing List"}}, nil)

	meta := t.TempDir()
	personaFile := filepath.Join(meta, "persona.txt")
	jobFile := filepath.Join(meta, "job.txt")
	require.NoError(t, os.WriteFile(personaFile, []byte("Hiker"), 0o644))
	require.NoError(t, os.WriteFile(jobFile, []byte("Pack for a trek"), 0o644))

	out := filepath.Join(t.TempDir(), "results")
	path, err := New(Config{Decoder: dec, Validate: true}).AnalyzeDir(context.Background(), in, personaFile, jobFile, out)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, report.AnalysisFileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var a report.Analysis
	require.NoError(t, json.Unmarshal(data, &a))
	assert.Equal(t, "Hiker", a.Metadata.Persona)
	assert.Equal(t, "Pack for a trek", a.Metadata.JobToBeDone)
	require.Len(t, a.ExtractedSections, 1)
	assert.Equal(t, "Packing List", a.ExtractedSections[0].SectionTitle)

	_, err = New(Config{Decoder: dec}).AnalyzeDir(context.Background(), in, filepath.Join(meta, "nope.txt"), jobFile, out)
	assert.Error(t, err)
}
