// Package rank orders sections by semantic relevance to a persona and task.
package rank

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/tsawler/outline/embed"
	"github.com/tsawler/outline/model"
)

// Query builds the single query sentence embedded for a persona and job.
func Query(persona, job string) string {
	return fmt.Sprintf("Persona: %s. Task: %s", persona, job)
}

// Ranker scores sections with an embedder.
type Ranker struct {
	embedder embed.Embedder
	logger   *slog.Logger
}

// NewRanker creates a ranker. A nil logger means slog.Default().
func NewRanker(e embed.Embedder, logger *slog.Logger) *Ranker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ranker{embedder: e, logger: logger}
}

// Rank embeds query and every section's content, scores each section by
// cosine similarity and returns them best first with dense 1-based ranks.
// Equal scores keep their input order. With no sections the embedder is not
// called.
func (r *Ranker) Rank(ctx context.Context, query string, sections []model.Section) ([]model.RankedSection, error) {
	if len(sections) == 0 {
		return []model.RankedSection{}, nil
	}

	texts := make([]string, 0, len(sections)+1)
	texts = append(texts, query)
	for _, s := range sections {
		texts = append(texts, s.Content)
	}

	vecs, err := r.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed sections: %w", err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vecs), len(texts))
	}

	queryVec := vecs[0]
	ranked := make([]model.RankedSection, len(sections))
	for i, s := range sections {
		score, err := embed.CosineSimilarity(queryVec, vecs[i+1])
		if err != nil {
			return nil, fmt.Errorf("score section %q of %s: %w", s.Title, s.DocumentID, err)
		}
		ranked[i] = model.RankedSection{Section: s, RelevanceScore: score}
	}

	slices.SortStableFunc(ranked, func(a, b model.RankedSection) int {
		return cmp.Compare(b.RelevanceScore, a.RelevanceScore)
	})
	for i := range ranked {
		ranked[i].ImportanceRank = i + 1
	}

	r.logger.Debug("sections ranked", "count", len(ranked), "top_score", ranked[0].RelevanceScore)
	return ranked, nil
}
