package rank

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/outline/embed"
	"github.com/tsawler/outline/model"
)

// lookup embeds texts by table; unknown texts get the zero vector.
func lookup(table map[string][]float32) embed.Func {
	return func(_ context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i, t := range texts {
			if v, ok := table[t]; ok {
				out[i] = v
			} else {
				out[i] = []float32{0, 0}
			}
		}
		return out, nil
	}
}

func section(doc, content string) model.Section {
	return model.Section{DocumentID: doc, PageNumber: 1, Title: content, Content: content}
}

func titles(ranked []model.RankedSection) []string {
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.Title
	}
	return out
}

func TestQuery(t *testing.T) {
	assert.Equal(t, "Persona: Travel Planner. Task: Plan a trip", Query("Travel Planner", "Plan a trip"))
}

func TestRank(t *testing.T) {
	q := Query("p", "j")
	e := lookup(map[string][]float32{
		q:      {1, 0},
		"far":  {0, 1},
		"near": {1, 0.1},
		"mid":  {1, 1},
	})

	ranked, err := NewRanker(e, nil).Rank(context.Background(), q, []model.Section{
		section("a.pdf", "far"),
		section("a.pdf", "near"),
		section("b.pdf", "mid"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"near", "mid", "far"}, titles(ranked))
	for i, r := range ranked {
		assert.Equal(t, i+1, r.ImportanceRank)
	}
	assert.InDelta(t, 0.0, ranked[2].RelevanceScore, 1e-9)
	assert.Greater(t, ranked[0].RelevanceScore, ranked[1].RelevanceScore)
}

func TestRankTiesKeepInputOrder(t *testing.T) {
	q := "q"
	e := lookup(map[string][]float32{
		q:   {1, 0},
		"x": {1, 0},
		"y": {2, 0},
		"z": {0, 1},
		"w": {3, 0},
	})

	ranked, err := NewRanker(e, nil).Rank(context.Background(), q, []model.Section{
		section("a.pdf", "z"),
		section("a.pdf", "x"),
		section("b.pdf", "y"),
		section("b.pdf", "w"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "w", "z"}, titles(ranked))
	assert.Equal(t, []int{1, 2, 3, 4}, []int{ranked[0].ImportanceRank, ranked[1].ImportanceRank, ranked[2].ImportanceRank, ranked[3].ImportanceRank})
}

func TestRankNoSectionsSkipsEmbedder(t *testing.T) {
	called := false
	e := embed.Func(func(context.Context, []string) ([][]float32, error) {
		called = true
		return nil, nil
	})

	ranked, err := NewRanker(e, nil).Rank(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)
	assert.False(t, called)
}

func TestRankBatchesOnce(t *testing.T) {
	calls := 0
	e := embed.Func(func(_ context.Context, texts []string) ([][]float32, error) {
		calls++
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = []float32{1}
		}
		return out, nil
	})

	_, err := NewRanker(e, nil).Rank(context.Background(), "q", []model.Section{
		section("a.pdf", "1"), section("a.pdf", "2"), section("a.pdf", "3"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRankErrors(t *testing.T) {
	boom := errors.New("offline")
	failing := embed.Func(func(context.Context, []string) ([][]float32, error) { return nil, boom })

	_, err := NewRanker(failing, nil).Rank(context.Background(), "q", []model.Section{section("a", "x")})
	assert.ErrorIs(t, err, boom)

	short := embed.Func(func(context.Context, []string) ([][]float32, error) { return [][]float32{{1}}, nil })
	_, err = NewRanker(short, nil).Rank(context.Background(), "q", []model.Section{section("a", "x")})
	assert.Error(t, err)

	mismatch := embed.Func(func(context.Context, []string) ([][]float32, error) {
		return [][]float32{{1, 0}, {1}}, nil
	})
	_, err = NewRanker(mismatch, nil).Rank(context.Background(), "q", []model.Section{section("a", "x")})
	assert.ErrorIs(t, err, embed.ErrDimensionMismatch)
}

func TestRankMatchesPerSectionEmbedding(t *testing.T) {
	h := embed.NewHashing(0)
	q := Query("student", "study organic chemistry reaction kinetics")
	sections := []model.Section{
		section("a.pdf", "reaction kinetics and rate laws in organic chemistry"),
		section("a.pdf", "history of the roman empire"),
		section("b.pdf", "organic chemistry lab safety"),
	}

	batched, err := NewRanker(h, nil).Rank(context.Background(), q, sections)
	require.NoError(t, err)

	single := embed.Func(func(ctx context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i, t := range texts {
			v, err := h.Embed(ctx, []string{t})
			if err != nil {
				return nil, err
			}
			out[i] = v[0]
		}
		return out, nil
	})
	oneByOne, err := NewRanker(single, nil).Rank(context.Background(), q, sections)
	require.NoError(t, err)

	assert.Equal(t, titles(batched), titles(oneByOne))
	assert.Equal(t, "reaction kinetics and rate laws in organic chemistry", batched[0].Title)
}
