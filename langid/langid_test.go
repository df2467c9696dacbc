package langid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/outline/document"
)

func fixed(label string) Identifier {
	return IdentifierFunc(func(string, int) ([]Prediction, error) {
		return []Prediction{{Label: label, Probability: 0.9}}, nil
	})
}

func TestDetectStripsPrefix(t *testing.T) {
	d := NewDetector(fixed("__label__fr"), "", nil)
	assert.Equal(t, "fr", d.Detect("bonjour tout le monde"))
}

func TestDetectFallbacks(t *testing.T) {
	called := false
	spy := IdentifierFunc(func(string, int) ([]Prediction, error) {
		called = true
		return nil, nil
	})

	d := NewDetector(spy, "", nil)
	assert.Equal(t, "en", d.Detect("  \n "))
	assert.False(t, called, "empty sample must not reach the identifier")

	assert.Equal(t, "en", d.Detect("some text"))
	assert.True(t, called)

	failing := IdentifierFunc(func(string, int) ([]Prediction, error) {
		return nil, errors.New("model unavailable")
	})
	assert.Equal(t, "de", NewDetector(failing, "de", nil).Detect("text"))

	assert.Equal(t, "en", NewDetector(nil, "", nil).Detect("text"))
}

func TestDetectReplacesNewlines(t *testing.T) {
	var got string
	spy := IdentifierFunc(func(text string, _ int) ([]Prediction, error) {
		got = text
		return []Prediction{{Label: "__label__en"}}, nil
	})

	NewDetector(spy, "", nil).Detect("\nfirst line\nsecond line\n")
	assert.Equal(t, "first line second line", got)
}

func TestCanonical(t *testing.T) {
	tests := map[string]string{
		"en":  "en",
		"EN":  "en",
		"eng": "en",
		"jpn": "ja",
		"ja":  "ja",
		"":    "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Canonical(in), "Canonical(%q)", in)
	}
}

func TestWhatlang(t *testing.T) {
	w := NewWhatlang()

	preds, err := w.Predict("The quick brown fox jumps over the lazy dog while the farmer watches from the porch of his house.", 1)
	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.Equal(t, "__label__en", preds[0].Label)

	preds, err = w.Predict("これは日本語で書かれた文章です。今日はとても良い天気ですね。", 1)
	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.Equal(t, "__label__ja", preds[0].Label)

	preds, err = w.Predict("anything", 0)
	require.NoError(t, err)
	assert.Empty(t, preds)
}

func TestSample(t *testing.T) {
	doc := document.NewMemory("doc.pdf",
		&document.MemoryPage{Text: "page one\n"},
		&document.MemoryPage{Text: "page two\n"},
		&document.MemoryPage{Text: "page three\n"},
	)

	assert.Equal(t, "page one page two", Sample(doc, 2))
	assert.Equal(t, "page one page two page three", Sample(doc, 0))
	assert.Equal(t, "", Sample(document.NewMemory("empty.pdf"), 5))
}
