// Package langid identifies the language of a text sample.
//
// Identifiers return ranked predictions labelled "__label__<code>", the
// format of fastText language models. [Detector] strips the label prefix,
// canonicalises the code and falls back to a default for empty samples.
package langid

import (
	"log/slog"
	"strings"

	"golang.org/x/text/language"

	"github.com/tsawler/outline/document"
)

// LabelPrefix precedes every predicted language code.
const LabelPrefix = "__label__"

// DefaultLanguage is reported when nothing can be detected.
const DefaultLanguage = "en"

// DefaultSamplePages is the number of leading pages sampled for detection.
const DefaultSamplePages = 5

// Prediction is one ranked language guess.
type Prediction struct {
	Label       string
	Probability float64
}

// Identifier predicts the k most likely languages of a text.
type Identifier interface {
	Predict(text string, k int) ([]Prediction, error)
}

// IdentifierFunc adapts a function to the Identifier interface.
type IdentifierFunc func(text string, k int) ([]Prediction, error)

// Predict calls f.
func (f IdentifierFunc) Predict(text string, k int) ([]Prediction, error) {
	return f(text, k)
}

// Detector turns identifier output into a single language code.
type Detector struct {
	id       Identifier
	fallback string
	logger   *slog.Logger
}

// NewDetector creates a detector. An empty fallback means DefaultLanguage;
// a nil logger means slog.Default().
func NewDetector(id Identifier, fallback string, logger *slog.Logger) *Detector {
	if fallback == "" {
		fallback = DefaultLanguage
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{id: id, fallback: fallback, logger: logger}
}

// Detect returns the language code of sample. Empty samples, identifier
// errors and empty predictions yield the fallback.
func (d *Detector) Detect(sample string) string {
	sample = strings.TrimSpace(strings.ReplaceAll(sample, "\n", " "))
	if sample == "" || d.id == nil {
		return d.fallback
	}

	preds, err := d.id.Predict(sample, 1)
	if err != nil {
		d.logger.Warn("language identification failed", "error", err)
		return d.fallback
	}
	if len(preds) == 0 {
		return d.fallback
	}

	code := Canonical(strings.TrimPrefix(preds[0].Label, LabelPrefix))
	if code == "" {
		return d.fallback
	}

	d.logger.Info("detected language", "lang", code)
	return code
}

// Canonical normalises a language code to its shortest BCP 47 base, so
// "jpn" and "JA" both become "ja". Unparseable codes are returned lower-cased.
func Canonical(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	tag, err := language.All.Parse(code)
	if err != nil {
		return strings.ToLower(code)
	}
	base, _ := tag.Base()
	return base.String()
}

// Sample concatenates the raw text of the first n pages of doc with
// newlines replaced by spaces. n <= 0 means DefaultSamplePages.
func Sample(doc document.Document, n int) string {
	if n <= 0 {
		n = DefaultSamplePages
	}

	var sb strings.Builder
	for i, p := range doc.Pages() {
		if i >= n {
			break
		}
		sb.WriteString(p.RawText())
	}

	return strings.TrimSpace(strings.ReplaceAll(sb.String(), "\n", " "))
}
