package outline

import (
	"log/slog"

	"github.com/tsawler/outline/document"
	"github.com/tsawler/outline/heading"
	"github.com/tsawler/outline/langid"
)

// extractOptions holds the configuration collected by an Extractor chain.
type extractOptions struct {
	heading       heading.Config
	excludeTables bool
	tolerance     float64
	language      string // fixed language, skips detection when set
	samplePages   int
	decoder       document.Decoder
	logger        *slog.Logger
}

func defaultOptions() extractOptions {
	return extractOptions{
		heading:       heading.DefaultConfig(),
		excludeTables: true,
		samplePages:   langid.DefaultSamplePages,
	}
}

// clone copies the options. Every field is a value or an immutable
// reference, so a shallow copy suffices.
func (o extractOptions) clone() extractOptions {
	return o
}
