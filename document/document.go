// Package document defines the decoder collaborator consumed by outline
// extraction: a Decoder opens a source file into a Document, whose Pages
// expose text blocks, whole-page text and detected table regions.
//
// The PDF implementation lives in the reader package. Memory provides an
// in-process implementation for tests and for callers that already hold
// decoded layout.
package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/tsawler/outline/model"
)

// Decoder opens documents by path.
type Decoder interface {
	Open(ctx context.Context, path string) (Document, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(ctx context.Context, path string) (Document, error)

// Open calls f.
func (f DecoderFunc) Open(ctx context.Context, path string) (Document, error) {
	return f(ctx, path)
}

// Document is a decoded, read-only document.
type Document interface {
	// Name is the path or name the document was opened from.
	Name() string

	// Pages returns the pages in reading order.
	Pages() []Page

	Close() error
}

// Page is a single decoded page.
type Page interface {
	// Number is 1-based.
	Number() int

	// Blocks returns the page's blocks top to bottom.
	Blocks() []model.Block

	// RawText returns the whole-page text with lines separated by "\n".
	RawText() string

	// Tables returns regions detected as tables. Lines enclosed by one of
	// these regions are never scored.
	Tables() ([]model.BBox, error)
}

// ErrNotFound is returned when a decoder has no document for a path.
var ErrNotFound = errors.New("document not found")

// DecodeError reports a document that could not be opened or decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDecodeError reports whether err is or wraps a *DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// FontSizes returns the size of every span of every text block in doc, in
// document order.
func FontSizes(doc Document) []float64 {
	var sizes []float64
	for _, p := range doc.Pages() {
		for _, b := range p.Blocks() {
			if b.Type != model.BlockText {
				continue
			}
			for _, l := range b.Lines {
				for _, s := range l.Spans {
					sizes = append(sizes, s.Size)
				}
			}
		}
	}
	return sizes
}
