// Package outline provides a fluent API for extracting the heading outline
// of a PDF and splitting it into sections.
//
// Basic usage:
//
//	s, err := outline.Open("report.pdf").Structure(ctx)
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(s.Title)
//
// With options:
//
//	secs, err := outline.Open("report.pdf").
//	    Thresholds(heading.Thresholds{H1: 30, H2: 22, H3: 15}).
//	    ExcludeTables(false).
//	    Sections(ctx)
//
// The lower-level reader, structure and sections packages are available for
// callers that need more control.
package outline

import (
	"github.com/tsawler/outline/document"
)

// Open returns an Extractor for the PDF at path. Nothing is read until a
// terminal operation such as Structure is called.
func Open(path string) *Extractor {
	return &Extractor{
		path:    path,
		options: defaultOptions(),
	}
}

// FromDocument returns an Extractor over an already decoded document. The
// caller keeps ownership of doc and must close it.
func FromDocument(doc document.Document) *Extractor {
	return &Extractor{
		path:    doc.Name(),
		doc:     doc,
		options: defaultOptions(),
	}
}

// Must wraps a call returning (T, error) and panics on error. It is meant
// for scripts and tests.
//
//	s := outline.Must(outline.Open("report.pdf").Structure(ctx))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
