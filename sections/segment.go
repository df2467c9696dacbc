// Package sections splits a document's outline into text sections.
//
// Each heading owns whole pages: from its own page up to the page before the
// next heading's page, or to the end of the document for the last heading.
// When consecutive headings share a page, each still receives that page's
// full text.
package sections

import (
	"path/filepath"
	"strings"

	"github.com/tsawler/outline/document"
	"github.com/tsawler/outline/model"
)

// Segment builds one section per outline entry. pages holds the raw text of
// every page in order; documentID names the source document.
func Segment(documentID string, s model.DocumentStructure, pages []string) []model.Section {
	if len(s.Outline) == 0 {
		return nil
	}

	out := make([]model.Section, 0, len(s.Outline))
	for i, entry := range s.Outline {
		start := entry.PageNumber - 1
		end := len(pages) - 1
		if i+1 < len(s.Outline) {
			end = max(start, s.Outline[i+1].PageNumber-2)
		}

		var sb strings.Builder
		sb.WriteString(entry.Text)
		for p := max(start, 0); p <= end && p < len(pages); p++ {
			sb.WriteString(pages[p])
		}

		out = append(out, model.Section{
			DocumentID: documentID,
			PageNumber: entry.PageNumber,
			Title:      entry.Text,
			Content:    sb.String(),
		})
	}

	return out
}

// FromDocument segments doc using its page text. Sections are attributed to
// the base name of the document.
func FromDocument(doc document.Document, s model.DocumentStructure) []model.Section {
	pages := doc.Pages()
	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.RawText()
	}
	return Segment(filepath.Base(doc.Name()), s, texts)
}
