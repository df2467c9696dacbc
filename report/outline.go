package report

import (
	"path/filepath"
	"strings"

	"github.com/tsawler/outline/model"
)

// OutlineItem is one heading in an outline record.
type OutlineItem struct {
	Level model.HeadingLevel `json:"level"`
	Text  string             `json:"text"`
	Page  int                `json:"page"`
}

// Outline is the per-document record of the outline stage.
type Outline struct {
	Title    string        `json:"title"`
	Language string        `json:"language"`
	Outline  []OutlineItem `json:"outline"`
}

// NewOutline converts a document structure to its output record.
func NewOutline(s model.DocumentStructure) Outline {
	rec := Outline{
		Title:    s.Title,
		Language: s.Language,
		Outline:  make([]OutlineItem, 0, len(s.Outline)),
	}
	for _, e := range s.Outline {
		rec.Outline = append(rec.Outline, OutlineItem{Level: e.Level, Text: e.Text, Page: e.PageNumber})
	}
	return rec
}

// OutlineFileName returns the output file name for a source document: its
// base name with the extension replaced by ".json".
func OutlineFileName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".json"
}
