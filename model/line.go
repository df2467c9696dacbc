package model

import "strings"

// Span is a run of text inside a line that shares one font and size.
type Span struct {
	Text string
	Size float64
	Font string
}

// RawLine is a decoder's view of a single visual line. BBox is nil when the
// decoder could not place the line on the page.
type RawLine struct {
	Spans []Span
	BBox  *BBox
}

// BlockType discriminates text blocks from image or other non-text blocks.
type BlockType int

const (
	BlockText BlockType = iota
	BlockImage
)

// Block is an ordered group of lines the decoder considers one paragraph-like
// region.
type Block struct {
	Type  BlockType
	Lines []RawLine
	BBox  BBox
}

// Line is the normalized form of a RawLine. It is built once per raw line
// and never modified afterwards.
type Line struct {
	// Text is the concatenation of all span texts with outer whitespace trimmed.
	Text string

	// PageNumber is 1-based.
	PageNumber int

	// BBox is nil when the raw line had no bounding box.
	BBox *BBox

	// FontSize and FontName come from the first span only. Spans inside one
	// visual line are treated as font-homogeneous.
	FontSize float64
	FontName string

	// IsBold is a case-insensitive "bold" match on FontName.
	IsBold bool

	spanCount int
}

// NewLine derives a Line from a raw decoder record.
func NewLine(raw RawLine, pageNumber int) Line {
	var sb strings.Builder
	for _, s := range raw.Spans {
		sb.WriteString(s.Text)
	}

	line := Line{
		Text:       strings.TrimSpace(sb.String()),
		PageNumber: pageNumber,
		spanCount:  len(raw.Spans),
	}

	if raw.BBox != nil {
		bbox := *raw.BBox
		line.BBox = &bbox
	}

	if len(raw.Spans) > 0 {
		line.FontSize = raw.Spans[0].Size
		line.FontName = raw.Spans[0].Font
		line.IsBold = strings.Contains(strings.ToLower(line.FontName), "bold")
	}

	return line
}

// IsValid reports whether the line has text, at least one span and a
// bounding box. Invalid lines never reach the scorer.
func (l Line) IsValid() bool {
	return l.Text != "" && l.spanCount > 0 && l.BBox != nil
}

// IsInBBoxes reports whether the line's box is enclosed by any of boxes.
// A line without a box is never considered enclosed.
func (l Line) IsInBBoxes(boxes []BBox, tolerance float64) bool {
	if l.BBox == nil {
		return false
	}
	for _, b := range boxes {
		if b.ContainsBBox(*l.BBox, tolerance) {
			return true
		}
	}
	return false
}
