// Package model provides the value types that flow between the outline and
// ranking stages.
//
// # Lines
//
// A [RawLine] is what a document decoder hands over: a list of [Span] values
// and an optional bounding box. [NewLine] normalizes it into a [Line] with the
// derived attributes the heading scorer consumes:
//
//	line := model.NewLine(raw, pageNumber)
//	if !line.IsValid() {
//	    // dropped before scoring
//	}
//
// # Outlines
//
// A [DocumentStructure] holds the detected title, the detected language and
// an ordered list of [OutlineEntry] values. Heading levels are represented by
// [HeadingLevel], which orders Title above H1 above H2 above H3.
//
// # Sections
//
// A [Section] is the text that belongs to one outline entry. Once scored
// against a query it becomes a [RankedSection].
//
// # Geometry
//
// [BBox] uses PDF user space (origin bottom-left, Y grows upward). Table
// exclusion relies on [BBox.ContainsBBox], which accepts a tolerance so that
// approximate table regions can still swallow the lines they enclose.
package model
