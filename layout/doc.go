// Package layout reconstructs text structure from positioned fragments.
//
// PDF content streams place text as independent runs with no notion of
// lines or paragraphs. This package rebuilds both:
//
//   - [MergeGlyphs] joins per-character glyphs into word fragments
//   - [LineDetector] groups fragments into lines by baseline, with a
//     tolerance that adapts to compressed coordinate systems
//   - [BlockDetector] groups lines into blocks on vertical and horizontal
//     whitespace
//
// [Analyzer] runs the whole chain and emits [model.Block] values whose lines
// carry font-homogeneous spans:
//
//	blocks := layout.NewAnalyzer().Blocks(layout.MergeGlyphs(glyphs))
//
// Coordinates follow PDF user space: Y grows upward, so "top to bottom"
// means descending Y.
package layout
