// Package reader decodes PDF files into documents for outline extraction.
//
// Glyph positions, font names, sizes and drawn rectangles come from
// github.com/ledongthuc/pdf. Before decoding, the file can be run through
// pdfcpu's relaxed validation, which rejects files that are not PDFs at all
// and reports an authoritative page count.
//
// # Opening PDF Files
//
//	doc, err := reader.Open(ctx, "report.pdf", reader.DefaultOptions())
//	if err != nil {
//	    var de *document.DecodeError
//	    ...
//	}
//	defer doc.Close()
//
// [Decoder] satisfies document.Decoder so the outline builder and batch
// pipeline can open files without knowing the format. [OpenBytes] decodes
// an in-memory upload.
//
// # Page Content
//
// Each page is decoded once, eagerly:
//
//   - glyphs are merged into words and grouped into lines and blocks by
//     the layout package
//   - RawText joins all lines, each terminated by a newline
//   - Tables runs the geometric detector over the page's words and the
//     edges of its drawn rectangles
package reader
