package reader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/tsawler/outline/document"
	"github.com/tsawler/outline/layout"
	"github.com/tsawler/outline/tables"
)

// Options control decoding.
type Options struct {
	// Validate runs pdfcpu relaxed validation before decoding.
	Validate bool

	// TablesEnabled turns table detection on. When false, Page.Tables
	// always returns no regions.
	TablesEnabled bool

	Layout layout.Config
	Tables tables.Config

	// Logger receives per-document warnings. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns options with validation and table detection on.
func DefaultOptions() Options {
	return Options{
		Validate:      true,
		TablesEnabled: true,
		Layout:        layout.DefaultConfig(),
		Tables:        tables.DefaultConfig(),
	}
}

// source is what both ledongthuc and pdfcpu need to read a file.
type source interface {
	io.ReaderAt
	io.ReadSeeker
}

// Reader is a decoded PDF document.
type Reader struct {
	name   string
	closer io.Closer
	pages  []*Page
}

// Open decodes the PDF at path.
func Open(ctx context.Context, path string, opts Options) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &document.DecodeError{Path: path, Err: err}
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &document.DecodeError{Path: path, Err: err}
	}

	r, err := decode(ctx, path, f, info.Size(), opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// OpenBytes decodes a PDF held in memory. name is reported by Name and in
// errors.
func OpenBytes(ctx context.Context, name string, data []byte, opts Options) (*Reader, error) {
	return decode(ctx, name, bytes.NewReader(data), int64(len(data)), opts)
}

func decode(ctx context.Context, name string, src source, size int64, opts Options) (reader *Reader, err error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// ledongthuc/pdf panics on some malformed streams
	defer func() {
		if r := recover(); r != nil {
			reader = nil
			err = &document.DecodeError{Path: name, Err: fmt.Errorf("malformed pdf: %v", r)}
		}
	}()

	expected := -1
	if opts.Validate {
		n, err := pageCount(src)
		if err != nil {
			return nil, &document.DecodeError{Path: name, Err: err}
		}
		expected = n
	}

	pr, err := pdf.NewReader(src, size)
	if err != nil {
		return nil, &document.DecodeError{Path: name, Err: err}
	}

	numPages := pr.NumPage()
	if expected >= 0 && expected != numPages {
		logger.Warn("page count mismatch", "file", name, "pdfcpu", expected, "decoded", numPages)
	}

	analyzer := layout.NewAnalyzerWithConfig(opts.Layout)
	var detector tables.Detector
	if opts.TablesEnabled {
		detector = tables.NewGeometricDetectorWithConfig(opts.Tables)
	}

	reader = &Reader{name: name, pages: make([]*Page, 0, numPages)}
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := decodePage(pr.Page(i), i, analyzer, detector)
		if err != nil {
			return nil, &document.DecodeError{Path: name, Err: err}
		}
		reader.pages = append(reader.pages, page)
	}

	return reader, nil
}

// pageCount validates src in relaxed mode and returns its page count. src
// is rewound afterwards.
func pageCount(src io.ReadSeeker) (int, error) {
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed

	n, err := api.PageCount(src, conf)
	if _, serr := src.Seek(0, io.SeekStart); serr != nil && err == nil {
		err = serr
	}
	if err != nil {
		return 0, fmt.Errorf("validate: %w", err)
	}
	return n, nil
}

// Name returns the path or name the document was opened from.
func (r *Reader) Name() string { return r.name }

// PageCount returns the number of decoded pages.
func (r *Reader) PageCount() int { return len(r.pages) }

// Pages returns the pages in order.
func (r *Reader) Pages() []document.Page {
	pages := make([]document.Page, len(r.pages))
	for i, p := range r.pages {
		pages[i] = p
	}
	return pages
}

// Close releases the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// Decoder opens PDFs with fixed options.
type Decoder struct {
	opts Options
}

// NewDecoder creates a decoder.
func NewDecoder(opts Options) *Decoder {
	return &Decoder{opts: opts}
}

// Open implements document.Decoder.
func (d *Decoder) Open(ctx context.Context, path string) (document.Document, error) {
	r, err := Open(ctx, path, d.opts)
	if err != nil {
		return nil, err
	}
	return r, nil
}
