package document

import (
	"context"
	"strings"

	"github.com/tsawler/outline/model"
)

// MemoryPage is a Page backed by plain values.
type MemoryPage struct {
	PageNumber int
	BlockList  []model.Block
	Text       string
	TableBoxes []model.BBox
	TableErr   error
}

func (p *MemoryPage) Number() int { return p.PageNumber }

func (p *MemoryPage) Blocks() []model.Block { return p.BlockList }

// RawText returns Text when set, otherwise the text of every line, each
// terminated by a newline.
func (p *MemoryPage) RawText() string {
	if p.Text != "" {
		return p.Text
	}
	var lines []string
	for _, b := range p.BlockList {
		for _, l := range b.Lines {
			var sb strings.Builder
			for _, s := range l.Spans {
				sb.WriteString(s.Text)
			}
			lines = append(lines, sb.String())
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func (p *MemoryPage) Tables() ([]model.BBox, error) {
	return p.TableBoxes, p.TableErr
}

// Memory is a Document backed by in-memory pages.
type Memory struct {
	Path     string
	PageList []*MemoryPage
	closed   bool
}

// NewMemory builds a Memory document and numbers its pages from 1 in the
// order given, overriding any PageNumber already set.
func NewMemory(path string, pages ...*MemoryPage) *Memory {
	for i, p := range pages {
		p.PageNumber = i + 1
	}
	return &Memory{Path: path, PageList: pages}
}

func (m *Memory) Name() string { return m.Path }

func (m *Memory) Pages() []Page {
	pages := make([]Page, len(m.PageList))
	for i, p := range m.PageList {
		pages[i] = p
	}
	return pages
}

func (m *Memory) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (m *Memory) Closed() bool { return m.closed }

// MemoryDecoder serves Memory documents by path. Paths listed in Failures
// fail with a *DecodeError wrapping the mapped error.
type MemoryDecoder struct {
	Documents map[string]*Memory
	Failures  map[string]error
}

func (d *MemoryDecoder) Open(ctx context.Context, path string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := d.Failures[path]; ok {
		return nil, &DecodeError{Path: path, Err: err}
	}
	doc, ok := d.Documents[path]
	if !ok {
		return nil, &DecodeError{Path: path, Err: ErrNotFound}
	}
	return doc, nil
}

// TextBlock is a convenience constructor for a single-line-per-entry text
// block. Each line is placed at the given y coordinate, descending by
// fontSize*1.2 per line, with a fixed left margin.
func TextBlock(y float64, fontSize float64, font string, lines ...string) model.Block {
	block := model.Block{Type: model.BlockText}
	var boxes []model.BBox
	for i, text := range lines {
		box := model.NewBBox(72, y-float64(i)*fontSize*1.2, float64(len(text))*fontSize*0.5, fontSize)
		boxes = append(boxes, box)
		block.Lines = append(block.Lines, model.RawLine{
			Spans: []model.Span{{Text: text, Size: fontSize, Font: font}},
			BBox:  &box,
		})
	}
	if union, ok := model.UnionAll(boxes); ok {
		block.BBox = union
	}
	return block
}
