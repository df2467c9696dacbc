package reader

import (
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/outline/layout"
	"github.com/tsawler/outline/model"
	"github.com/tsawler/outline/tables"
)

// Page is one decoded page.
type Page struct {
	number    int
	blocks    []model.Block
	text      string
	fragments []model.TextFragment
	rules     []model.Rule

	detector  tables.Detector
	tableOnce sync.Once
	regions   []model.BBox
	tableErr  error
}

func decodePage(p pdf.Page, number int, analyzer *layout.Analyzer, detector tables.Detector) (*Page, error) {
	page := &Page{number: number, detector: detector}
	if p.V.IsNull() {
		return page, nil
	}

	content := p.Content()

	glyphs := make([]model.TextFragment, 0, len(content.Text))
	for _, t := range content.Text {
		if t.S == "" {
			continue
		}
		glyphs = append(glyphs, model.TextFragment{
			Text:     t.S,
			BBox:     model.NewBBox(t.X, t.Y, t.W, t.FontSize),
			FontSize: t.FontSize,
			FontName: baseFontName(t.Font),
		})
	}

	page.fragments = layout.MergeGlyphs(glyphs)
	page.blocks = analyzer.Blocks(page.fragments)
	page.text = layout.PageText(page.blocks)

	for _, r := range content.Rect {
		page.rules = append(page.rules, rectRules(r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)...)
	}

	return page, nil
}

// Number returns the 1-based page number.
func (p *Page) Number() int { return p.number }

// Blocks returns the page's text blocks, top to bottom.
func (p *Page) Blocks() []model.Block { return p.blocks }

// RawText returns the page's text, one line per text line.
func (p *Page) RawText() string { return p.text }

// Rules returns the ruling lines drawn on the page.
func (p *Page) Rules() []model.Rule { return p.rules }

// Tables returns the bounding boxes of detected tables. Detection runs on
// first call.
func (p *Page) Tables() ([]model.BBox, error) {
	if p.detector == nil {
		return nil, nil
	}
	p.tableOnce.Do(func() {
		found, err := p.detector.Detect(p.fragments, p.rules)
		if err != nil {
			p.tableErr = err
			return
		}
		p.regions = tables.Regions(found)
	})
	return p.regions, p.tableErr
}

// baseFontName strips the six-letter subset tag, e.g. "ABCDEF+Arial-Bold"
// becomes "Arial-Bold".
func baseFontName(name string) string {
	if i := strings.IndexByte(name, '+'); i == 6 {
		return name[i+1:]
	}
	return name
}
