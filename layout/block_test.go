package layout

import (
	"testing"

	"github.com/tsawler/outline/model"
)

func lineAt(txt string, x, y, width, size float64) Line {
	frag := makeLineFragment(txt, x, y, width, size, size)
	return Line{
		BBox:      frag.BBox,
		Fragments: []model.TextFragment{frag},
		Baseline:  y,
		Height:    size,
	}
}

func TestBlockDetector_Empty(t *testing.T) {
	if blocks := NewBlockDetector().Group(nil); blocks != nil {
		t.Errorf("Expected nil, got %v", blocks)
	}
}

func TestBlockDetector_ParagraphStaysTogether(t *testing.T) {
	lines := []Line{
		lineAt("line one", 72, 700, 300, 12),
		lineAt("line two", 72, 686, 300, 12),
		lineAt("line three", 72, 672, 200, 12),
	}

	groups := NewBlockDetector().Group(lines)
	if len(groups) != 1 {
		t.Errorf("Expected 1 block, got %d", len(groups))
	}
}

func TestBlockDetector_VerticalGapSplits(t *testing.T) {
	lines := []Line{
		lineAt("Heading", 72, 700, 100, 12),
		lineAt("Body far below", 72, 640, 300, 12),
	}

	groups := NewBlockDetector().Group(lines)
	if len(groups) != 2 {
		t.Errorf("Expected 2 blocks, got %d", len(groups))
	}
}

func TestBlockDetector_NoHorizontalOverlapSplits(t *testing.T) {
	lines := []Line{
		lineAt("left column", 72, 700, 100, 12),
		lineAt("right column", 320, 686, 100, 12),
	}

	groups := NewBlockDetector().Group(lines)
	if len(groups) != 2 {
		t.Errorf("Expected 2 blocks, got %d", len(groups))
	}
}

func TestBlockDetector_Detect(t *testing.T) {
	lines := []Line{
		lineAt("Title", 72, 700, 100, 12),
		lineAt("Paragraph", 72, 640, 300, 12),
	}

	blocks := NewBlockDetector().Detect(lines, 0.1)
	if len(blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(blocks))
	}
	for i, b := range blocks {
		if b.Type != model.BlockText {
			t.Errorf("block %d type = %v, want text", i, b.Type)
		}
		if len(b.Lines) != 1 || b.Lines[0].BBox == nil {
			t.Errorf("block %d lines = %+v", i, b.Lines)
		}
	}
	if blocks[0].Lines[0].Spans[0].Text != "Title" {
		t.Errorf("first block text = %q", blocks[0].Lines[0].Spans[0].Text)
	}
}

func TestPageText_Empty(t *testing.T) {
	if got := PageText(nil); got != "" {
		t.Errorf("PageText(nil) = %q, want empty", got)
	}
}
