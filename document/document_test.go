package document

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/outline/model"
)

func TestDecodeErrorUnwrap(t *testing.T) {
	cause := errors.New("bad xref")
	err := error(&DecodeError{Path: "a.pdf", Err: cause})

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsDecodeError(err))
	assert.Contains(t, err.Error(), "a.pdf")
	assert.False(t, IsDecodeError(cause))
}

func TestMemoryDecoder(t *testing.T) {
	doc := NewMemory("report.pdf", &MemoryPage{}, &MemoryPage{})
	dec := &MemoryDecoder{
		Documents: map[string]*Memory{"report.pdf": doc},
		Failures:  map[string]error{"broken.pdf": errors.New("truncated")},
	}

	got, err := dec.Open(context.Background(), "report.pdf")
	require.NoError(t, err)
	require.Len(t, got.Pages(), 2)
	assert.Equal(t, 1, got.Pages()[0].Number())
	assert.Equal(t, 2, got.Pages()[1].Number())

	_, err = dec.Open(context.Background(), "broken.pdf")
	assert.True(t, IsDecodeError(err))

	_, err = dec.Open(context.Background(), "missing.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryDecoderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&MemoryDecoder{}).Open(ctx, "x.pdf")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryPageRawText(t *testing.T) {
	page := &MemoryPage{BlockList: []model.Block{
		TextBlock(700, 12, "Helvetica", "First line", "Second line"),
	}}
	assert.Equal(t, "First line\nSecond line\n", page.RawText())

	page.Text = "explicit"
	assert.Equal(t, "explicit", page.RawText())
}

func TestFontSizes(t *testing.T) {
	doc := NewMemory("x.pdf",
		&MemoryPage{BlockList: []model.Block{
			TextBlock(700, 18, "Helvetica-Bold", "Title"),
			{Type: model.BlockImage, Lines: []model.RawLine{{Spans: []model.Span{{Text: "alt", Size: 99}}}}},
		}},
		&MemoryPage{BlockList: []model.Block{
			TextBlock(700, 10, "Helvetica", "a", "b"),
		}},
	)

	assert.Equal(t, []float64{18, 10, 10}, FontSizes(doc))
}

func TestTextBlockGeometry(t *testing.T) {
	b := TextBlock(700, 10, "Helvetica", "one", "two")
	require.Len(t, b.Lines, 2)
	assert.Greater(t, b.Lines[0].BBox.Y, b.Lines[1].BBox.Y)
	assert.Equal(t, model.BlockText, b.Type)
	assert.False(t, b.BBox.IsEmpty())
}
