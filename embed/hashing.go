package embed

import (
	"context"
	"hash/fnv"
	"unicode"

	"golang.org/x/text/cases"
)

// DefaultHashingDimensions matches the width of small sentence-embedding
// models.
const DefaultHashingDimensions = 384

// Hashing embeds text locally by hashing case-folded word tokens into a
// fixed number of signed buckets. Han, kana and Hangul runs contribute
// character bigrams since they are written without spaces. Vectors are
// L2-normalised.
type Hashing struct {
	dims int
}

// NewHashing creates a hashing embedder. dims <= 0 means
// DefaultHashingDimensions.
func NewHashing(dims int) *Hashing {
	if dims <= 0 {
		dims = DefaultHashingDimensions
	}
	return &Hashing{dims: dims}
}

// Dimensions returns the vector length.
func (h *Hashing) Dimensions() int { return h.dims }

// Embed implements Embedder.
func (h *Hashing) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = h.vector(t)
	}
	return out, nil
}

func (h *Hashing) vector(text string) []float32 {
	v := make([]float32, h.dims)
	for _, tok := range Tokens(text) {
		hash := fnv.New64a()
		hash.Write([]byte(tok))
		sum := hash.Sum64()

		idx := int(sum % uint64(h.dims))
		if sum>>63 == 1 {
			v[idx]--
		} else {
			v[idx]++
		}
	}
	Normalize(v)
	return v
}

// Tokens splits text into case-folded features: runs of letters and digits
// for alphabetic scripts, and overlapping character bigrams for Han, kana and
// Hangul.
func Tokens(text string) []string {
	folded := []rune(cases.Fold().String(text))

	var tokens []string
	var word, ideo []rune

	flushWord := func() {
		if len(word) > 0 {
			tokens = append(tokens, string(word))
			word = word[:0]
		}
	}
	flushIdeo := func() {
		switch {
		case len(ideo) == 1:
			tokens = append(tokens, string(ideo))
		case len(ideo) > 1:
			for i := 0; i+1 < len(ideo); i++ {
				tokens = append(tokens, string(ideo[i:i+2]))
			}
		}
		ideo = ideo[:0]
	}

	for _, r := range folded {
		switch {
		case isIdeographic(r):
			flushWord()
			ideo = append(ideo, r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			flushIdeo()
			word = append(word, r)
		default:
			flushWord()
			flushIdeo()
		}
	}
	flushWord()
	flushIdeo()

	return tokens
}

func isIdeographic(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}
