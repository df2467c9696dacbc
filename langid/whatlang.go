package langid

import (
	"github.com/abadojack/whatlanggo"
)

// Whatlang identifies languages with trigram profiles from whatlanggo. It
// returns at most one prediction regardless of k.
type Whatlang struct {
	opts whatlanggo.Options
}

// NewWhatlang creates an identifier that considers every supported language.
func NewWhatlang() *Whatlang {
	return &Whatlang{}
}

// NewWhatlangWithOptions creates an identifier restricted by opts.
func NewWhatlangWithOptions(opts whatlanggo.Options) *Whatlang {
	return &Whatlang{opts: opts}
}

// Predict implements Identifier.
func (w *Whatlang) Predict(text string, k int) ([]Prediction, error) {
	if k < 1 {
		return nil, nil
	}

	info := whatlanggo.DetectWithOptions(text, w.opts)
	if info.Lang < 0 {
		return nil, nil
	}

	code := Canonical(info.Lang.Iso6393())
	if code == "" {
		return nil, nil
	}

	return []Prediction{{Label: LabelPrefix + code, Probability: info.Confidence}}, nil
}
