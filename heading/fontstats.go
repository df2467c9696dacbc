package heading

import (
	"math"
	"slices"
)

// Percentile thresholds used when a document has no spans.
const (
	DefaultP90 = 10.0
	DefaultP95 = 15.0
	DefaultP99 = 20.0
)

// FontStats summarizes the font-size distribution of one document.
type FontStats struct {
	P90    float64
	P95    float64
	P99    float64
	Median float64

	// Samples is the number of sizes analyzed. Zero means the defaults
	// were substituted.
	Samples int
}

// Analyze computes percentile statistics over every span size in a
// document. Percentiles interpolate linearly between closest ranks. An
// empty input yields the default thresholds with a zero median.
func Analyze(sizes []float64) FontStats {
	if len(sizes) == 0 {
		return FontStats{P90: DefaultP90, P95: DefaultP95, P99: DefaultP99}
	}

	sorted := slices.Clone(sizes)
	slices.Sort(sorted)

	return FontStats{
		P90:     percentile(sorted, 90),
		P95:     percentile(sorted, 95),
		P99:     percentile(sorted, 99),
		Median:  percentile(sorted, 50),
		Samples: len(sorted),
	}
}

// percentile expects sorted to be non-empty and ascending.
func percentile(sorted []float64, p float64) float64 {
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
