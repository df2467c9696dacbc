// Package heading classifies lines as headings.
//
// Classification is a flat weighted sum of independent signals:
//
//   - line length, decaying linearly to zero at 100 characters
//   - font size measured against document-wide percentiles ([FontStats])
//   - a bold font
//   - a numbered-outline prefix ("1.", "2.3.1", and for Japanese "第3")
//   - a penalty for lines ending in a period
//
// The resulting score is mapped to H1, H2 or H3 by descending thresholds.
// Weights and thresholds are carried in a [Config] so corpora can be
// retuned without code changes:
//
//	stats := heading.Analyze(document.FontSizes(doc))
//	scorer := heading.NewScorer(stats, "en", heading.DefaultConfig())
//	level := scorer.Level(scorer.Score(line))
package heading
