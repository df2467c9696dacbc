// Package tables locates table regions on a page.
//
// Outline extraction never scores lines that sit inside a table, so this
// package only reports where tables are, not their cell contents.
//
// # Detectors
//
// Table detection is performed by types implementing the [Detector] interface.
// [GeometricDetector] combines two strategies:
//
//  1. Ruled grids: stroked rules are split into connected groups, aligned
//     into horizontal and vertical axes by [GridDetector], and scored
//  2. Text grids: when [Config].RequireRules is false, vertically clustered
//     fragments are analyzed for row and column alignment
//
// # Configuration
//
//	config := tables.DefaultConfig()
//	config.MinRows = 3
//	detector := tables.NewGeometricDetectorWithConfig(config)
//	found, err := detector.Detect(fragments, rules)
//
// # Confidence Scoring
//
// Ruled grids are scored on cell count, regularity, border completeness and
// rule coverage. Text grids are scored on:
//
//   - Grid regularity (30%)
//   - Alignment quality (30%)
//   - Rule presence (20%)
//   - Cell occupancy (20%)
package tables
