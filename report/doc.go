// Package report assembles and writes the JSON records produced by both
// stages: the per-document outline and the combined persona analysis.
//
// Records are encoded with two-space indentation and without HTML escaping,
// so non-ASCII headings are written as-is. Both record shapes are described
// by embedded JSON schemas that writers validate against before touching
// the filesystem.
package report
