package report

import (
	"path/filepath"
	"time"

	"github.com/tsawler/outline/model"
	"github.com/tsawler/outline/text"
)

// AnalysisFileName is the file the ranking stage writes.
const AnalysisFileName = "analysis_output.json"

// DefaultRefinedLength is the number of characters kept in refined_text.
const DefaultRefinedLength = 300

// TruncationMarker is appended to every refined excerpt.
const TruncationMarker = "..."

// TimestampFormat is ISO 8601 with microseconds and a UTC offset.
const TimestampFormat = "2006-01-02T15:04:05.000000Z07:00"

// Metadata describes an analysis run.
type Metadata struct {
	InputDocuments      []string `json:"input_documents"`
	Persona             string   `json:"persona"`
	JobToBeDone         string   `json:"job_to_be_done"`
	ProcessingTimestamp string   `json:"processing_timestamp"`
}

// ExtractedSection is one ranked section in the analysis record.
type ExtractedSection struct {
	Document       string `json:"document"`
	PageNumber     int    `json:"page_number"`
	SectionTitle   string `json:"section_title"`
	ImportanceRank int    `json:"importance_rank"`
	RefinedText    string `json:"refined_text"`
}

// Analysis is the combined record of the ranking stage.
type Analysis struct {
	Metadata          Metadata           `json:"metadata"`
	ExtractedSections []ExtractedSection `json:"extracted_sections"`
}

// Formatter builds analysis records.
type Formatter struct {
	// RefinedLength is the excerpt length in characters. Zero or less
	// means DefaultRefinedLength.
	RefinedLength int

	// Now supplies the processing timestamp. Nil means time.Now.
	Now func() time.Time
}

// Format assembles the analysis record. docs are reported by base name.
func (f Formatter) Format(docs []string, persona, job string, ranked []model.RankedSection) Analysis {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}

	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = filepath.Base(d)
	}

	a := Analysis{
		Metadata: Metadata{
			InputDocuments:      names,
			Persona:             persona,
			JobToBeDone:         job,
			ProcessingTimestamp: now().UTC().Format(TimestampFormat),
		},
		ExtractedSections: make([]ExtractedSection, 0, len(ranked)),
	}

	for _, r := range ranked {
		a.ExtractedSections = append(a.ExtractedSections, ExtractedSection{
			Document:       r.DocumentID,
			PageNumber:     r.PageNumber,
			SectionTitle:   r.Title,
			ImportanceRank: r.ImportanceRank,
			RefinedText:    f.Refine(r.Content),
		})
	}

	return a
}

// Refine returns the first RefinedLength characters of content followed by
// the truncation marker. The marker is added even when nothing was cut.
func (f Formatter) Refine(content string) string {
	n := f.RefinedLength
	if n <= 0 {
		n = DefaultRefinedLength
	}
	return text.Truncate(content, n, TruncationMarker)
}
