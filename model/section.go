package model

// Section is the text belonging to one outline entry: the heading text
// followed by the whole-page text of the pages it spans.
type Section struct {
	DocumentID string
	PageNumber int
	Title      string
	Content    string
}

// RankedSection is a Section scored against a query.
type RankedSection struct {
	Section

	// RelevanceScore is the cosine similarity between the query and the
	// section content, in [-1, 1].
	RelevanceScore float64

	// ImportanceRank is 1-based and dense across all ranked sections.
	ImportanceRank int
}
