package model

import "fmt"

// HeadingLevel is the structural role assigned to a line. Higher values rank
// above lower ones: Title > H1 > H2 > H3 > None.
type HeadingLevel int

const (
	LevelNone HeadingLevel = iota
	LevelH3
	LevelH2
	LevelH1
	LevelTitle
)

// String returns the level name used in outline records.
func (l HeadingLevel) String() string {
	switch l {
	case LevelH1:
		return "H1"
	case LevelH2:
		return "H2"
	case LevelH3:
		return "H3"
	case LevelTitle:
		return "Title"
	default:
		return ""
	}
}

// IsHeading reports whether l is one of H1, H2 or H3.
func (l HeadingLevel) IsHeading() bool {
	return l == LevelH1 || l == LevelH2 || l == LevelH3
}

// MarshalText encodes the level as its name.
func (l HeadingLevel) MarshalText() ([]byte, error) {
	if l == LevelNone {
		return nil, fmt.Errorf("heading level none has no text form")
	}
	return []byte(l.String()), nil
}

// UnmarshalText parses "H1", "H2", "H3" or "Title".
func (l *HeadingLevel) UnmarshalText(b []byte) error {
	level, err := ParseHeadingLevel(string(b))
	if err != nil {
		return err
	}
	*l = level
	return nil
}

// ParseHeadingLevel is the inverse of HeadingLevel.String.
func ParseHeadingLevel(s string) (HeadingLevel, error) {
	switch s {
	case "H1":
		return LevelH1, nil
	case "H2":
		return LevelH2, nil
	case "H3":
		return LevelH3, nil
	case "Title":
		return LevelTitle, nil
	}
	return LevelNone, fmt.Errorf("unknown heading level %q", s)
}

// OutlineEntry is one detected heading.
type OutlineEntry struct {
	Level      HeadingLevel
	Text       string
	PageNumber int
}

// DocumentStructure is the result of outline extraction for one document.
type DocumentStructure struct {
	Title    string
	Language string
	Outline  []OutlineEntry
}

// Title and language reported for a document that could not be decoded.
const (
	InvalidDocumentTitle    = "Invalid Document"
	InvalidDocumentLanguage = "unknown"
)

// InvalidDocument returns the sentinel structure used when a document could
// not be decoded.
func InvalidDocument() DocumentStructure {
	return DocumentStructure{
		Title:    InvalidDocumentTitle,
		Language: InvalidDocumentLanguage,
		Outline:  []OutlineEntry{},
	}
}

// IsInvalid reports whether s is the undecodable-document sentinel.
func (s DocumentStructure) IsInvalid() bool {
	return s.Title == InvalidDocumentTitle && s.Language == InvalidDocumentLanguage && len(s.Outline) == 0
}
