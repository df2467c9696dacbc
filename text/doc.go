// Package text normalises extracted text for output.
//
// [Clean] turns a raw PDF line into the form written to outlines: trimmed,
// whitespace collapsed, control characters removed and NFC-composed, so
// that decomposed accents from some PDF producers compare equal to their
// precomposed forms.
//
//	text.Clean("  Café\tMenu ") // "Café Menu"
//
// [Truncate] shortens section content to a fixed number of runes, never
// splitting a multi-byte character.
package text
