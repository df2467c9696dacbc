package text

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"trim", "  Introduction  ", "Introduction"},
		{"collapse whitespace", "1.\t Scope \n of   work", "1. Scope of work"},
		{"unicode spaces", "A\u3000\u00a0B", "A B"},
		{"control characters", "Head\x00ing\x07", "Heading"},
		{"zero width space dropped", "Sum\u200bmary", "Summary"},
		{"nfc composition", "Cafe\u0301", "Caf\u00e9"},
		{"japanese kept", "第1章 概要", "第1章 概要"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"shorter than limit still marked", "short", 10, "short..."},
		{"exact length", "abcde", 5, "abcde..."},
		{"cut", "abcdefgh", 3, "abc..."},
		{"multibyte runes", "日本語のテキスト", 3, "日本語..."},
		{"zero", "abc", 0, "..."},
		{"negative treated as zero", "abc", -1, "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.n, "..."); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}
