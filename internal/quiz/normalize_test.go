package quiz

import "testing"

func TestMatch(t *testing.T) {
	tests := []struct {
		name      string
		submitted string
		reference string
		want      bool
	}{
		{"exact match", "Paris", "Paris", true},
		{"no submission", "", "Paris", false},
		{"no submission against empty reference", "", "", false},
		{"trailing period on submission", "Paris.", "Paris", true},
		{"trailing comma on submission", "Paris,", "Paris", true},
		{"trailing period on reference", "Paris", "Paris.", true},
		{"trailing period on both", "Paris.", "Paris,", true},
		{"surrounding whitespace", "  Paris  ", "Paris", true},
		{"whitespace and trailing period", " Paris. ", "Paris", true},
		{"case differs", "paris", "Paris", false},
		{"only one trailing mark stripped", "Paris..", "Paris", false},
		{"interior punctuation kept", "Pa.ris", "Paris", false},
		{"interior whitespace kept", "Pa ris", "Paris", false},
		{"punctuation before trailing space survives strip order", "Paris .", "Paris", false},
		{"different answers", "London", "Paris", false},
		{"multi-word with trailing period", "the speed of light.", "the speed of light", true},
		{"unicode answer", "서울", "서울", true},
		{"unicode with trailing period", "서울.", "서울", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(tt.submitted, tt.reference)
			if got != tt.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.submitted, tt.reference, got, tt.want)
			}
		})
	}
}

func TestScrub(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Paris", "Paris"},
		{"trim only", "  Paris  ", "Paris"},
		{"strip period", "Paris.", "Paris"},
		{"strip comma", "Paris,", "Paris"},
		{"strip once", "Paris..", "Paris."},
		{"trim happens before strip", " Paris. ", "Paris"},
		{"space after period is not re-trimmed", "Paris .", "Paris "},
		{"empty", "", ""},
		{"lone period", ".", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scrub(tt.in)
			if got != tt.want {
				t.Errorf("scrub(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
