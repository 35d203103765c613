package quiz

import (
	"testing"

	"github.com/quizdeck/quizdeck/internal/model"
)

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name        string
		question    model.Question
		wantMode    Mode
		wantOptions []string
	}{
		{
			"multiple choice with options",
			model.Question{Type: model.TypeMultipleChoice, Options: []string{"a", "b", "c"}},
			ModeSelection,
			[]string{"a", "b", "c"},
		},
		{
			"multiple choice without options falls back to free text",
			model.Question{Type: model.TypeMultipleChoice},
			ModeFreeText,
			nil,
		},
		{
			"ox with explicit options",
			model.Question{Type: model.TypeOX, Options: []string{"True", "False"}},
			ModeSelection,
			[]string{"True", "False"},
		},
		{
			"ox without options defaults to O and X",
			model.Question{Type: model.TypeOX},
			ModeSelection,
			[]string{"O", "X"},
		},
		{
			"short answer ignores options",
			model.Question{Type: model.TypeShortAnswer, Options: []string{"a"}},
			ModeFreeText,
			nil,
		},
		{
			"creativity",
			model.Question{Type: model.TypeCreativity},
			ModeFreeText,
			nil,
		},
		{
			"unknown type degrades to free text",
			model.Question{Type: "essay", Options: []string{"a"}},
			ModeFreeText,
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, options := ResolveMode(tt.question)
			if mode != tt.wantMode {
				t.Errorf("ResolveMode() mode = %q, want %q", mode, tt.wantMode)
			}
			if len(options) != len(tt.wantOptions) {
				t.Fatalf("ResolveMode() options = %v, want %v", options, tt.wantOptions)
			}
			for i := range options {
				if options[i] != tt.wantOptions[i] {
					t.Errorf("ResolveMode() options[%d] = %q, want %q", i, options[i], tt.wantOptions[i])
				}
			}
		})
	}
}

func TestResolveModeIsStable(t *testing.T) {
	q := model.Question{Type: model.TypeOX}
	first, firstOpts := ResolveMode(q)
	second, secondOpts := ResolveMode(q)
	if first != second || len(firstOpts) != len(secondOpts) {
		t.Error("resolving the same question twice should give the same result")
	}
}
