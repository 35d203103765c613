package ai

import (
	"testing"

	"github.com/quizdeck/quizdeck/internal/model"
)

func TestParseEvaluation(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantGrade    model.Grade
		wantFeedback string
		wantErr      bool
	}{
		{
			"valid response",
			`{"grade": "B", "feedback": "Close, but you dropped the key term."}`,
			model.GradeB,
			"Close, but you dropped the key term.",
			false,
		},
		{
			"lowercase grade is normalized",
			`{"grade": "a", "feedback": "Spot on."}`,
			model.GradeA,
			"Spot on.",
			false,
		},
		{
			"padded grade is trimmed",
			`{"grade": " C ", "feedback": " halfway there "}`,
			model.GradeC,
			"halfway there",
			false,
		},
		{"unknown grade", `{"grade": "F", "feedback": "no"}`, "", "", true},
		{"empty grade", `{"grade": "", "feedback": "no"}`, "", "", true},
		{"not json", `the answer deserves a B`, "", "", true},
		{"wrong shape", `{"score": 7}`, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseEvaluation(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("parseEvaluation() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseEvaluation() error = %v", err)
			}
			if got.Grade != tt.wantGrade {
				t.Errorf("grade = %q, want %q", got.Grade, tt.wantGrade)
			}
			if got.Feedback != tt.wantFeedback {
				t.Errorf("feedback = %q, want %q", got.Feedback, tt.wantFeedback)
			}
		})
	}
}

func TestNewRejectsUnknownVariant(t *testing.T) {
	if _, err := New("", "key", "some-model", "harsh"); err == nil {
		t.Error("New() with unknown variant should fail")
	}
}

func TestNewLoadsEmbeddedTemplates(t *testing.T) {
	e, err := New("http://localhost:11434/v1", "key", "some-model", "standard")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if e.variant != "standard" {
		t.Errorf("variant = %q, want standard", e.variant)
	}
	if e.model != "some-model" {
		t.Errorf("model = %q, want some-model", e.model)
	}
}
