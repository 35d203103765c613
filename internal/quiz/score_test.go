package quiz

import (
	"testing"

	"github.com/quizdeck/quizdeck/internal/model"
)

func TestCreditFor(t *testing.T) {
	tests := []struct {
		name         string
		grade        model.Grade
		wantFraction float64
		wantCorrect  bool
	}{
		{"A is full credit", model.GradeA, 1.0, true},
		{"B", model.GradeB, 0.75, true},
		{"C", model.GradeC, 0.5, true},
		{"D earns credit but counts incorrect", model.GradeD, 0.25, false},
		{"E", model.GradeE, 0, false},
		{"unset grade", "", 0, false},
		{"unknown grade", "F", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := creditFor(tt.grade)
			if c.fraction != tt.wantFraction {
				t.Errorf("creditFor(%q).fraction = %v, want %v", tt.grade, c.fraction, tt.wantFraction)
			}
			if c.correct != tt.wantCorrect {
				t.Errorf("creditFor(%q).correct = %v, want %v", tt.grade, c.correct, tt.wantCorrect)
			}
		})
	}
}

func TestBuildReportSingleGradedQuestion(t *testing.T) {
	questions := []model.Question{
		{Type: model.TypeShortAnswer, Question: "Describe rain", Answer: "Water falling from clouds"},
	}

	tests := []struct {
		name        string
		grade       model.Grade
		wantScore   float64
		wantCorrect int
	}{
		{"grade A", model.GradeA, 100, 1},
		{"grade B", model.GradeB, 75, 1},
		{"grade C", model.GradeC, 50, 1},
		{"grade D scores but is not correct", model.GradeD, 25, 0},
		{"grade E", model.GradeE, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			states := []questionState{
				{answer: "my answer", answered: true, checked: true, grade: tt.grade},
			}
			r := buildReport(questions, states)
			if r.ScorePercentage != tt.wantScore {
				t.Errorf("ScorePercentage = %v, want %v", r.ScorePercentage, tt.wantScore)
			}
			if r.CorrectCount != tt.wantCorrect {
				t.Errorf("CorrectCount = %d, want %d", r.CorrectCount, tt.wantCorrect)
			}
			if r.QuestionCount != 1 {
				t.Errorf("QuestionCount = %d, want 1", r.QuestionCount)
			}
			wantCorrectness := tt.wantCorrect == 1
			if r.Correctness[0] != wantCorrectness {
				t.Errorf("Correctness[0] = %v, want %v", r.Correctness[0], wantCorrectness)
			}
		})
	}
}

func TestBuildReportAutoGraded(t *testing.T) {
	questions := []model.Question{
		{Type: model.TypeMultipleChoice, Answer: "b", Options: []string{"a", "b"}},
		{Type: model.TypeOX, Answer: "O"},
		{Type: model.TypeMultipleChoice, Answer: "Paris"},
	}
	states := []questionState{
		{answer: "b", answered: true, checked: true},
		{answer: "X", answered: true, checked: true},
		{answer: "Paris.", answered: true, checked: true},
	}

	r := buildReport(questions, states)
	if r.ScorePercentage < 66.6 || r.ScorePercentage > 66.7 {
		t.Errorf("ScorePercentage = %v, want about 66.67", r.ScorePercentage)
	}
	if r.CorrectCount != 2 {
		t.Errorf("CorrectCount = %d, want 2", r.CorrectCount)
	}
	want := []bool{true, false, true}
	for i, w := range want {
		if r.Correctness[i] != w {
			t.Errorf("Correctness[%d] = %v, want %v", i, r.Correctness[i], w)
		}
	}
}

func TestBuildReportMixed(t *testing.T) {
	questions := []model.Question{
		{Type: model.TypeMultipleChoice, Answer: "b", Options: []string{"a", "b"}},
		{Type: model.TypeShortAnswer, Answer: "reference"},
		{Type: model.TypeCreativity, Answer: "reference"},
		{Type: model.TypeOX, Answer: "O"},
	}
	states := []questionState{
		{answer: "b", answered: true, checked: true},
		{answer: "free text", answered: true, checked: true, grade: model.GradeB},
		{answer: "an essay", answered: true, checked: true, grade: model.GradeD},
		{answer: "O", answered: true, checked: true},
	}

	// 1.0 + 0.75 + 0.25 + 1.0 out of 4 questions.
	r := buildReport(questions, states)
	if r.ScorePercentage != 75 {
		t.Errorf("ScorePercentage = %v, want 75", r.ScorePercentage)
	}
	if r.CorrectCount != 3 {
		t.Errorf("CorrectCount = %d, want 3", r.CorrectCount)
	}
	wantAnswers := []string{"b", "free text", "an essay", "O"}
	for i, w := range wantAnswers {
		if r.Answers[i] != w {
			t.Errorf("Answers[%d] = %q, want %q", i, r.Answers[i], w)
		}
	}
	wantCorrectness := []bool{true, true, false, true}
	for i, w := range wantCorrectness {
		if r.Correctness[i] != w {
			t.Errorf("Correctness[%d] = %v, want %v", i, r.Correctness[i], w)
		}
	}
}

func TestBuildReportGradeIgnoredForAutoTypes(t *testing.T) {
	// A stray grade on an auto-graded question must not affect scoring.
	questions := []model.Question{
		{Type: model.TypeMultipleChoice, Answer: "b", Options: []string{"a", "b"}},
	}
	states := []questionState{
		{answer: "a", answered: true, checked: true, grade: model.GradeA},
	}

	r := buildReport(questions, states)
	if r.ScorePercentage != 0 {
		t.Errorf("ScorePercentage = %v, want 0", r.ScorePercentage)
	}
	if r.Correctness[0] {
		t.Error("mismatched selection should stay incorrect regardless of grade")
	}
}

func TestBuildReportEmpty(t *testing.T) {
	r := buildReport(nil, nil)
	if r.ScorePercentage != 0 {
		t.Errorf("ScorePercentage = %v, want 0", r.ScorePercentage)
	}
	if r.QuestionCount != 0 || r.CorrectCount != 0 {
		t.Errorf("counts = %d/%d, want 0/0", r.CorrectCount, r.QuestionCount)
	}
	if len(r.Answers) != 0 || len(r.Correctness) != 0 {
		t.Error("empty input should produce empty vectors")
	}
}
