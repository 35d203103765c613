package quiz

import "github.com/quizdeck/quizdeck/internal/model"

// credit is the scoring weight of one letter grade.
type credit struct {
	fraction float64
	correct  bool
}

// gradeCredits maps self-assigned grades onto earned score fraction and
// whether the answer counts as correct in the tally. D earns partial
// credit while counting as incorrect; that boundary is part of the rubric
// users have been graded under and must not change.
var gradeCredits = map[model.Grade]credit{
	model.GradeA: {fraction: 1.0, correct: true},
	model.GradeB: {fraction: 0.75, correct: true},
	model.GradeC: {fraction: 0.5, correct: true},
	model.GradeD: {fraction: 0.25, correct: false},
	model.GradeE: {fraction: 0, correct: false},
}

// creditFor returns the credit for a grade. An unset or unknown grade
// earns nothing.
func creditFor(g model.Grade) credit {
	return gradeCredits[g]
}

// buildReport scores every question independently and aggregates the final
// result. Manually graded types score from the letter grade; everything
// else scores by matching the committed answer against the reference.
// Each question contributes equally to the percentage.
func buildReport(questions []model.Question, states []questionState) model.Report {
	r := model.Report{
		QuestionCount: len(questions),
		Answers:       make([]string, len(questions)),
		Correctness:   make([]bool, len(questions)),
	}

	var earned float64
	for i, q := range questions {
		st := states[i]
		r.Answers[i] = st.answer

		var fraction float64
		var correct bool
		if q.Type.ManuallyGraded() {
			c := creditFor(st.grade)
			fraction, correct = c.fraction, c.correct
		} else {
			correct = st.answered && Match(st.answer, q.Answer)
			if correct {
				fraction = 1
			}
		}

		earned += fraction
		r.Correctness[i] = correct
		if correct {
			r.CorrectCount++
		}
	}

	if len(questions) > 0 {
		r.ScorePercentage = 100 * earned / float64(len(questions))
	}
	return r
}
