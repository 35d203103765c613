package model

// QuestionType identifies how a question is presented and graded.
type QuestionType string

const (
	// TypeMultipleChoice questions offer a fixed option set.
	TypeMultipleChoice QuestionType = "multiple-choice"
	// TypeOX questions are true/false; without explicit options they
	// fall back to the standard O/X pair.
	TypeOX QuestionType = "ox"
	// TypeShortAnswer questions take free text and are graded by the user.
	TypeShortAnswer QuestionType = "short-answer"
	// TypeCreativity questions are open-ended and are graded by the user.
	TypeCreativity QuestionType = "creativity"
)

// ManuallyGraded reports whether answers of this type are scored from a
// self-assigned letter grade instead of being matched against the
// reference answer.
func (t QuestionType) ManuallyGraded() bool {
	return t == TypeShortAnswer || t == TypeCreativity
}

// Question is one quiz item. Field names follow the question-file format
// produced by the content pipeline. Translation fields and the passage are
// presentation-only and never take part in grading.
type Question struct {
	Type        QuestionType `json:"questionType"`
	Question    string       `json:"question"`
	Answer      string       `json:"answer"`
	Explanation string       `json:"explanation,omitempty"`
	Options     []string     `json:"options,omitempty"`
	Passage     string       `json:"passage,omitempty"`

	QuestionTranslation    string   `json:"questionTranslation,omitempty"`
	AnswerTranslation      string   `json:"answerTranslation,omitempty"`
	ExplanationTranslation string   `json:"explanationTranslation,omitempty"`
	OptionsTranslation     []string `json:"optionsTranslation,omitempty"`
}

// Grade is a self-assigned letter grade for a manually graded answer.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeE Grade = "E"
)

// Valid reports whether g is one of the five letter grades.
func (g Grade) Valid() bool {
	switch g {
	case GradeA, GradeB, GradeC, GradeD, GradeE:
		return true
	}
	return false
}

// AIEvaluation is the advisory judgment returned by the evaluation service.
// It is shown next to the self-grading control and never applied to the
// score.
type AIEvaluation struct {
	Grade    Grade  `json:"grade"`
	Feedback string `json:"feedback"`
}

// Report is the final scoring output for one completed session.
type Report struct {
	ScorePercentage float64  `json:"score_percentage"`
	CorrectCount    int      `json:"correct_count"`
	QuestionCount   int      `json:"question_count"`
	Answers         []string `json:"answers"`
	Correctness     []bool   `json:"correctness"`
}

// QuizInfo describes the running quiz for the archive and for export.
type QuizInfo struct {
	Title         string `json:"title"`
	Language      string `json:"language"`
	LLMModel      string `json:"llm_model"`
	SpeechModel   string `json:"speech_model"`
	Voice         string `json:"voice"`
	PromptVariant string `json:"prompt_variant"`
}

// QuizConfig holds runtime quiz parameters set via CLI flags.
type QuizConfig struct {
	Title         string
	NumQuestions  int  // 0 means all available
	Shuffle       bool // question files are ordered; shuffling is opt-in
	Voice         string
	PromptVariant string // Evaluation prompt variant (strict, standard, lenient)
}
