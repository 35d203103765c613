package quiz

import "github.com/quizdeck/quizdeck/internal/model"

// QuestionView is the public state of one question slot. Reference answer,
// explanation, and correctness stay hidden until the answer is checked.
type QuestionView struct {
	Index              int                 `json:"index"`
	Type               model.QuestionType  `json:"type"`
	Mode               Mode                `json:"mode"`
	Question           string              `json:"question"`
	Translation        string              `json:"translation,omitempty"`
	Options            []string            `json:"options,omitempty"`
	OptionsTranslation []string            `json:"options_translation,omitempty"`
	Passage            string              `json:"passage,omitempty"`
	Answer             string              `json:"answer,omitempty"`
	Draft              string              `json:"draft,omitempty"`
	Checked            bool                `json:"checked"`
	Grade              model.Grade         `json:"grade,omitempty"`
	Evaluation         *model.AIEvaluation `json:"evaluation,omitempty"`

	Reference              string `json:"reference_answer,omitempty"`
	ReferenceTranslation   string `json:"reference_translation,omitempty"`
	Explanation            string `json:"explanation,omitempty"`
	ExplanationTranslation string `json:"explanation_translation,omitempty"`
	Correct                *bool  `json:"correct,omitempty"`
}

// View is the session state the interface renders: the cursor, progress,
// and the active question.
type View struct {
	ID         string       `json:"id"`
	Current    int          `json:"current_index"`
	Count      int          `json:"question_count"`
	Completed  bool         `json:"completed"`
	ShowScript bool         `json:"show_script"`
	Question   QuestionView `json:"question"`
}

// View snapshots the current session state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		ID:         s.id,
		Current:    s.current,
		Count:      len(s.questions),
		Completed:  s.completed,
		ShowScript: s.showScript,
		Question:   s.questionView(s.current),
	}
}

// QuestionAt snapshots the state of one question slot, for revisiting
// earlier questions without moving the cursor.
func (s *Session) QuestionAt(index int) (QuestionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.questions) {
		return QuestionView{}, ErrIndexOutOfRange
	}
	return s.questionView(index), nil
}

// questionView builds the view for one slot. Callers hold s.mu.
func (s *Session) questionView(index int) QuestionView {
	q := s.questions[index]
	st := s.states[index]
	mode, options := ResolveMode(q)

	v := QuestionView{
		Index:              index,
		Type:               q.Type,
		Mode:               mode,
		Question:           q.Question,
		Translation:        q.QuestionTranslation,
		Options:            options,
		OptionsTranslation: q.OptionsTranslation,
		Passage:            q.Passage,
		Answer:             st.answer,
		Draft:              st.draft,
		Checked:            st.checked,
		Grade:              st.grade,
		Evaluation:         st.eval,
	}
	if st.checked {
		v.Reference = q.Answer
		v.ReferenceTranslation = q.AnswerTranslation
		v.Explanation = q.Explanation
		v.ExplanationTranslation = q.ExplanationTranslation
		if !q.Type.ManuallyGraded() {
			correct := st.answered && Match(st.answer, q.Answer)
			v.Correct = &correct
		}
	}
	return v
}
