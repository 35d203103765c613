package quiz

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/quizdeck/quizdeck/internal/audio"
	"github.com/quizdeck/quizdeck/internal/model"
)

// Sentinel errors for rejected session operations. The API layer maps
// these onto precondition and validation failures.
var (
	ErrNoQuestions       = errors.New("no questions available")
	ErrIndexOutOfRange   = errors.New("question index out of range")
	ErrModeMismatch      = errors.New("operation does not apply to this answering mode")
	ErrNoAnswer          = errors.New("no answer submitted")
	ErrNotChecked        = errors.New("answer not checked yet")
	ErrNotManuallyGraded = errors.New("question is not manually graded")
	ErrInvalidGrade      = errors.New("invalid grade")
	ErrUngraded          = errors.New("manual grade required before advancing")
	ErrCompleted         = errors.New("session already completed")
	ErrNotCompleted      = errors.New("session not completed")
)

// questionState is the mutable per-question record: the committed answer,
// the free-text draft, the checked flag, the self-assigned grade, and the
// advisory evaluation. One state per question, aligned by index.
type questionState struct {
	answer   string
	answered bool
	draft    string
	checked  bool
	grade    model.Grade // empty until self-assigned
	eval     *model.AIEvaluation
}

// Session is one quiz attempt: an immutable question list, the
// per-question answer records, and the navigation cursor. All methods are
// safe for concurrent use. External service calls never run under the
// session lock; callers snapshot inputs with EvaluationInput and store
// results with SetAIEvaluation.
type Session struct {
	id        string
	questions []model.Question
	createdAt time.Time
	playback  *audio.Controller

	mu          sync.Mutex
	states      []questionState
	current     int
	showScript  bool
	completed   bool
	completedAt time.Time
	report      *model.Report
}

// NewSession builds a session over the given question list. An empty list
// is rejected so the interface can show its empty state instead of a
// broken quiz.
func NewSession(id string, questions []model.Question) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	qs := make([]model.Question, len(questions))
	copy(qs, questions)
	return &Session{
		id:        id,
		questions: qs,
		createdAt: time.Now(),
		playback:  audio.NewController(),
		states:    make([]questionState, len(qs)),
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// CreatedAt returns when the session was started.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Len returns the number of questions.
func (s *Session) Len() int { return len(s.questions) }

// Playback returns the session's audio playback slot.
func (s *Session) Playback() *audio.Controller { return s.playback }

// mutable rejects mutation once the session is completed and validates the
// question index. Callers hold s.mu.
func (s *Session) mutable(index int) error {
	if s.completed {
		return ErrCompleted
	}
	if index < 0 || index >= len(s.states) {
		return ErrIndexOutOfRange
	}
	return nil
}

// SelectOption records the chosen option for a selection-mode question.
// Once the answer is checked the selection is locked in and further calls
// are ignored.
func (s *Session) SelectOption(index int, option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutable(index); err != nil {
		return err
	}
	if mode, _ := ResolveMode(s.questions[index]); mode != ModeSelection {
		return ErrModeMismatch
	}
	st := &s.states[index]
	if st.checked {
		return nil
	}
	st.answer = option
	st.answered = true
	return nil
}

// UpdateFreeText stores the draft text for a free-text question. The draft
// is committed to the answer slot only when the answer is checked. Once
// checked, further edits are ignored.
func (s *Session) UpdateFreeText(index int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutable(index); err != nil {
		return err
	}
	if mode, _ := ResolveMode(s.questions[index]); mode != ModeFreeText {
		return ErrModeMismatch
	}
	st := &s.states[index]
	if st.checked {
		return nil
	}
	st.draft = text
	return nil
}

// CheckAnswer locks in the answer at index and reveals the reference
// answer for review. Selection mode needs a selected option; free-text
// mode needs a draft that is non-blank, which is then committed verbatim.
// Checking is one-way: re-checking is a no-op and the committed answer
// never changes afterwards.
func (s *Session) CheckAnswer(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutable(index); err != nil {
		return err
	}
	st := &s.states[index]
	if st.checked {
		return nil
	}
	mode, _ := ResolveMode(s.questions[index])
	if mode == ModeFreeText {
		if strings.TrimSpace(st.draft) == "" {
			return ErrNoAnswer
		}
		st.answer = st.draft
		st.answered = true
	} else if !st.answered {
		return ErrNoAnswer
	}
	st.checked = true
	return nil
}

// SetManualGrade stores the self-assigned grade for a manually graded
// question. Grading needs a checked answer and stays overwritable while
// the session is live, so users can revise their self-assessment.
func (s *Session) SetManualGrade(index int, g model.Grade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutable(index); err != nil {
		return err
	}
	if !s.questions[index].Type.ManuallyGraded() {
		return ErrNotManuallyGraded
	}
	if !g.Valid() {
		return ErrInvalidGrade
	}
	st := &s.states[index]
	if !st.checked {
		return ErrNotChecked
	}
	st.grade = g
	return nil
}

// EvaluationInput is the snapshot handed to the evaluation service.
type EvaluationInput struct {
	Question  string
	Reference string
	Submitted string
}

// EvaluationInput returns the evaluator inputs for a manually graded,
// checked question. Snapshotting keeps the network call outside the
// session lock so a slow evaluator never blocks navigation.
func (s *Session) EvaluationInput(index int) (EvaluationInput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.states) {
		return EvaluationInput{}, ErrIndexOutOfRange
	}
	q := s.questions[index]
	if !q.Type.ManuallyGraded() {
		return EvaluationInput{}, ErrNotManuallyGraded
	}
	st := s.states[index]
	if !st.checked {
		return EvaluationInput{}, ErrNotChecked
	}
	return EvaluationInput{
		Question:  q.Question,
		Reference: q.Answer,
		Submitted: st.answer,
	}, nil
}

// SetAIEvaluation stores the advisory evaluation for index. Concurrent
// requests for the same question are not deduplicated; the last response
// to arrive wins. Responses arriving after completion are dropped.
func (s *Session) SetAIEvaluation(index int, eval model.AIEvaluation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutable(index); err != nil {
		return err
	}
	s.states[index].eval = &eval
	return nil
}

// Prev moves the cursor to the previous question. At the first question it
// is a no-op. Moving the cursor stops any ongoing playback and hides the
// passage script again.
func (s *Session) Prev() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed {
		return ErrCompleted
	}
	if s.current == 0 {
		return nil
	}
	s.current--
	s.leaveQuestion()
	return nil
}

// Next advances past the current question once it is checked and, for
// manually graded types, self-graded. Advancing past the last question
// runs the scoring engine exactly once and completes the session; the
// report is returned non-nil only from the call that completed it.
func (s *Session) Next() (*model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed {
		return nil, ErrCompleted
	}
	st := s.states[s.current]
	if !st.checked {
		return nil, ErrNotChecked
	}
	if s.questions[s.current].Type.ManuallyGraded() && st.grade == "" {
		return nil, ErrUngraded
	}
	if s.current == len(s.questions)-1 {
		r := buildReport(s.questions, s.states)
		s.report = &r
		s.completed = true
		s.completedAt = time.Now()
		s.leaveQuestion()
		return &r, nil
	}
	s.current++
	s.leaveQuestion()
	return nil, nil
}

// leaveQuestion applies the transient resets of moving off a question.
// Callers hold s.mu.
func (s *Session) leaveQuestion() {
	s.showScript = false
	s.playback.Stop()
}

// ToggleScript flips the passage-script visibility for the current
// question and reports the new value. The flag is transient and resets
// whenever the cursor moves.
func (s *Session) ToggleScript() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed {
		return false, ErrCompleted
	}
	s.showScript = !s.showScript
	return s.showScript, nil
}

// Completed reports whether the session reached its terminal state.
func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

// CompletedAt returns when the session completed; the zero time while it
// is still live.
func (s *Session) CompletedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completedAt
}

// Report returns the final result once the session is completed.
func (s *Session) Report() (model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.report == nil {
		return model.Report{}, ErrNotCompleted
	}
	return *s.report, nil
}
