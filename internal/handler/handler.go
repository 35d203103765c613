// Package handler exposes the quiz session lifecycle over a JSON API.
// The interface is a thin client: every answer, check, grade, and
// navigation step goes through here and the session state machine decides
// what is allowed.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quizdeck/quizdeck/internal/i18n"
	"github.com/quizdeck/quizdeck/internal/model"
	"github.com/quizdeck/quizdeck/internal/quiz"
)

// Evaluator produces advisory letter-grade evaluations of open-ended
// answers.
type Evaluator interface {
	Evaluate(ctx context.Context, question, reference, submitted string) (*model.AIEvaluation, error)
}

// Synthesizer renders text to audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// Archive receives the final report of every completed session and serves
// the stored history.
type Archive interface {
	Record(sessionID, title string, startedAt, completedAt time.Time, r model.Report) error
	CountReports() (int, error)
	ListReports() ([]model.StoredReport, error)
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	sessions  *quiz.Registry
	questions []model.Question
	evaluator Evaluator
	speech    Synthesizer
	archive   Archive
	config    model.QuizConfig
}

// New creates a new Handler.
func New(sessions *quiz.Registry, questions []model.Question, evaluator Evaluator, speech Synthesizer, archive Archive, cfg model.QuizConfig) *Handler {
	return &Handler{
		sessions:  sessions,
		questions: questions,
		evaluator: evaluator,
		speech:    speech,
		archive:   archive,
		config:    cfg,
	}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/quiz", h.handleQuizInfo)
		r.Get("/reports", h.handleListReports)
		r.Post("/sessions", h.handleCreateSession)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", h.handleGetSession)
			r.Get("/report", h.handleGetReport)
			r.Post("/next", h.handleNext)
			r.Post("/prev", h.handlePrev)
			r.Post("/script", h.handleToggleScript)
			r.Post("/speech", h.handleSpeech)
			r.Post("/speech/stop", h.handleSpeechStop)
			r.Route("/questions/{index}", func(r chi.Router) {
				r.Get("/", h.handleGetQuestion)
				r.Post("/answer", h.handleSelectOption)
				r.Post("/draft", h.handleUpdateDraft)
				r.Post("/check", h.handleCheckAnswer)
				r.Post("/grade", h.handleSetGrade)
				r.Post("/evaluation", h.handleEvaluate)
			})
		})
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleQuizInfo(w http.ResponseWriter, r *http.Request) {
	archived, err := h.archive.CountReports()
	if err != nil {
		respondError(w, http.StatusInternalServerError, CodeInternal, err.Error())
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"title":           h.config.Title,
		"question_count":  len(h.questions),
		"active_sessions": h.sessions.Len(),
		"archived_count":  archived,
		"message":         i18n.Tp(r.Context(), "QuestionsAvailable", len(h.questions)),
	})
}

func (h *Handler) handleListReports(w http.ResponseWriter, _ *http.Request) {
	reports, err := h.archive.ListReports()
	if err != nil {
		respondError(w, http.StatusInternalServerError, CodeInternal, err.Error())
		return
	}
	respond(w, http.StatusOK, map[string]any{"reports": reports, "count": len(reports)})
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Questions []model.Question `json:"questions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, CodeBadRequest, "invalid JSON body")
		return
	}

	questions := req.Questions
	if len(questions) == 0 {
		questions = h.sessionQuestions()
	}

	s, err := h.sessions.Create(questions)
	if err != nil {
		h.writeOpError(w, r, err)
		return
	}
	slog.Info("Quiz session started", "session", s.ID(), "questions", s.Len())
	respond(w, http.StatusCreated, h.sessionPayload(r.Context(), s))
}

// sessionQuestions copies the configured question set, shuffled and
// truncated per the runtime config.
func (h *Handler) sessionQuestions() []model.Question {
	questions := make([]model.Question, len(h.questions))
	copy(questions, h.questions)

	if h.config.Shuffle {
		rand.Shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
	}
	if h.config.NumQuestions > 0 && h.config.NumQuestions < len(questions) {
		questions = questions[:h.config.NumQuestions]
	}
	return questions
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	respond(w, http.StatusOK, h.sessionPayload(r.Context(), s))
}

func (h *Handler) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	index, ok := h.questionIndex(w, r)
	if !ok {
		return
	}
	view, err := s.QuestionAt(index)
	if err != nil {
		h.writeOpError(w, r, err)
		return
	}
	respond(w, http.StatusOK, view)
}

func (h *Handler) handleSelectOption(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	index, ok := h.questionIndex(w, r)
	if !ok {
		return
	}
	var req struct {
		Option string `json:"option"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, CodeBadRequest, "invalid JSON body")
		return
	}
	if err := s.SelectOption(index, req.Option); err != nil {
		h.writeOpError(w, r, err)
		return
	}
	respond(w, http.StatusOK, h.sessionPayload(r.Context(), s))
}

func (h *Handler) handleUpdateDraft(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	index, ok := h.questionIndex(w, r)
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, CodeBadRequest, "invalid JSON body")
		return
	}
	if err := s.UpdateFreeText(index, req.Text); err != nil {
		h.writeOpError(w, r, err)
		return
	}
	respond(w, http.StatusOK, h.sessionPayload(r.Context(), s))
}

func (h *Handler) handleCheckAnswer(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	index, ok := h.questionIndex(w, r)
	if !ok {
		return
	}
	if err := s.CheckAnswer(index); err != nil {
		h.writeOpError(w, r, err)
		return
	}
	respond(w, http.StatusOK, h.sessionPayload(r.Context(), s))
}

func (h *Handler) handleSetGrade(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	index, ok := h.questionIndex(w, r)
	if !ok {
		return
	}
	var req struct {
		Grade string `json:"grade"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, CodeBadRequest, "invalid JSON body")
		return
	}
	if err := s.SetManualGrade(index, model.Grade(req.Grade)); err != nil {
		h.writeOpError(w, r, err)
		return
	}
	respond(w, http.StatusOK, h.sessionPayload(r.Context(), s))
}

func (h *Handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	index, ok := h.questionIndex(w, r)
	if !ok {
		return
	}

	in, err := s.EvaluationInput(index)
	if err != nil {
		h.writeOpError(w, r, err)
		return
	}

	// The network call runs outside the session lock; the state machine
	// stays responsive while the evaluator thinks.
	eval, err := h.evaluator.Evaluate(r.Context(), in.Question, in.Reference, in.Submitted)
	if err != nil {
		slog.Error("AI evaluation failed", "session", s.ID(), "index", index, "error", err)
		respondError(w, http.StatusBadGateway, CodeServiceFailure, i18n.T(r.Context(), "EvaluationFailed"))
		return
	}

	if err := s.SetAIEvaluation(index, *eval); err != nil {
		h.writeOpError(w, r, err)
		return
	}
	respond(w, http.StatusOK, eval)
}

func (h *Handler) handleNext(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	report, err := s.Next()
	if err != nil {
		h.writeOpError(w, r, err)
		return
	}
	if report != nil {
		h.recordReport(s, *report)
	}
	respond(w, http.StatusOK, h.sessionPayload(r.Context(), s))
}

// recordReport hands the finished report to the archive. Archival is
// best-effort: the user still gets their result when the database write
// fails.
func (h *Handler) recordReport(s *quiz.Session, report model.Report) {
	err := h.archive.Record(s.ID(), h.config.Title, s.CreatedAt(), s.CompletedAt(), report)
	if err != nil {
		slog.Error("Archive report", "session", s.ID(), "error", err)
		return
	}
	slog.Info("Quiz session completed",
		"session", s.ID(),
		"score", report.ScorePercentage,
		"correct", report.CorrectCount,
		"questions", report.QuestionCount)
}

func (h *Handler) handlePrev(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	if err := s.Prev(); err != nil {
		h.writeOpError(w, r, err)
		return
	}
	respond(w, http.StatusOK, h.sessionPayload(r.Context(), s))
}

func (h *Handler) handleToggleScript(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	show, err := s.ToggleScript()
	if err != nil {
		h.writeOpError(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]bool{"show_script": show})
}

func (h *Handler) handleSpeech(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	var req struct {
		Text  string `json:"text"`
		Voice string `json:"voice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, CodeBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(w, http.StatusUnprocessableEntity, CodeUnprocessable, i18n.T(r.Context(), "TextRequired"))
		return
	}
	voice := req.Voice
	if voice == "" {
		voice = h.config.Voice
	}

	// Claim the playback slot: a second request supersedes the first, a
	// stop request cancels ctx mid-synthesis.
	ctx, release := s.Playback().Begin(r.Context())
	defer release()

	data, err := h.speech.Synthesize(ctx, req.Text, voice)
	if err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			respondError(w, http.StatusConflict, CodePrecondition, i18n.T(r.Context(), "SpeechStopped"))
			return
		}
		s.Playback().Stop()
		slog.Error("Speech synthesis failed", "session", s.ID(), "error", err)
		respondError(w, http.StatusBadGateway, CodeServiceFailure, i18n.T(r.Context(), "SpeechFailed"))
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(data); err != nil {
		slog.Error("Write speech response", "session", s.ID(), "error", err)
	}
}

func (h *Handler) handleSpeechStop(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	s.Playback().Stop()
	respond(w, http.StatusOK, map[string]bool{"stopped": true})
}

func (h *Handler) handleGetReport(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	report, err := s.Report()
	if err != nil {
		h.writeOpError(w, r, err)
		return
	}
	respond(w, http.StatusOK, reportPayload{
		Report:  report,
		Summary: reportSummary(r.Context(), report),
	})
}

// sessionPayload is the standard session response: the live view plus,
// once completed, the final report.
type sessionPayload struct {
	quiz.View
	Report  *model.Report `json:"report,omitempty"`
	Summary string        `json:"summary,omitempty"`
}

type reportPayload struct {
	Report  model.Report `json:"report"`
	Summary string       `json:"summary"`
}

func (h *Handler) sessionPayload(ctx context.Context, s *quiz.Session) sessionPayload {
	p := sessionPayload{View: s.View()}
	if p.Completed {
		if report, err := s.Report(); err == nil {
			p.Report = &report
			p.Summary = reportSummary(ctx, report)
		}
	}
	return p
}

func reportSummary(ctx context.Context, r model.Report) string {
	return i18n.Td(ctx, "ReportSummary", map[string]any{
		"Score":   int(math.Round(r.ScorePercentage)),
		"Correct": r.CorrectCount,
		"Total":   r.QuestionCount,
	})
}

// session resolves the sessionID route param, writing a 404 when the
// session is unknown.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *quiz.Session {
	s := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if s == nil {
		respondError(w, http.StatusNotFound, CodeNotFound, i18n.T(r.Context(), "SessionNotFound"))
	}
	return s
}

// questionIndex resolves the index route param, writing a 404 when it is
// not a number.
func (h *Handler) questionIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, http.StatusNotFound, CodeNotFound, i18n.T(r.Context(), "QuestionNotFound"))
		return 0, false
	}
	return index, true
}

// writeOpError maps session state machine errors onto API responses.
func (h *Handler) writeOpError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, quiz.ErrNoQuestions):
		respondError(w, http.StatusUnprocessableEntity, CodeUnprocessable, i18n.T(ctx, "NoQuestions"))
	case errors.Is(err, quiz.ErrIndexOutOfRange):
		respondError(w, http.StatusNotFound, CodeNotFound, i18n.T(ctx, "QuestionNotFound"))
	case errors.Is(err, quiz.ErrModeMismatch):
		respondError(w, http.StatusConflict, CodePrecondition, i18n.T(ctx, "WrongAnswerMode"))
	case errors.Is(err, quiz.ErrNoAnswer):
		respondError(w, http.StatusConflict, CodePrecondition, i18n.T(ctx, "AnswerRequired"))
	case errors.Is(err, quiz.ErrNotChecked):
		respondError(w, http.StatusConflict, CodePrecondition, i18n.T(ctx, "NotChecked"))
	case errors.Is(err, quiz.ErrNotManuallyGraded):
		respondError(w, http.StatusConflict, CodePrecondition, i18n.T(ctx, "NotManuallyGraded"))
	case errors.Is(err, quiz.ErrInvalidGrade):
		respondError(w, http.StatusUnprocessableEntity, CodeUnprocessable, i18n.T(ctx, "InvalidGrade"))
	case errors.Is(err, quiz.ErrUngraded):
		respondError(w, http.StatusConflict, CodePrecondition, i18n.T(ctx, "GradeRequired"))
	case errors.Is(err, quiz.ErrCompleted):
		respondError(w, http.StatusConflict, CodePrecondition, i18n.T(ctx, "AlreadyCompleted"))
	case errors.Is(err, quiz.ErrNotCompleted):
		respondError(w, http.StatusConflict, CodePrecondition, i18n.T(ctx, "NotCompleted"))
	default:
		slog.Error("Unhandled session error", "error", err)
		respondError(w, http.StatusInternalServerError, CodeInternal, err.Error())
	}
}
