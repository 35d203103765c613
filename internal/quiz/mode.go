package quiz

import "github.com/quizdeck/quizdeck/internal/model"

// Mode describes how a question accepts its answer.
type Mode string

const (
	// ModeSelection renders a fixed option set; the submitted answer is
	// one of the options.
	ModeSelection Mode = "selection"
	// ModeFreeText renders a text input. Multiple-choice questions that
	// ship without options degrade here and are still auto-graded by
	// matching the typed text against the reference answer.
	ModeFreeText Mode = "free-text"
)

// defaultOXOptions back an ox question that ships without options.
var defaultOXOptions = []string{"O", "X"}

// ResolveMode derives the answering mode and the effective option set for
// a question. The mode is a pure function of the question's shape and is
// recomputed on every read; caching it across question switches would go
// stale.
func ResolveMode(q model.Question) (Mode, []string) {
	switch q.Type {
	case model.TypeMultipleChoice, model.TypeOX:
		if len(q.Options) > 0 {
			return ModeSelection, q.Options
		}
		if q.Type == model.TypeOX {
			return ModeSelection, defaultOXOptions
		}
	}
	return ModeFreeText, nil
}
