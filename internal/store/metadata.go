package store

import (
	"database/sql"

	"github.com/quizdeck/quizdeck/internal/model"
)

// SetMetadata upserts a key-value pair in the quiz_metadata table.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO quiz_metadata (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = ?`,
		key, value, value,
	)
	return err
}

// GetMetadata returns the value for a metadata key.
// Returns empty string and nil error if the key is missing.
func (s *Store) GetMetadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM quiz_metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetQuizInfo stores all QuizInfo fields as metadata rows.
func (s *Store) SetQuizInfo(info model.QuizInfo) error {
	pairs := []struct{ k, v string }{
		{"title", info.Title},
		{"language", info.Language},
		{"llm_model", info.LLMModel},
		{"speech_model", info.SpeechModel},
		{"voice", info.Voice},
		{"prompt_variant", info.PromptVariant},
	}
	for _, p := range pairs {
		if err := s.SetMetadata(p.k, p.v); err != nil {
			return err
		}
	}
	return nil
}

// GetQuizInfo reads all QuizInfo fields from metadata.
func (s *Store) GetQuizInfo() (model.QuizInfo, error) {
	var info model.QuizInfo
	var err error

	if info.Title, err = s.GetMetadata("title"); err != nil {
		return info, err
	}
	if info.Language, err = s.GetMetadata("language"); err != nil {
		return info, err
	}
	if info.LLMModel, err = s.GetMetadata("llm_model"); err != nil {
		return info, err
	}
	if info.SpeechModel, err = s.GetMetadata("speech_model"); err != nil {
		return info, err
	}
	if info.Voice, err = s.GetMetadata("voice"); err != nil {
		return info, err
	}
	info.PromptVariant, err = s.GetMetadata("prompt_variant")
	return info, err
}
