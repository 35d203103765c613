package model

import "time"

// ReportExport is the top-level JSON structure for results export.
type ReportExport struct {
	Quiz        QuizInfo       `json:"quiz"`
	GeneratedAt time.Time      `json:"generated_at"`
	Count       int            `json:"count"`
	Reports     []StoredReport `json:"reports"`
}

// StoredReport holds one archived session result.
type StoredReport struct {
	SessionID       string    `json:"session_id"`
	Title           string    `json:"title"`
	StartedAt       time.Time `json:"started_at"`
	CompletedAt     time.Time `json:"completed_at"`
	ScorePercentage float64   `json:"score_percentage"`
	CorrectCount    int       `json:"correct_count"`
	QuestionCount   int       `json:"question_count"`
	Answers         []string  `json:"answers"`
	Correctness     []bool    `json:"correctness"`
}
