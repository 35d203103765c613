package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/quizdeck/quizdeck/internal/model"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL DEFAULT '',
		started_at DATETIME NOT NULL,
		completed_at DATETIME NOT NULL,
		score_percentage REAL NOT NULL DEFAULT 0,
		correct_count INTEGER NOT NULL DEFAULT 0,
		question_count INTEGER NOT NULL DEFAULT 0,
		answers TEXT NOT NULL DEFAULT '[]',
		correctness TEXT NOT NULL DEFAULT '[]'
	);

	CREATE TABLE IF NOT EXISTS quiz_metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record archives the final result of one completed session. The scoring
// engine runs once per session, so a conflicting session_id means a
// retried request; the first report wins.
func (s *Store) Record(sessionID, title string, startedAt, completedAt time.Time, r model.Report) error {
	answers, err := json.Marshal(r.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	correctness, err := json.Marshal(r.Correctness)
	if err != nil {
		return fmt.Errorf("encode correctness: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO reports (session_id, title, started_at, completed_at, score_percentage, correct_count, question_count, answers, correctness)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(session_id) DO NOTHING`,
		sessionID, title, startedAt, completedAt,
		r.ScorePercentage, r.CorrectCount, r.QuestionCount,
		string(answers), string(correctness),
	)
	return err
}

// GetReport returns the archived report for a session, or nil if none
// was recorded.
func (s *Store) GetReport(sessionID string) (*model.StoredReport, error) {
	row := s.db.QueryRow(
		`SELECT session_id, title, started_at, completed_at, score_percentage, correct_count, question_count, answers, correctness
		 FROM reports WHERE session_id = ?`, sessionID,
	)
	r, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListReports returns all archived reports, newest first.
func (s *Store) ListReports() ([]model.StoredReport, error) {
	rows, err := s.db.Query(
		`SELECT session_id, title, started_at, completed_at, score_percentage, correct_count, question_count, answers, correctness
		 FROM reports ORDER BY completed_at DESC, id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []model.StoredReport
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *r)
	}
	return reports, rows.Err()
}

// CountReports returns the number of archived reports.
func (s *Store) CountReports() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM reports`).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*model.StoredReport, error) {
	var r model.StoredReport
	var answers, correctness string
	if err := row.Scan(
		&r.SessionID, &r.Title, &r.StartedAt, &r.CompletedAt,
		&r.ScorePercentage, &r.CorrectCount, &r.QuestionCount,
		&answers, &correctness,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(answers), &r.Answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	if err := json.Unmarshal([]byte(correctness), &r.Correctness); err != nil {
		return nil, fmt.Errorf("decode correctness: %w", err)
	}
	return &r, nil
}
