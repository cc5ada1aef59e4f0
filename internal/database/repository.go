package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/mehmonov/friends-check-bot/internal/models"
)

var (
	// ErrTestNotFound means the test id resolves to no stored test.
	ErrTestNotFound = errors.New("test not found")
	// ErrTestExists means the generated test id collided with an existing one.
	ErrTestExists = errors.New("test id already exists")
	// ErrAlreadyCompleted means this user already has a participant row for
	// the test. Backed by the UNIQUE (test_id, user_id) constraint, so the
	// check-then-insert race between two friends cannot produce duplicates.
	ErrAlreadyCompleted = errors.New("test already completed by this user")
)

// Test operations

func (db *DB) CreateTest(testID string, creatorID int64, answers map[int]string) error {
	raw, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("failed to encode creator answers: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO tests (test_id, creator_id, creator_answers, created_at)
		VALUES ($1, $2, $3, $4)
	`, testID, creatorID, string(raw), time.Now().Unix())

	if isUniqueViolation(err) {
		return ErrTestExists
	}
	if err != nil {
		return fmt.Errorf("failed to create test: %w", err)
	}

	return nil
}

func (db *DB) GetTest(testID string) (*models.Test, error) {
	var (
		test       models.Test
		rawAnswers string
		createdAt  int64
	)

	err := db.QueryRow(`
		SELECT test_id, creator_id, creator_answers, created_at
		FROM tests
		WHERE test_id = $1
	`, testID).Scan(&test.TestID, &test.CreatorID, &rawAnswers, &createdAt)

	if err == sql.ErrNoRows {
		return nil, ErrTestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	if err := json.Unmarshal([]byte(rawAnswers), &test.CreatorAnswers); err != nil {
		return nil, fmt.Errorf("failed to decode creator answers: %w", err)
	}
	test.CreatedAt = time.Unix(createdAt, 0).UTC()

	return &test, nil
}

// Participant operations

func (db *DB) RecordParticipant(testID string, userID int64, answers map[int]string, correctCount int) error {
	raw, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("failed to encode participant answers: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO participants (test_id, user_id, answers, correct_count, completed_at)
		VALUES ($1, $2, $3, $4, $5)
	`, testID, userID, string(raw), correctCount, time.Now().Unix())

	if isUniqueViolation(err) {
		return ErrAlreadyCompleted
	}
	if err != nil {
		return fmt.Errorf("failed to record participant: %w", err)
	}

	return nil
}

func (db *DB) HasCompleted(testID string, userID int64) (bool, error) {
	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM participants WHERE test_id = $1 AND user_id = $2)
	`, testID, userID).Scan(&exists)

	return exists, err
}

func (db *DB) ListParticipants(testID string) ([]models.Participant, error) {
	rows, err := db.Query(`
		SELECT id, test_id, user_id, answers, correct_count, completed_at
		FROM participants
		WHERE test_id = $1
		ORDER BY id
	`, testID)

	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var (
			p           models.Participant
			rawAnswers  string
			completedAt int64
		)
		if err := rows.Scan(&p.ID, &p.TestID, &p.UserID, &rawAnswers, &p.CorrectCount, &completedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(rawAnswers), &p.Answers); err != nil {
			return nil, fmt.Errorf("failed to decode participant answers: %w", err)
		}
		p.CompletedAt = time.Unix(completedAt, 0).UTC()
		participants = append(participants, p)
	}

	return participants, rows.Err()
}

// Analytics

func (db *DB) LogAction(userID int64, action models.ActionType) error {
	_, err := db.Exec(`
		INSERT INTO user_stats (user_id, action_type, created_at)
		VALUES ($1, $2, $3)
	`, userID, string(action), time.Now().Unix())

	return err
}

// DailyStats counts actions over the current UTC calendar day. All known
// action types are present in the result, zero when absent from the store.
func (db *DB) DailyStats() (map[models.ActionType]int, error) {
	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return db.statsSince(dayStart)
}

// MonthlyStats counts actions over the current UTC calendar month.
func (db *DB) MonthlyStats() (map[models.ActionType]int, error) {
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return db.statsSince(monthStart)
}

func (db *DB) statsSince(since time.Time) (map[models.ActionType]int, error) {
	rows, err := db.Query(`
		SELECT action_type, COUNT(*)
		FROM user_stats
		WHERE created_at >= $1
		GROUP BY action_type
	`, since.Unix())

	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[models.ActionType]int, len(models.AllActionTypes))
	for _, action := range models.AllActionTypes {
		stats[action] = 0
	}

	for rows.Next() {
		var (
			action string
			count  int
		)
		if err := rows.Scan(&action, &count); err != nil {
			return nil, err
		}
		stats[models.ActionType(action)] = count
	}

	return stats, rows.Err()
}

// isUniqueViolation recognizes primary-key and unique-constraint failures
// from both supported drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	// modernc.org/sqlite reports SQLITE_CONSTRAINT errors by message.
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed")
}
