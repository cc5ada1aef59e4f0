package models

import "time"

// ActionType labels entries in the user_stats table.
type ActionType string

const (
	ActionStartBot     ActionType = "start_bot"
	ActionCreateTest   ActionType = "create_test"
	ActionCompleteTest ActionType = "complete_test"
)

// AllActionTypes is the fixed set reported by the stats queries.
var AllActionTypes = []ActionType{ActionStartBot, ActionCreateTest, ActionCompleteTest}

// Test is a creator's persisted answer set, keyed by a generated test id.
type Test struct {
	TestID         string         `db:"test_id"`
	CreatorID      int64          `db:"creator_id"`
	CreatorAnswers map[int]string `db:"creator_answers"`
	CreatedAt      time.Time      `db:"created_at"`
}

// Participant is a friend's scored attempt against a test. CorrectCount is
// computed once at submission time and never recomputed.
type Participant struct {
	ID           int64          `db:"id"`
	TestID       string         `db:"test_id"`
	UserID       int64          `db:"user_id"`
	Answers      map[int]string `db:"answers"`
	CorrectCount int            `db:"correct_count"`
	CompletedAt  time.Time      `db:"completed_at"`
}

// UserAction is a single append-only analytics row.
type UserAction struct {
	ID         int64      `db:"id"`
	UserID     int64      `db:"user_id"`
	ActionType ActionType `db:"action_type"`
	CreatedAt  time.Time  `db:"created_at"`
}
