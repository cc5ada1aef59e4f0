package database

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mehmonov/friends-check-bot/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(Config{
		Driver: DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestCreateAndGetTest(t *testing.T) {
	db := newTestDB(t)

	answers := map[int]string{0: "❤️ Red", 1: "☀️ Summer", 2: "📚 Reading"}
	if err := db.CreateTest("test_42_1234", 42, answers); err != nil {
		t.Fatalf("CreateTest: %v", err)
	}

	test, err := db.GetTest("test_42_1234")
	if err != nil {
		t.Fatalf("GetTest: %v", err)
	}

	if test.TestID != "test_42_1234" {
		t.Errorf("TestID = %q", test.TestID)
	}
	if test.CreatorID != 42 {
		t.Errorf("CreatorID = %d", test.CreatorID)
	}
	if !reflect.DeepEqual(test.CreatorAnswers, answers) {
		t.Errorf("CreatorAnswers = %v, want %v", test.CreatorAnswers, answers)
	}
	if test.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestGetTestNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetTest("nonexistent")
	if !errors.Is(err, ErrTestNotFound) {
		t.Fatalf("err = %v, want ErrTestNotFound", err)
	}
}

func TestCreateTestIDCollision(t *testing.T) {
	db := newTestDB(t)

	answers := map[int]string{0: "A"}
	if err := db.CreateTest("test_1_1111", 1, answers); err != nil {
		t.Fatalf("first CreateTest: %v", err)
	}

	err := db.CreateTest("test_1_1111", 1, answers)
	if !errors.Is(err, ErrTestExists) {
		t.Fatalf("err = %v, want ErrTestExists", err)
	}
}

func TestRecordParticipantAndHasCompleted(t *testing.T) {
	db := newTestDB(t)

	if err := db.CreateTest("test_1_1111", 1, map[int]string{0: "A"}); err != nil {
		t.Fatal(err)
	}

	done, err := db.HasCompleted("test_1_1111", 7)
	if err != nil {
		t.Fatalf("HasCompleted: %v", err)
	}
	if done {
		t.Fatal("HasCompleted true before any attempt")
	}

	if err := db.RecordParticipant("test_1_1111", 7, map[int]string{0: "A"}, 1); err != nil {
		t.Fatalf("RecordParticipant: %v", err)
	}

	done, err = db.HasCompleted("test_1_1111", 7)
	if err != nil {
		t.Fatalf("HasCompleted: %v", err)
	}
	if !done {
		t.Fatal("HasCompleted false after attempt")
	}
}

func TestDuplicateParticipantRejected(t *testing.T) {
	db := newTestDB(t)

	if err := db.CreateTest("test_1_1111", 1, map[int]string{0: "A"}); err != nil {
		t.Fatal(err)
	}
	if err := db.RecordParticipant("test_1_1111", 7, map[int]string{0: "A"}, 1); err != nil {
		t.Fatal(err)
	}

	err := db.RecordParticipant("test_1_1111", 7, map[int]string{0: "B"}, 0)
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("err = %v, want ErrAlreadyCompleted", err)
	}

	// Same user on another test is still allowed.
	if err := db.CreateTest("test_2_2222", 2, map[int]string{0: "A"}); err != nil {
		t.Fatal(err)
	}
	if err := db.RecordParticipant("test_2_2222", 7, map[int]string{0: "A"}, 1); err != nil {
		t.Fatalf("participant on second test: %v", err)
	}
}

func TestListParticipantsOrder(t *testing.T) {
	db := newTestDB(t)

	if err := db.CreateTest("test_1_1111", 1, map[int]string{0: "A", 1: "B"}); err != nil {
		t.Fatal(err)
	}

	for i, userID := range []int64{10, 20, 30} {
		answers := map[int]string{0: "A", 1: "B"}
		if err := db.RecordParticipant("test_1_1111", userID, answers, i); err != nil {
			t.Fatalf("RecordParticipant(%d): %v", userID, err)
		}
	}

	participants, err := db.ListParticipants("test_1_1111")
	if err != nil {
		t.Fatalf("ListParticipants: %v", err)
	}
	if len(participants) != 3 {
		t.Fatalf("len = %d, want 3", len(participants))
	}

	for i, wantUser := range []int64{10, 20, 30} {
		if participants[i].UserID != wantUser {
			t.Errorf("participants[%d].UserID = %d, want %d", i, participants[i].UserID, wantUser)
		}
		if participants[i].CorrectCount != i {
			t.Errorf("participants[%d].CorrectCount = %d, want %d", i, participants[i].CorrectCount, i)
		}
	}
}

func TestStatsAlwaysReportAllActions(t *testing.T) {
	db := newTestDB(t)

	daily, err := db.DailyStats()
	if err != nil {
		t.Fatalf("DailyStats: %v", err)
	}
	for _, action := range models.AllActionTypes {
		if count, ok := daily[action]; !ok || count != 0 {
			t.Errorf("empty store: daily[%s] = %d, present=%v; want 0, true", action, count, ok)
		}
	}

	if err := db.LogAction(1, models.ActionStartBot); err != nil {
		t.Fatalf("LogAction: %v", err)
	}
	if err := db.LogAction(1, models.ActionCreateTest); err != nil {
		t.Fatalf("LogAction: %v", err)
	}
	if err := db.LogAction(2, models.ActionStartBot); err != nil {
		t.Fatalf("LogAction: %v", err)
	}

	daily, err = db.DailyStats()
	if err != nil {
		t.Fatalf("DailyStats: %v", err)
	}
	if daily[models.ActionStartBot] != 2 {
		t.Errorf("daily start_bot = %d, want 2", daily[models.ActionStartBot])
	}
	if daily[models.ActionCreateTest] != 1 {
		t.Errorf("daily create_test = %d, want 1", daily[models.ActionCreateTest])
	}
	if daily[models.ActionCompleteTest] != 0 {
		t.Errorf("daily complete_test = %d, want 0", daily[models.ActionCompleteTest])
	}

	monthly, err := db.MonthlyStats()
	if err != nil {
		t.Fatalf("MonthlyStats: %v", err)
	}
	if monthly[models.ActionStartBot] != 2 {
		t.Errorf("monthly start_bot = %d, want 2", monthly[models.ActionStartBot])
	}
}
