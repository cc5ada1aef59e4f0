package session

import (
	"testing"
	"time"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(time.Hour)
	t.Cleanup(m.Stop)
	return m
}

func TestStartAndAnswer(t *testing.T) {
	m := newTestManager(t)

	s := m.Start(42, RoleCreator, "")
	if s.CurrentIndex != 0 {
		t.Fatalf("fresh session index = %d, want 0", s.CurrentIndex)
	}
	if s.IsFriend() {
		t.Fatal("creator session reports IsFriend")
	}

	s.RecordAnswer("❤️ Red")
	s.RecordAnswer("☀️ Summer")

	got := m.Get(42)
	if got.CurrentIndex != 2 {
		t.Errorf("index after two answers = %d, want 2", got.CurrentIndex)
	}
	if got.Answers[0] != "❤️ Red" || got.Answers[1] != "☀️ Summer" {
		t.Errorf("answers = %v", got.Answers)
	}
}

func TestFriendSessionCarriesTestID(t *testing.T) {
	m := newTestManager(t)

	s := m.Start(7, RoleFriend, "test_42_1234")
	if !s.IsFriend() {
		t.Fatal("friend session does not report IsFriend")
	}
	if s.LinkedTestID != "test_42_1234" {
		t.Errorf("LinkedTestID = %q", s.LinkedTestID)
	}
}

func TestRestartDiscardsPreviousSession(t *testing.T) {
	m := newTestManager(t)

	s := m.Start(42, RoleCreator, "")
	s.RecordAnswer("💙 Blue")

	s2 := m.Start(42, RoleFriend, "test_1_1111")
	if got := m.Get(42); got != s2 {
		t.Fatal("Start did not replace the previous session")
	}
	if len(m.Get(42).Answers) != 0 {
		t.Error("restarted session kept old answers")
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
}

func TestClear(t *testing.T) {
	m := newTestManager(t)

	m.Start(42, RoleCreator, "")
	m.Clear(42)

	if m.Get(42) != nil {
		t.Fatal("session survived Clear")
	}
}

func TestGetUnknownUser(t *testing.T) {
	m := newTestManager(t)

	if m.Get(99) != nil {
		t.Fatal("Get returned a session for an unknown user")
	}
}

func TestEviction(t *testing.T) {
	m := newTestManager(t)

	stale := m.Start(1, RoleCreator, "")
	stale.LastUpdated = time.Now().Add(-2 * time.Hour)
	m.Start(2, RoleCreator, "")

	m.evictBefore(time.Now().Add(-time.Hour))

	if m.Get(1) != nil {
		t.Error("stale session was not evicted")
	}
	if m.Get(2) == nil {
		t.Error("fresh session was evicted")
	}
}

func TestTouchRefreshesEvictionClock(t *testing.T) {
	m := newTestManager(t)

	s := m.Start(1, RoleCreator, "")
	s.LastUpdated = time.Now().Add(-2 * time.Hour)

	m.Touch(1)
	m.evictBefore(time.Now().Add(-time.Hour))

	if m.Get(1) == nil {
		t.Fatal("touched session was evicted")
	}
}
