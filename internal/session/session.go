package session

import (
	"sync"
	"time"
)

// Role tells whether a session belongs to a test creator or to a friend
// attempting someone else's test.
type Role string

const (
	RoleCreator Role = "creator"
	RoleFriend  Role = "friend"
)

// Session is the in-progress quiz state for one user. CurrentIndex equal to
// the question count means the quiz is answered; for friends that is the
// "awaiting name" sub-state. A friend session additionally carries the linked
// test id and, once scored, a snapshot of the result for the certificate.
type Session struct {
	UserID       int64
	Role         Role
	LinkedTestID string // friend sessions only
	CurrentIndex int
	Answers      map[int]string

	// Score snapshot, set when a friend finishes answering.
	CorrectCount int
	Percentage   float64

	LastUpdated time.Time
}

// IsFriend reports whether this session attempts another user's test.
func (s *Session) IsFriend() bool {
	return s.Role == RoleFriend
}

// RecordAnswer stores the chosen label for the current question and advances
// to the next one.
func (s *Session) RecordAnswer(label string) {
	if s.Answers == nil {
		s.Answers = make(map[int]string)
	}
	s.Answers[s.CurrentIndex] = label
	s.CurrentIndex++
}

// Manager owns all live sessions, keyed by user id. There is at most one
// session per user; a new /start replaces any previous one. Sessions that see
// no input are evicted after the TTL so the map cannot grow without bound.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
	ttl      time.Duration
	done     chan struct{}
}

const DefaultTTL = 30 * time.Minute

func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Manager{
		sessions: make(map[int64]*Session),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	go m.janitor()
	return m
}

// Start creates a fresh session for the user, discarding any previous one.
func (m *Manager) Start(userID int64, role Role, linkedTestID string) *Session {
	s := &Session{
		UserID:       userID,
		Role:         role,
		LinkedTestID: linkedTestID,
		Answers:      make(map[int]string),
		LastUpdated:  time.Now(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = s
	return s
}

// Get returns the user's live session, or nil if there is none.
func (m *Manager) Get(userID int64) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[userID]
}

// Touch refreshes the eviction clock after the session was mutated.
func (m *Manager) Touch(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok {
		s.LastUpdated = time.Now()
	}
}

// Clear drops the user's session. Terminal states have no stored form: a
// finished or aborted flow simply removes the entry.
func (m *Manager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Stop terminates the eviction loop.
func (m *Manager) Stop() {
	close(m.done)
}

func (m *Manager) janitor() {
	ticker := time.NewTicker(m.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case now := <-ticker.C:
			m.evictBefore(now.Add(-m.ttl))
		}
	}
}

func (m *Manager) evictBefore(cutoff time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.LastUpdated.Before(cutoff) {
			delete(m.sessions, id)
		}
	}
}
