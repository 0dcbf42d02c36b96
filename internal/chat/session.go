// Package chat keeps per-video conversation sessions with the coach
// persona and turns analysis output into chat replies.
package chat

import (
	"sync"
	"time"
)

// Exchange is one question and answer pair in a session.
type Exchange struct {
	User string `json:"user"`
	AI   string `json:"ai"`
}

type session struct {
	history  []Exchange
	lastUsed time.Time
}

// SessionStore holds in-memory chat histories keyed by video ID.
// Sessions idle longer than the TTL are dropped; a zero TTL keeps them
// for the lifetime of the process.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*session),
		ttl:      ttl,
	}
}

// Init ensures a session exists for the video, leaving an existing
// history untouched.
func (s *SessionStore) Init(videoID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evict()

	if _, ok := s.sessions[videoID]; !ok {
		s.sessions[videoID] = &session{lastUsed: time.Now()}
	}
}

// History returns a copy of the session's exchanges, creating the
// session if needed.
func (s *SessionStore) History(videoID string) []Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evict()

	sess, ok := s.sessions[videoID]
	if !ok {
		sess = &session{}
		s.sessions[videoID] = sess
	}
	sess.lastUsed = time.Now()

	history := make([]Exchange, len(sess.history))
	copy(history, sess.history)
	return history
}

// Append records an exchange at the end of the session.
func (s *SessionStore) Append(videoID string, ex Exchange) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[videoID]
	if !ok {
		sess = &session{}
		s.sessions[videoID] = sess
	}
	sess.history = append(sess.history, ex)
	sess.lastUsed = time.Now()
}

func (s *SessionStore) evict() {
	if s.ttl <= 0 {
		return
	}
	cutoff := time.Now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.lastUsed.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
