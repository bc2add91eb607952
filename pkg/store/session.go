package store

import (
	"sync"

	"lingua-workbench-be/pkg/llm"
)

// Session represents the active assistant session state in memory.
// One session is shared by every concurrent request using its id, so
// the mutable state stays behind the mutex.
type Session struct {
	ID       string
	Audience string // "user" | "developer"

	mu        sync.Mutex
	history   []llm.Message
	lastQuery string
}

// Append records one exchange and truncates the history so a long lived
// session does not grow without bound.
func (s *Session) Append(userMsg, assistantMsg llm.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, userMsg, assistantMsg)
	if len(s.history) > MaxHistoryMessages {
		s.history = s.history[len(s.history)-MaxHistoryMessages:]
	}
}

// History returns a copy of the conversation, safe to iterate while
// other requests append to the session.
func (s *Session) History() []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]llm.Message(nil), s.history...)
}

func (s *Session) SetLastQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastQuery = query
}

func (s *Session) LastQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastQuery
}

const (
	AudienceUser      = "user"
	AudienceDeveloper = "developer"

	MaxHistoryMessages = 20
)
