package history

import "sync"

// Sessions maps session IDs to their histories. A session is registered only
// once it has a completed analysis; lookups never create entries.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*History
}

// NewSessions creates an empty registry.
func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[string]*History)}
}

// Lookup returns the history for sessionID if one is registered.
func (s *Sessions) Lookup(sessionID string) (*History, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.sessions[sessionID]
	return h, ok
}

// Adopt registers h under sessionID and returns the registered history. If
// another history won the race for the same ID, h's records are appended to
// it in order and that history is returned.
func (s *Sessions) Adopt(sessionID string, h *History) *History {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.sessions[sessionID]
	if !ok {
		s.sessions[sessionID] = h
		return h
	}
	if existing != h {
		for _, rec := range h.All() {
			existing.Append(rec)
		}
	}
	return existing
}

// Count returns the number of registered sessions.
func (s *Sessions) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
