package api

import "greenroom/internal/session"

// SessionService exposes read-only session views over the store.
type SessionService struct {
	store *session.Store
}

// NewSessionService wires a SessionService.
func NewSessionService(store *session.Store) *SessionService {
	return &SessionService{store: store}
}

// List returns summaries of every session, newest first.
func (s *SessionService) List() ([]SessionSummary, error) {
	sessions, err := s.store.List()
	if err != nil {
		return nil, err
	}
	summaries := make([]SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		summaries = append(summaries, FromSessionSummary(sess))
	}
	return summaries, nil
}

// Describe returns the full view of one session.
func (s *SessionService) Describe(id string) (SessionDetail, error) {
	sess, err := s.store.Load(id)
	if err != nil {
		return SessionDetail{}, err
	}
	return FromSessionDetail(sess), nil
}
