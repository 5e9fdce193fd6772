package repositories

import (
	"context"

	"peerprep/interview/internal/models"
	"peerprep/interview/internal/store"
)

const sessionDocument = "session"

// SessionRepository keeps the per-user UI session, one document per scope.
type SessionRepository struct {
	backend store.Backend
}

func NewSessionRepository(backend store.Backend) *SessionRepository {
	return &SessionRepository{backend: backend}
}

func (r *SessionRepository) Get(ctx context.Context, scope store.Scope) (*models.SessionState, error) {
	return store.View[models.SessionState](ctx, r.backend, scope.Key(sessionDocument))
}

func (r *SessionRepository) Update(ctx context.Context, scope store.Scope, fn func(s *models.SessionState) error) error {
	return store.Update(ctx, r.backend, scope.Key(sessionDocument), fn)
}
