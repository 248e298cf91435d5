package service

import (
	"context"
	"time"

	"sentle-driving/internal/core/auth"
	"sentle-driving/internal/domain"
)

// SessionRegistry is the revocation list for refresh tokens. It stores only
// token fingerprints.
type SessionRegistry struct {
	repo domain.SessionRepository
	now  func() time.Time
}

func NewSessionRegistry(repo domain.SessionRepository, now func() time.Time) *SessionRegistry {
	if now == nil {
		now = time.Now
	}
	return &SessionRegistry{repo: repo, now: now}
}

// Record stores the fingerprint of rawToken, expiring ttl from now.
func (r *SessionRegistry) Record(ctx context.Context, userID, rawToken string, ttl time.Duration) (*domain.RefreshSession, error) {
	s := &domain.RefreshSession{
		UserID:    userID,
		TokenHash: auth.Fingerprint(rawToken),
		ExpiresAt: r.now().Add(ttl).UTC(),
	}
	if err := r.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Lookup returns domain.ErrNotFound for unknown tokens.
func (r *SessionRegistry) Lookup(ctx context.Context, rawToken string) (*domain.RefreshSession, error) {
	return r.repo.FindByHash(ctx, auth.Fingerprint(rawToken))
}

// Revoke is idempotent: unknown or already revoked tokens are a no-op.
func (r *SessionRegistry) Revoke(ctx context.Context, rawToken string) error {
	return r.repo.Revoke(ctx, auth.Fingerprint(rawToken), r.now())
}

func (r *SessionRegistry) RevokeAllForUser(ctx context.Context, userID string) (int64, error) {
	return r.repo.RevokeAllForUser(ctx, userID, r.now())
}

func (r *SessionRegistry) ListForUser(ctx context.Context, userID string) ([]domain.RefreshSession, error) {
	return r.repo.ListForUser(ctx, userID)
}
