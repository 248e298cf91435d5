package domain

import (
	"context"
	"time"
)

// RefreshSession is the server-side record of an issued refresh token. Only
// the token fingerprint is stored.
type RefreshSession struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	TokenHash string     `json:"-"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt time.Time  `json:"expiresAt"`
	RevokedAt *time.Time `json:"revokedAt,omitempty"`
}

func (s RefreshSession) Revoked() bool { return s.RevokedAt != nil }

func (s RefreshSession) Expired(now time.Time) bool { return !now.Before(s.ExpiresAt) }

type SessionRepository interface {
	Create(ctx context.Context, s *RefreshSession) error
	// FindByHash returns ErrNotFound when no session has the fingerprint.
	FindByHash(ctx context.Context, tokenHash string) (*RefreshSession, error)
	// Revoke sets revoked_at on an unrevoked session; missing rows are not an error.
	Revoke(ctx context.Context, tokenHash string, at time.Time) error
	RevokeAllForUser(ctx context.Context, userID string, at time.Time) (int64, error)
	ListForUser(ctx context.Context, userID string) ([]RefreshSession, error)
}
