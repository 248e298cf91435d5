package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sentle-driving/internal/core/auth"
	"sentle-driving/internal/core/metrics"
	"sentle-driving/internal/domain"
)

// AttemptLimiter throttles login attempts per key.
type AttemptLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

type LoginResult struct {
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
	User             domain.User
}

// AuthService drives login, refresh and logout over the credential store,
// the token issuers and the session registry.
type AuthService struct {
	creds    *CredentialService
	sessions *SessionRegistry
	access   *auth.JWTer
	refresh  *auth.JWTer
	limiter  AttemptLimiter
	now      func() time.Time
	log      *zap.Logger
}

type AuthDeps struct {
	Credentials *CredentialService
	Sessions    *SessionRegistry
	Access      *auth.JWTer
	Refresh     *auth.JWTer
	Limiter     AttemptLimiter // optional
	Now         func() time.Time
	Log         *zap.Logger
}

func NewAuthService(d AuthDeps) *AuthService {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return &AuthService{
		creds:    d.Credentials,
		sessions: d.Sessions,
		access:   d.Access,
		refresh:  d.Refresh,
		limiter:  d.Limiter,
		now:      d.Now,
		log:      d.Log,
	}
}

// Login verifies the credentials, mints an access and a refresh token and
// records the refresh session. clientKey (usually the client IP) scopes the
// attempt limiter.
func (s *AuthService) Login(ctx context.Context, email, password, clientKey string) (*LoginResult, error) {
	limitKey := "login:" + NormalizeEmail(email) + ":" + clientKey
	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, limitKey)
		if err != nil {
			s.log.Warn("login limiter unavailable", zap.Error(err))
		} else if !ok {
			metrics.Logins.WithLabelValues("throttled").Inc()
			return nil, domain.ErrTooManyAttempts
		}
	}

	u, err := s.creds.Verify(ctx, email, password)
	if err != nil {
		metrics.Logins.WithLabelValues("rejected").Inc()
		return nil, err
	}

	access, err := s.access.Issue(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.refresh.IssueWithExpiry(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}
	sess, err := s.sessions.Record(ctx, u.ID, refresh, s.refresh.TTL)
	if err != nil {
		return nil, fmt.Errorf("record session: %w", err)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, limitKey); err != nil {
			s.log.Warn("login limiter reset failed", zap.Error(err))
		}
	}
	metrics.Logins.WithLabelValues("ok").Inc()
	return &LoginResult{
		AccessToken:      access,
		RefreshToken:     refresh,
		RefreshExpiresAt: sess.ExpiresAt,
		User:             *u,
	}, nil
}

// Refresh exchanges a refresh token for a new access token. The checks run
// in order (signature, fingerprint, revocation, expiry) and stop at the
// first failure. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, rawRefresh string) (string, error) {
	tok, err := s.refreshAccess(ctx, rawRefresh)
	result := "ok"
	if err != nil {
		result = domain.AsError(err).Code
	}
	metrics.Refreshes.WithLabelValues(result).Inc()
	return tok, err
}

func (s *AuthService) refreshAccess(ctx context.Context, rawRefresh string) (string, error) {
	if rawRefresh == "" {
		return "", domain.ErrInvalidRefreshToken
	}
	// Expiry is checked last: a revoked session stays invalid after its
	// token lapses.
	claims, tokenExpired, err := s.refresh.ParseIgnoringExpiry(rawRefresh)
	if err != nil {
		return "", domain.ErrInvalidRefreshToken
	}
	sess, err := s.sessions.Lookup(ctx, rawRefresh)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.ErrInvalidRefreshToken
	}
	if err != nil {
		return "", fmt.Errorf("lookup session: %w", err)
	}
	if sess.Revoked() || sess.UserID != claims.Subject {
		return "", domain.ErrInvalidRefreshToken
	}
	if tokenExpired || sess.Expired(s.now()) {
		return "", domain.ErrRefreshTokenExpired
	}
	return s.access.Issue(claims.Subject, claims.Role)
}

// Logout revokes the refresh session behind rawRefresh. It never fails for
// missing, unknown or already revoked tokens.
func (s *AuthService) Logout(ctx context.Context, rawRefresh string) error {
	if rawRefresh == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, rawRefresh)
}

// RefreshTTL is the lifetime of issued refresh tokens.
func (s *AuthService) RefreshTTL() time.Duration { return s.refresh.TTL }
