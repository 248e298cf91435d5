package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentle-driving/internal/core/auth"
	"sentle-driving/internal/domain"
)

func TestLoginIssuesTokensAndRecordsSession(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id := f.register(t, "i@x.com", "instructor", "Ivy")

	res, err := f.auth.Login(ctx, "i@x.com", "password1", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, id, res.User.ID)
	assert.Empty(t, res.User.PasswordHash)

	c, err := f.access.Parse(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, id, c.Subject)
	assert.Equal(t, "instructor", c.Role)

	sess, err := f.reg.Lookup(ctx, res.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, id, sess.UserID)
	assert.Equal(t, auth.Fingerprint(res.RefreshToken), sess.TokenHash)
	assert.NotEqual(t, res.RefreshToken, sess.TokenHash, "raw token is never stored")
	assert.WithinDuration(t, f.clock.Now().Add(24*time.Hour), res.RefreshExpiresAt, time.Second)
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t, nil)
	f.register(t, "a@x.com", "admin", "")

	_, err := f.auth.Login(context.Background(), "a@x.com", "wrong-password", "ip")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = f.auth.Login(context.Background(), "b@x.com", "password1", "ip")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestMultipleSessionsPerUser(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id := f.register(t, "a@x.com", "admin", "")

	first, err := f.auth.Login(ctx, "a@x.com", "password1", "ip")
	require.NoError(t, err)
	second, err := f.auth.Login(ctx, "a@x.com", "password1", "ip")
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	require.NoError(t, f.auth.Logout(ctx, first.RefreshToken))
	_, err = f.auth.Refresh(ctx, second.RefreshToken)
	assert.NoError(t, err, "logging out one session leaves the other alive")

	list, err := f.reg.ListForUser(ctx, id)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestRefresh(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id := f.register(t, "s@x.com", "student", "Sam")
	res, err := f.auth.Login(ctx, "s@x.com", "password1", "ip")
	require.NoError(t, err)

	tok, err := f.auth.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)
	c, err := f.access.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, id, c.Subject)
	assert.Equal(t, "student", c.Role)

	_, err = f.auth.Refresh(ctx, res.RefreshToken)
	assert.NoError(t, err, "refresh tokens are not rotated")
}

func TestRefreshAfterLogoutFails(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.register(t, "s@x.com", "student", "Sam")
	res, err := f.auth.Login(ctx, "s@x.com", "password1", "ip")
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, res.RefreshToken))
	require.NoError(t, f.auth.Logout(ctx, res.RefreshToken), "logout is idempotent")

	// The token still verifies on its own.
	_, err = f.refresh.Parse(res.RefreshToken)
	require.NoError(t, err)

	_, err = f.auth.Refresh(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)
}

func TestRefreshRejections(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id := f.register(t, "s@x.com", "student", "Sam")
	res, err := f.auth.Login(ctx, "s@x.com", "password1", "ip")
	require.NoError(t, err)

	_, err = f.auth.Refresh(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)

	_, err = f.auth.Refresh(ctx, res.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken, "access tokens are not refresh tokens")

	unknown, err := f.refresh.Issue(id, "student")
	require.NoError(t, err)
	_, err = f.auth.Refresh(ctx, unknown)
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken, "validly signed but never recorded")

	f.clock.Advance(25 * time.Hour)
	_, err = f.auth.Refresh(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrRefreshTokenExpired)
}

func TestRefreshChecksSessionExpiry(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.register(t, "s@x.com", "student", "Sam")
	// Leeway keeps the token itself valid so the stored expiry decides.
	f.refresh.Leeway = 48 * time.Hour

	res, err := f.auth.Login(ctx, "s@x.com", "password1", "ip")
	require.NoError(t, err)
	f.clock.Advance(25 * time.Hour)

	_, err = f.refresh.Parse(res.RefreshToken)
	require.NoError(t, err)
	_, err = f.auth.Refresh(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrRefreshTokenExpired)
}

func TestRevokedBeatsExpired(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.register(t, "s@x.com", "student", "Sam")
	f.refresh.Leeway = 48 * time.Hour

	res, err := f.auth.Login(ctx, "s@x.com", "password1", "ip")
	require.NoError(t, err)
	require.NoError(t, f.auth.Logout(ctx, res.RefreshToken))
	f.clock.Advance(25 * time.Hour)

	_, err = f.auth.Refresh(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)
}

func TestRevokedBeatsExpiredWithoutLeeway(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.register(t, "s@x.com", "student", "Sam")
	require.Zero(t, f.refresh.Leeway)

	revoked, err := f.auth.Login(ctx, "s@x.com", "password1", "ip")
	require.NoError(t, err)
	live, err := f.auth.Login(ctx, "s@x.com", "password1", "ip")
	require.NoError(t, err)
	require.NoError(t, f.auth.Logout(ctx, revoked.RefreshToken))
	f.clock.Advance(25 * time.Hour)

	_, err = f.refresh.Parse(revoked.RefreshToken)
	require.Error(t, err, "the token itself has lapsed")

	_, err = f.auth.Refresh(ctx, revoked.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)
	_, err = f.auth.Refresh(ctx, live.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrRefreshTokenExpired)
}

func TestLogoutUnknownToken(t *testing.T) {
	f := newFixture(t, nil)
	assert.NoError(t, f.auth.Logout(context.Background(), ""))
	assert.NoError(t, f.auth.Logout(context.Background(), "not-a-token"))
}

type stubLimiter struct {
	allow  bool
	err    error
	resets []string
}

func (s *stubLimiter) Allow(context.Context, string) (bool, error) { return s.allow, s.err }
func (s *stubLimiter) Reset(_ context.Context, key string) error {
	s.resets = append(s.resets, key)
	return nil
}

func TestLoginLimiter(t *testing.T) {
	lim := &stubLimiter{allow: false}
	f := newFixture(t, lim)
	f.register(t, "a@x.com", "admin", "")

	_, err := f.auth.Login(context.Background(), "a@x.com", "password1", "ip")
	assert.ErrorIs(t, err, domain.ErrTooManyAttempts)

	lim.allow = true
	_, err = f.auth.Login(context.Background(), "A@x.com", "password1", "ip")
	require.NoError(t, err)
	assert.Equal(t, []string{"login:a@x.com:ip"}, lim.resets)
}

func TestLoginLimiterFailsOpen(t *testing.T) {
	lim := &stubLimiter{allow: false, err: errors.New("redis down")}
	f := newFixture(t, lim)
	f.register(t, "a@x.com", "admin", "")

	_, err := f.auth.Login(context.Background(), "a@x.com", "password1", "ip")
	assert.NoError(t, err)
}
