package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"sentle-driving/internal/core/auth"
	"sentle-driving/internal/repo"
	"sentle-driving/internal/service"
	"sentle-driving/internal/testutil"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	db      *gorm.DB
	clock   *clock
	creds   *service.CredentialService
	reg     *service.SessionRegistry
	access  *auth.JWTer
	refresh *auth.JWTer
	auth    *service.AuthService
}

func newFixture(t *testing.T, limiter service.AttemptLimiter) *fixture {
	t.Helper()
	db := testutil.SQLite(t)
	clk := &clock{t: time.Now()}

	creds, err := service.NewCredentialService(repo.NewUserRepo(db), bcrypt.MinCost, nil)
	require.NoError(t, err)
	reg := service.NewSessionRegistry(repo.NewSessionRepo(db), clk.Now)
	access := &auth.JWTer{Secret: []byte("access-secret-0123456789"), Issuer: "test", TTL: 15 * time.Minute, Kind: auth.KindAccess, Now: clk.Now}
	refresh := &auth.JWTer{Secret: []byte("refresh-secret-0123456789"), Issuer: "test", TTL: 24 * time.Hour, Kind: auth.KindRefresh, Now: clk.Now}

	return &fixture{
		db:      db,
		clock:   clk,
		creds:   creds,
		reg:     reg,
		access:  access,
		refresh: refresh,
		auth: service.NewAuthService(service.AuthDeps{
			Credentials: creds,
			Sessions:    reg,
			Access:      access,
			Refresh:     refresh,
			Limiter:     limiter,
			Now:         clk.Now,
		}),
	}
}

func (f *fixture) register(t *testing.T, email, role, name string) string {
	t.Helper()
	u, err := f.creds.Register(context.Background(), service.RegisterInput{
		Email: email, Password: "password1", Role: role, FullName: name,
	})
	require.NoError(t, err)
	return u.ID
}
