package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind distinguishes access tokens from refresh tokens. Each kind is signed
// with its own secret.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

type Claims struct {
	Role string `json:"role"`
	Kind Kind   `json:"typ"`
	jwt.RegisteredClaims
}

type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	Kind   Kind
	Leeway time.Duration
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

func (j *JWTer) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

// Issue signs a token for uid with the issuer's TTL.
func (j *JWTer) Issue(uid, role string) (string, error) {
	tok, _, err := j.IssueWithExpiry(uid, role)
	return tok, err
}

// IssueWithExpiry is Issue that also reports the expiry it signed.
func (j *JWTer) IssueWithExpiry(uid, role string) (string, time.Time, error) {
	now := j.now()
	exp := now.Add(j.TTL)
	claims := Claims{
		Role: role,
		Kind: j.Kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   uid,
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", j.Kind, err)
	}
	return s, exp, nil
}

func (j *JWTer) keyFunc(token *jwt.Token) (interface{}, error) {
	if token.Method != jwt.SigningMethodHS256 {
		return nil, fmt.Errorf("unexpected alg")
	}
	return j.Secret, nil
}

// Parse verifies signature, issuer, kind and expiry. It fails with
// ErrTokenExpired for a lapsed token and ErrTokenInvalid otherwise.
func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, j.keyFunc,
		jwt.WithIssuer(j.Issuer),
		jwt.WithLeeway(j.Leeway),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	return j.checkClaims(t)
}

// ParseIgnoringExpiry verifies signature, issuer and kind but leaves the
// expiry to the caller: expired reports whether exp plus leeway has passed.
func (j *JWTer) ParseIgnoringExpiry(tokenStr string) (c *Claims, expired bool, err error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, j.keyFunc, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	c, err = j.checkClaims(t)
	if err != nil {
		return nil, false, err
	}
	if j.Issuer != "" && c.Issuer != j.Issuer {
		return nil, false, fmt.Errorf("%w: issuer %q", ErrTokenInvalid, c.Issuer)
	}
	if c.ExpiresAt == nil {
		return nil, false, fmt.Errorf("%w: no exp", ErrTokenInvalid)
	}
	return c, !j.now().Before(c.ExpiresAt.Add(j.Leeway)), nil
}

func (j *JWTer) checkClaims(t *jwt.Token) (*Claims, error) {
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid || c.Subject == "" {
		return nil, ErrTokenInvalid
	}
	if c.Kind != j.Kind {
		return nil, fmt.Errorf("%w: expected %s token", ErrTokenInvalid, j.Kind)
	}
	return c, nil
}
