package auth

import (
	"fmt"
	"strings"

	"sentle-driving/internal/domain"
)

// Gate turns a bearer access token into an identity. Authorize checks that
// identity against the role capability policy.
type Gate struct {
	Access *JWTer
}

func NewGate(access *JWTer) *Gate { return &Gate{Access: access} }

// Authenticate accepts the raw Authorization header value. Every failure is
// domain.ErrUnauthenticated, wrapping the token cause.
func (g *Gate) Authenticate(header string) (domain.Identity, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	claims, err := g.Access.Parse(strings.TrimSpace(token))
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}
	role := domain.Role(claims.Role)
	if !role.Valid() {
		return domain.Identity{}, fmt.Errorf("%w: unknown role %q", domain.ErrUnauthenticated, claims.Role)
	}
	return domain.Identity{UserID: claims.Subject, Role: role}, nil
}

// Authorize passes when the identity's role holds every capability.
func Authorize(id domain.Identity, caps ...domain.Capability) error {
	for _, c := range caps {
		if !id.Role.Can(c) {
			return domain.ErrForbidden
		}
	}
	return nil
}
