package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sentle-driving/internal/core/auth"
	"sentle-driving/internal/domain"
	resp "sentle-driving/internal/transport/http/response"
)

const keyIdentity = "identity"

// AuthJWT authenticates the bearer access token and stores the identity in
// the gin context. Failures stop the chain with 401.
func AuthJWT(g *auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := g.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			_ = c.Error(err)
			resp.Abort(c, http.StatusUnauthorized, domain.ErrUnauthenticated.Code, domain.ErrUnauthenticated.Msg)
			return
		}
		c.Set(keyIdentity, id)
		c.Next()
	}
}

// RequireRole must run after AuthJWT.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			resp.Abort(c, http.StatusUnauthorized, domain.ErrUnauthenticated.Code, domain.ErrUnauthenticated.Msg)
			return
		}
		if id.Role != role {
			resp.Abort(c, http.StatusForbidden, domain.ErrForbidden.Code, domain.ErrForbidden.Msg)
			return
		}
		c.Next()
	}
}

func IdentityFrom(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(keyIdentity)
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok
}
