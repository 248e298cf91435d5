package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sentle-driving/internal/core/auth"
	"sentle-driving/internal/core/server"
	"sentle-driving/internal/domain"
	mdw "sentle-driving/internal/transport/http/middleware"
	resp "sentle-driving/internal/transport/http/response"
)

// NewAdminEngine builds the admin engine. Every /admin/v1 route requires an
// access token with the admin role.
func NewAdminEngine(l *zap.Logger, opts server.Options, gate *auth.Gate, reg *Registry, lim Limits) *gin.Engine {
	r := server.NewEngine(opts)
	r.Use(lim.chain(l)...)

	r.GET("/health", func(c *gin.Context) { resp.JSON(c, http.StatusOK, gin.H{"ok": true}) })

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(gate), mdw.RequireRole(domain.RoleAdmin))
	reg.MountAdmin(admin)
	return r
}
