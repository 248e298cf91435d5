package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sentle-driving/internal/core/database"
	httpez "sentle-driving/internal/transport/http/ez"
	mdw "sentle-driving/internal/transport/http/middleware"
)

// SystemHandler serves liveness, the database check and /me.
type SystemHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewSystemHandler(db *gorm.DB, log *zap.Logger) *SystemHandler {
	return &SystemHandler{db: db, log: log}
}

func (h *SystemHandler) Priority() int { return 0 }

func (h *SystemHandler) MountAPI(public, authed *gin.RouterGroup) {
	pub := httpez.New(public, h.log)

	httpez.Register(pub, httpez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/health",
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			return gin.H{"ok": true}, nil
		},
	})

	httpez.Register(pub, httpez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/health/db",
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			now, err := database.Ping(c.Request.Context(), h.db)
			if err != nil {
				return nil, err
			}
			return gin.H{"ok": true, "dbTime": now.UTC().Format(time.RFC3339Nano)}, nil
		},
	})

	httpez.Register(httpez.New(authed, h.log), httpez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/me",
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, _ := mdw.IdentityFrom(c)
			return gin.H{"user": gin.H{
				"id":           id.UserID,
				"role":         id.Role,
				"capabilities": id.Role.Capabilities(),
			}}, nil
		},
	})
}

