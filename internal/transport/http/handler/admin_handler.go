package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sentle-driving/internal/domain"
	"sentle-driving/internal/service"
	httpez "sentle-driving/internal/transport/http/ez"
	"sentle-driving/pkg/utils"
)

// AdminHandler lists accounts and manages their refresh sessions. The admin
// group it mounts on already requires the admin role.
type AdminHandler struct {
	users    domain.UserRepository
	sessions *service.SessionRegistry
	log      *zap.Logger
}

func NewAdminHandler(users domain.UserRepository, sessions *service.SessionRegistry, log *zap.Logger) *AdminHandler {
	return &AdminHandler{users: users, sessions: sessions, log: log}
}

type listUsersQ struct {
	Offset int    `form:"offset,default=0"`
	Limit  int    `form:"limit,default=20"`
	Role   string `form:"role"`
}

type userRow struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

type listUsersOut struct {
	Total int64     `json:"total"`
	Items []userRow `json:"items"`
}

type sessionRow struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt time.Time  `json:"expiresAt"`
	RevokedAt *time.Time `json:"revokedAt"`
	Active    bool       `json:"active"`
}

func (h *AdminHandler) MountAdmin(admin *gin.RouterGroup) {
	ez := httpez.New(admin, h.log)

	httpez.Register(ez, httpez.Action[listUsersQ, listUsersOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *listUsersQ) (listUsersOut, error) {
			if in.Limit <= 0 || in.Limit > 100 {
				in.Limit = 20
			}
			if in.Offset < 0 {
				in.Offset = 0
			}
			var role domain.Role
			if s := strings.TrimSpace(in.Role); s != "" {
				r, err := domain.ParseRole(s)
				if err != nil {
					return listUsersOut{}, err
				}
				role = r
			}
			us, total, err := h.users.List(c.Request.Context(), role, in.Offset, in.Limit)
			if err != nil {
				return listUsersOut{}, err
			}
			out := listUsersOut{Total: total, Items: make([]userRow, 0, len(us))}
			for _, u := range us {
				out.Items = append(out.Items, userRow{ID: u.ID, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt})
			}
			return out, nil
		},
	})

	httpez.Register(ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/users/:id/sessions",
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			uid, err := h.userParam(c)
			if err != nil {
				return nil, err
			}
			ss, err := h.sessions.ListForUser(c.Request.Context(), uid)
			if err != nil {
				return nil, err
			}
			now := time.Now()
			rows := make([]sessionRow, 0, len(ss))
			for _, s := range ss {
				rows = append(rows, sessionRow{
					ID:        s.ID,
					CreatedAt: s.CreatedAt,
					ExpiresAt: s.ExpiresAt,
					RevokedAt: s.RevokedAt,
					Active:    !s.Revoked() && !s.Expired(now),
				})
			}
			return gin.H{"sessions": rows}, nil
		},
	})

	httpez.Register(ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/users/:id/sessions/revoke",
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			uid, err := h.userParam(c)
			if err != nil {
				return nil, err
			}
			n, err := h.sessions.RevokeAllForUser(c.Request.Context(), uid)
			if err != nil {
				return nil, err
			}
			h.log.Info("sessions revoked", zap.String("user_id", uid), zap.Int64("count", n))
			return gin.H{"id": uid, "revoked": n}, nil
		},
	})
}

// userParam resolves :id to an existing user.
func (h *AdminHandler) userParam(c *gin.Context) (string, error) {
	id := c.Param("id")
	if !utils.IsID(id) {
		return "", domain.Invalid("id must be a uuid")
	}
	u, err := h.users.FindByID(c.Request.Context(), id)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", domain.NotFound("user")
	}
	return u.ID, nil
}
