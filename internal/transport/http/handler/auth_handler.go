package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sentle-driving/internal/domain"
	"sentle-driving/internal/service"
	httpez "sentle-driving/internal/transport/http/ez"
)

// CookieOptions shape the refresh token cookie. Path must cover both the
// refresh and the logout routes.
type CookieOptions struct {
	Name   string
	Path   string
	Domain string
	Secure bool
}

type AuthHandler struct {
	auth    *service.AuthService
	creds   *service.CredentialService
	catalog *service.CatalogService
	cookie  CookieOptions
	log     *zap.Logger
}

// NewAuthHandler wires the auth routes. catalog may be nil; when set, its
// cached pick list is dropped after a student or instructor registers.
func NewAuthHandler(a *service.AuthService, creds *service.CredentialService, catalog *service.CatalogService, cookie CookieOptions, log *zap.Logger) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "refresh_token"
	}
	if cookie.Path == "" {
		cookie.Path = "/auth"
	}
	return &AuthHandler{auth: a, creds: creds, catalog: catalog, cookie: cookie, log: log}
}

func (h *AuthHandler) Priority() int { return 10 }

type registerIn struct {
	Email    string `json:"email"    binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role"     binding:"required,oneof=admin instructor student"`
	FullName string `json:"fullName" binding:"omitempty,min=2,max=120"`
}

// loginIn leaves email format alone: the credential store normalises it, and
// a malformed address is just an unknown one.
type loginIn struct {
	Email    string `json:"email"    binding:"required,max=254"`
	Password string `json:"password" binding:"required,max=1024"`
}

type userOut struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

func toUserOut(u *domain.User) userOut { return userOut{ID: u.ID, Email: u.Email, Role: u.Role} }

type userData struct {
	User userOut `json:"user"`
}

type loginOut struct {
	AccessToken string  `json:"accessToken"`
	User        userOut `json:"user"`
}

type accessOut struct {
	AccessToken string `json:"accessToken"`
}

func (h *AuthHandler) MountAPI(public, _ *gin.RouterGroup) {
	ez := httpez.New(public.Group("/auth"), h.log)

	httpez.Register(ez, httpez.Action[registerIn, userData]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *registerIn) (userData, error) {
			u, err := h.creds.Register(c.Request.Context(), service.RegisterInput{
				Email:    in.Email,
				Password: in.Password,
				Role:     in.Role,
				FullName: in.FullName,
			})
			if err != nil {
				return userData{}, err
			}
			if h.catalog != nil {
				h.catalog.Forget(c.Request.Context(), u.Role)
			}
			return userData{User: toUserOut(u)}, nil
		},
	})

	httpez.Register(ez, httpez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (loginOut, error) {
			res, err := h.auth.Login(c.Request.Context(), in.Email, in.Password, c.ClientIP())
			if err != nil {
				return loginOut{}, err
			}
			h.setCookie(c, res.RefreshToken, res.RefreshExpiresAt)
			return loginOut{AccessToken: res.AccessToken, User: toUserOut(&res.User)}, nil
		},
	})

	httpez.Register(ez, httpez.Action[struct{}, accessOut]{
		Method: http.MethodPost,
		Path:   "/refresh",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (accessOut, error) {
			raw, _ := c.Cookie(h.cookie.Name)
			tok, err := h.auth.Refresh(c.Request.Context(), raw)
			if err != nil {
				return accessOut{}, err
			}
			return accessOut{AccessToken: tok}, nil
		},
	})

	httpez.Register(ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/logout",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			raw, _ := c.Cookie(h.cookie.Name)
			if err := h.auth.Logout(c.Request.Context(), raw); err != nil {
				// Logout always succeeds for the client; the session simply
				// outlives the cookie until it expires.
				h.log.Error("logout revoke failed", zap.Error(err))
			}
			h.clearCookie(c)
			return gin.H{}, nil
		},
	})
}

func (h *AuthHandler) setCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = int(h.auth.RefreshTTL().Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, maxAge, h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
}

func (h *AuthHandler) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
}
