package ez

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"sentle-driving/internal/core/auth"
	"sentle-driving/internal/domain"
	mdw "sentle-driving/internal/transport/http/middleware"
	resp "sentle-driving/internal/transport/http/response"
	"sentle-driving/pkg/utils"
)

// Binding errors name fields the way clients send them.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(utils.FieldName)
	}
}

type Binder string

const (
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
	BindNone  Binder = "none"
)

// EZ registers actions on a router group and reports their failures through
// one logger.
type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, log *zap.Logger) EZ {
	if log == nil {
		log = zap.NewNop()
	}
	return EZ{g: g, log: log}
}

// Action is a single endpoint: I is bound from the request, O becomes data.
type Action[I any, O any] struct {
	Method string
	Path   string
	Binder Binder
	// Status on success, 200 when zero.
	Status int
	// Auth requires an identity set by middleware.AuthJWT.
	Auth bool
	// Caps are checked against the identity's role; they imply Auth.
	Caps    []domain.Capability
	Handler func(c *gin.Context, in *I) (O, error)
}

func Register[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		if a.Auth || len(a.Caps) > 0 {
			id, ok := mdw.IdentityFrom(c)
			if !ok {
				Fail(c, e.log, domain.ErrUnauthenticated)
				return
			}
			if err := auth.Authorize(id, a.Caps...); err != nil {
				Fail(c, e.log, err)
				return
			}
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			resp.Abort(c, http.StatusBadRequest, resp.ErrCodeInvalidInput, bindMessage(bindErr))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			Fail(c, e.log, err)
			return
		}
		resp.JSON(c, status, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

func bindMessage(err error) string {
	if msg, ok := utils.ValidationMessage(err); ok {
		return msg
	}
	msg := err.Error()
	if strings.Contains(msg, "http: request body too large") {
		return "request body too large"
	}
	if msg == "EOF" {
		return "request body is required"
	}
	return "malformed request: " + msg
}
