package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sentle-driving/internal/domain"
	"sentle-driving/internal/service"
	httpez "sentle-driving/internal/transport/http/ez"
)

// CatalogHandler serves the pick lists staff need to book a lesson.
type CatalogHandler struct {
	catalog *service.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(s *service.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: s, log: log}
}

func (h *CatalogHandler) MountAPI(_, authed *gin.RouterGroup) {
	ez := httpez.New(authed.Group("/catalog"), h.log)
	staff := []domain.Capability{domain.CapWriteBooking}

	httpez.Register(ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/students",
		Caps:   staff,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			s, err := h.catalog.Students(c.Request.Context())
			if err != nil {
				return nil, err
			}
			return gin.H{"students": nonNil(s)}, nil
		},
	})
	httpez.Register(ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/instructors",
		Caps:   staff,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			s, err := h.catalog.Instructors(c.Request.Context())
			if err != nil {
				return nil, err
			}
			return gin.H{"instructors": nonNil(s)}, nil
		},
	})
	httpez.Register(ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/vehicles",
		Caps:   staff,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			v, err := h.catalog.Vehicles(c.Request.Context())
			if err != nil {
				return nil, err
			}
			return gin.H{"vehicles": nonNil(v)}, nil
		},
	})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
