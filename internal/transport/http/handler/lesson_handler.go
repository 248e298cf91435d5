package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sentle-driving/internal/domain"
	"sentle-driving/internal/service"
	httpez "sentle-driving/internal/transport/http/ez"
	mdw "sentle-driving/internal/transport/http/middleware"
)

type LessonHandler struct {
	booking *service.BookingService
	log     *zap.Logger
}

func NewLessonHandler(b *service.BookingService, log *zap.Logger) *LessonHandler {
	return &LessonHandler{booking: b, log: log}
}

type listLessonsQ struct {
	Limit int `form:"limit"`
}

type lessonsOut struct {
	Lessons []domain.LessonView `json:"lessons"`
}

// createLessonIn accepts an empty vehicleId as "no vehicle".
type createLessonIn struct {
	StudentID    string  `json:"studentId"    binding:"required,uuid"`
	InstructorID string  `json:"instructorId" binding:"required,uuid"`
	VehicleID    *string `json:"vehicleId"    binding:"omitempty,uuid|eq="`
	StartsAt     string  `json:"startsAt"     binding:"required"`
	EndsAt       string  `json:"endsAt"       binding:"required"`
	Notes        *string `json:"notes"        binding:"omitempty,max=500"`
}

type lessonOut struct {
	Lesson *domain.LessonView `json:"lesson"`
}

func (h *LessonHandler) MountAPI(_, authed *gin.RouterGroup) {
	ez := httpez.New(authed.Group("/lessons"), h.log)

	httpez.Register(ez, httpez.Action[listLessonsQ, lessonsOut]{
		Method: http.MethodGet,
		Path:   "",
		Binder: httpez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *listLessonsQ) (lessonsOut, error) {
			id, _ := mdw.IdentityFrom(c)
			ls, err := h.booking.ListVisible(c.Request.Context(), id, in.Limit)
			if err != nil {
				return lessonsOut{}, err
			}
			if ls == nil {
				ls = []domain.LessonView{}
			}
			return lessonsOut{Lessons: ls}, nil
		},
	})

	httpez.Register(ez, httpez.Action[createLessonIn, lessonOut]{
		Method: http.MethodPost,
		Path:   "",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Caps:   []domain.Capability{domain.CapWriteBooking},
		Handler: func(c *gin.Context, in *createLessonIn) (lessonOut, error) {
			id, _ := mdw.IdentityFrom(c)
			v, err := h.booking.Create(c.Request.Context(), id, service.CreateLessonInput{
				StudentID:    in.StudentID,
				InstructorID: in.InstructorID,
				VehicleID:    in.VehicleID,
				StartsAt:     in.StartsAt,
				EndsAt:       in.EndsAt,
				Notes:        in.Notes,
			})
			if err != nil {
				return lessonOut{}, err
			}
			return lessonOut{Lesson: v}, nil
		},
	})
}
