package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"sentle-driving/internal/core/auth"
	"sentle-driving/internal/core/metrics"
	"sentle-driving/internal/domain"
	"sentle-driving/pkg/utils"
)

const (
	DefaultLessonLimit = 50
	MaxLessonLimit     = 100
)

type CreateLessonInput struct {
	StudentID    string  `json:"studentId"    validate:"required,uuid"`
	InstructorID string  `json:"instructorId" validate:"required,uuid"`
	VehicleID    *string `json:"vehicleId"    validate:"omitempty,uuid"`
	StartsAt     string  `json:"startsAt"     validate:"required"`
	EndsAt       string  `json:"endsAt"       validate:"required"`
	Notes        *string `json:"notes"        validate:"omitempty,max=500"`
}

// BookingService lists lessons by role and creates lessons without double
// booking an instructor or a vehicle.
type BookingService struct {
	lessons domain.LessonRepository
	log     *zap.Logger
}

func NewBookingService(lessons domain.LessonRepository, log *zap.Logger) *BookingService {
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingService{lessons: lessons, log: log}
}

// ClampLimit applies the default and the upper bound to a caller limit.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLessonLimit
	case limit > MaxLessonLimit:
		return MaxLessonLimit
	}
	return limit
}

func (s *BookingService) ListVisible(ctx context.Context, id domain.Identity, limit int) ([]domain.LessonView, error) {
	var scope domain.LessonScope
	switch {
	case id.Role.Can(domain.CapReadAll):
		scope = domain.LessonScope{All: true}
	case id.Role.Can(domain.CapReadOwn):
		scope = domain.LessonScope{Role: id.Role, UserID: id.UserID}
	default:
		return nil, domain.ErrForbidden
	}
	return s.lessons.ListVisible(ctx, scope, ClampLimit(limit))
}

// timestampLayouts are ISO 8601 date-times with a mandatory offset, with or
// without seconds.
var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04Z07:00"}

// ParseTimestamp rejects naive timestamps. The result is in UTC.
func ParseTimestamp(field, v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.Invalid(field + " must be an ISO 8601 date-time with a timezone offset")
}

func (s *BookingService) Create(ctx context.Context, id domain.Identity, in CreateLessonInput) (*domain.LessonView, error) {
	if err := auth.Authorize(id, domain.CapWriteBooking); err != nil {
		return nil, err
	}

	if in.VehicleID != nil && *in.VehicleID == "" {
		in.VehicleID = nil
	}
	if err := validate.Struct(in); err != nil {
		return nil, invalid(err)
	}
	start, err := ParseTimestamp("startsAt", in.StartsAt)
	if err != nil {
		return nil, err
	}
	end, err := ParseTimestamp("endsAt", in.EndsAt)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, domain.ErrInvalidRange
	}

	view, err := s.lessons.Book(ctx, &domain.Lesson{
		ID:           utils.NewID(),
		StudentID:    in.StudentID,
		InstructorID: in.InstructorID,
		VehicleID:    in.VehicleID,
		StartsAt:     start,
		EndsAt:       end,
		Status:       domain.LessonScheduled,
		Notes:        in.Notes,
	})
	if err != nil {
		switch de := domain.AsError(err); de.Kind {
		case domain.KindConflict:
			metrics.BookingConflicts.WithLabelValues(de.Code).Inc()
		case domain.KindInternal:
			s.log.Error("book lesson failed", zap.String("instructor_id", in.InstructorID), zap.Error(err))
		}
		return nil, err
	}
	metrics.LessonsBooked.Inc()
	s.log.Info("lesson booked",
		zap.String("lesson_id", view.ID),
		zap.String("instructor_id", view.InstructorID),
		zap.String("booked_by", id.UserID),
	)
	return view, nil
}
