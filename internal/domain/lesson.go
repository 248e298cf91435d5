package domain

import (
	"context"
	"time"
)

type LessonStatus string

const (
	LessonScheduled LessonStatus = "scheduled"
	LessonCompleted LessonStatus = "completed"
	LessonCancelled LessonStatus = "cancelled"
)

type Lesson struct {
	ID           string       `json:"id"`
	StudentID    string       `json:"studentId"`
	InstructorID string       `json:"instructorId"`
	VehicleID    *string      `json:"vehicleId"`
	StartsAt     time.Time    `json:"startsAt"`
	EndsAt       time.Time    `json:"endsAt"`
	Status       LessonStatus `json:"status"`
	Notes        *string      `json:"notes"`
}

// LessonView is a lesson joined with display fields for rendering.
type LessonView struct {
	Lesson
	StudentName    string  `json:"studentName"`
	InstructorName string  `json:"instructorName"`
	VehicleLabel   *string `json:"vehicleLabel"`
}

type Vehicle struct {
	ID                 string `json:"id"`
	Make               string `json:"make"`
	Model              string `json:"model"`
	RegistrationNumber string `json:"registrationNumber"`
	Active             bool   `json:"isActive"`
}

// Label is the human readable vehicle name used in lesson views.
func (v Vehicle) Label() string {
	return v.Make + " " + v.Model + " (" + v.RegistrationNumber + ")"
}

// LessonScope restricts a listing to lessons visible to one caller. An empty
// UserID with All set means every lesson.
type LessonScope struct {
	All    bool
	Role   Role
	UserID string
}

type LessonRepository interface {
	ListVisible(ctx context.Context, scope LessonScope, limit int) ([]LessonView, error)
	// Book performs the overlap checks and the insert atomically. It fails
	// with ErrInstructorConflict or ErrVehicleConflict on overlap.
	Book(ctx context.Context, l *Lesson) (*LessonView, error)
}

// CatalogEntry is a student or instructor as listed for staff.
type CatalogEntry struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

type CatalogRepository interface {
	Students(ctx context.Context, limit int) ([]CatalogEntry, error)
	Instructors(ctx context.Context, limit int) ([]CatalogEntry, error)
	ActiveVehicles(ctx context.Context, limit int) ([]Vehicle, error)
}
