package lesson

import (
	"time"

	"sentle-driving/internal/domain"
	"sentle-driving/internal/feature/user"
)

type VehicleModel struct {
	ID                 string `gorm:"primaryKey;type:varchar(36)"`
	Make               string `gorm:"size:64;not null"`
	Model              string `gorm:"size:64;not null"`
	RegistrationNumber string `gorm:"uniqueIndex;size:32;not null"`
	IsActive           bool   `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (VehicleModel) TableName() string { return "vehicles" }

func (m VehicleModel) ToDomain() domain.Vehicle {
	return domain.Vehicle{
		ID:                 m.ID,
		Make:               m.Make,
		Model:              m.Model,
		RegistrationNumber: m.RegistrationNumber,
		Active:             m.IsActive,
	}
}

type LessonModel struct {
	ID           string               `gorm:"primaryKey;type:varchar(36)"`
	StudentID    string               `gorm:"type:varchar(36);index;not null"`
	Student      user.StudentModel    `gorm:"foreignKey:StudentID"`
	InstructorID string               `gorm:"type:varchar(36);index:idx_lessons_instructor_time;not null"`
	Instructor   user.InstructorModel `gorm:"foreignKey:InstructorID"`
	VehicleID    *string              `gorm:"type:varchar(36);index:idx_lessons_vehicle_time"`
	Vehicle      *VehicleModel        `gorm:"foreignKey:VehicleID"`
	StartsAt     time.Time            `gorm:"not null;index:idx_lessons_instructor_time;index:idx_lessons_vehicle_time"`
	EndsAt       time.Time            `gorm:"not null"`
	Status       string               `gorm:"size:16;not null;default:scheduled"`
	Notes        *string              `gorm:"size:500"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (LessonModel) TableName() string { return "lessons" }

func (m LessonModel) ToDomain() domain.Lesson {
	return domain.Lesson{
		ID:           m.ID,
		StudentID:    m.StudentID,
		InstructorID: m.InstructorID,
		VehicleID:    m.VehicleID,
		StartsAt:     m.StartsAt.UTC(),
		EndsAt:       m.EndsAt.UTC(),
		Status:       domain.LessonStatus(m.Status),
		Notes:        m.Notes,
	}
}

// Models lists every table in migration order.
func Models() []any {
	return []any{&VehicleModel{}, &LessonModel{}}
}
