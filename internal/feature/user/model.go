package user

import (
	"time"

	"sentle-driving/internal/domain"
)

type UserModel struct {
	ID           string `gorm:"primaryKey;type:varchar(36)"`
	Email        string `gorm:"uniqueIndex:users_email_key;size:255;not null"`
	PasswordHash string `gorm:"size:100;not null"`
	Role         string `gorm:"size:16;not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string { return "users" }

func (m UserModel) ToDomain() domain.User {
	return domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		CreatedAt:    m.CreatedAt,
	}
}

type StudentModel struct {
	ID       string    `gorm:"primaryKey;type:varchar(36)"`
	UserID   string    `gorm:"type:varchar(36);uniqueIndex;not null"`
	User     UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	FullName string    `gorm:"size:128;not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (StudentModel) TableName() string { return "students" }

type InstructorModel struct {
	ID       string    `gorm:"primaryKey;type:varchar(36)"`
	UserID   string    `gorm:"type:varchar(36);uniqueIndex;not null"`
	User     UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	FullName string    `gorm:"size:128;not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (InstructorModel) TableName() string { return "instructors" }

// Models lists every table in migration order.
func Models() []any {
	return []any{&UserModel{}, &StudentModel{}, &InstructorModel{}}
}
