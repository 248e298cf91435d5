package domain

import (
	"context"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Profile is the Student or Instructor record owned by a user.
type Profile struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	FullName string `json:"fullName"`
}

type UserRepository interface {
	// CreateWithProfile inserts the user and, for student/instructor roles,
	// its profile in one transaction. A duplicate email yields
	// ErrDuplicateEmail.
	CreateWithProfile(ctx context.Context, u *User, fullName string) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, role Role, offset, limit int) ([]User, int64, error)
}
