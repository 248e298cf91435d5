// Package testutil opens throwaway stores for package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sentle-driving/internal/core/database"
	"sentle-driving/internal/feature/lesson"
	"sentle-driving/internal/feature/session"
	"sentle-driving/internal/feature/user"
	"sentle-driving/pkg/utils"
)

// SQLite opens a migrated sqlite database in t.TempDir. A file (not
// :memory:) lets every pooled connection see the same data.
func SQLite(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := database.NewGorm(database.Opts{Driver: "sqlite", DSN: dsn, LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	var models []any
	models = append(models, user.Models()...)
	models = append(models, session.Models()...)
	models = append(models, lesson.Models()...)
	require.NoError(t, database.Migrate(db, models...))
	return db
}

// Vehicle inserts a vehicle and returns its id.
func Vehicle(t testing.TB, db *gorm.DB, reg string, active bool) string {
	t.Helper()
	v := lesson.VehicleModel{ID: utils.NewID(), Make: "Toyota", Model: "Yaris", RegistrationNumber: reg, IsActive: true}
	require.NoError(t, db.Create(&v).Error)
	if !active {
		require.NoError(t, db.Model(&v).Update("is_active", false).Error)
	}
	return v.ID
}

// Person is a seeded user together with its profile row.
type Person struct {
	UserID    string
	ProfileID string
	Email     string
}

// Student inserts a student user and profile. The password hash is not a
// valid bcrypt hash; seeded users cannot log in.
func Student(t testing.TB, db *gorm.DB, name string) Person {
	t.Helper()
	p := seedUser(t, db, "student")
	require.NoError(t, db.Create(&user.StudentModel{ID: p.ProfileID, UserID: p.UserID, FullName: name}).Error)
	return p
}

// Instructor inserts an instructor user and profile.
func Instructor(t testing.TB, db *gorm.DB, name string) Person {
	t.Helper()
	p := seedUser(t, db, "instructor")
	require.NoError(t, db.Create(&user.InstructorModel{ID: p.ProfileID, UserID: p.UserID, FullName: name}).Error)
	return p
}

func seedUser(t testing.TB, db *gorm.DB, role string) Person {
	t.Helper()
	p := Person{UserID: utils.NewID(), ProfileID: utils.NewID()}
	p.Email = role + "-" + p.UserID[:8] + "@example.com"
	u := user.UserModel{ID: p.UserID, Email: p.Email, PasswordHash: "-", Role: role}
	require.NoError(t, db.Create(&u).Error)
	return p
}
