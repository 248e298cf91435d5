package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentle-driving/internal/domain"
	"sentle-driving/internal/feature/user"
	"sentle-driving/internal/service"
)

func TestRegisterReturnsPublicIdentity(t *testing.T) {
	f := newFixture(t, nil)

	u, err := f.creds.Register(context.Background(), service.RegisterInput{
		Email: "  Ivy@X.com ", Password: "password1", Role: "instructor", FullName: "Ivy Instructor",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "ivy@x.com", u.Email)
	assert.Equal(t, domain.RoleInstructor, u.Role)
	assert.Empty(t, u.PasswordHash)

	var stored user.UserModel
	require.NoError(t, f.db.First(&stored, "id = ?", u.ID).Error)
	assert.NotEqual(t, "password1", stored.PasswordHash)
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$2"))
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		in   service.RegisterInput
		want error
	}{
		{"short password", service.RegisterInput{Email: "a@x.com", Password: "pass", Role: "admin"}, domain.ErrWeakPassword},
		{"seven chars", service.RegisterInput{Email: "a@x.com", Password: "passwor", Role: "admin"}, domain.ErrWeakPassword},
		{"bad role", service.RegisterInput{Email: "a@x.com", Password: "password1", Role: "owner"}, domain.ErrInvalidRole},
		{"bad email", service.RegisterInput{Email: "not-an-email", Password: "password1", Role: "admin"}, domain.ErrInvalidInput},
		{"short name", service.RegisterInput{Email: "s@x.com", Password: "password1", Role: "student", FullName: "S"}, domain.ErrInvalidInput},
		{"long password", service.RegisterInput{Email: "a@x.com", Password: strings.Repeat("p", 73), Role: "admin"}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.creds.Register(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	var n int64
	require.NoError(t, f.db.Model(&user.UserModel{}).Count(&n).Error)
	assert.Zero(t, n, "validation rejects before any write")
}

func TestRegisterDuplicateEmailAnyRole(t *testing.T) {
	for _, second := range []string{"admin", "instructor", "student"} {
		t.Run(second, func(t *testing.T) {
			f := newFixture(t, nil)
			ctx := context.Background()
			f.register(t, "dup@x.com", "student", "First Student")

			_, err := f.creds.Register(ctx, service.RegisterInput{
				Email: "DUP@x.com", Password: "password1", Role: second, FullName: "Second Person",
			})
			assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

			var students, instructors int64
			require.NoError(t, f.db.Model(&user.StudentModel{}).Count(&students).Error)
			require.NoError(t, f.db.Model(&user.InstructorModel{}).Count(&instructors).Error)
			assert.EqualValues(t, 1, students)
			assert.Zero(t, instructors)
		})
	}
}

func TestVerify(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id := f.register(t, "a@x.com", "admin", "")

	u, err := f.creds.Verify(ctx, "A@x.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Empty(t, u.PasswordHash)

	_, wrongPw := f.creds.Verify(ctx, "a@x.com", "password2")
	_, noUser := f.creds.Verify(ctx, "nobody@x.com", "password1")
	assert.ErrorIs(t, wrongPw, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, noUser, domain.ErrInvalidCredentials)
	assert.Equal(t, wrongPw, noUser, "both failures are indistinguishable")
}

func TestRegisterValidationMessages(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.creds.Register(context.Background(), service.RegisterInput{
		Email: "ivy@", Password: "password1", Role: "instructor", FullName: "Ivy",
	})
	require.Error(t, err)
	assert.Equal(t, "email must be a valid email address", err.Error())

	_, err = f.creds.Register(context.Background(), service.RegisterInput{
		Email: "ivy@x.com", Password: "password1", Role: "instructor", FullName: strings.Repeat("v", 121),
	})
	require.Error(t, err)
	assert.Equal(t, "fullName must be at most 120 characters", err.Error())
}
