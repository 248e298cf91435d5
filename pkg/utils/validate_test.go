package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role"  validate:"required,oneof=admin instructor student"`
	Notes string `validate:"omitempty,max=5"`
}

func TestValidationMessage(t *testing.T) {
	v := NewValidator()

	cases := []struct {
		in   signup
		want string
	}{
		{signup{Role: "admin"}, "email is required"},
		{signup{Email: "x", Role: "admin"}, "email must be a valid email address"},
		{signup{Email: "a@x.com", Role: "owner"}, "role must be one of admin, instructor, student"},
		{signup{Email: "a@x.com", Role: "admin", Notes: "toolong"}, "notes must be at most 5 characters"},
	}
	for _, tc := range cases {
		err := v.Struct(tc.in)
		require.Error(t, err)
		msg, ok := ValidationMessage(err)
		assert.True(t, ok)
		assert.Equal(t, tc.want, msg)
	}

	assert.NoError(t, v.Struct(signup{Email: "a@x.com", Role: "student"}))
	_, ok := ValidationMessage(assert.AnError)
	assert.False(t, ok)
}
