package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"sentle-driving/internal/domain"
	"sentle-driving/pkg/utils"
)

const (
	MinPasswordLength = 8
	// bcrypt ignores input past 72 bytes, so longer passwords are refused.
	maxPasswordBytes = 72
)

var validate = utils.NewValidator()

// invalid maps a validator failure onto the invalid_input envelope.
func invalid(err error) error {
	if msg, ok := utils.ValidationMessage(err); ok {
		return domain.Invalid(msg)
	}
	return fmt.Errorf("validate: %w", err)
}

type RegisterInput struct {
	Email    string `json:"email"    validate:"required,email,max=254"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"required"`
	FullName string `json:"fullName" validate:"max=120"`
}

// CredentialService owns user identities and their password verifiers.
type CredentialService struct {
	users     domain.UserRepository
	cost      int
	dummyHash string
	log       *zap.Logger
}

func NewCredentialService(users domain.UserRepository, cost int, log *zap.Logger) (*CredentialService, error) {
	if cost == 0 {
		cost = utils.DefaultPasswordCost
	}
	// Unknown emails are compared against this hash so both failure paths
	// cost one bcrypt comparison.
	dummy, err := utils.HashPassword("dummy-password-for-timing", cost)
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CredentialService{users: users, cost: cost, dummyHash: dummy, log: log}, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register validates the input before hashing, then creates the user and
// its profile atomically. The returned user carries no usable verifier.
func (s *CredentialService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Email = NormalizeEmail(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if utf8.RuneCountInString(in.Password) < MinPasswordLength {
		return nil, domain.ErrWeakPassword
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, domain.Invalid("password must be at most 72 bytes")
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(in); err != nil {
		return nil, invalid(err)
	}
	if role.HasProfile() && validate.Var(in.FullName, "min=2") != nil {
		return nil, domain.Invalid("fullName must be at least 2 characters")
	}

	hash, err := utils.HashPassword(in.Password, s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.CreateWithProfile(ctx, u, in.FullName); err != nil {
		if !errors.Is(err, domain.ErrDuplicateEmail) {
			s.log.Error("register failed", zap.String("role", string(role)), zap.Error(err))
		}
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}

// Verify returns ErrInvalidCredentials for an unknown email and for a wrong
// password alike.
func (s *CredentialService) Verify(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		_ = utils.CheckPassword(password, s.dummyHash)
		return nil, domain.ErrInvalidCredentials
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	u.PasswordHash = ""
	return u, nil
}
