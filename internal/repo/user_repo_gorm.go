package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sentle-driving/internal/core/database"
	"sentle-driving/internal/domain"
	"sentle-driving/internal/feature/user"
	"sentle-driving/pkg/utils"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

// CreateWithProfile relies on the unique email index to detect duplicates;
// there is no lookup beforehand.
func (r *UserRepo) CreateWithProfile(ctx context.Context, u *domain.User, fullName string) error {
	m := user.UserModel{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
	}
	if m.ID == "" {
		m.ID = utils.NewID()
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&m).Error; err != nil {
			if database.IsDuplicateKey(err) {
				return domain.ErrDuplicateEmail
			}
			return fmt.Errorf("insert user: %w", err)
		}
		switch u.Role {
		case domain.RoleStudent:
			p := user.StudentModel{ID: utils.NewID(), UserID: m.ID, FullName: fullName}
			if err := tx.Omit(clause.Associations).Create(&p).Error; err != nil {
				return fmt.Errorf("insert student profile: %w", err)
			}
		case domain.RoleInstructor:
			p := user.InstructorModel{ID: utils.NewID(), UserID: m.ID, FullName: fullName}
			if err := tx.Omit(clause.Associations).Create(&p).Error; err != nil {
				return fmt.Errorf("insert instructor profile: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	u.ID = m.ID
	u.CreatedAt = m.CreatedAt
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *UserRepo) findOne(ctx context.Context, cond string, arg any) (*domain.User, error) {
	var m user.UserModel
	err := r.db.WithContext(ctx).First(&m, cond, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u := m.ToDomain()
	return &u, nil
}

// List pages through users, optionally filtered by role.
func (r *UserRepo) List(ctx context.Context, role domain.Role, offset, limit int) ([]domain.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&user.UserModel{})
	if role != "" {
		tx = tx.Where("role = ?", string(role))
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var ms []user.UserModel
	if err := tx.Offset(offset).Limit(limit).Order("created_at desc").Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	users := make([]domain.User, 0, len(ms))
	for _, m := range ms {
		users = append(users, m.ToDomain())
	}
	return users, total, nil
}
