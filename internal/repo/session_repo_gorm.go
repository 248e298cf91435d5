package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sentle-driving/internal/domain"
	"sentle-driving/internal/feature/session"
	"sentle-driving/pkg/utils"
)

type SessionRepo struct{ db *gorm.DB }

func NewSessionRepo(db *gorm.DB) *SessionRepo { return &SessionRepo{db: db} }

func (r *SessionRepo) Create(ctx context.Context, s *domain.RefreshSession) error {
	m := session.RefreshTokenModel{
		ID:        s.ID,
		UserID:    s.UserID,
		TokenHash: s.TokenHash,
		ExpiresAt: s.ExpiresAt.UTC(),
	}
	if m.ID == "" {
		m.ID = utils.NewID()
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return err
	}
	s.ID = m.ID
	s.CreatedAt = m.CreatedAt
	return nil
}

func (r *SessionRepo) FindByHash(ctx context.Context, tokenHash string) (*domain.RefreshSession, error) {
	var m session.RefreshTokenModel
	err := r.db.WithContext(ctx).First(&m, "token_hash = ?", tokenHash).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s := m.ToDomain()
	return &s, nil
}

func (r *SessionRepo) Revoke(ctx context.Context, tokenHash string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&session.RefreshTokenModel{}).
		Where("token_hash = ? AND revoked_at IS NULL", tokenHash).
		Update("revoked_at", at.UTC()).Error
}

func (r *SessionRepo) RevokeAllForUser(ctx context.Context, userID string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&session.RefreshTokenModel{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", at.UTC())
	return res.RowsAffected, res.Error
}

func (r *SessionRepo) ListForUser(ctx context.Context, userID string) ([]domain.RefreshSession, error) {
	var ms []session.RefreshTokenModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.RefreshSession, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ToDomain())
	}
	return out, nil
}
