package session

import (
	"time"

	"sentle-driving/internal/domain"
	"sentle-driving/internal/feature/user"
)

type RefreshTokenModel struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)"`
	UserID    string         `gorm:"type:varchar(36);index;not null"`
	User      user.UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	TokenHash string         `gorm:"uniqueIndex;size:64;not null"`
	ExpiresAt time.Time      `gorm:"not null"`
	RevokedAt *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (RefreshTokenModel) TableName() string { return "refresh_tokens" }

func (m RefreshTokenModel) ToDomain() domain.RefreshSession {
	return domain.RefreshSession{
		ID:        m.ID,
		UserID:    m.UserID,
		TokenHash: m.TokenHash,
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
		RevokedAt: m.RevokedAt,
	}
}

func Models() []any { return []any{&RefreshTokenModel{}} }
