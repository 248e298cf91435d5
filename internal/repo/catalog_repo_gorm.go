package repo

import (
	"context"

	"gorm.io/gorm"

	"sentle-driving/internal/domain"
	"sentle-driving/internal/feature/lesson"
)

type CatalogRepo struct{ db *gorm.DB }

func NewCatalogRepo(db *gorm.DB) *CatalogRepo { return &CatalogRepo{db: db} }

func (r *CatalogRepo) Students(ctx context.Context, limit int) ([]domain.CatalogEntry, error) {
	return r.profiles(ctx, "students", limit)
}

func (r *CatalogRepo) Instructors(ctx context.Context, limit int) ([]domain.CatalogEntry, error) {
	return r.profiles(ctx, "instructors", limit)
}

func (r *CatalogRepo) profiles(ctx context.Context, table string, limit int) ([]domain.CatalogEntry, error) {
	out := []domain.CatalogEntry{}
	err := r.db.WithContext(ctx).
		Table(table+" AS p").
		Select("p.id, p.full_name, u.email").
		Joins("JOIN users u ON u.id = p.user_id").
		Order("p.full_name ASC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

func (r *CatalogRepo) ActiveVehicles(ctx context.Context, limit int) ([]domain.Vehicle, error) {
	var ms []lesson.VehicleModel
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("make ASC, model ASC").
		Limit(limit).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Vehicle, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ToDomain())
	}
	return out, nil
}
