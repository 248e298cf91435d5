package service

import (
	"context"
	"time"

	"sentle-driving/internal/core/cache"
	"sentle-driving/internal/domain"
)

const catalogLimit = 200

const (
	catalogStudentsKey    = "catalog:students"
	catalogInstructorsKey = "catalog:instructors"
	catalogVehiclesKey    = "catalog:vehicles"
)

// CatalogService serves the staff pick lists, read through the cache.
type CatalogService struct {
	repo  domain.CatalogRepository
	cache *cache.Cache
	ttl   time.Duration
}

func NewCatalogService(repo domain.CatalogRepository, c *cache.Cache, ttl time.Duration) *CatalogService {
	return &CatalogService{repo: repo, cache: c, ttl: ttl}
}

func (s *CatalogService) Students(ctx context.Context) ([]domain.CatalogEntry, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, catalogStudentsKey, s.ttl, func(ctx context.Context) ([]domain.CatalogEntry, error) {
		return s.repo.Students(ctx, catalogLimit)
	})
}

func (s *CatalogService) Instructors(ctx context.Context) ([]domain.CatalogEntry, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, catalogInstructorsKey, s.ttl, func(ctx context.Context) ([]domain.CatalogEntry, error) {
		return s.repo.Instructors(ctx, catalogLimit)
	})
}

func (s *CatalogService) Vehicles(ctx context.Context) ([]domain.Vehicle, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, catalogVehiclesKey, s.ttl, func(ctx context.Context) ([]domain.Vehicle, error) {
		return s.repo.ActiveVehicles(ctx, catalogLimit)
	})
}

// Forget drops the cached list a newly registered user belongs to.
func (s *CatalogService) Forget(ctx context.Context, role domain.Role) {
	switch role {
	case domain.RoleStudent:
		s.cache.Forget(ctx, catalogStudentsKey)
	case domain.RoleInstructor:
		s.cache.Forget(ctx, catalogInstructorsKey)
	}
}
