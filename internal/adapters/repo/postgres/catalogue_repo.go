package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cataloguehub/cataloguehub/internal/domain"
)

type CatalogueRepo struct{ db *gorm.DB }

func NewCatalogueRepo(db *gorm.DB) *CatalogueRepo { return &CatalogueRepo{db: db} }

func (r *CatalogueRepo) Save(ctx context.Context, c *domain.Catalogue) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CatalogueRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Catalogue, error) {
	var c domain.Catalogue
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CatalogueRepo) FindBySlug(ctx context.Context, slug string) (*domain.Catalogue, error) {
	var c domain.Catalogue
	if err := r.db.WithContext(ctx).First(&c, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CatalogueRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Catalogue, error) {
	var list []domain.Catalogue
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CatalogueRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Catalogue{}, "id = ?", id).Error
}

func (r *CatalogueRepo) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.Catalogue{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("COALESCE(views,0) + 1")).Error
}

func (r *CatalogueRepo) IncrementShares(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.Catalogue{}).
		Where("id = ?", id).
		UpdateColumn("shares", gorm.Expr("COALESCE(shares,0) + 1")).Error
}

func (r *CatalogueRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Catalogue{}).Count(&n).Error
	return n, err
}
