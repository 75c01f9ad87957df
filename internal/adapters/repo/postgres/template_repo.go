package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cataloguehub/cataloguehub/internal/domain"
)

type TemplateRepo struct{ db *gorm.DB }

func NewTemplateRepo(db *gorm.DB) *TemplateRepo { return &TemplateRepo{db: db} }

func (r *TemplateRepo) Save(ctx context.Context, t *domain.FieldTemplate) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *TemplateRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.FieldTemplate, error) {
	var t domain.FieldTemplate
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TemplateRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.FieldTemplate, error) {
	var list []domain.FieldTemplate
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *TemplateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.FieldTemplate{}, "id = ?", id).Error
}
