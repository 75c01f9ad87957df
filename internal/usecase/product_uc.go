package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/cataloguehub/cataloguehub/internal/domain"
)

type ProductUC struct {
	Products domain.ProductRepo
}

var slugStrip = regexp.MustCompile(`[^a-z0-9\s-]`)

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugStrip.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), "-")
	return strings.Trim(s, "-")
}

func (uc *ProductUC) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	if f.PageSize == 0 {
		f.PageSize = 20
	}
	return uc.Products.List(ctx, f)
}

func (uc *ProductUC) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Product, error) {
	p, err := uc.Products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

func (uc *ProductUC) Create(ctx context.Context, p *domain.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("name required")
	}
	if p.Price < 0 {
		return errors.New("negative price")
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = domain.ProductActive
	}
	if p.Currency == "" {
		p.Currency = "USD"
	}
	if err := validateFields(p.CustomFields); err != nil {
		return err
	}
	slug, err := uc.uniqueSlug(ctx, p.Name)
	if err != nil {
		return err
	}
	p.Slug = slug
	return uc.Products.Save(ctx, p)
}

func (uc *ProductUC) Update(ctx context.Context, userID uuid.UUID, p *domain.Product) error {
	existing, err := uc.Get(ctx, userID, p.ID)
	if err != nil {
		return err
	}
	if err := validateFields(p.CustomFields); err != nil {
		return err
	}
	p.Slug = existing.Slug
	p.UserID = existing.UserID
	p.CreatedAt = existing.CreatedAt
	return uc.Products.Save(ctx, p)
}

func (uc *ProductUC) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := uc.Get(ctx, userID, id); err != nil {
		return err
	}
	return uc.Products.Delete(ctx, id)
}

func (uc *ProductUC) Categories(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return uc.Products.DistinctCategories(ctx, userID)
}

func (uc *ProductUC) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := slugify(name)
	if base == "" {
		base = uuid.New().String()[:8]
	}
	slug := base
	for i := 2; ; i++ {
		_, err := uc.Products.FindBySlug(ctx, slug)
		if errors.Is(err, domain.ErrNotFound) {
			return slug, nil
		}
		if err != nil {
			return "", err
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// validateFields rejects snapshots the resolver could not make sense of.
// Value shape problems are tolerated (the resolver degrades them); only a
// missing id or unknown type is an authoring error.
func validateFields(fields []domain.ProductField) error {
	for _, f := range fields {
		if strings.TrimSpace(f.FieldID) == "" {
			return errors.New("field id required")
		}
		if f.FieldType != "" && !f.FieldType.Valid() {
			return fmt.Errorf("unknown field type %q", f.FieldType)
		}
	}
	return nil
}
