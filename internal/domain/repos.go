package domain

import (
	"context"

	"github.com/google/uuid"
)

type ProductFilter struct {
	UserID   uuid.UUID
	Category string
	Query    string
	Status   ProductStatus
	Page     int
	PageSize int
}

type ProductRepo interface {
	Save(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	List(ctx context.Context, f ProductFilter) ([]Product, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DistinctCategories(ctx context.Context, userID uuid.UUID) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

type TemplateRepo interface {
	Save(ctx context.Context, t *FieldTemplate) error
	FindByID(ctx context.Context, id uuid.UUID) (*FieldTemplate, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]FieldTemplate, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CatalogueRepo interface {
	Save(ctx context.Context, c *Catalogue) error
	FindByID(ctx context.Context, id uuid.UUID) (*Catalogue, error)
	FindBySlug(ctx context.Context, slug string) (*Catalogue, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Catalogue, error)
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
	IncrementShares(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type UserRepo interface {
	Save(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}
