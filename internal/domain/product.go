package domain

import (
	"time"

	"github.com/google/uuid"
)

type ProductStatus string

const (
	ProductActive     ProductStatus = "active"
	ProductDraft      ProductStatus = "draft"
	ProductArchived   ProductStatus = "archived"
	ProductOutOfStock ProductStatus = "out-of-stock"
)

type Product struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID      `gorm:"type:uuid;index"`
	Slug         string         `gorm:"uniqueIndex;size:140"`
	Name         string         `gorm:"size:180"`
	Description  string         `gorm:"type:text"`
	Price        float64        `gorm:"type:decimal(12,2);default:0"`
	Currency     string         `gorm:"size:3;default:USD"`
	Category     string         `gorm:"size:100;index"`
	SKU          string         `gorm:"size:100;index"`
	TemplateID   *uuid.UUID     `gorm:"type:uuid;index"`
	CustomFields []ProductField `gorm:"type:jsonb;serializer:json"`
	Tags         []string       `gorm:"type:jsonb;serializer:json"`
	Images       []string       `gorm:"type:jsonb;serializer:json"`
	Rating       *float64       `gorm:"type:decimal(3,1)"`
	Status       ProductStatus  `gorm:"type:varchar(20);index;default:active"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (p *Product) InStock() bool {
	return p.Status != ProductOutOfStock
}
