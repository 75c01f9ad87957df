package domain

import (
	"time"

	"github.com/google/uuid"
)

type CatalogueStatus string

const (
	CatalogueActive   CatalogueStatus = "active"
	CatalogueDraft    CatalogueStatus = "draft"
	CatalogueArchived CatalogueStatus = "archived"
)

type CatalogueSettings struct {
	Theme           string `json:"theme"`
	PrimaryColor    string `json:"primary_color"`
	ShowPrices      bool   `json:"show_prices"`
	ShowContactInfo bool   `json:"show_contact_info"`
	AllowComparison bool   `json:"allow_comparison"`
	ShowFilters     bool   `json:"show_filters"`
	ShowSearch      bool   `json:"show_search"`
	ItemsPerPage    int    `json:"items_per_page"`
	SortBy          string `json:"sort_by"`
	SortOrder       string `json:"sort_order"`
}

func DefaultCatalogueSettings() CatalogueSettings {
	return CatalogueSettings{
		Theme:           "modern",
		PrimaryColor:    "#0d9488",
		ShowPrices:      true,
		ShowContactInfo: true,
		AllowComparison: true,
		ShowFilters:     true,
		ShowSearch:      true,
		ItemsPerPage:    12,
		SortBy:          "name",
		SortOrder:       "asc",
	}
}

type Catalogue struct {
	ID               uuid.UUID         `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID         `gorm:"type:uuid;index"`
	Name             string            `gorm:"size:140"`
	Description      string            `gorm:"type:text"`
	Slug             string            `gorm:"uniqueIndex;size:140"`
	CoverImage       string            `gorm:"size:255"`
	SelectedProducts []uuid.UUID       `gorm:"type:jsonb;serializer:json"`
	VisibleFields    []string          `gorm:"type:jsonb;serializer:json"`
	Settings         CatalogueSettings `gorm:"type:jsonb;serializer:json"`
	IsPublic         bool              `gorm:"default:false;index"`
	Status           CatalogueStatus   `gorm:"type:varchar(20);index;default:draft"`
	Views            int64             `gorm:"default:0"`
	Shares           int64             `gorm:"default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PubliclyVisible is the only condition under which an unauthenticated
// request may read a catalogue.
func (c *Catalogue) PubliclyVisible() bool {
	return c.IsPublic && c.Status == CatalogueActive
}
