package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/cataloguehub/cataloguehub/internal/catalog"
	"github.com/cataloguehub/cataloguehub/internal/domain"
)

type CatalogueUC struct {
	Catalogues domain.CatalogueRepo
	Products   domain.ProductRepo
	Templates  domain.TemplateRepo
}

// PublicPage is one page of a public catalogue view.
type PublicPage struct {
	Catalogue *domain.Catalogue
	Products  []catalog.ResolvedProduct
	Fields    []domain.FieldDefinition
	Total     int
	Page      int
	PageSize  int
}

func (uc *CatalogueUC) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Catalogue, error) {
	c, err := uc.Catalogues.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return c, nil
}

func (uc *CatalogueUC) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Catalogue, error) {
	return uc.Catalogues.ListByUser(ctx, userID)
}

func (uc *CatalogueUC) Create(ctx context.Context, c *domain.Catalogue) error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("name required")
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = domain.CatalogueDraft
	}
	if c.Settings == (domain.CatalogueSettings{}) {
		c.Settings = domain.DefaultCatalogueSettings()
	}
	slug, err := uc.uniqueSlug(ctx, c.Name)
	if err != nil {
		return err
	}
	c.Slug = slug
	return uc.Catalogues.Save(ctx, c)
}

func (uc *CatalogueUC) Update(ctx context.Context, userID uuid.UUID, c *domain.Catalogue) error {
	existing, err := uc.Get(ctx, userID, c.ID)
	if err != nil {
		return err
	}
	c.Slug = existing.Slug
	c.UserID = existing.UserID
	c.Views = existing.Views
	c.Shares = existing.Shares
	c.CreatedAt = existing.CreatedAt
	return uc.Catalogues.Save(ctx, c)
}

func (uc *CatalogueUC) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := uc.Get(ctx, userID, id); err != nil {
		return err
	}
	return uc.Catalogues.Delete(ctx, id)
}

// PublicView loads a catalogue by slug for an unauthenticated reader,
// applies the filter and pagination, and counts the view. Non-public or
// inactive catalogues read as not found so their existence leaks nothing.
func (uc *CatalogueUC) PublicView(ctx context.Context, slug string, f catalog.Filter, page int) (*PublicPage, error) {
	c, products, defs, err := uc.loadPublic(ctx, slug)
	if err != nil {
		return nil, err
	}

	if f.SortBy == "" {
		f.SortBy = c.Settings.SortBy
	}
	filtered := catalog.Query(products, defs, f)

	size := c.Settings.ItemsPerPage
	if size <= 0 {
		size = 12
	}
	if page <= 0 {
		page = 1
	}
	total := len(filtered)
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	_ = uc.Catalogues.IncrementViews(ctx, c.ID)

	return &PublicPage{
		Catalogue: c,
		Products:  filtered[start:end],
		Fields:    defs,
		Total:     total,
		Page:      page,
		PageSize:  size,
	}, nil
}

// PublicCompare builds the comparison table for up to four products of a
// public catalogue. ok=false means the caller asked for too many.
// RecordShare bumps the share counter of a public catalogue. Hidden
// catalogues report not-found, same as PublicView.
func (uc *CatalogueUC) RecordShare(ctx context.Context, slug string) error {
	c, err := uc.Catalogues.FindBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if !c.PubliclyVisible() {
		return domain.ErrNotFound
	}
	return uc.Catalogues.IncrementShares(ctx, c.ID)
}

func (uc *CatalogueUC) PublicCompare(ctx context.Context, slug string, ids []uuid.UUID) (catalog.Comparison, bool, error) {
	if len(ids) > catalog.MaxCompare {
		return catalog.Comparison{}, false, nil
	}
	c, products, defs, err := uc.loadPublic(ctx, slug)
	if err != nil {
		return catalog.Comparison{}, false, err
	}
	if !c.Settings.AllowComparison {
		return catalog.Comparison{}, false, domain.ErrForbidden
	}

	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	picked := make([]domain.Product, 0, len(ids))
	for _, p := range products {
		if want[p.ID] {
			picked = append(picked, p)
		}
	}

	cmp, ok := catalog.Compare(catalog.ResolveAll(picked, defs))
	return cmp, ok, nil
}

func (uc *CatalogueUC) loadPublic(ctx context.Context, slug string) (*domain.Catalogue, []domain.Product, []domain.FieldDefinition, error) {
	c, err := uc.Catalogues.FindBySlug(ctx, slug)
	if err != nil {
		return nil, nil, nil, err
	}
	if !c.PubliclyVisible() {
		return nil, nil, nil, domain.ErrNotFound
	}

	all, err := uc.Products.FindByIDs(ctx, c.SelectedProducts)
	if err != nil {
		return nil, nil, nil, err
	}
	products := make([]domain.Product, 0, len(all))
	for _, p := range all {
		// drafts and archived products stay private even when selected
		if p.Status == domain.ProductDraft || p.Status == domain.ProductArchived {
			continue
		}
		products = append(products, p)
	}

	defs, err := uc.fieldDefinitions(ctx, c, products)
	if err != nil {
		return nil, nil, nil, err
	}
	return c, products, defs, nil
}

// fieldDefinitions unions the definitions of every template the selected
// products reference, in first-seen order, restricted to the catalogue's
// visible-field list when one is set. A template that has since been
// deleted is skipped; its products fall back to snapshot resolution.
func (uc *CatalogueUC) fieldDefinitions(ctx context.Context, c *domain.Catalogue, products []domain.Product) ([]domain.FieldDefinition, error) {
	visible := make(map[string]bool, len(c.VisibleFields))
	for _, id := range c.VisibleFields {
		visible[id] = true
	}

	var defs []domain.FieldDefinition
	seenTpl := make(map[uuid.UUID]bool)
	seenField := make(map[string]bool)

	for _, p := range products {
		if p.TemplateID == nil || seenTpl[*p.TemplateID] {
			continue
		}
		seenTpl[*p.TemplateID] = true
		tpl, err := uc.Templates.FindByID(ctx, *p.TemplateID)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, d := range tpl.Fields {
			if seenField[d.ID] {
				continue
			}
			if len(visible) > 0 && !visible[d.ID] {
				continue
			}
			seenField[d.ID] = true
			defs = append(defs, d)
		}
	}
	return defs, nil
}

func (uc *CatalogueUC) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := slugify(name)
	if base == "" {
		base = uuid.New().String()[:8]
	}
	slug := base
	for i := 2; ; i++ {
		_, err := uc.Catalogues.FindBySlug(ctx, slug)
		if errors.Is(err, domain.ErrNotFound) {
			return slug, nil
		}
		if err != nil {
			return "", err
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
