package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/cataloguehub/cataloguehub/internal/domain"
)

type TemplateUC struct {
	Templates domain.TemplateRepo
}

func (uc *TemplateUC) Get(ctx context.Context, id uuid.UUID) (*domain.FieldTemplate, error) {
	return uc.Templates.FindByID(ctx, id)
}

func (uc *TemplateUC) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.FieldTemplate, error) {
	return uc.Templates.ListByUser(ctx, userID)
}

func (uc *TemplateUC) Create(ctx context.Context, t *domain.FieldTemplate) error {
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("name required")
	}
	if len(t.Fields) == 0 {
		return errors.New("at least one field required")
	}
	if err := validateDefinitions(t.Fields); err != nil {
		return err
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return uc.Templates.Save(ctx, t)
}

func (uc *TemplateUC) Update(ctx context.Context, userID uuid.UUID, t *domain.FieldTemplate) error {
	existing, err := uc.Templates.FindByID(ctx, t.ID)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return domain.ErrForbidden
	}
	if err := validateDefinitions(t.Fields); err != nil {
		return err
	}
	t.UserID = existing.UserID
	t.CreatedAt = existing.CreatedAt
	return uc.Templates.Save(ctx, t)
}

func (uc *TemplateUC) Delete(ctx context.Context, userID, id uuid.UUID) error {
	existing, err := uc.Templates.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return domain.ErrForbidden
	}
	// Products keep their denormalized field snapshots, so deleting a
	// template cascades nothing.
	return uc.Templates.Delete(ctx, id)
}

// FieldDefinitionsFor returns the template's embedded field list. A
// select/multiselect definition whose options went missing is surfaced
// with empty options rather than dropped; downstream code treats it as a
// field with no selectable values.
func (uc *TemplateUC) FieldDefinitionsFor(t *domain.FieldTemplate) []domain.FieldDefinition {
	if t == nil {
		return nil
	}
	out := make([]domain.FieldDefinition, len(t.Fields))
	copy(out, t.Fields)
	for i := range out {
		if !out[i].Type.Valid() {
			out[i].Type = domain.FieldText
		}
		if out[i].Options == nil && (out[i].Type == domain.FieldSelect || out[i].Type == domain.FieldMultiselect) {
			out[i].Options = []string{}
		}
	}
	return out
}

func validateDefinitions(defs []domain.FieldDefinition) error {
	seen := make(map[string]bool, len(defs))
	for _, d := range defs {
		if strings.TrimSpace(d.ID) == "" || strings.TrimSpace(d.Name) == "" {
			return errors.New("field id and name required")
		}
		if seen[d.ID] {
			return fmt.Errorf("duplicate field id %q", d.ID)
		}
		seen[d.ID] = true
		if !d.Type.Valid() {
			return fmt.Errorf("unknown field type %q", d.Type)
		}
	}
	return nil
}
