package domain

import (
	"time"

	"github.com/google/uuid"
)

type FieldType string

const (
	FieldText        FieldType = "text"
	FieldTextarea    FieldType = "textarea"
	FieldNumber      FieldType = "number"
	FieldPercentage  FieldType = "percentage"
	FieldBoolean     FieldType = "boolean"
	FieldDate        FieldType = "date"
	FieldURL         FieldType = "url"
	FieldEmail       FieldType = "email"
	FieldPhone       FieldType = "phone"
	FieldSelect      FieldType = "select"
	FieldMultiselect FieldType = "multiselect"
)

func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldTextarea, FieldNumber, FieldPercentage, FieldBoolean,
		FieldDate, FieldURL, FieldEmail, FieldPhone, FieldSelect, FieldMultiselect:
		return true
	}
	return false
}

func (t FieldType) Numeric() bool {
	return t == FieldNumber || t == FieldPercentage
}

// Linkable reports whether values of this type render as hyperlinks.
func (t FieldType) Linkable() bool {
	return t == FieldURL || t == FieldEmail
}

// FieldDefinition describes one custom attribute products may carry.
// Options only apply to select/multiselect; Unit is a display suffix
// for numeric types.
type FieldDefinition struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
	Options  []string  `json:"options,omitempty"`
	Unit     string    `json:"unit,omitempty"`
}

type FieldTemplate struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID         `gorm:"type:uuid;index"`
	Name        string            `gorm:"size:140"`
	Description string            `gorm:"type:text"`
	Fields      []FieldDefinition `gorm:"type:jsonb;serializer:json"`
	Categories  []string          `gorm:"type:jsonb;serializer:json"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductField is a write-time snapshot of a field definition plus the
// value the owner entered. FieldName/FieldType are denormalized so the
// value stays displayable after the template changes.
type ProductField struct {
	FieldID   string    `json:"field_id"`
	FieldName string    `json:"field_name"`
	FieldType FieldType `json:"field_type"`
	Value     any       `json:"value"`
	Unit      string    `json:"unit,omitempty"`
}
