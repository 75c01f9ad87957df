package catalog

import (
	"strconv"
	"strings"

	"github.com/cataloguehub/cataloguehub/internal/domain"
)

// EmptyDisplay is shown where a compared product has no value.
const EmptyDisplay = "—"

// FormatFieldValue renders a resolved value for display. Formatting only:
// url/email values come back as-is and the caller decides how to link
// them (FieldType.Linkable).
func FormatFieldValue(v FieldValue, unit string) string {
	if v.Empty() {
		return EmptyDisplay
	}
	switch v.Type {
	case domain.FieldNumber:
		if v.Invalid {
			return rawOrDash(v)
		}
		n := formatNumber(v.Number)
		if unit != "" {
			return n + " " + unit
		}
		return n
	case domain.FieldPercentage:
		if v.Invalid {
			return rawOrDash(v)
		}
		return formatNumber(v.Number) + "%"
	case domain.FieldBoolean:
		if v.Bool {
			return "Yes"
		}
		return "No"
	case domain.FieldDate:
		if v.Invalid {
			return rawOrDash(v)
		}
		return v.Date.Format("1/2/2006")
	case domain.FieldMultiselect:
		return strings.Join(v.List, ", ")
	default:
		return v.Text
	}
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func rawOrDash(v FieldValue) string {
	if s := strings.TrimSpace(v.Raw); s != "" {
		return s
	}
	return EmptyDisplay
}
