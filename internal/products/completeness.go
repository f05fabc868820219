package products

import (
	"techsheet-backend/internal/domain"
	"techsheet-backend/internal/pkg/validation"
)

// EvaluateCompleteness is a pure function of the current record state: true
// iff every required base field and every required type-specific detail
// field is non-blank. Recomputed from scratch after each mutation, never
// patched incrementally.
func EvaluateCompleteness(p *domain.Product, cos *domain.CosmeticDetails, sup *domain.SupplementDetails) bool {
	base := []string{
		p.Name,
		p.Type,
		p.Code,
		p.Date,
		p.Content,
		p.Category,
		p.Packaging,
		p.Ingredients,
		p.Characteristics,
		p.Usage,
	}
	for _, v := range base {
		if validation.IsBlank(v) {
			return false
		}
	}

	switch p.Type {
	case domain.TypeCosmetic:
		if cos == nil {
			return false
		}
		return !validation.IsBlank(cos.Color) &&
			!validation.IsBlank(cos.Fragrance) &&
			!validation.IsBlank(cos.Ph)
	case domain.TypeSupplement:
		if sup == nil {
			return false
		}
		return !validation.IsBlank(sup.NutritionalInfo) &&
			!validation.IsBlank(sup.Indications) &&
			!validation.IsBlank(sup.Dosage)
	default:
		return false
	}
}
