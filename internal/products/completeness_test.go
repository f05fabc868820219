package products

import (
	"testing"

	"techsheet-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func completeBase(typ string) domain.Product {
	return domain.Product{
		Name:            "Crema Mani",
		Type:            typ,
		Code:            "935772099",
		Date:            "2026-01-15",
		Content:         "50 ml",
		Category:        "Cosmesi",
		Packaging:       "Tubo",
		Ingredients:     "Aqua, Glycerin",
		Characteristics: "Idratante",
		Usage:           "Applicare mattina e sera",
	}
}

func completeCosmetic() (domain.Product, *domain.CosmeticDetails) {
	return completeBase(domain.TypeCosmetic), &domain.CosmeticDetails{
		Color:     "Bianco perlato",
		Fragrance: "Agrumata",
		Ph:        "5.5",
	}
}

func completeSupplement() (domain.Product, *domain.SupplementDetails) {
	return completeBase(domain.TypeSupplement), &domain.SupplementDetails{
		NutritionalInfo: "Vitamina C 80mg",
		Indications:     "Difese immunitarie",
		Dosage:          "1 compressa al giorno",
	}
}

func TestEvaluateCompleteness_CosmeticComplete(t *testing.T) {
	p, cos := completeCosmetic()
	assert.True(t, EvaluateCompleteness(&p, cos, nil))
}

func TestEvaluateCompleteness_SupplementComplete(t *testing.T) {
	p, sup := completeSupplement()
	assert.True(t, EvaluateCompleteness(&p, nil, sup))
}

func TestEvaluateCompleteness_MissingBaseField(t *testing.T) {
	p, cos := completeCosmetic()
	p.Ingredients = ""
	assert.False(t, EvaluateCompleteness(&p, cos, nil))
}

func TestEvaluateCompleteness_WhitespaceIsBlank(t *testing.T) {
	p, cos := completeCosmetic()
	p.Code = "   \t"
	assert.False(t, EvaluateCompleteness(&p, cos, nil))
}

func TestEvaluateCompleteness_CosmeticMissingPh(t *testing.T) {
	p, cos := completeCosmetic()
	cos.Ph = ""
	assert.False(t, EvaluateCompleteness(&p, cos, nil))

	cos.Ph = "5.5"
	assert.True(t, EvaluateCompleteness(&p, cos, nil))
}

func TestEvaluateCompleteness_SupplementMissingDosage(t *testing.T) {
	p, sup := completeSupplement()
	sup.Dosage = ""
	assert.False(t, EvaluateCompleteness(&p, nil, sup))
}

func TestEvaluateCompleteness_NilDetails(t *testing.T) {
	p, _ := completeCosmetic()
	assert.False(t, EvaluateCompleteness(&p, nil, nil))

	p, _ = completeSupplement()
	assert.False(t, EvaluateCompleteness(&p, nil, nil))
}

// Cosmetic requirements do not apply to supplements and vice versa:
// supplying the wrong detail row never satisfies the check.
func TestEvaluateCompleteness_TypeDetailMismatch(t *testing.T) {
	p, _ := completeSupplement()
	_, cos := completeCosmetic()
	assert.False(t, EvaluateCompleteness(&p, cos, nil))
}

func TestEvaluateCompleteness_UnknownType(t *testing.T) {
	p, cos := completeCosmetic()
	p.Type = "device"
	assert.False(t, EvaluateCompleteness(&p, cos, nil))
}
