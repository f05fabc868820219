package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Product types. A product's type is fixed at creation; the matching detail
// row (cosmetic or supplement) is created in the same transaction and
// cascade-deleted with the product.
const (
	TypeCosmetic   = "cosmetic"
	TypeSupplement = "supplement"
)

// IsValidType reports whether t is one of the two product types.
func IsValidType(t string) bool {
	return t == TypeCosmetic || t == TypeSupplement
}

// Product matches the products table. IsComplete is derived (recomputed after
// every mutation, never client-settable). The approval triple is null/false
// until an administrator approves.
type Product struct {
	ID       uint   `gorm:"column:id;primaryKey" json:"id"`
	Name     string `gorm:"column:name;not null" json:"name"`
	Subtitle string `gorm:"column:subtitle" json:"subtitle"`
	Type     string `gorm:"column:type;not null" json:"type"`

	Code               string `gorm:"column:code" json:"code"`
	Ref                string `gorm:"column:ref" json:"ref"`
	Date               string `gorm:"column:date" json:"date"`
	Content            string `gorm:"column:content" json:"content"`
	Category           string `gorm:"column:category" json:"category"`
	Packaging          string `gorm:"column:packaging" json:"packaging"`
	Accessory          string `gorm:"column:accessory" json:"accessory"`
	Batch              string `gorm:"column:batch" json:"batch"`
	Cpnp               string `gorm:"column:cpnp" json:"cpnp"`
	AuthMinistry       string `gorm:"column:auth_ministry" json:"auth_ministry"`
	Ingredients        string `gorm:"column:ingredients" json:"ingredients"`
	Tests              string `gorm:"column:tests" json:"tests"`
	Certifications     string `gorm:"column:certifications" json:"certifications"`
	ClinicalTrials     string `gorm:"column:clinical_trials" json:"clinical_trials"`
	Claims             string `gorm:"column:claims" json:"claims"`
	NaturalActives     string `gorm:"column:natural_actives" json:"natural_actives"`
	FunctionalActives  string `gorm:"column:functional_actives" json:"functional_actives"`
	Characteristics    string `gorm:"column:characteristics" json:"characteristics"`
	Usage              string `gorm:"column:usage" json:"usage"`
	Warnings           string `gorm:"column:warnings" json:"warnings"`
	ConservationMethod string `gorm:"column:conservation_method" json:"conservation_method"`
	SpecialWarnings    string `gorm:"column:special_warnings" json:"special_warnings"`

	GroupID      *uint          `gorm:"column:group_id" json:"group_id"`
	IsComplete   bool           `gorm:"column:is_complete;not null;default:false" json:"is_complete"`
	IsApproved   bool           `gorm:"column:is_approved;not null;default:false" json:"is_approved"`
	ApprovedBy   *uint          `gorm:"column:approved_by" json:"approved_by"`
	ApprovedDate *time.Time     `gorm:"column:approved_date" json:"approved_date"`
	LastAutosave datatypes.JSON `gorm:"column:last_autosave" json:"last_autosave"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Product) TableName() string {
	return "products"
}

// CosmeticDetails is the 1:1 detail row for cosmetic products.
type CosmeticDetails struct {
	ID              uint   `gorm:"column:id;primaryKey" json:"id"`
	ProductID       uint   `gorm:"column:product_id;not null;uniqueIndex" json:"product_id"`
	Color           string `gorm:"column:color" json:"color"`
	Fragrance       string `gorm:"column:fragrance" json:"fragrance"`
	Sensorial       string `gorm:"column:sensorial" json:"sensorial"`
	Absorbability   string `gorm:"column:absorbability" json:"absorbability"`
	Ph              string `gorm:"column:ph" json:"ph"`
	Viscosity       string `gorm:"column:viscosity" json:"viscosity"`
	Cbt             string `gorm:"column:cbt" json:"cbt"`
	YeastAndMold    string `gorm:"column:yeast_and_mold" json:"yeast_and_mold"`
	EscherichiaColi string `gorm:"column:escherichia_coli" json:"escherichia_coli"`
	Pseudomonas     string `gorm:"column:pseudomonas" json:"pseudomonas"`
}

func (CosmeticDetails) TableName() string {
	return "cosmetic_details"
}

// SupplementDetails is the 1:1 detail row for supplement products.
type SupplementDetails struct {
	ID              uint   `gorm:"column:id;primaryKey" json:"id"`
	ProductID       uint   `gorm:"column:product_id;not null;uniqueIndex" json:"product_id"`
	NutritionalInfo string `gorm:"column:nutritional_info" json:"nutritional_info"`
	Indications     string `gorm:"column:indications" json:"indications"`
	Dosage          string `gorm:"column:dosage" json:"dosage"`
}

func (SupplementDetails) TableName() string {
	return "supplement_details"
}
