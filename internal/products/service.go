package products

import (
	"context"
	"errors"

	"techsheet-backend/internal/domain"
	"techsheet-backend/internal/pkg/validation"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SuggestionRecorder receives field values after a successful product write.
// Advisory only: recording failures never fail the write.
type SuggestionRecorder interface {
	RecordProduct(ctx context.Context, p *domain.Product, cos *domain.CosmeticDetails, sup *domain.SupplementDetails)
}

// Service holds the DB for product operations. All multi-step mutations run
// in a single transaction so the completeness recomputation can never be
// separated from the write that triggered it.
type Service struct {
	DB          *gorm.DB
	Suggestions SuggestionRecorder
}

// ProductWithDetails pairs a product with its resolved detail record.
// Details is nil when the detail row is missing; consumers render a
// placeholder in that case.
type ProductWithDetails struct {
	Product domain.Product `json:"product"`
	Details interface{}    `json:"details"`
}

// productUpdatableFields is the whitelist for partial updates. Derived and
// approval fields are absent on purpose: is_complete is recomputed, the
// approval triple only moves through the approval workflow.
var productUpdatableFields = map[string]bool{
	"name": true, "subtitle": true, "code": true, "ref": true, "date": true,
	"content": true, "category": true, "packaging": true, "accessory": true,
	"batch": true, "cpnp": true, "auth_ministry": true, "ingredients": true,
	"tests": true, "certifications": true, "clinical_trials": true,
	"claims": true, "natural_actives": true, "functional_actives": true,
	"characteristics": true, "usage": true, "warnings": true,
	"conservation_method": true, "special_warnings": true, "group_id": true,
}

var cosmeticUpdatableFields = map[string]bool{
	"color": true, "fragrance": true, "sensorial": true, "absorbability": true,
	"ph": true, "viscosity": true, "cbt": true, "yeast_and_mold": true,
	"escherichia_coli": true, "pseudomonas": true,
}

var supplementUpdatableFields = map[string]bool{
	"nutritional_info": true, "indications": true, "dosage": true,
}

// CreateProduct inserts the product and its matching detail row in one
// transaction; a failed detail insert rolls the product back so no product
// ever exists without its detail record. Completeness is computed before
// commit.
func (s *Service) CreateProduct(ctx context.Context, p domain.Product, cos *domain.CosmeticDetails, sup *domain.SupplementDetails) (*ProductWithDetails, error) {
	if validation.IsBlank(p.Name) {
		return nil, ErrNameRequired
	}
	if !domain.IsValidType(p.Type) {
		return nil, ErrInvalidType
	}
	if p.GroupID != nil {
		if err := s.groupExists(ctx, *p.GroupID); err != nil {
			return nil, err
		}
	}

	// Derived and approval fields are never client-settable.
	p.ID = 0
	p.IsComplete = false
	p.IsApproved = false
	p.ApprovedBy = nil
	p.ApprovedDate = nil
	p.LastAutosave = nil

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		switch p.Type {
		case domain.TypeCosmetic:
			if cos == nil {
				cos = &domain.CosmeticDetails{}
			}
			cos.ID = 0
			cos.ProductID = p.ID
			if err := tx.Create(cos).Error; err != nil {
				return err
			}
		case domain.TypeSupplement:
			if sup == nil {
				sup = &domain.SupplementDetails{}
			}
			sup.ID = 0
			sup.ProductID = p.ID
			if err := tx.Create(sup).Error; err != nil {
				return err
			}
		}
		return s.recomputeCompleteness(tx, &p, cos, sup)
	})
	if err != nil {
		return nil, err
	}

	if s.Suggestions != nil {
		s.Suggestions.RecordProduct(ctx, &p, cos, sup)
	}
	return withDetails(&p, cos, sup), nil
}

// GetProduct returns the product joined with its detail record.
func (s *Service) GetProduct(ctx context.Context, id uint) (*ProductWithDetails, error) {
	var p domain.Product
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	cos, sup, err := s.loadDetails(s.DB.WithContext(ctx), &p)
	if err != nil {
		return nil, err
	}
	return withDetails(&p, cos, sup), nil
}

// ListFilters for ListProducts. Role-based visibility is layered on top by
// the caller (FilterVisible); the repository stays a pure data component.
type ListFilters struct {
	Type    string
	GroupID *uint
}

// ListProducts returns products matching the plain filters, newest first.
func (s *Service) ListProducts(ctx context.Context, f ListFilters) ([]domain.Product, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Product{})
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.GroupID != nil {
		q = q.Where("group_id = ?", *f.GroupID)
	}
	var out []domain.Product
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateProduct merges the provided keys only. Changing type is rejected:
// the detail row's shape depends on it and the two may never diverge.
func (s *Service) UpdateProduct(ctx context.Context, id uint, productFields, detailFields map[string]interface{}) (*ProductWithDetails, error) {
	var p domain.Product
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if t, ok := productFields["type"]; ok {
		if ts, _ := t.(string); ts != p.Type {
			return nil, ErrTypeChange
		}
		delete(productFields, "type")
	}

	upd := make(map[string]interface{})
	for k, v := range productFields {
		if productUpdatableFields[k] {
			upd[k] = v
		}
	}
	if gid, ok := upd["group_id"]; ok {
		parsed, err := parseGroupID(gid)
		if err != nil {
			return nil, err
		}
		if parsed != nil {
			if err := s.groupExists(ctx, *parsed); err != nil {
				return nil, err
			}
			upd["group_id"] = *parsed
		} else {
			upd["group_id"] = nil
		}
	}

	detailAllowed := cosmeticUpdatableFields
	detailModel := interface{}(&domain.CosmeticDetails{})
	if p.Type == domain.TypeSupplement {
		detailAllowed = supplementUpdatableFields
		detailModel = &domain.SupplementDetails{}
	}
	dUpd := make(map[string]interface{})
	for k, v := range detailFields {
		if detailAllowed[k] {
			dUpd[k] = v
		}
	}

	if len(upd) == 0 && len(dUpd) == 0 {
		return nil, ErrNoFields
	}

	var cos *domain.CosmeticDetails
	var sup *domain.SupplementDetails
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(upd) > 0 {
			if err := tx.Model(&domain.Product{}).Where("id = ?", id).Updates(upd).Error; err != nil {
				return err
			}
		}
		if len(dUpd) > 0 {
			if err := tx.Model(detailModel).Where("product_id = ?", id).Updates(dUpd).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("id = ?", id).First(&p).Error; err != nil {
			return err
		}
		var err error
		cos, sup, err = s.loadDetails(tx, &p)
		if err != nil {
			return err
		}
		return s.recomputeCompleteness(tx, &p, cos, sup)
	})
	if err != nil {
		return nil, err
	}

	if s.Suggestions != nil {
		s.Suggestions.RecordProduct(ctx, &p, cos, sup)
	}
	return withDetails(&p, cos, sup), nil
}

// DeleteProduct removes the product and cascades to its detail row in one
// transaction.
func (s *Service) DeleteProduct(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&domain.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProductNotFound
		}
		if err := tx.Where("product_id = ?", id).Delete(&domain.CosmeticDetails{}).Error; err != nil {
			return err
		}
		return tx.Where("product_id = ?", id).Delete(&domain.SupplementDetails{}).Error
	})
}

// Autosave overwrites the draft blob. The blob is opaque: it is never
// validated, never merged into committed fields and does not touch
// completeness. UpdateColumn keeps updated_at out of it.
func (s *Service) Autosave(ctx context.Context, id uint, blob datatypes.JSON) error {
	res := s.DB.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).UpdateColumn("last_autosave", blob)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// GetAutosave returns the last draft blob (nil when none was stored).
func (s *Service) GetAutosave(ctx context.Context, id uint) (datatypes.JSON, error) {
	var p domain.Product
	if err := s.DB.WithContext(ctx).Select("id, last_autosave").Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p.LastAutosave, nil
}

// RecomputeCompleteness re-derives is_complete from current state. Safe to
// call repeatedly; without intervening writes the result never changes.
func (s *Service) RecomputeCompleteness(ctx context.Context, id uint) (bool, error) {
	var p domain.Product
	db := s.DB.WithContext(ctx)
	if err := db.Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrProductNotFound
		}
		return false, err
	}
	cos, sup, err := s.loadDetails(db, &p)
	if err != nil {
		return false, err
	}
	if err := s.recomputeCompleteness(db, &p, cos, sup); err != nil {
		return false, err
	}
	return p.IsComplete, nil
}

func (s *Service) recomputeCompleteness(tx *gorm.DB, p *domain.Product, cos *domain.CosmeticDetails, sup *domain.SupplementDetails) error {
	complete := EvaluateCompleteness(p, cos, sup)
	if complete == p.IsComplete {
		return nil
	}
	if err := tx.Model(&domain.Product{}).Where("id = ?", p.ID).UpdateColumn("is_complete", complete).Error; err != nil {
		return err
	}
	p.IsComplete = complete
	return nil
}

func (s *Service) loadDetails(db *gorm.DB, p *domain.Product) (*domain.CosmeticDetails, *domain.SupplementDetails, error) {
	switch p.Type {
	case domain.TypeCosmetic:
		var cos domain.CosmeticDetails
		if err := db.Where("product_id = ?", p.ID).First(&cos).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, nil
			}
			return nil, nil, err
		}
		return &cos, nil, nil
	case domain.TypeSupplement:
		var sup domain.SupplementDetails
		if err := db.Where("product_id = ?", p.ID).First(&sup).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, nil
			}
			return nil, nil, err
		}
		return nil, &sup, nil
	}
	return nil, nil, nil
}

func (s *Service) groupExists(ctx context.Context, id uint) error {
	var g domain.Group
	if err := s.DB.WithContext(ctx).Select("id").Where("id = ?", id).First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return err
	}
	return nil
}

func parseGroupID(v interface{}) (*uint, error) {
	switch g := v.(type) {
	case nil:
		return nil, nil
	case float64:
		id := uint(g)
		return &id, nil
	default:
		return nil, ErrGroupNotFound
	}
}

func withDetails(p *domain.Product, cos *domain.CosmeticDetails, sup *domain.SupplementDetails) *ProductWithDetails {
	out := &ProductWithDetails{Product: *p}
	if cos != nil {
		out.Details = cos
	} else if sup != nil {
		out.Details = sup
	}
	return out
}
