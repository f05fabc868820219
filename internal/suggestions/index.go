package suggestions

import (
	"context"
	"strings"

	"techsheet-backend/internal/domain"
	"techsheet-backend/internal/pkg/validation"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	keyPrefix      = "suggest:"
	minPrefixLen   = 3
	maxSuggestions = 10
)

// Index stores every non-blank value seen for a field name in a per-field
// Redis set. It is advisory only and can be rebuilt from the products table
// at any time without loss of correctness.
type Index struct {
	Rdb *redis.Client
	DB  *gorm.DB
}

// Record adds a value to the field's set. Blank values are skipped; failures
// are logged and swallowed (the index is never authoritative).
func (x *Index) Record(ctx context.Context, field, value string) {
	if x.Rdb == nil || validation.IsBlank(value) {
		return
	}
	if err := x.Rdb.SAdd(ctx, keyPrefix+field, strings.TrimSpace(value)).Err(); err != nil {
		log.Warn().Err(err).Str("field", field).Msg("suggestion record failed")
	}
}

// RecordProduct records the autocomplete-worthy fields of a product write.
func (x *Index) RecordProduct(ctx context.Context, p *domain.Product, cos *domain.CosmeticDetails, sup *domain.SupplementDetails) {
	if x.Rdb == nil || p == nil {
		return
	}
	x.Record(ctx, "name", p.Name)
	x.Record(ctx, "code", p.Code)
	x.Record(ctx, "category", p.Category)
	x.Record(ctx, "packaging", p.Packaging)
	x.Record(ctx, "accessory", p.Accessory)
	x.Record(ctx, "content", p.Content)
	x.Record(ctx, "conservation_method", p.ConservationMethod)
	if cos != nil {
		x.Record(ctx, "color", cos.Color)
		x.Record(ctx, "fragrance", cos.Fragrance)
	}
	if sup != nil {
		x.Record(ctx, "dosage", sup.Dosage)
	}
}

// Suggest returns up to 10 case-insensitive substring matches for the field.
// Prefixes shorter than 3 characters always return an empty list to avoid
// overly broad matching.
func (x *Index) Suggest(ctx context.Context, field, prefix string) ([]string, error) {
	if len(prefix) < minPrefixLen {
		return []string{}, nil
	}
	members, err := x.Rdb.SMembers(ctx, keyPrefix+field).Result()
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(prefix)
	out := make([]string, 0, maxSuggestions)
	for _, m := range members {
		if strings.Contains(strings.ToLower(m), needle) {
			out = append(out, m)
			if len(out) == maxSuggestions {
				break
			}
		}
	}
	return out, nil
}

// Rebuild drops all suggestion sets and re-records every product. Used after
// restoring a database dump or when the index drifted.
func (x *Index) Rebuild(ctx context.Context) error {
	keys, err := x.Rdb.Keys(ctx, keyPrefix+"*").Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		if err := x.Rdb.Del(ctx, keys...).Err(); err != nil {
			return err
		}
	}

	var products []domain.Product
	if err := x.DB.WithContext(ctx).Find(&products).Error; err != nil {
		return err
	}
	for i := range products {
		p := &products[i]
		var cos *domain.CosmeticDetails
		var sup *domain.SupplementDetails
		switch p.Type {
		case domain.TypeCosmetic:
			var d domain.CosmeticDetails
			if err := x.DB.WithContext(ctx).Where("product_id = ?", p.ID).First(&d).Error; err == nil {
				cos = &d
			}
		case domain.TypeSupplement:
			var d domain.SupplementDetails
			if err := x.DB.WithContext(ctx).Where("product_id = ?", p.ID).First(&d).Error; err == nil {
				sup = &d
			}
		}
		x.RecordProduct(ctx, p, cos, sup)
	}
	return nil
}
