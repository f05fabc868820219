package products

import (
	"context"
	"errors"
	"time"

	"techsheet-backend/internal/domain"
	"techsheet-backend/internal/pkg/constants"

	"gorm.io/gorm"
)

// Approve stamps the product with the acting administrator's id and the
// current time. The actor's role is re-read at call time: the session role
// alone is not trusted for approval. Completeness is not checked; an
// incomplete product may be approved.
func (s *Service) Approve(ctx context.Context, productID, actorID uint) (*domain.Product, error) {
	var actor domain.User
	if err := s.DB.WithContext(ctx).Where("id = ?", actorID).First(&actor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	if actor.Role != constants.Administrator {
		return nil, ErrForbidden
	}

	var p domain.Product
	if err := s.DB.WithContext(ctx).Where("id = ?", productID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	now := time.Now()
	p.IsApproved = true
	p.ApprovedBy = &actorID
	p.ApprovedDate = &now
	if err := s.DB.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", productID).Updates(map[string]interface{}{
		"is_approved":   true,
		"approved_by":   actorID,
		"approved_date": now,
	}).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Unapprove clears all three approval fields back to their defaults.
func (s *Service) Unapprove(ctx context.Context, productID uint) (*domain.Product, error) {
	var p domain.Product
	if err := s.DB.WithContext(ctx).Where("id = ?", productID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", productID).Updates(map[string]interface{}{
		"is_approved":   false,
		"approved_by":   nil,
		"approved_date": nil,
	}).Error; err != nil {
		return nil, err
	}
	p.IsApproved = false
	p.ApprovedBy = nil
	p.ApprovedDate = nil
	return &p, nil
}
