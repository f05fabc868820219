package groups

import (
	"context"
	"errors"
	"strings"

	"techsheet-backend/internal/domain"

	"gorm.io/gorm"
)

var (
	ErrDuplicateGroupName = errors.New("Group name already exists")
	ErrGroupNotFound      = errors.New("Group not found")
	ErrNameRequired       = errors.New("Group name is required")
)

// Service encapsulates group-registry operations.
type Service struct {
	DB *gorm.DB
}

// CreateGroup inserts a group with a unique name.
func (s *Service) CreateGroup(ctx context.Context, name string, description *string) (*domain.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	var existing domain.Group
	if err := s.DB.WithContext(ctx).Where("name = ?", name).First(&existing).Error; err == nil {
		return nil, ErrDuplicateGroupName
	}
	g := &domain.Group{Name: name, Description: description}
	if err := s.DB.WithContext(ctx).Create(g).Error; err != nil {
		return nil, err
	}
	return g, nil
}

// GetGroup returns a group by id.
func (s *Service) GetGroup(ctx context.Context, id uint) (*domain.Group, error) {
	var g domain.Group
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &g, nil
}

// ListGroups returns all groups ordered by name.
func (s *Service) ListGroups(ctx context.Context) ([]domain.Group, error) {
	var groups []domain.Group
	if err := s.DB.WithContext(ctx).Order("name ASC").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// UpdateGroup applies name/description changes; the new name must stay unique.
func (s *Service) UpdateGroup(ctx context.Context, id uint, name *string, description *string) (*domain.Group, error) {
	g, err := s.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		n := strings.TrimSpace(*name)
		if n == "" {
			return nil, ErrNameRequired
		}
		var dup domain.Group
		if err := s.DB.WithContext(ctx).Where("name = ? AND id != ?", n, id).First(&dup).Error; err == nil {
			return nil, ErrDuplicateGroupName
		}
		g.Name = n
	}
	if description != nil {
		g.Description = description
	}
	if err := s.DB.WithContext(ctx).Save(g).Error; err != nil {
		return nil, err
	}
	return g, nil
}

// DeleteGroup removes the group and nulls group_id on referencing products
// in the same transaction. Products are orphaned, never deleted.
func (s *Service) DeleteGroup(ctx context.Context, id uint) error {
	if _, err := s.GetGroup(ctx, id); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Product{}).Where("group_id = ?", id).Update("group_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Group{}, id).Error
	})
}
