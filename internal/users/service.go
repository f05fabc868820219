package users

import (
	"context"
	"errors"
	"strings"

	"techsheet-backend/internal/domain"
	"techsheet-backend/internal/pkg/constants"
	"techsheet-backend/internal/pkg/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service holds the DB for user operations. It is the credential store:
// passwords only ever enter as plaintext here and leave as bcrypt hashes.
type Service struct {
	DB *gorm.DB
}

// CreateUserInput for registration and admin seeding. Role/Approved default
// to guest/false when zero-valued.
type CreateUserInput struct {
	Username string
	Password string
	Email    string
	Name     string
	Company  *string
	Role     string
	Approved bool
}

// CreateUser hashes the password and inserts the user. Registration leaves
// the account unapproved; an administrator must approve before login works.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	if in.Username == "" || in.Password == "" || in.Email == "" || in.Name == "" {
		return nil, ErrMissingFields
	}
	username := strings.TrimSpace(in.Username)
	if !validation.IsValidUsername(username) {
		return nil, errors.New("Invalid username format")
	}
	if !validation.IsValidEmail(in.Email) {
		return nil, errors.New("Invalid email format")
	}
	if !validation.IsValidPassword(in.Password) {
		return nil, errors.New("Password must be at least 8 characters")
	}
	role := in.Role
	if role == "" {
		role = constants.Guest
	}
	if !constants.IsValidRole(role) {
		return nil, ErrInvalidRole
	}

	var existing domain.User
	if err := s.DB.WithContext(ctx).Where("username = ?", username).First(&existing).Error; err == nil {
		return nil, ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 10)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Email:        strings.TrimSpace(strings.ToLower(in.Email)),
		Name:         strings.TrimSpace(in.Name),
		Company:      in.Company,
		Role:         role,
		Approved:     in.Approved,
	}
	u.SetAllowedGroupIDs(nil)
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// VerifyCredentials checks username+password and the approval flag, in that
// order: a wrong password on an unapproved account still reads as invalid
// credentials, never as a pending-approval hint.
func (s *Service) VerifyCredentials(ctx context.Context, username, password string) (*domain.User, error) {
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.Approved {
		return nil, ErrNotApproved
	}
	return &u, nil
}

// GetUser returns a user by id.
func (s *Service) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByUsername returns a user by username.
func (s *Service) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ListUsers returns all users, oldest first.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := s.DB.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ApproveUserInput: optional role override and allowed groups applied at
// approval time. Without an override a guest becomes a viewer.
type ApproveUserInput struct {
	UserID        uint
	Role          string
	AllowedGroups []string
}

// ApproveUser flips approved=true with an optional role override. There is
// no transition back to unapproved.
func (s *Service) ApproveUser(ctx context.Context, in ApproveUserInput) (*domain.User, error) {
	u, err := s.GetUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = u.Role
		if role == constants.Guest {
			role = constants.Viewer
		}
	}
	if !constants.IsValidRole(role) || role == constants.Guest {
		return nil, ErrInvalidRole
	}
	u.Approved = true
	u.Role = role
	if in.AllowedGroups != nil {
		u.SetAllowedGroupIDs(in.AllowedGroups)
	}
	if err := s.DB.WithContext(ctx).Save(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateRole moves an approved account to another approved role.
func (s *Service) UpdateRole(ctx context.Context, userID uint, role string) (*domain.User, error) {
	if !constants.IsValidRole(role) || role == constants.Guest {
		return nil, ErrInvalidRole
	}
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Role = role
	if err := s.DB.WithContext(ctx).Save(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateAllowedGroups replaces the viewer's allowed group list. The list is
// stored for any role but only consulted for viewers.
func (s *Service) UpdateAllowedGroups(ctx context.Context, userID uint, groups []string) (*domain.User, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.SetAllowedGroupIDs(groups)
	if err := s.DB.WithContext(ctx).Save(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}
