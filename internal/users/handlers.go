package users

import (
	"errors"
	"strconv"

	"techsheet-backend/internal/domain"
	"techsheet-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers holds the user service. All routes here are mounted behind
// RequireAuth + AuthorizePermission(ManageUsers).
type Handlers struct {
	Service *Service
}

// ListUsers GET /api/v1/users
func (h *Handlers) ListUsers(c *fiber.Ctx) error {
	users, err := h.Service.ListUsers(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	out := make([]fiber.Map, 0, len(users))
	for i := range users {
		out = append(out, safeUser(&users[i]))
	}
	return response.Success(c, "Users found", fiber.Map{"users": out}, nil)
}

// ApproveUserRequest body: optional role override and allowed groups.
type ApproveUserRequest struct {
	Role          string   `json:"role"`
	AllowedGroups []string `json:"allowed_groups"`
}

// ApproveUser POST /api/v1/users/:id/approve
func (h *Handlers) ApproveUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.Error(c, "Invalid user ID", 400, nil)
	}
	var req ApproveUserRequest
	_ = c.BodyParser(&req) // empty body -> plain approval

	u, err := h.Service.ApproveUser(c.Context(), ApproveUserInput{
		UserID:        id,
		Role:          req.Role,
		AllowedGroups: req.AllowedGroups,
	})
	if err != nil {
		return mapUserError(c, err)
	}
	return response.Success(c, "User approved", fiber.Map{"user": safeUser(u)}, nil)
}

// UpdateRoleRequest body: role.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// UpdateRole PATCH /api/v1/users/:id/role
func (h *Handlers) UpdateRole(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.Error(c, "Invalid user ID", 400, nil)
	}
	var req UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil || req.Role == "" {
		return response.Error(c, "role is required", 400, nil)
	}
	u, err := h.Service.UpdateRole(c.Context(), id, req.Role)
	if err != nil {
		return mapUserError(c, err)
	}
	return response.Success(c, "User role updated", fiber.Map{"user": safeUser(u)}, nil)
}

// UpdateAllowedGroupsRequest body: allowed_groups (group ids as strings).
type UpdateAllowedGroupsRequest struct {
	AllowedGroups []string `json:"allowed_groups"`
}

// UpdateAllowedGroups PATCH /api/v1/users/:id/allowed-groups
func (h *Handlers) UpdateAllowedGroups(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.Error(c, "Invalid user ID", 400, nil)
	}
	var req UpdateAllowedGroupsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "allowed_groups is required", 400, nil)
	}
	u, err := h.Service.UpdateAllowedGroups(c.Context(), id, req.AllowedGroups)
	if err != nil {
		return mapUserError(c, err)
	}
	return response.Success(c, "Allowed groups updated", fiber.Map{"user": safeUser(u)}, nil)
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

func safeUser(u *domain.User) fiber.Map {
	return fiber.Map{
		"id":             u.ID,
		"username":       u.Username,
		"email":          u.Email,
		"name":           u.Name,
		"company":        u.Company,
		"role":           u.Role,
		"approved":       u.Approved,
		"allowed_groups": u.AllowedGroupIDs(),
		"createdAt":      u.CreatedAt,
	}
}

func mapUserError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return response.Error(c, err.Error(), 404, nil)
	case errors.Is(err, ErrInvalidRole), errors.Is(err, ErrMissingFields):
		return response.Error(c, err.Error(), 400, nil)
	case errors.Is(err, ErrDuplicateUsername):
		return response.Error(c, err.Error(), 409, nil)
	default:
		return response.Error(c, "Internal Server Error", 500, nil)
	}
}
