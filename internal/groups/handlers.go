package groups

import (
	"errors"
	"strconv"

	"techsheet-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers holds the group service.
type Handlers struct {
	Service *Service
}

// GroupRequest body for create/update.
type GroupRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// CreateGroup POST /api/v1/groups
func (h *Handlers) CreateGroup(c *fiber.Ctx) error {
	var req GroupRequest
	if err := c.BodyParser(&req); err != nil || req.Name == nil {
		return response.Error(c, "name is required", 400, nil)
	}
	g, err := h.Service.CreateGroup(c.Context(), *req.Name, req.Description)
	if err != nil {
		return mapGroupError(c, err)
	}
	return response.SuccessCreated(c, "Group created", fiber.Map{"group": g}, nil)
}

// ListGroups GET /api/v1/groups
func (h *Handlers) ListGroups(c *fiber.Ctx) error {
	groups, err := h.Service.ListGroups(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Groups found", fiber.Map{"groups": groups}, nil)
}

// UpdateGroup PATCH /api/v1/groups/:id
func (h *Handlers) UpdateGroup(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.Error(c, "Invalid group ID", 400, nil)
	}
	var req GroupRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "No update fields provided", 400, nil)
	}
	g, err := h.Service.UpdateGroup(c.Context(), id, req.Name, req.Description)
	if err != nil {
		return mapGroupError(c, err)
	}
	return response.Success(c, "Group updated", fiber.Map{"group": g}, nil)
}

// DeleteGroup DELETE /api/v1/groups/:id — administrator only (route
// middleware). Referencing products are orphaned, deletion always succeeds
// when the group exists.
func (h *Handlers) DeleteGroup(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.Error(c, "Invalid group ID", 400, nil)
	}
	if err := h.Service.DeleteGroup(c.Context(), id); err != nil {
		return mapGroupError(c, err)
	}
	return response.Success(c, "Group deleted", nil, nil)
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

func mapGroupError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrGroupNotFound):
		return response.Error(c, err.Error(), 404, nil)
	case errors.Is(err, ErrDuplicateGroupName):
		return response.Error(c, err.Error(), 409, nil)
	case errors.Is(err, ErrNameRequired):
		return response.Error(c, err.Error(), 400, nil)
	default:
		return response.Error(c, "Internal Server Error", 500, nil)
	}
}
