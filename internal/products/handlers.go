package products

import (
	"encoding/json"
	"errors"
	"strconv"

	"techsheet-backend/internal/domain"
	"techsheet-backend/internal/middleware"
	"techsheet-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// Handlers holds the product service. Role gating happens in route
// middleware; group visibility for viewers is enforced here, on top of the
// repository.
type Handlers struct {
	Service *Service
}

// CreateProductRequest body: product plus type-matched details.
type CreateProductRequest struct {
	Product domain.Product  `json:"product"`
	Details json.RawMessage `json:"details"`
}

// CreateProduct POST /api/v1/products
func (h *Handlers) CreateProduct(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid payload", 400, nil)
	}

	var cos *domain.CosmeticDetails
	var sup *domain.SupplementDetails
	if len(req.Details) > 0 {
		switch req.Product.Type {
		case domain.TypeCosmetic:
			cos = &domain.CosmeticDetails{}
			if err := json.Unmarshal(req.Details, cos); err != nil {
				return response.Error(c, "Invalid details payload", 400, nil)
			}
		case domain.TypeSupplement:
			sup = &domain.SupplementDetails{}
			if err := json.Unmarshal(req.Details, sup); err != nil {
				return response.Error(c, "Invalid details payload", 400, nil)
			}
		}
	}

	pd, err := h.Service.CreateProduct(c.Context(), req.Product, cos, sup)
	if err != nil {
		return mapProductError(c, err)
	}
	return response.SuccessCreated(c, "Product created", pd, nil)
}

// ListProducts GET /api/v1/products?type=&group_id= — repository filter first,
// then the visibility filter for the session principal.
func (h *Handlers) ListProducts(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	if p == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	filters := ListFilters{Type: c.Query("type")}
	if g := c.Query("group_id"); g != "" {
		id, err := strconv.ParseUint(g, 10, 32)
		if err != nil {
			return response.Error(c, "Invalid group_id", 400, nil)
		}
		gid := uint(id)
		filters.GroupID = &gid
	}

	list, err := h.Service.ListProducts(c.Context(), filters)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	visible := FilterVisible(p.Role, p.AllowedGroups, list)
	return response.Success(c, "Products found", fiber.Map{"products": visible}, nil)
}

// GetProduct GET /api/v1/products/:id — a viewer outside the product's group
// gets 403, never 404.
func (h *Handlers) GetProduct(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, err := parseID(c)
	if err != nil {
		return response.Error(c, "Invalid product ID", 400, nil)
	}
	pd, err := h.Service.GetProduct(c.Context(), id)
	if err != nil {
		return mapProductError(c, err)
	}
	if !CanView(principal.Role, principal.AllowedGroups, &pd.Product) {
		return response.Forbidden(c, "User is forbidden from performing this action")
	}
	return response.Success(c, "Product found", pd, nil)
}

// UpdateProductRequest body: partial product and detail field maps.
type UpdateProductRequest struct {
	Product map[string]interface{} `json:"product"`
	Details map[string]interface{} `json:"details"`
}

// UpdateProduct PUT /api/v1/products/:id
func (h *Handlers) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.Error(c, "Invalid product ID", 400, nil)
	}
	var req UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid payload", 400, nil)
	}
	pd, err := h.Service.UpdateProduct(c.Context(), id, req.Product, req.Details)
	if err != nil {
		return mapProductError(c, err)
	}
	return response.Success(c, "Product updated", pd, nil)
}

// DeleteProduct DELETE /api/v1/products/:id — administrator only (route
// middleware enforces it; the repository itself exposes delete to any caller).
func (h *Handlers) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.Error(c, "Invalid product ID", 400, nil)
	}
	if err := h.Service.DeleteProduct(c.Context(), id); err != nil {
		return mapProductError(c, err)
	}
	return response.Success(c, "Product deleted", nil, nil)
}

// Approve POST /api/v1/products/:id/approve — the service re-checks the
// actor's stored role, not just the session role.
func (h *Handlers) Approve(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, err := parseID(c)
	if err != nil {
		return response.Error(c, "Invalid product ID", 400, nil)
	}
	p, err := h.Service.Approve(c.Context(), id, principal.UserID)
	if err != nil {
		return mapProductError(c, err)
	}
	return response.Success(c, "Product approved", fiber.Map{"product": p}, nil)
}

// Unapprove POST /api/v1/products/:id/unapprove
func (h *Handlers) Unapprove(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.Error(c, "Invalid product ID", 400, nil)
	}
	p, err := h.Service.Unapprove(c.Context(), id)
	if err != nil {
		return mapProductError(c, err)
	}
	return response.Success(c, "Product approval removed", fiber.Map{"product": p}, nil)
}

// Autosave PUT /api/v1/products/:id/autosave — stores the raw body as the
// draft blob, overwriting the previous one.
func (h *Handlers) Autosave(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.Error(c, "Invalid product ID", 400, nil)
	}
	body := c.Body()
	if len(body) == 0 || !json.Valid(body) {
		return response.Error(c, "Invalid autosave payload", 400, nil)
	}
	if err := h.Service.Autosave(c.Context(), id, datatypes.JSON(body)); err != nil {
		return mapProductError(c, err)
	}
	return response.Success(c, "Autosave stored", nil, nil)
}

// GetAutosave GET /api/v1/products/:id/autosave
func (h *Handlers) GetAutosave(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.Error(c, "Invalid product ID", 400, nil)
	}
	blob, err := h.Service.GetAutosave(c.Context(), id)
	if err != nil {
		return mapProductError(c, err)
	}
	var decoded interface{}
	if len(blob) > 0 {
		_ = json.Unmarshal(blob, &decoded)
	}
	return response.Success(c, "Autosave found", fiber.Map{"autosave": decoded}, nil)
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

func mapProductError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrProductNotFound):
		return response.Error(c, err.Error(), 404, nil)
	case errors.Is(err, ErrForbidden):
		return response.Forbidden(c, err.Error())
	case errors.Is(err, ErrInvalidType), errors.Is(err, ErrNameRequired),
		errors.Is(err, ErrTypeChange), errors.Is(err, ErrGroupNotFound),
		errors.Is(err, ErrNoFields):
		return response.Error(c, err.Error(), 400, nil)
	default:
		return response.Error(c, "Internal Server Error", 500, nil)
	}
}
