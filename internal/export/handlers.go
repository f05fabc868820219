package export

import (
	"fmt"

	"techsheet-backend/internal/domain"
	"techsheet-backend/internal/middleware"
	"techsheet-backend/internal/pkg/response"
	"techsheet-backend/internal/products"

	"github.com/gofiber/fiber/v2"
)

// Handlers serves datasheet downloads on top of the product service.
type Handlers struct {
	Products *products.Service
}

type markdownRequest struct {
	ProductID uint `json:"product_id"`
	ID        uint `json:"id"`
}

// Markdown POST /api/v1/export/markdown — returns the rendered datasheet as
// a text/markdown attachment. Viewers only get products in their allowed
// groups, same 403 as the product detail endpoint.
func (h *Handlers) Markdown(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	if p == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req markdownRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid payload", 400, nil)
	}
	id := req.ProductID
	if id == 0 {
		id = req.ID
	}
	if id == 0 {
		return response.Error(c, "product_id is required", 400, nil)
	}

	pd, err := h.Products.GetProduct(c.Context(), id)
	if err != nil {
		if err == products.ErrProductNotFound {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	if !products.CanView(p.Role, p.AllowedGroups, &pd.Product) {
		return response.Forbidden(c, "User is forbidden from performing this action")
	}

	var md string
	switch pd.Product.Type {
	case domain.TypeSupplement:
		sup, _ := pd.Details.(*domain.SupplementDetails)
		md = SupplementMarkdown(&pd.Product, sup)
	default:
		cos, _ := pd.Details.(*domain.CosmeticDetails)
		md = CosmeticMarkdown(&pd.Product, cos)
	}

	filename := fmt.Sprintf("scheda-tecnica-%s.md", Slug(pd.Product.Name))
	c.Set(fiber.HeaderContentType, "text/markdown; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.SendString(md)
}
