package suggestions

import (
	"techsheet-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers holds the suggestion index.
type Handlers struct {
	Index *Index
}

// Suggest GET /api/v1/suggestions?field=&prefix=
func (h *Handlers) Suggest(c *fiber.Ctx) error {
	field := c.Query("field")
	prefix := c.Query("prefix")
	if field == "" {
		return response.Error(c, "field is required", 400, nil)
	}
	values, err := h.Index.Suggest(c.Context(), field, prefix)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Suggestions found", fiber.Map{"suggestions": values}, nil)
}
