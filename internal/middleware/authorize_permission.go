package middleware

import (
	"techsheet-backend/internal/pkg/constants"
	"techsheet-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthorizePermission checks the session user's role against PermissionRoles.
// Unconfigured permission -> 500; role not allowed -> 403.
func AuthorizePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		if p == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		roles, ok := constants.PermissionRoles[permission]
		if !ok || len(roles) == 0 {
			return response.Error(c, "Permission configuration error", 500, nil)
		}
		if !constants.AllowedRole(permission, p.Role) {
			return response.Forbidden(c, "User is forbidden from performing this action")
		}
		return c.Next()
	}
}
