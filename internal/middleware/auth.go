package middleware

import (
	"techsheet-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const userLocal = "user"

// RequireAuth ensures a principal is in the session. 401 otherwise.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals(userLocal)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// GetUser returns the raw session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// Principal is the typed view of the session user for handlers.
type Principal struct {
	UserID        uint
	Username      string
	Role          string
	AllowedGroups []string
}

// GetPrincipal decodes the session user. Returns nil when no valid principal
// is bound to the session.
func GetPrincipal(c *fiber.Ctx) *Principal {
	u := GetUser(c)
	if u == nil {
		return nil
	}
	m, ok := u.(map[string]interface{})
	if !ok {
		return nil
	}
	id, _ := m["user_id"].(float64)
	role, _ := m["role"].(string)
	if id == 0 || role == "" {
		return nil
	}
	username, _ := m["username"].(string)
	p := &Principal{UserID: uint(id), Username: username, Role: role}
	switch g := m["allowed_groups"].(type) {
	case []string:
		p.AllowedGroups = g
	case []interface{}:
		for _, v := range g {
			if s, ok := v.(string); ok {
				p.AllowedGroups = append(p.AllowedGroups, s)
			}
		}
	}
	return p
}
