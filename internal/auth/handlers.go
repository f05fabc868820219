package auth

import (
	"context"
	"errors"
	"strconv"

	"techsheet-backend/internal/middleware"
	"techsheet-backend/internal/pkg/response"
	"techsheet-backend/internal/users"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const userSessionsPrefix = "user_sessions:"

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	Verifier  CredentialVerifier
	Registrar Registrar
	Rdb       *redis.Client
	Config    middleware.SessionConfig
}

// RegisterRequest body.
type RegisterRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Company  *string `json:"company"`
}

// Register POST /api/v1/auth/register — creates a guest account pending
// approval. Never establishes a session: the caller gets a message, not a
// cookie, even with perfectly valid input.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "All fields are required", fiber.StatusBadRequest, nil)
	}
	if req.Username == "" || req.Password == "" || req.Email == "" || req.Name == "" {
		return response.Error(c, "All fields are required", fiber.StatusBadRequest, nil)
	}

	u, err := h.Registrar.CreateUser(c.Context(), users.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Name:     req.Name,
		Company:  req.Company,
	})
	if err != nil {
		if errors.Is(err, users.ErrDuplicateUsername) {
			return response.Error(c, err.Error(), fiber.StatusConflict, nil)
		}
		if errors.Is(err, users.ErrMissingFields) {
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		}
		// validation failures from the service carry their own message
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}

	log.Info().Str("username", u.Username).Msg("Account registered, pending approval")
	return response.SuccessCreated(c, "Registration received. An administrator must approve the account before login.", fiber.Map{
		"user": fiber.Map{
			"id":       u.ID,
			"username": u.Username,
			"role":     u.Role,
			"approved": u.Approved,
		},
	}, nil)
}

// LoginRequest body.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login POST /api/v1/auth/login — verify credentials + approval, rotate the
// session id, bind the principal, set the cookie. Invalid credentials and
// pending approval are distinct failures (401 vs 403) so the UI can message
// each case.
func (h *Handlers) Login(c *fiber.Ctx) error {
	if h.Verifier == nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Username and password are required", fiber.StatusBadRequest, nil)
	}
	if req.Username == "" || req.Password == "" {
		return response.Error(c, "Username and password are required", fiber.StatusBadRequest, nil)
	}

	user, err := h.Verifier.VerifyCredentials(c.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrInvalidCredentials):
			return response.Error(c, err.Error(), fiber.StatusUnauthorized, nil)
		case errors.Is(err, users.ErrNotApproved):
			return response.Forbidden(c, err.Error())
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:        user.ID,
		Username:      user.Username,
		Name:          user.Name,
		Role:          user.Role,
		AllowedGroups: user.AllowedGroupIDs(),
	})

	if h.Rdb != nil {
		_ = h.Rdb.SAdd(context.Background(), userSessionsPrefix+itoa(user.ID), sessionID).Err()
	}

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = sessionID
	c.Cookie(&cookie)

	return response.Success(c, "Login successful", fiber.Map{
		"user": fiber.Map{
			"id":             user.ID,
			"username":       user.Username,
			"name":           user.Name,
			"role":           user.Role,
			"allowed_groups": user.AllowedGroupIDs(),
		},
	}, nil)
}

// Me GET /api/v1/auth/me — return the current session user.
func (h *Handlers) Me(c *fiber.Ctx) error {
	sessionUser := middleware.GetUser(c)
	user, err := VerifySessionUser(sessionUser)
	if err != nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	return response.Success(c, "Authenticated", fiber.Map{"user": user}, nil)
}

// Logout DELETE /api/v1/auth/logout — SRem the session from the user's set,
// delete the Redis key, clear the cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	p := middleware.GetPrincipal(c)

	ctx := context.Background()
	if p != nil && sessionID != "" && h.Rdb != nil {
		_ = h.Rdb.SRem(ctx, userSessionsPrefix+itoa(p.UserID), sessionID).Err()
	}
	if sessionID != "" && h.Rdb != nil {
		_ = h.Rdb.Del(ctx, middleware.SessionRedisPrefix+sessionID).Err()
	}

	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = ""
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.Success(c, "Logged out successfully", nil, nil)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
