package middleware

import (
	"errors"
	"slices"
	"strings"

	"visaconsult/internal/config"
	"visaconsult/internal/core/domain"
	"visaconsult/internal/pkg/jwt"
	"visaconsult/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Locals written by AuthMiddleware
const (
	LocalUserID   = "userID"
	LocalUsername = "username"
	LocalRole     = "role"
)

// AuthMiddleware validates the access token from the access_token cookie or
// a Bearer header and stores the caller in Locals
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := tokenFromRequest(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUsername, claims.Username)
		c.Locals(LocalRole, domain.Role(claims.Role))

		return c.Next()
	}
}

// tokenFromRequest reads the access token from the cookie, then the
// Authorization header
func tokenFromRequest(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	if token, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// CurrentActor builds the caller identity from the locals set by AuthMiddleware
func CurrentActor(c *fiber.Ctx) (domain.Actor, bool) {
	userID, ok := c.Locals(LocalUserID).(uint)
	if !ok {
		return domain.Actor{}, false
	}
	role, _ := c.Locals(LocalRole).(domain.Role)
	return domain.Actor{ID: userID, Role: role, IPAddress: c.IP()}, true
}

// RoleMiddleware admits callers holding one of allowed. It must run after
// AuthMiddleware.
func RoleMiddleware(allowed ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(domain.Role)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		if !slices.Contains(allowed, role) {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}
		return c.Next()
	}
}

// AdminOnly middleware allows only the admin role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}

// OfficerOrAdmin middleware allows staff roles
func OfficerOrAdmin() fiber.Handler {
	return RoleMiddleware(domain.RoleOfficer, domain.RoleAdmin)
}
