package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Roles recognized by the platform. They arrive via the X-User-Roles header
// set by the gateway after token verification.
const (
	RoleUser     = "USER"
	RoleOperator = "OPERATOR"
	RoleAuditor  = "AUDITOR"
	RoleAdmin    = "ADMIN"
)

const (
	userIDHeader = "X-User-Id"
	rolesHeader  = "X-User-Roles"

	localUserID = "user_id"
	localRoles  = "user_roles"
)

// UserContext extracts the authenticated user identity injected by the
// gateway. Requests without an identity are rejected: this service is never
// exposed directly, so a missing header means the request bypassed the gateway.
func UserContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get(userIDHeader)
		if userID == "" {
			log.Warn().
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("request missing gateway user context")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing user context; requests must come through the gateway",
			})
		}

		var roles []string
		for _, r := range strings.Split(c.Get(rolesHeader), ",") {
			if r = strings.TrimSpace(r); r != "" {
				roles = append(roles, r)
			}
		}

		c.Locals(localUserID, userID)
		c.Locals(localRoles, roles)
		return c.Next()
	}
}

// RequireRoles allows the request through only if the caller holds at least
// one of the given roles.
func RequireRoles(required ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roles := Roles(c)
		for _, have := range roles {
			for _, want := range required {
				if have == want {
					return c.Next()
				}
			}
		}
		log.Warn().
			Str("user_id", UserID(c)).
			Strs("roles", roles).
			Strs("required", required).
			Str("path", c.Path()).
			Msg("insufficient role")
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "insufficient permissions",
		})
	}
}

// UserID returns the authenticated user id, or "" outside UserContext.
func UserID(c *fiber.Ctx) string {
	if v, ok := c.Locals(localUserID).(string); ok {
		return v
	}
	return ""
}

// Roles returns the caller's roles, or nil outside UserContext.
func Roles(c *fiber.Ctx) []string {
	if v, ok := c.Locals(localRoles).([]string); ok {
		return v
	}
	return nil
}
