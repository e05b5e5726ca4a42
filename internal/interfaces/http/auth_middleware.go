package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/facturis/efactura-pro/internal/application/dto"
	"github.com/facturis/efactura-pro/pkg/jwt"
)

// Locals keys set by the auth middleware.
const (
	LocalClientID = "client_id"
	LocalCIF      = "cif"
)

// AuthMiddleware validates the Bearer token and loads ClientID and CIF into
// c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header required"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "format: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "empty token"})
		}
		clientID, cif, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "invalid or expired token"})
		}
		c.Locals(LocalClientID, clientID)
		c.Locals(LocalCIF, cif)
		return c.Next()
	}
}

// GetClientID returns the client identifier set by the auth middleware.
func GetClientID(c *fiber.Ctx) string {
	v := c.Locals(LocalClientID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetCIF returns the fiscal code claim set by the auth middleware.
func GetCIF(c *fiber.Ctx) string {
	v := c.Locals(LocalCIF)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
