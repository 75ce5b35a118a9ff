package auth

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	helper "presensiku_backend/internals/helpers"
)

func extractBearerToken(c *fiber.Ctx) (string, error) {
	auth := strings.TrimSpace(c.Get("Authorization"))
	if auth == "" {
		if cookieTok := c.Cookies("access_token"); cookieTok != "" {
			auth = "Bearer " + cookieTok
		}
	}
	if auth == "" {
		return "", fmt.Errorf("no token provided")
	}

	// Robust split: toleransi spasi ganda & case-insensitive
	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", fmt.Errorf("invalid token format")
	}

	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", fmt.Errorf("empty token")
	}
	return tok, nil
}

func storeClaimsToLocals(c *fiber.Ctx, claims jwt.MapClaims) error {
	sub, _ := claims["sub"].(string)
	if sub == "" {
		// kompat klaim lama "id"
		sub, _ = claims["id"].(string)
	}
	if _, err := uuid.Parse(sub); err != nil {
		return fmt.Errorf("sub bukan UUID: %w", err)
	}
	c.Locals(helper.LocUserID, sub)

	if name, ok := claims["user_name"].(string); ok {
		c.Locals(helper.LocUserName, name)
	}
	role, _ := claims["role"].(string)
	if role == "" {
		role = "user"
	}
	c.Locals(helper.LocUserRole, role)
	return nil
}
