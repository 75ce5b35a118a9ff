package helper

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Nama locals yang di-set middleware auth
const (
	LocUserID   = "user_id"
	LocUserName = "user_name"
	LocUserRole = "userRole"
)

// GetUserIDFromToken mengambil user_id (UUID) dari locals hasil middleware.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := c.Locals(LocUserID).(string)
	if !ok || raw == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - user ID tidak ditemukan")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - user ID tidak valid")
	}
	return id, nil
}

func GetUserNameFromToken(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocUserName).(string); ok {
		return v
	}
	return ""
}

func GetRoleFromToken(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocUserRole).(string); ok {
		return v
	}
	return ""
}
