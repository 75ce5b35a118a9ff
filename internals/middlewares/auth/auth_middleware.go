// Verifikasi bearer token dan menaruh klaim {user_id, user_name, userRole}
// ke Locals. Token hilang → 401; token rusak/kedaluwarsa → 403 (mengikuti
// perilaku server lama).
package auth

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	helper "presensiku_backend/internals/helpers"
)

func AuthMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Akses ditolak. Token tidak disediakan.")
		}

		if secret == "" {
			log.Println("[ERROR] JWT_SECRET kosong")
			return helper.JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan pada server")
		}

		claims := jwt.MapClaims{}
		if _, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		}); err != nil {
			log.Println("[ERROR] Gagal parse token:", err)
			return helper.JsonError(c, fiber.StatusForbidden, "Token tidak valid atau kedaluwarsa.")
		}

		if err := storeClaimsToLocals(c, claims); err != nil {
			log.Println("[ERROR] Klaim token:", err)
			return helper.JsonError(c, fiber.StatusForbidden, "Token tidak valid atau kedaluwarsa.")
		}

		return c.Next()
	}
}
