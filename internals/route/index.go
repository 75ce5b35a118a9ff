package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	presensiRoute "presensiku_backend/internals/features/presensi/route"
	authRoute "presensiku_backend/internals/features/users/auth/route"
	userRoute "presensiku_backend/internals/features/users/user/route"
	"presensiku_backend/internals/helpers/storage"
)

// SetupRoutes merangkai seluruh endpoint di bawah prefix /api.
func SetupRoutes(app *fiber.App, db *gorm.DB, store storage.Storage) {
	api := app.Group("/api")

	authRoute.AuthRoutes(api, db)
	userRoute.UserRoutes(api, db)
	presensiRoute.PresensiRoutes(api, db, store)
}
