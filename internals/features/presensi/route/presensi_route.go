package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"presensiku_backend/internals/configs"
	presensiCtrl "presensiku_backend/internals/features/presensi/controller"
	"presensiku_backend/internals/helpers/storage"
	authMw "presensiku_backend/internals/middlewares/auth"
)

func PresensiRoutes(r fiber.Router, db *gorm.DB, store storage.Storage) {
	ctrl := presensiCtrl.NewPresensiController(db, store)

	auth := authMw.AuthMiddleware(configs.JWTSecret)

	grp := r.Group("/presensi", auth)
	grp.Post("/check-in", ctrl.CheckIn)
	grp.Post("/check-out", ctrl.CheckOut)
	grp.Put("/:id", ctrl.Update)
	grp.Delete("/:id", ctrl.Delete)

	rep := r.Group("/reports", auth)
	rep.Get("/daily", ctrl.DailyReport)
}
