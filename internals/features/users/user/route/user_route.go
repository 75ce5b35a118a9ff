package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"presensiku_backend/internals/configs"
	"presensiku_backend/internals/constants"
	userCtrl "presensiku_backend/internals/features/users/user/controller"
	authMw "presensiku_backend/internals/middlewares/auth"
)

func UserRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := userCtrl.NewUserController(db)

	grp := r.Group("/users",
		authMw.AuthMiddleware(configs.JWTSecret),
		authMw.OnlyRoles(constants.RoleErrorAdmin("data user"), constants.AdminOnly...),
	)
	grp.Get("/", ctrl.List)
}
