package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"presensiku_backend/internals/configs"
	authCtrl "presensiku_backend/internals/features/users/auth/controller"
	middlewares "presensiku_backend/internals/middlewares"
	authMw "presensiku_backend/internals/middlewares/auth"
)

func AuthRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := authCtrl.NewAuthController(db)

	grp := r.Group("/auth")
	grp.Post("/register", middlewares.RegisterRateLimiter(), ctrl.Register)
	grp.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	grp.Get("/me", authMw.AuthMiddleware(configs.JWTSecret), ctrl.Me)
}
