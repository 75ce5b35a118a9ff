package controller

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authDto "presensiku_backend/internals/features/users/auth/dto"
	"presensiku_backend/internals/features/users/user/model"
	helper "presensiku_backend/internals/helpers"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// GET /api/users?nama=&page=&per_page=  (admin)
func (ctrl *UserController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.Model(&model.UserModel{})
	if nama := strings.TrimSpace(c.Query("nama")); nama != "" {
		q = q.Where("user_name ILIKE ?", "%"+nama+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[ERROR] count users: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan pada server")
	}

	var users []model.UserModel
	if err := q.Order("user_name ASC").Offset(paging.Offset).Limit(paging.Limit).Find(&users).Error; err != nil {
		log.Printf("[ERROR] list users: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan pada server")
	}

	out := make([]authDto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, authDto.NewUserResponse(u))
	}

	return helper.JsonList(c, "ok", out, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}
