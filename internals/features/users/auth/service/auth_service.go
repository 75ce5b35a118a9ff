package service

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"presensiku_backend/internals/configs"
	"presensiku_backend/internals/constants"
	"presensiku_backend/internals/features/users/auth/dto"
	userModel "presensiku_backend/internals/features/users/user/model"
)

const accessTokenTTL = 12 * time.Hour

var ErrEmailTaken = errors.New("email sudah terdaftar")
var ErrInvalidCredentials = errors.New("email atau password salah")

// Register membuat akun baru dengan role "user" (admin dibuat lewat seed).
func Register(db *gorm.DB, req dto.RegisterRequest) (*userModel.UserModel, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := userModel.UserModel{
		UserName: strings.TrimSpace(req.UserName),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: string(hashed),
		Role:     constants.RoleUser,
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &user, nil
}

// Login memverifikasi kredensial dan menerbitkan access token HS256
// dengan klaim {sub, user_name, role}.
func Login(db *gorm.DB, req dto.LoginRequest) (*dto.LoginResponse, error) {
	var user userModel.UserModel
	if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, fiber.NewError(fiber.StatusForbidden, "Akun Anda telah dinonaktifkan")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := IssueAccessToken(user, configs.JWTSecret, accessTokenTTL)
	if err != nil {
		log.Printf("[ERROR] Gagal sign token: %v", err)
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: token,
		User:        dto.NewUserResponse(user),
	}, nil
}

// IssueAccessToken dipisah supaya bisa dipakai test & seed tooling.
func IssueAccessToken(user userModel.UserModel, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":       user.ID.String(),
		"user_name": user.UserName,
		"role":      user.Role,
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
