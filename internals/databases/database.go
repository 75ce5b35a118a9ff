package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"presensiku_backend/internals/configs"
	"presensiku_backend/internals/constants"
	presensiModel "presensiku_backend/internals/features/presensi/model"
	userModel "presensiku_backend/internals/features/users/user/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Koneksi ke PostgreSQL...")

	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=presensiku&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
	}), &gorm.Config{
		Logger:         configs.NewGormLogger(),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("❌ Gagal konek DB: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate menyiapkan skema users + presensi. Partial unique index di bawah
// adalah penjaga utama aturan "maksimal satu presensi terbuka per user":
// dua check-in bersamaan tidak mungkin sama-sama berhasil insert.
func Migrate() {
	if err := DB.AutoMigrate(
		&userModel.UserModel{},
		&presensiModel.PresensiModel{},
	); err != nil {
		log.Fatalf("❌ Gagal migrasi skema: %v", err)
	}

	if err := DB.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_presensi_open_per_user
		 ON presensi (user_id) WHERE check_out IS NULL`,
	).Error; err != nil {
		log.Fatalf("❌ Gagal membuat index presensi terbuka: %v", err)
	}

	log.Println("✅ Migrasi skema selesai.")
}

// SeedAdmin membuat akun admin awal dari ENV bila belum ada.
func SeedAdmin() {
	email := configs.GetEnv("ADMIN_EMAIL")
	password := configs.GetEnv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	var count int64
	if err := DB.Model(&userModel.UserModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		log.Printf("[ERROR] Gagal cek admin seed: %v", err)
		return
	}
	if count > 0 {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[ERROR] Gagal hash password admin: %v", err)
		return
	}

	admin := userModel.UserModel{
		UserName: configs.GetEnv("ADMIN_NAME", "Administrator"),
		Email:    email,
		Password: string(hashed),
		Role:     constants.RoleAdmin,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("[ERROR] Gagal seed admin: %v", err)
		return
	}
	log.Printf("✅ Admin awal dibuat: %s", email)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
