package model

import (
	"time"

	"github.com/google/uuid"
)

// PresensiModel adalah satu catatan kehadiran. CheckOut NULL berarti
// catatan masih "terbuka". Lokasi & foto hanya diisi saat check-in dan
// tidak pernah diubah oleh alur normal.
//
// Index unik parsial (user_id WHERE check_out IS NULL) dibuat di
// internals/databases: maksimal satu catatan terbuka per user.
type PresensiModel struct {
	ID       uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	CheckIn  time.Time  `gorm:"not null" json:"check_in"`
	CheckOut *time.Time `json:"check_out"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	PhotoRef  *string  `gorm:"size:255" json:"photo_ref,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User *UserRef `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (PresensiModel) TableName() string { return "presensi" }

// IsOpen: belum ada check-out.
func (p *PresensiModel) IsOpen() bool { return p.CheckOut == nil }

// UserRef adalah proyeksi ringan tabel users untuk join report/response.
type UserRef struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserName string    `gorm:"column:user_name" json:"user_name"`
	Email    string    `gorm:"column:email" json:"email"`
}

func (UserRef) TableName() string { return "users" }
