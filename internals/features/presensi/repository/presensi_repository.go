package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	m "presensiku_backend/internals/features/presensi/model"
)

var (
	// ErrNotFound: catatan tidak ada (atau tidak ada yang terbuka).
	ErrNotFound = errors.New("catatan presensi tidak ditemukan")
	// ErrOpenConflict: insert melanggar index unik parsial, artinya masih
	// ada catatan terbuka untuk user tsb.
	ErrOpenConflict = errors.New("masih ada catatan presensi terbuka")
)

// ReportFilter: semua predikat opsional. Batas tanggal sudah dinormalkan
// oleh pemanggil (inklusif dua sisi, terhadap check_in saja).
type ReportFilter struct {
	Nama  string
	Mulai *time.Time
	Akhir *time.Time
}

// PresensiRepository adalah akses baca/tulis catatan presensi.
// Implementasi GORM ada di gorm_repository.go; test memakai fake in-memory.
type PresensiRepository interface {
	// Create menyimpan catatan baru; ErrOpenConflict bila user masih punya
	// catatan terbuka (dijaga index unik parsial di store).
	Create(ctx context.Context, p *m.PresensiModel) error

	// FindOpenByUserID mengambil catatan terbuka milik user (first-match).
	FindOpenByUserID(ctx context.Context, userID uuid.UUID) (*m.PresensiModel, error)

	// FindByID mengambil satu catatan beserta join user.
	FindByID(ctx context.Context, id uuid.UUID) (*m.PresensiModel, error)

	// Save menulis ulang field mutable (check_in/check_out).
	Save(ctx context.Context, p *m.PresensiModel) error

	// Delete menghapus permanen.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListReport mengembalikan catatan + join user, urut check_in DESC.
	ListReport(ctx context.Context, f ReportFilter) ([]m.PresensiModel, error)
}
