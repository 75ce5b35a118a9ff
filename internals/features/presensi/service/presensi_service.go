// Package service memegang aturan inti presensi: transisi check-in/check-out
// per user (maksimal satu catatan terbuka), koreksi admin, penghapusan, dan
// penyusunan laporan harian.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"presensiku_backend/internals/constants"
	"presensiku_backend/internals/features/presensi/dto"
	m "presensiku_backend/internals/features/presensi/model"
	"presensiku_backend/internals/features/presensi/repository"
	"presensiku_backend/internals/helpers/dbtime"
)

var (
	ErrAlreadyCheckedIn = errors.New("sudah melakukan check-in")
	ErrNoOpenRecord     = errors.New("tidak ada catatan check-in yang aktif")
	ErrNotFound         = repository.ErrNotFound
	ErrForbidden        = errors.New("akses ditolak")
)

// Actor adalah identitas ter-autentikasi yang dibawa eksplisit ke setiap
// operasi (tidak pernah dibaca dari state global).
type Actor struct {
	UserID   uuid.UUID
	UserName string
	Role     string
}

func (a Actor) IsAdmin() bool { return a.Role == constants.RoleAdmin }

type PresensiService struct {
	repo repository.PresensiRepository
	now  func() time.Time
}

func NewPresensiService(repo repository.PresensiRepository) *PresensiService {
	return &PresensiService{repo: repo, now: time.Now}
}

// NewPresensiServiceWithClock untuk test dengan jam deterministik.
func NewPresensiServiceWithClock(repo repository.PresensiRepository, now func() time.Time) *PresensiService {
	return &PresensiService{repo: repo, now: now}
}

// CheckIn membuat catatan terbuka baru untuk actor. Precondition: tidak ada
// catatan terbuka lain milik actor. Race dua check-in bersamaan diselesaikan
// oleh index unik parsial di store (ErrOpenConflict → ErrAlreadyCheckedIn).
func (s *PresensiService) CheckIn(ctx context.Context, actor Actor, lat, lng *float64, photoRef *string) (*m.PresensiModel, error) {
	if _, err := s.repo.FindOpenByUserID(ctx, actor.UserID); err == nil {
		return nil, ErrAlreadyCheckedIn
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	rec := &m.PresensiModel{
		UserID:    actor.UserID,
		CheckIn:   s.now(),
		Latitude:  lat,
		Longitude: lng,
		PhotoRef:  photoRef,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrOpenConflict) {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, err
	}

	return s.repo.FindByID(ctx, rec.ID)
}

// CheckOut menutup catatan terbuka milik actor (first-match).
func (s *PresensiService) CheckOut(ctx context.Context, actor Actor) (*m.PresensiModel, error) {
	rec, err := s.repo.FindOpenByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoOpenRecord
		}
		return nil, err
	}

	t := s.now()
	// check_out harus > check_in walau jam sistem sempat mundur
	if !t.After(rec.CheckIn) {
		t = rec.CheckIn.Add(time.Millisecond)
	}
	rec.CheckOut = &t

	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, rec.ID)
}

// Update adalah jalur koreksi admin: field yang dikirim ditimpa apa adanya.
// Validasi format & aturan checkOut>checkIn (bila keduanya dikirim) sudah
// terjadi di dto.UpdatePresensiRequest.Validate.
func (s *PresensiService) Update(ctx context.Context, actor Actor, id uuid.UUID, ts dto.UpdateTimestamps) (*m.PresensiModel, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanMutate(actor, rec, OpUpdate) {
		return nil, ErrForbidden
	}

	if ts.CheckIn != nil {
		rec.CheckIn = *ts.CheckIn
	}
	if ts.CheckOut != nil {
		rec.CheckOut = ts.CheckOut
	}

	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// Delete menghapus permanen; admin bebas, user biasa hanya miliknya.
func (s *PresensiService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !CanMutate(actor, rec, OpDelete) {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// DailyReport menormalkan batas tanggal ke hari penuh WIB (inklusif dua
// sisi, terhadap check_in saja) lalu delegasi ke repository. Filter nama
// adalah substring case-insensitive pada nama user.
func (s *PresensiService) DailyReport(ctx context.Context, nama string, mulai, selesai *time.Time) ([]m.PresensiModel, error) {
	f := repository.ReportFilter{Nama: nama}
	if mulai != nil {
		t := dbtime.StartOfDay(*mulai)
		f.Mulai = &t
	}
	if selesai != nil {
		t := dbtime.EndOfDay(*selesai)
		f.Akhir = &t
	}
	return s.repo.ListReport(ctx, f)
}
