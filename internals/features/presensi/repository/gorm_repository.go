package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	m "presensiku_backend/internals/features/presensi/model"
)

type gormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) PresensiRepository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, p *m.PresensiModel) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrOpenConflict
		}
		return err
	}
	return nil
}

func (r *gormRepository) FindOpenByUserID(ctx context.Context, userID uuid.UUID) (*m.PresensiModel, error) {
	var p m.PresensiModel
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ? AND check_out IS NULL", userID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*m.PresensiModel, error) {
	var p m.PresensiModel
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) Save(ctx context.Context, p *m.PresensiModel) error {
	return r.db.WithContext(ctx).
		Model(&m.PresensiModel{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"check_in":  p.CheckIn,
			"check_out": p.CheckOut,
		}).Error
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&m.PresensiModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormRepository) ListReport(ctx context.Context, f ReportFilter) ([]m.PresensiModel, error) {
	q := r.db.WithContext(ctx).Model(&m.PresensiModel{})

	// Filter tanggal inklusif dua sisi terhadap check_in saja.
	switch {
	case f.Mulai != nil && f.Akhir != nil:
		q = q.Where("check_in BETWEEN ? AND ?", *f.Mulai, *f.Akhir)
	case f.Mulai != nil:
		q = q.Where("check_in >= ?", *f.Mulai)
	case f.Akhir != nil:
		q = q.Where("check_in <= ?", *f.Akhir)
	}

	if f.Nama != "" {
		q = q.Joins("JOIN users ON users.id = presensi.user_id").
			Where("users.user_name ILIKE ?", "%"+f.Nama+"%")
	}

	var rows []m.PresensiModel
	if err := q.Preload("User").Order("check_in DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// isUniqueViolation: SQLSTATE 23505 (lewat pgx) atau terjemahan GORM.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
