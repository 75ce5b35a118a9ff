package dto

import (
	"time"

	"github.com/google/uuid"

	m "presensiku_backend/internals/features/presensi/model"
	"presensiku_backend/internals/helpers/dbtime"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

// Check-in menerima koordinat opsional (JSON atau field multipart),
// foto dikirim sebagai file "photo".
type CheckInRequest struct {
	Latitude  *float64 `json:"latitude" form:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" form:"longitude" validate:"omitempty,min=-180,max=180"`
}

// Koreksi timestamp oleh admin. Kedua field opsional, minimal satu diisi,
// format ISO-8601 (RFC 3339).
type UpdatePresensiRequest struct {
	CheckIn  *string `json:"checkIn"`
	CheckOut *string `json:"checkOut"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type UpdateTimestamps struct {
	CheckIn  *time.Time
	CheckOut *time.Time
}

// Validate satu kali jalan: kumpulkan semua error field sekaligus.
// Aturan checkOut > checkIn hanya dicek bila KEDUA field dikirim dalam
// satu request (mengikuti perilaku server lama).
func (r UpdatePresensiRequest) Validate() (UpdateTimestamps, []FieldError) {
	var (
		out  UpdateTimestamps
		errs []FieldError
	)

	if r.CheckIn == nil && r.CheckOut == nil {
		errs = append(errs, FieldError{
			Field:   "body",
			Message: "Request body tidak berisi data yang valid untuk diupdate (checkIn atau checkOut).",
		})
		return out, errs
	}

	if r.CheckIn != nil {
		t, err := time.Parse(time.RFC3339, *r.CheckIn)
		if err != nil {
			errs = append(errs, FieldError{
				Field:   "checkIn",
				Message: "checkIn harus berupa format tanggal yang valid (ISO 8601)",
			})
		} else {
			out.CheckIn = &t
		}
	}

	if r.CheckOut != nil {
		t, err := time.Parse(time.RFC3339, *r.CheckOut)
		if err != nil {
			errs = append(errs, FieldError{
				Field:   "checkOut",
				Message: "checkOut harus berupa format tanggal yang valid (ISO 8601)",
			})
		} else {
			out.CheckOut = &t
		}
	}

	if out.CheckIn != nil && out.CheckOut != nil && !out.CheckOut.After(*out.CheckIn) {
		errs = append(errs, FieldError{
			Field:   "checkOut",
			Message: "checkOut harus setelah checkIn",
		})
	}

	if len(errs) > 0 {
		return UpdateTimestamps{}, errs
	}
	return out, nil
}

/* =========================================================
 * RESPONSES
 * ========================================================= */

type PresensiUserResponse struct {
	ID       uuid.UUID `json:"id"`
	UserName string    `json:"user_name"`
	Email    string    `json:"email"`
}

type PresensiResponse struct {
	ID        uuid.UUID             `json:"id"`
	UserID    uuid.UUID             `json:"user_id"`
	User      *PresensiUserResponse `json:"user,omitempty"`
	CheckIn   string                `json:"check_in"`
	CheckOut  *string               `json:"check_out"`
	Latitude  *float64              `json:"latitude,omitempty"`
	Longitude *float64              `json:"longitude,omitempty"`
	PhotoURL  *string               `json:"photo_url,omitempty"`
}

// ResolvePhoto mengubah ref foto opaque menjadi URL; nil berarti tanpa foto.
type ResolvePhoto func(ref string) string

func NewPresensiResponse(p m.PresensiModel, resolve ResolvePhoto) PresensiResponse {
	out := PresensiResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		CheckIn:   dbtime.FormatWIB(p.CheckIn),
		CheckOut:  dbtime.FormatWIBPtr(p.CheckOut),
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
	}
	if p.User != nil {
		out.User = &PresensiUserResponse{
			ID:       p.User.ID,
			UserName: p.User.UserName,
			Email:    p.User.Email,
		}
	}
	if p.PhotoRef != nil && resolve != nil {
		if url := resolve(*p.PhotoRef); url != "" {
			out.PhotoURL = &url
		}
	}
	return out
}

type ReportFilters struct {
	Nama           *string `json:"nama"`
	TanggalMulai   *string `json:"tanggalMulai"`
	TanggalSelesai *string `json:"tanggalSelesai"`
}

type ReportResponse struct {
	ReportDate   string             `json:"reportDate"`
	TotalRecords int                `json:"totalRecords"`
	Filters      ReportFilters      `json:"filters"`
	Data         []PresensiResponse `json:"data"`
}
