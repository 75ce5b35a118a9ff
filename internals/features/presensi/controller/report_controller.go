package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"presensiku_backend/internals/features/presensi/dto"
	helper "presensiku_backend/internals/helpers"
	"presensiku_backend/internals/helpers/dbtime"
)

// GET /api/reports/daily?nama=&tanggalMulai=&tanggalSelesai=
// Rentang tanggal inklusif (hari WIB penuh) dan hanya menyaring check_in.
func (ctrl *PresensiController) DailyReport(c *fiber.Ctx) error {
	if _, err := actorFromCtx(c); err != nil {
		return err
	}

	nama := c.Query("nama")

	var mulai, selesai *time.Time
	if raw := c.Query("tanggalMulai"); raw != "" {
		t, err := dbtime.ParseDate(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Format tanggalMulai tidak valid, gunakan YYYY-MM-DD.")
		}
		mulai = &t
	}
	if raw := c.Query("tanggalSelesai"); raw != "" {
		t, err := dbtime.ParseDate(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Format tanggalSelesai tidak valid, gunakan YYYY-MM-DD.")
		}
		selesai = &t
	}

	records, err := ctrl.Service.DailyReport(c.UserContext(), nama, mulai, selesai)
	if err != nil {
		log.Printf("[ERROR] laporan harian: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan pada server")
	}

	data := make([]dto.PresensiResponse, 0, len(records))
	for _, rec := range records {
		data = append(data, dto.NewPresensiResponse(rec, ctrl.resolvePhoto))
	}

	report := dto.ReportResponse{
		ReportDate:   time.Now().In(dbtime.WIB).Format("2006-01-02"),
		TotalRecords: len(data),
		Filters:      dto.ReportFilters{},
		Data:         data,
	}
	if nama != "" {
		report.Filters.Nama = &nama
	}
	if raw := c.Query("tanggalMulai"); raw != "" {
		report.Filters.TanggalMulai = &raw
	}
	if raw := c.Query("tanggalSelesai"); raw != "" {
		report.Filters.TanggalSelesai = &raw
	}

	return c.Status(fiber.StatusOK).JSON(report)
}
