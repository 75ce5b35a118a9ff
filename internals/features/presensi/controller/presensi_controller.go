package controller

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"presensiku_backend/internals/features/presensi/dto"
	"presensiku_backend/internals/features/presensi/repository"
	"presensiku_backend/internals/features/presensi/service"
	helper "presensiku_backend/internals/helpers"
	"presensiku_backend/internals/helpers/dbtime"
	"presensiku_backend/internals/helpers/storage"
)

type PresensiController struct {
	Service  *service.PresensiService
	Storage  storage.Storage
	validate *validator.Validate
}

func NewPresensiController(db *gorm.DB, store storage.Storage) *PresensiController {
	return &PresensiController{
		Service:  service.NewPresensiService(repository.NewGormRepository(db)),
		Storage:  store,
		validate: validator.New(),
	}
}

// NewPresensiControllerWithService untuk merangkai dependensi sendiri (test).
func NewPresensiControllerWithService(svc *service.PresensiService, store storage.Storage) *PresensiController {
	return &PresensiController{Service: svc, Storage: store, validate: validator.New()}
}

func (ctrl *PresensiController) resolvePhoto(ref string) string {
	if ctrl.Storage == nil {
		return ""
	}
	return ctrl.Storage.Resolve(ref)
}

func actorFromCtx(c *fiber.Ctx) (service.Actor, error) {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return service.Actor{}, err
	}
	return service.Actor{
		UserID:   userID,
		UserName: helper.GetUserNameFromToken(c),
		Role:     helper.GetRoleFromToken(c),
	}, nil
}

// POST /api/presensi/check-in
// Body JSON {latitude?, longitude?} atau multipart dengan file "photo".
func (ctrl *PresensiController) CheckIn(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	var req dto.CheckInRequest
	if len(c.Body()) > 0 || strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
		}
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	// Foto selfie opsional; disimpan dulu, ref-nya ikut catatan.
	var photoRef *string
	if fh, err := c.FormFile("photo"); err == nil && fh != nil && ctrl.Storage != nil {
		ref, err := ctrl.Storage.Store(c.UserContext(), fh)
		if err != nil {
			log.Printf("[ERROR] simpan foto presensi: %v", err)
			return helper.JsonError(c, fiber.StatusBadRequest, "Foto tidak dapat diproses (pakai jpg/png/webp).")
		}
		photoRef = &ref
	}

	rec, err := ctrl.Service.CheckIn(c.UserContext(), actor, req.Latitude, req.Longitude, photoRef)
	if err != nil {
		// Catatan gagal dibuat: foto yang sudah tersimpan ikut dibersihkan
		// supaya tidak ada blob yatim.
		if photoRef != nil {
			if rmErr := ctrl.Storage.Remove(c.UserContext(), *photoRef); rmErr != nil {
				log.Printf("[ERROR] bersihkan foto presensi %s: %v", *photoRef, rmErr)
			}
		}
		if errors.Is(err, service.ErrAlreadyCheckedIn) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Anda sudah melakukan check-in hari ini.")
		}
		log.Printf("[ERROR] check-in: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan pada server")
	}

	msg := fmt.Sprintf("Halo %s, check-in Anda berhasil pada pukul %s WIB", actor.UserName, dbtime.ClockWIB(rec.CheckIn))
	return helper.JsonCreated(c, msg, dto.NewPresensiResponse(*rec, ctrl.resolvePhoto))
}

// POST /api/presensi/check-out
func (ctrl *PresensiController) CheckOut(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	rec, err := ctrl.Service.CheckOut(c.UserContext(), actor)
	if err != nil {
		if errors.Is(err, service.ErrNoOpenRecord) {
			return helper.JsonError(c, fiber.StatusNotFound, "Tidak ditemukan catatan check-in yang aktif untuk Anda.")
		}
		log.Printf("[ERROR] check-out: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan pada server")
	}

	msg := fmt.Sprintf("Selamat jalan %s, check-out Anda berhasil pada pukul %s WIB", actor.UserName, dbtime.ClockWIB(*rec.CheckOut))
	return helper.JsonOK(c, msg, dto.NewPresensiResponse(*rec, ctrl.resolvePhoto))
}

// PUT /api/presensi/:id  (admin)
func (ctrl *PresensiController) Update(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	// Otorisasi dicek sebelum payload, supaya non-admin selalu dapat 403.
	if !actor.IsAdmin() {
		return helper.JsonError(c, fiber.StatusForbidden, "Hanya admin yang dapat mengupdate presensi.")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	var req dto.UpdatePresensiRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}

	ts, fieldErrs := req.Validate()
	if len(fieldErrs) > 0 {
		return helper.ErrorWithDetails(c, fiber.StatusBadRequest, "Validasi gagal", fieldErrs)
	}

	rec, err := ctrl.Service.Update(c.UserContext(), actor, id, ts)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Catatan presensi tidak ditemukan.")
		case errors.Is(err, service.ErrForbidden):
			return helper.JsonError(c, fiber.StatusForbidden, "Hanya admin yang dapat mengupdate presensi.")
		}
		log.Printf("[ERROR] update presensi: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan pada server")
	}

	return helper.JsonUpdated(c, "Catatan presensi berhasil diperbarui.", dto.NewPresensiResponse(*rec, ctrl.resolvePhoto))
}

// DELETE /api/presensi/:id  (admin atau pemilik)
func (ctrl *PresensiController) Delete(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	if err := ctrl.Service.Delete(c.UserContext(), actor, id); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Catatan presensi tidak ditemukan.")
		case errors.Is(err, service.ErrForbidden):
			return helper.JsonError(c, fiber.StatusForbidden, "Akses ditolak: Anda bukan pemilik catatan ini.")
		}
		log.Printf("[ERROR] delete presensi: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan pada server")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
