package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "presensiku_backend/internals/features/presensi/model"
	"presensiku_backend/internals/features/presensi/repository"
	"presensiku_backend/internals/features/presensi/service"
	authService "presensiku_backend/internals/features/users/auth/service"
	userModel "presensiku_backend/internals/features/users/user/model"
	"presensiku_backend/internals/helpers/dbtime"
	"presensiku_backend/internals/helpers/storage"
	authMw "presensiku_backend/internals/middlewares/auth"
)

const testSecret = "rahasia-test"

type memRepo struct {
	mu    sync.Mutex
	rows  []*m.PresensiModel
	users map[uuid.UUID]m.UserRef
}

func newMemRepo() *memRepo {
	return &memRepo{users: map[uuid.UUID]m.UserRef{}}
}

func (r *memRepo) addUser(name string) uuid.UUID {
	id := uuid.New()
	r.users[id] = m.UserRef{ID: id, UserName: name, Email: strings.ToLower(name) + "@example.com"}
	return id
}

func (r *memRepo) seed(userID uuid.UUID, in time.Time, out *time.Time) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	row := &m.PresensiModel{ID: uuid.New(), UserID: userID, CheckIn: in, CheckOut: out}
	r.rows = append(r.rows, row)
	return row.ID
}

func (r *memRepo) clone(p *m.PresensiModel) *m.PresensiModel {
	cp := *p
	if u, ok := r.users[p.UserID]; ok {
		cp.User = &u
	}
	return &cp
}

func (r *memRepo) Create(ctx context.Context, p *m.PresensiModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.UserID == p.UserID && row.CheckOut == nil {
			return repository.ErrOpenConflict
		}
	}
	p.ID = uuid.New()
	cp := *p
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *memRepo) FindOpenByUserID(ctx context.Context, userID uuid.UUID) (*m.PresensiModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.UserID == userID && row.CheckOut == nil {
			return r.clone(row), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memRepo) FindByID(ctx context.Context, id uuid.UUID) (*m.PresensiModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ID == id {
			return r.clone(row), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memRepo) Save(ctx context.Context, p *m.PresensiModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ID == p.ID {
			row.CheckIn = p.CheckIn
			row.CheckOut = p.CheckOut
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, row := range r.rows {
		if row.ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memRepo) ListReport(ctx context.Context, f repository.ReportFilter) ([]m.PresensiModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []m.PresensiModel
	for _, row := range r.rows {
		if f.Mulai != nil && row.CheckIn.Before(*f.Mulai) {
			continue
		}
		if f.Akhir != nil && row.CheckIn.After(*f.Akhir) {
			continue
		}
		if f.Nama != "" {
			u := r.users[row.UserID]
			if !strings.Contains(strings.ToLower(u.UserName), strings.ToLower(f.Nama)) {
				continue
			}
		}
		out = append(out, *r.clone(row))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.After(out[j].CheckIn) })
	return out, nil
}

/* =========================================================
 * Setup
 * ========================================================= */

type testEnv struct {
	app   *fiber.App
	repo  *memRepo
	now   time.Time
	budi  uuid.UUID // user biasa
	admin uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithStorage(t, nil)
}

func newTestEnvWithStorage(t *testing.T, store storage.Storage) *testEnv {
	t.Helper()
	env := &testEnv{
		repo: newMemRepo(),
		now:  time.Date(2024, 1, 10, 8, 0, 0, 0, dbtime.WIB),
	}
	env.budi = env.repo.addUser("Budi")
	env.admin = env.repo.addUser("Admin")

	svc := service.NewPresensiServiceWithClock(env.repo, func() time.Time { return env.now })
	ctrl := NewPresensiControllerWithService(svc, store)

	app := fiber.New()
	api := app.Group("/api")
	auth := authMw.AuthMiddleware(testSecret)

	grp := api.Group("/presensi", auth)
	grp.Post("/check-in", ctrl.CheckIn)
	grp.Post("/check-out", ctrl.CheckOut)
	grp.Put("/:id", ctrl.Update)
	grp.Delete("/:id", ctrl.Delete)
	api.Group("/reports", auth).Get("/daily", ctrl.DailyReport)

	env.app = app
	return env
}

func (e *testEnv) token(t *testing.T, id uuid.UUID, name, role string) string {
	t.Helper()
	tok, err := authService.IssueAccessToken(userModel.UserModel{ID: id, UserName: name, Role: role}, testSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, target, token string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

/* =========================================================
 * Autentikasi
 * ========================================================= */

func TestCheckInWithoutTokenRejected(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/presensi/check-in", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCheckInWithGarbageTokenRejected(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/presensi/check-in", "bukan.token.valid", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestExpiredTokenRejected(t *testing.T) {
	env := newTestEnv(t)
	tok, err := authService.IssueAccessToken(
		userModel.UserModel{ID: env.budi, UserName: "Budi", Role: "user"},
		testSecret, -time.Minute,
	)
	require.NoError(t, err)

	resp := env.do(t, http.MethodPost, "/api/presensi/check-in", tok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

/* =========================================================
 * Check-in / check-out (alur harian)
 * ========================================================= */

func TestCheckInThenSecondAttemptRejected(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, env.budi, "Budi", "user")

	resp := env.do(t, http.MethodPost, "/api/presensi/check-in", tok,
		fiber.Map{"latitude": -7.8, "longitude": 110.4})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Contains(t, body["message"], "Budi")
	data := body["data"].(map[string]any)
	assert.Nil(t, data["check_out"])
	assert.Equal(t, env.budi.String(), data["user_id"])
	assert.Equal(t, -7.8, data["latitude"])

	// percobaan kedua di hari yang sama
	resp = env.do(t, http.MethodPost, "/api/presensi/check-in", tok, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "Anda sudah melakukan check-in hari ini.", body["message"])
}

func TestCheckInRejectsOutOfRangeCoordinates(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, env.budi, "Budi", "user")

	resp := env.do(t, http.MethodPost, "/api/presensi/check-in", tok,
		fiber.Map{"latitude": 123.0, "longitude": 110.4})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func pngPhoto(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 100, A: 255})
		}
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func (e *testEnv) doCheckInWithPhoto(t *testing.T, token string) *http.Response {
	t.Helper()
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("photo", "selfie.png")
	require.NoError(t, err)
	_, err = part.Write(pngPhoto(t))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/presensi/check-in", body)
	req.Header.Set(fiber.HeaderContentType, mw.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestCheckInRejectedWithPhotoLeavesNoOrphanFile(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir, "/uploads")
	require.NoError(t, err)
	env := newTestEnvWithStorage(t, store)
	tok := env.token(t, env.budi, "Budi", "user")

	resp := env.doCheckInWithPhoto(t, tok)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	assert.Contains(t, data["photo_url"], "/uploads/presensi/")

	// check-in kedua ditolak; fotonya tidak boleh tertinggal di disk
	resp = env.doCheckInWithPhoto(t, tok)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	files, err := filepath.Glob(filepath.Join(dir, "presensi", "*.webp"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestCheckOutFlow(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, env.budi, "Budi", "user")

	resp := env.do(t, http.MethodPost, "/api/presensi/check-in", tok, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	env.now = env.now.Add(9 * time.Hour)
	resp = env.do(t, http.MethodPost, "/api/presensi/check-out", tok, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Contains(t, body["message"], "Selamat jalan Budi")
	data := body["data"].(map[string]any)
	assert.NotNil(t, data["check_out"])

	// check-out kedua: tidak ada catatan terbuka
	resp = env.do(t, http.MethodPost, "/api/presensi/check-out", tok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "Tidak ditemukan catatan check-in yang aktif untuk Anda.", body["message"])
}

func TestCheckOutWithoutOpenRecord(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, env.budi, "Budi", "user")

	resp := env.do(t, http.MethodPost, "/api/presensi/check-out", tok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

/* =========================================================
 * Update & delete
 * ========================================================= */

func TestUpdateRejectedForNonAdminRegardlessOfBody(t *testing.T) {
	env := newTestEnv(t)
	out := time.Date(2024, 1, 10, 17, 0, 0, 0, dbtime.WIB)
	id := env.repo.seed(env.budi, env.now, &out)
	tok := env.token(t, env.budi, "Budi", "user")

	// body sengaja tidak valid; otorisasi tetap yang menang
	resp := env.do(t, http.MethodPut, "/api/presensi/"+id.String(), tok,
		fiber.Map{"checkIn": "bukan-tanggal"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Hanya admin yang dapat mengupdate presensi.", body["message"])
}

func TestUpdateByAdmin(t *testing.T) {
	env := newTestEnv(t)
	out := time.Date(2024, 1, 10, 17, 0, 0, 0, dbtime.WIB)
	id := env.repo.seed(env.budi, env.now, &out)
	tok := env.token(t, env.admin, "Admin", "admin")

	resp := env.do(t, http.MethodPut, "/api/presensi/"+id.String(), tok,
		fiber.Map{"checkIn": "2024-01-10T07:30:00+07:00"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	assert.Equal(t, "2024-01-10 07:30:00+07:00", data["check_in"])
	// check_out tidak tersentuh
	assert.Equal(t, "2024-01-10 17:00:00+07:00", data["check_out"])
}

func TestUpdateByAdminValidation(t *testing.T) {
	env := newTestEnv(t)
	out := time.Date(2024, 1, 10, 17, 0, 0, 0, dbtime.WIB)
	id := env.repo.seed(env.budi, env.now, &out)
	tok := env.token(t, env.admin, "Admin", "admin")

	// badan kosong
	resp := env.do(t, http.MethodPut, "/api/presensi/"+id.String(), tok, fiber.Map{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// checkOut <= checkIn
	resp = env.do(t, http.MethodPut, "/api/presensi/"+id.String(), tok, fiber.Map{
		"checkIn":  "2024-01-10T09:00:00+07:00",
		"checkOut": "2024-01-10T08:00:00+07:00",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Validasi gagal", body["message"])
}

func TestUpdateNotFoundRecord(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, env.admin, "Admin", "admin")

	resp := env.do(t, http.MethodPut, "/api/presensi/"+uuid.NewString(), tok,
		fiber.Map{"checkIn": "2024-01-10T07:30:00+07:00"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteByOwnerReturnsNoContent(t *testing.T) {
	env := newTestEnv(t)
	out := time.Date(2024, 1, 10, 17, 0, 0, 0, dbtime.WIB)
	id := env.repo.seed(env.budi, env.now, &out)
	tok := env.token(t, env.budi, "Budi", "user")

	resp := env.do(t, http.MethodDelete, "/api/presensi/"+id.String(), tok, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, err := env.repo.FindByID(context.Background(), id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteRejectedForStranger(t *testing.T) {
	env := newTestEnv(t)
	out := time.Date(2024, 1, 10, 17, 0, 0, 0, dbtime.WIB)
	id := env.repo.seed(env.budi, env.now, &out)
	citra := env.repo.addUser("Citra")
	tok := env.token(t, citra, "Citra", "user")

	resp := env.do(t, http.MethodDelete, "/api/presensi/"+id.String(), tok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Akses ditolak: Anda bukan pemilik catatan ini.", body["message"])
}

/* =========================================================
 * Laporan harian
 * ========================================================= */

func TestDailyReportFiltersToRequestedDay(t *testing.T) {
	env := newTestEnv(t)
	day9 := time.Date(2024, 1, 9, 8, 0, 0, 0, dbtime.WIB)
	day10 := time.Date(2024, 1, 10, 8, 0, 0, 0, dbtime.WIB)
	day11 := time.Date(2024, 1, 11, 8, 0, 0, 0, dbtime.WIB)
	env.repo.seed(env.budi, day9, nil)
	target := env.repo.seed(env.budi, day10, nil)
	env.repo.seed(env.admin, day11, nil)

	tok := env.token(t, env.admin, "Admin", "admin")
	resp := env.do(t, http.MethodGet,
		"/api/reports/daily?tanggalMulai=2024-01-10&tanggalSelesai=2024-01-10", tok, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(1), body["totalRecords"])
	data := body["data"].([]any)
	require.Len(t, data, 1)
	row := data[0].(map[string]any)
	assert.Equal(t, target.String(), row["id"])

	filters := body["filters"].(map[string]any)
	assert.Equal(t, "2024-01-10", filters["tanggalMulai"])
	assert.Equal(t, "2024-01-10", filters["tanggalSelesai"])
	assert.Nil(t, filters["nama"])
}

func TestDailyReportNameFilter(t *testing.T) {
	env := newTestEnv(t)
	env.repo.seed(env.budi, env.now, nil)
	env.repo.seed(env.admin, env.now.Add(time.Hour), nil)

	tok := env.token(t, env.budi, "Budi", "user")
	resp := env.do(t, http.MethodGet, "/api/reports/daily?nama=bud", tok, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].([]any)
	require.Len(t, data, 1)
	row := data[0].(map[string]any)
	user := row["user"].(map[string]any)
	assert.Equal(t, "Budi", user["user_name"])
}

func TestDailyReportRejectsMalformedDate(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, env.budi, "Budi", "user")

	resp := env.do(t, http.MethodGet, "/api/reports/daily?tanggalMulai=10-01-2024", tok, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
