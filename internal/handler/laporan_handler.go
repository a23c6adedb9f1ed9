package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/ahmadqo/e-evkin/internal/middleware"
	"github.com/ahmadqo/e-evkin/internal/model"
	"github.com/ahmadqo/e-evkin/internal/response"
	"github.com/ahmadqo/e-evkin/internal/service"
	"github.com/ahmadqo/e-evkin/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

type LaporanHandler struct {
	svc service.LaporanService
	log logrus.FieldLogger
}

func NewLaporanHandler(svc service.LaporanService, log logrus.FieldLogger) *LaporanHandler {
	return &LaporanHandler{svc: svc, log: log}
}

// fail memetakan error service ke response HTTP
func (h *LaporanHandler) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrLaporanNotFound),
		errors.Is(err, service.ErrLampiranNotFound),
		errors.Is(err, service.ErrOwnerNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrAdminOnly),
		errors.Is(err, service.ErrAlreadyVerified):
		response.Forbidden(w, err.Error())
	case errors.Is(err, service.ErrNotSubmitted),
		errors.Is(err, service.ErrAlreadySubmitted):
		response.Conflict(w, err.Error())
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrOwnerRequired),
		errors.Is(err, service.ErrCatatanRequired),
		errors.Is(err, service.ErrTahunRequired),
		errors.Is(err, utils.ErrFileTypeNotAllowed),
		errors.Is(err, utils.ErrFileTooLarge):
		response.BadRequest(w, err.Error(), nil)
	default:
		h.log.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("laporan request failed")
		response.InternalError(w, fallback)
	}
}

func actor(w http.ResponseWriter, r *http.Request) (model.Actor, bool) {
	a, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User tidak terautentikasi")
	}
	return a, ok
}

func parseFilter(r *http.Request) model.LaporanFilter {
	q := r.URL.Query()
	return model.LaporanFilter{
		UserID:     q.Get("user_id"),
		KegiatanID: optionalInt(q.Get("kegiatan_id")),
		Bulan:      optionalInt(q.Get("bulan")),
		Tahun:      optionalInt(q.Get("tahun")),
		Status:     q.Get("status"),
		Page:       parseIntQuery(q.Get("page"), 1),
		PerPage:    parsePerPage(q.Get("per_page")),
	}
}

// validateLaporanInput dipakai bersama oleh create dan update
func validateLaporanInput(kegiatanID, subKegiatanID, sumberID, satuanID, bulan, tahun int,
	status model.LaporanStatus, amounts map[string]decimal.Decimal) utils.ValidationErrors {
	errs := utils.ValidationErrors{}

	if kegiatanID <= 0 {
		errs["id_kegiatan"] = "Kegiatan wajib diisi"
	}
	if subKegiatanID <= 0 {
		errs["id_sub_kegiatan"] = "Sub kegiatan wajib diisi"
	}
	if sumberID <= 0 {
		errs["id_sumber_anggaran"] = "Sumber anggaran wajib diisi"
	}
	if satuanID <= 0 {
		errs["id_satuan"] = "Satuan wajib diisi"
	}
	if bulan < 1 || bulan > 12 {
		errs["bulan"] = "Bulan harus antara 1 dan 12"
	}
	if tahun < 2000 || tahun > 2100 {
		errs["tahun"] = "Tahun tidak valid"
	}
	if status != "" && !status.Valid() {
		errs["status"] = "Status tidak valid"
	}
	for field, v := range amounts {
		if v.IsNegative() {
			errs[field] = "Nilai tidak boleh negatif"
		}
	}
	return errs
}

// GetAll retrieves reports visible to the caller
// @Summary      Daftar laporan
// @Description  Puskesmas hanya melihat laporan miliknya, admin dapat memfilter per user
// @Tags         laporan
// @Produce      json
// @Param        user_id      query  string  false  "Filter user (admin)"
// @Param        kegiatan_id  query  int     false  "Filter kegiatan"
// @Param        bulan        query  int     false  "Filter bulan"
// @Param        tahun        query  int     false  "Filter tahun"
// @Param        status       query  string  false  "Filter status"
// @Param        page         query  int     false  "Halaman"
// @Param        per_page     query  int     false  "Jumlah per halaman"
// @Security     BearerAuth
// @Success      200  {object}  response.PaginatedResponse
// @Router       /laporan [get]
func (h *LaporanHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}

	items, pagination, err := h.svc.GetAll(r.Context(), a, parseFilter(r))
	if err != nil {
		h.fail(w, r, err, "Gagal mengambil data laporan")
		return
	}

	response.Paginated(w, "Data laporan berhasil diambil", items, pagination)
}

// GetByID retrieves a report with its attachments
// @Summary  Detail laporan
// @Tags     laporan
// @Produce  json
// @Param    id  path  string  true  "Laporan ID"
// @Security BearerAuth
// @Success  200  {object}  response.Response
// @Failure  403  {object}  response.Response
// @Failure  404  {object}  response.Response
// @Router   /laporan/{id} [get]
func (h *LaporanHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}

	laporan, err := h.svc.GetByID(r.Context(), a, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err, "Gagal mengambil data laporan")
		return
	}

	response.Success(w, "Data laporan berhasil diambil", laporan)
}

// Create adds a new report
// @Summary  Buat laporan
// @Tags     laporan
// @Accept   json
// @Produce  json
// @Param    request  body  model.CreateLaporanRequest  true  "Data laporan"
// @Security BearerAuth
// @Success  201  {object}  response.Response
// @Failure  400  {object}  response.Response
// @Router   /laporan [post]
func (h *LaporanHandler) Create(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}

	var req model.CreateLaporanRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Format request tidak valid", err.Error())
		return
	}

	req.Permasalahan = utils.SanitizeString(req.Permasalahan)
	req.Upaya = utils.SanitizeString(req.Upaya)

	errs := validateLaporanInput(req.KegiatanID, req.SubKegiatanID, req.SumberAnggaranID, req.SatuanID,
		req.Bulan, req.Tahun, req.Status, map[string]decimal.Decimal{
			"target_k": req.TargetK, "angkas": req.Angkas, "target_rp": req.TargetRp,
			"realisasi_k": req.RealisasiK, "realisasi_rp": req.RealisasiRp,
		})
	if errs.HasErrors() {
		response.BadRequest(w, "Validasi gagal", errs)
		return
	}

	laporan, err := h.svc.Create(r.Context(), a, req)
	if err != nil {
		h.fail(w, r, err, "Gagal membuat laporan")
		return
	}

	response.Created(w, "Laporan berhasil dibuat", laporan)
}

// Update modifies an existing report
// @Summary  Ubah laporan
// @Tags     laporan
// @Accept   json
// @Produce  json
// @Param    id       path  string                      true  "Laporan ID"
// @Param    request  body  model.UpdateLaporanRequest  true  "Data laporan"
// @Security BearerAuth
// @Success  200  {object}  response.Response
// @Failure  403  {object}  response.Response
// @Router   /laporan/{id} [put]
func (h *LaporanHandler) Update(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}

	var req model.UpdateLaporanRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Format request tidak valid", err.Error())
		return
	}

	req.Permasalahan = utils.SanitizeString(req.Permasalahan)
	req.Upaya = utils.SanitizeString(req.Upaya)

	errs := validateLaporanInput(req.KegiatanID, req.SubKegiatanID, req.SumberAnggaranID, req.SatuanID,
		req.Bulan, req.Tahun, req.Status, map[string]decimal.Decimal{
			"target_k": req.TargetK, "angkas": req.Angkas, "target_rp": req.TargetRp,
			"realisasi_k": req.RealisasiK, "realisasi_rp": req.RealisasiRp,
		})
	if errs.HasErrors() {
		response.BadRequest(w, "Validasi gagal", errs)
		return
	}

	laporan, err := h.svc.Update(r.Context(), a, chi.URLParam(r, "id"), req)
	if err != nil {
		h.fail(w, r, err, "Gagal mengupdate laporan")
		return
	}

	response.Success(w, "Laporan berhasil diupdate", laporan)
}

// Delete godoc
// DELETE /api/v1/laporan/{id}
func (h *LaporanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), a, chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err, "Gagal menghapus laporan")
		return
	}

	response.Success(w, "Laporan berhasil dihapus", nil)
}

// Submit godoc
// POST /api/v1/laporan/{id}/submit
func (h *LaporanHandler) Submit(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}

	laporan, err := h.svc.Submit(r.Context(), a, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err, "Gagal submit laporan")
		return
	}

	response.Success(w, "Laporan berhasil disubmit", laporan)
}

// Verify marks a submitted report as verified
// @Summary  Verifikasi laporan (admin)
// @Tags     laporan
// @Accept   json
// @Produce  json
// @Param    id       path  string                   true   "Laporan ID"
// @Param    request  body  model.VerifikasiRequest  false  "Catatan"
// @Security BearerAuth
// @Success  200  {object}  response.Response
// @Failure  409  {object}  response.Response
// @Router   /laporan/{id}/verify [post]
func (h *LaporanHandler) Verify(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.svc.Verify, "Laporan berhasil diverifikasi")
}

// Reject godoc
// POST /api/v1/laporan/{id}/reject (admin, catatan wajib)
func (h *LaporanHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.svc.Reject, "Laporan ditolak")
}

type reviewFunc func(ctx context.Context, actor model.Actor, id string, req model.VerifikasiRequest) (*model.Laporan, error)

func (h *LaporanHandler) review(w http.ResponseWriter, r *http.Request, fn reviewFunc, message string) {
	a, ok := actor(w, r)
	if !ok {
		return
	}

	var req model.VerifikasiRequest
	if r.ContentLength != 0 {
		if err := utils.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
			response.BadRequest(w, "Format request tidak valid", err.Error())
			return
		}
	}

	laporan, err := fn(r.Context(), a, chi.URLParam(r, "id"), req)
	if err != nil {
		h.fail(w, r, err, "Gagal memproses verifikasi laporan")
		return
	}

	response.Success(w, message, laporan)
}

// UploadLampiran adds a supporting-evidence file to a report
// @Summary  Upload lampiran laporan
// @Tags     laporan
// @Accept   multipart/form-data
// @Produce  json
// @Param    id    path      string  true  "Laporan ID"
// @Param    file  formData  file    true  "File (JPG, PNG, PDF, XLSX)"
// @Security BearerAuth
// @Success  201  {object}  response.Response
// @Failure  400  {object}  response.Response
// @Router   /laporan/{id}/lampiran [post]
func (h *LaporanHandler) UploadLampiran(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, utils.MaxFileSize)
	if err := r.ParseMultipartForm(utils.MaxFileSize); err != nil {
		response.BadRequest(w, "File terlalu besar (max 10MB) atau format tidak valid", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "File tidak ditemukan dalam request", nil)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if _, ok := utils.AllowedLampiranTypes[contentType]; !ok {
		response.BadRequest(w, utils.ErrFileTypeNotAllowed.Error(), nil)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		response.InternalError(w, "Gagal membaca file")
		return
	}

	lampiran, err := h.svc.UploadLampiran(r.Context(), a, chi.URLParam(r, "id"), data, contentType, header.Filename)
	if err != nil {
		h.fail(w, r, err, "Gagal mengupload lampiran")
		return
	}

	response.Created(w, "Lampiran berhasil diupload", lampiran)
}

// DeleteLampiran godoc
// DELETE /api/v1/laporan/lampiran/{lampiranId}
func (h *LaporanHandler) DeleteLampiran(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteLampiran(r.Context(), a, chi.URLParam(r, "lampiranId")); err != nil {
		h.fail(w, r, err, "Gagal menghapus lampiran")
		return
	}

	response.Success(w, "Lampiran berhasil dihapus", nil)
}

// Export godoc
// GET /api/v1/laporan/export?tahun=&bulan= (XLSX)
func (h *LaporanHandler) Export(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}

	filter := parseFilter(r)
	data, err := h.svc.Export(r.Context(), a, filter)
	if err != nil {
		h.fail(w, r, err, "Gagal membuat file export")
		return
	}

	response.File(w, contentTypeXLSX, "laporan-evkin"+periodSuffix(filter)+".xlsx", data)
}

// Rekap godoc
// GET /api/v1/laporan/rekap?tahun=&bulan=&user_id= (PDF)
func (h *LaporanHandler) Rekap(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}

	filter := parseFilter(r)
	data, err := h.svc.Rekap(r.Context(), a, filter)
	if err != nil {
		h.fail(w, r, err, "Gagal membuat rekap PDF")
		return
	}

	response.File(w, contentTypePDF, "rekap-evkin"+periodSuffix(filter)+".pdf", data)
}

func periodSuffix(filter model.LaporanFilter) string {
	var b strings.Builder
	if filter.Tahun != nil {
		fmt.Fprintf(&b, "-%d", *filter.Tahun)
	}
	if filter.Bulan != nil {
		fmt.Fprintf(&b, "-%02d", *filter.Bulan)
	}
	return b.String()
}

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

func parsePerPage(s string) int {
	n := parseIntQuery(s, defaultPerPage)
	if n > maxPerPage {
		return maxPerPage
	}
	return n
}

func parseIntQuery(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	s = strings.TrimSpace(s)
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return defaultVal
	}
	return v
}

func optionalInt(s string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &v
}
