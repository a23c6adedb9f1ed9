package handler

import (
	"net/http"
	"strconv"

	"github.com/ahmadqo/e-evkin/internal/response"
	"github.com/ahmadqo/e-evkin/internal/service"
)

type ReferensiHandler struct {
	svc service.ReferensiService
}

func NewReferensiHandler(svc service.ReferensiService) *ReferensiHandler {
	return &ReferensiHandler{svc: svc}
}

func (h *ReferensiHandler) GetSatuan(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.GetSatuan(r.Context())
	if err != nil {
		response.InternalError(w, "Gagal mengambil data satuan")
		return
	}
	response.Success(w, "Data satuan berhasil diambil", items)
}

func (h *ReferensiHandler) GetSumberAnggaran(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.GetSumberAnggaran(r.Context())
	if err != nil {
		response.InternalError(w, "Gagal mengambil data sumber anggaran")
		return
	}
	response.Success(w, "Data sumber anggaran berhasil diambil", items)
}

func (h *ReferensiHandler) GetKegiatan(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.GetKegiatan(r.Context())
	if err != nil {
		response.InternalError(w, "Gagal mengambil data kegiatan")
		return
	}
	response.Success(w, "Data kegiatan berhasil diambil", items)
}

// GetSubKegiatan: ?kegiatan_id= opsional
func (h *ReferensiHandler) GetSubKegiatan(w http.ResponseWriter, r *http.Request) {
	var kegiatanID *int
	if k := r.URL.Query().Get("kegiatan_id"); k != "" {
		v, err := strconv.Atoi(k)
		if err != nil {
			response.BadRequest(w, "kegiatan_id tidak valid", nil)
			return
		}
		kegiatanID = &v
	}

	items, err := h.svc.GetSubKegiatan(r.Context(), kegiatanID)
	if err != nil {
		response.InternalError(w, "Gagal mengambil data sub kegiatan")
		return
	}
	response.Success(w, "Data sub kegiatan berhasil diambil", items)
}
