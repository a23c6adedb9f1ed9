package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ahmadqo/e-evkin/internal/model"
	"github.com/ahmadqo/e-evkin/internal/response"
	"github.com/ahmadqo/e-evkin/internal/service"
	"github.com/ahmadqo/e-evkin/internal/utils"
	"github.com/sirupsen/logrus"
)

type UserHandler struct {
	svc service.UserService
	log logrus.FieldLogger
}

func NewUserHandler(svc service.UserService, log logrus.FieldLogger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

// GetAll godoc
// GET /api/v1/users (admin)
func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := model.UserFilter{
		Role:    q.Get("role"),
		Search:  q.Get("search"),
		Page:    parseIntQuery(q.Get("page"), 1),
		PerPage: parsePerPage(q.Get("per_page")),
	}

	users, pagination, err := h.svc.GetAll(r.Context(), filter)
	if err != nil {
		h.log.WithError(err).Error("list users failed")
		response.InternalError(w, "Gagal mengambil data user")
		return
	}

	response.Paginated(w, "Data user berhasil diambil", users, pagination)
}

// Create godoc
// POST /api/v1/users (admin)
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserRequest

	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Format request tidak valid", err.Error())
		return
	}

	errs := utils.ValidationErrors{}
	req.Nama = utils.SanitizeString(req.Nama)
	req.Username = utils.SanitizeString(strings.ToLower(req.Username))

	if req.Nama == "" {
		errs["nama"] = "Nama wajib diisi"
	}
	if req.Username == "" {
		errs["username"] = "Username wajib diisi"
	} else if !utils.IsValidUsername(req.Username) {
		errs["username"] = "Username 3-100 karakter, hanya huruf, angka, titik, garis bawah dan strip"
	}
	if req.Password == "" {
		errs["password"] = "Password wajib diisi"
	} else if !utils.IsValidPassword(req.Password) {
		errs["password"] = "Password minimal 8 karakter dan harus mengandung huruf dan angka"
	}
	if req.Role != "" && !req.Role.Valid() {
		errs["role"] = "Role tidak valid (puskesmas, admin)"
	}

	if errs.HasErrors() {
		response.BadRequest(w, "Validasi gagal", errs)
		return
	}

	result, err := h.svc.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrUsernameAlreadyExists) {
			response.Conflict(w, err.Error())
			return
		}
		h.log.WithError(err).Error("create user failed")
		response.InternalError(w, "Terjadi kesalahan server")
		return
	}

	response.Created(w, "User berhasil dibuat", result)
}
