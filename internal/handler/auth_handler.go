package handler

import (
	"errors"
	"net/http"

	"github.com/ahmadqo/e-evkin/internal/middleware"
	"github.com/ahmadqo/e-evkin/internal/response"
	"github.com/ahmadqo/e-evkin/internal/service"
	"github.com/ahmadqo/e-evkin/internal/utils"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	authService service.AuthService
	log         logrus.FieldLogger
}

func NewAuthHandler(authService service.AuthService, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// Login godoc
// @Summary  Login dengan username dan password
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    request  body      service.LoginRequest  true  "Kredensial"
// @Success  200      {object}  response.Response
// @Failure  401      {object}  response.Response
// @Router   /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest

	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Format request tidak valid", err.Error())
		return
	}

	errs := utils.ValidationErrors{}
	req.Username = utils.SanitizeString(req.Username)

	if req.Username == "" {
		errs["username"] = "Username wajib diisi"
	}
	if req.Password == "" {
		errs["password"] = "Password wajib diisi"
	}

	if errs.HasErrors() {
		response.BadRequest(w, "Validasi gagal", errs)
		return
	}

	result, err := h.authService.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Unauthorized(w, err.Error())
		case errors.Is(err, service.ErrAccountDisabled):
			response.Forbidden(w, err.Error())
		default:
			h.log.WithError(err).Error("login failed")
			response.InternalError(w, "Terjadi kesalahan server")
		}
		return
	}

	response.Success(w, "Login berhasil", result)
}

// RefreshToken godoc
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req service.RefreshTokenRequest

	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Format request tidak valid", err.Error())
		return
	}

	if req.RefreshToken == "" {
		response.BadRequest(w, "Refresh token wajib diisi", nil)
		return
	}

	tokenPair, err := h.authService.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrAccountDisabled):
			response.Unauthorized(w, err.Error())
		default:
			h.log.WithError(err).Error("refresh token failed")
			response.InternalError(w, "Terjadi kesalahan server")
		}
		return
	}

	response.Success(w, "Token berhasil diperbarui", tokenPair)
}

// Me godoc
// GET /api/v1/auth/me (protected)
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	if userID == "" {
		response.Unauthorized(w, "User tidak terautentikasi")
		return
	}

	user, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		response.NotFound(w, "User tidak ditemukan")
		return
	}

	response.Success(w, "Data user berhasil diambil", user)
}
