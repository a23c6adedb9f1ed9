package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ahmadqo/e-evkin/internal/model"
	"github.com/ahmadqo/e-evkin/internal/response"
	"github.com/ahmadqo/e-evkin/internal/utils"
	"github.com/google/uuid"
)

type contextKey string

const (
	ContextKeyUserID   contextKey = "user_id"
	ContextKeyUsername contextKey = "username"
	ContextKeyRole     contextKey = "role"
	ContextKeyNama     contextKey = "nama"
)

// Authenticate memvalidasi access token JWT dari Authorization header
func Authenticate(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Token tidak ditemukan")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				response.Unauthorized(w, "Format token tidak valid, gunakan: Bearer <token>")
				return
			}

			claims, err := utils.ValidateToken(parts[1], jwtSecret, utils.TokenTypeAccess)
			if err != nil {
				response.Unauthorized(w, "Token tidak valid atau sudah expired")
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, ContextKeyUserID, claims.UserID)
			ctx = context.WithValue(ctx, ContextKeyUsername, claims.Username)
			ctx = context.WithValue(ctx, ContextKeyRole, claims.Role)
			ctx = context.WithValue(ctx, ContextKeyNama, claims.Nama)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole memastikan user memiliki salah satu dari role yang diizinkan
func RequireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole := GetRoleFromContext(r.Context())
			if userRole == "" {
				response.Unauthorized(w, "Role tidak ditemukan dalam token")
				return
			}

			for _, role := range roles {
				if strings.EqualFold(userRole, string(role)) {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, "Anda tidak memiliki akses ke resource ini")
		})
	}
}

// GetUserIDFromContext helper untuk ambil user ID dari context
func GetUserIDFromContext(ctx context.Context) string {
	val, _ := ctx.Value(ContextKeyUserID).(string)
	return val
}

func GetRoleFromContext(ctx context.Context) string {
	val, _ := ctx.Value(ContextKeyRole).(string)
	return val
}

// ActorFromContext membentuk model.Actor dari claims; ok=false jika user ID tidak valid
func ActorFromContext(ctx context.Context) (model.Actor, bool) {
	id, err := uuid.Parse(GetUserIDFromContext(ctx))
	if err != nil {
		return model.Actor{}, false
	}
	return model.Actor{ID: id, Role: model.Role(GetRoleFromContext(ctx))}, true
}
