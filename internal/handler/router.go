package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/ahmadqo/e-evkin/docs" // registers the OpenAPI document
	"github.com/ahmadqo/e-evkin/internal/config"
	appMiddleware "github.com/ahmadqo/e-evkin/internal/middleware"
	"github.com/ahmadqo/e-evkin/internal/model"
	"github.com/ahmadqo/e-evkin/internal/response"
)

type Router struct {
	authHandler      *AuthHandler
	userHandler      *UserHandler
	referensiHandler *ReferensiHandler
	laporanHandler   *LaporanHandler
	cfg              *config.Config
	log              logrus.FieldLogger
}

func NewRouter(
	authHandler *AuthHandler,
	userHandler *UserHandler,
	referensiHandler *ReferensiHandler,
	laporanHandler *LaporanHandler,
	cfg *config.Config,
	log logrus.FieldLogger,
) *Router {
	return &Router{
		authHandler:      authHandler,
		userHandler:      userHandler,
		referensiHandler: referensiHandler,
		laporanHandler:   laporanHandler,
		cfg:              cfg,
		log:              log,
	}
}

func (ro *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   ro.cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, "Server berjalan dengan baik", map[string]string{"status": "ok"})
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(appMiddleware.RateLimit(ro.cfg.RateLimit, ro.log))

		// ── Auth (public) ────────────────────────────────
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", ro.authHandler.Login)
			r.Post("/refresh", ro.authHandler.RefreshToken)

			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.Authenticate(ro.cfg.JWT.Secret))
				r.Get("/me", ro.authHandler.Me)
			})
		})

		// ── Protected routes ──────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.Authenticate(ro.cfg.JWT.Secret))

			// User management (admin only)
			r.Route("/users", func(r chi.Router) {
				r.Use(appMiddleware.RequireRole(model.RoleAdmin))
				r.Get("/", ro.userHandler.GetAll)
				r.Post("/", ro.userHandler.Create)
			})

			r.Route("/referensi", func(r chi.Router) {
				r.Get("/satuan", ro.referensiHandler.GetSatuan)
				r.Get("/sumber-anggaran", ro.referensiHandler.GetSumberAnggaran)
				r.Get("/kegiatan", ro.referensiHandler.GetKegiatan)
				r.Get("/sub-kegiatan", ro.referensiHandler.GetSubKegiatan)
			})

			r.Route("/laporan", func(r chi.Router) {
				r.Get("/export", ro.laporanHandler.Export)
				r.Get("/rekap", ro.laporanHandler.Rekap)
				r.Delete("/lampiran/{lampiranId}", ro.laporanHandler.DeleteLampiran)

				r.Get("/", ro.laporanHandler.GetAll)
				r.Post("/", ro.laporanHandler.Create)
				r.Get("/{id}", ro.laporanHandler.GetByID)
				r.Put("/{id}", ro.laporanHandler.Update)
				r.Delete("/{id}", ro.laporanHandler.Delete)
				r.Post("/{id}/submit", ro.laporanHandler.Submit)
				r.Post("/{id}/lampiran", ro.laporanHandler.UploadLampiran)

				// verifikasi (admin only)
				r.Group(func(r chi.Router) {
					r.Use(appMiddleware.RequireRole(model.RoleAdmin))
					r.Post("/{id}/verify", ro.laporanHandler.Verify)
					r.Post("/{id}/reject", ro.laporanHandler.Reject)
				})
			})
		})
	})

	return r
}
