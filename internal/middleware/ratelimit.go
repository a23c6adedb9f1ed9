package middleware

import (
	"net/http"

	"github.com/ahmadqo/e-evkin/internal/config"
	"github.com/ahmadqo/e-evkin/internal/response"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	limiterhttp "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimit membatasi jumlah request per IP dalam satu window.
// Store di memori, jadi batas berlaku per instance server.
func RateLimit(cfg config.RateLimitConfig, log logrus.FieldLogger) func(http.Handler) http.Handler {
	rate := limiter.Rate{
		Period: cfg.Window,
		Limit:  cfg.Max,
	}
	instance := limiter.New(memory.NewStore(), rate)

	mw := limiterhttp.NewMiddleware(instance,
		limiterhttp.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			response.TooManyRequests(w, "Terlalu banyak request, coba lagi nanti")
		}),
		limiterhttp.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			log.WithError(err).Error("rate limiter failed")
			response.InternalError(w, "Terjadi kesalahan pada server")
		}),
	)
	return mw.Handler
}
