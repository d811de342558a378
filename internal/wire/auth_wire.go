package wire

import (
	"time"

	"catalog-api/internal/adaptor"
	"catalog-api/pkg/middleware"
	"catalog-api/pkg/utils"

	"github.com/go-chi/chi/v5"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	config *utils.Config,
) {
	// ==================== PUBLIC ROUTES ====================
	// Rate limited per client IP, both code delivery and code guessing
	r.With(middleware.RateLimitByIP(config.HTTP.AuthRateLimit, time.Minute)).Route("/auth", func(r chi.Router) {
		r.Post("/email", authHandler.RequestCode)
		r.Post("/token", authHandler.Token)
		r.Post("/token/refresh", authHandler.Refresh)
	})
}
