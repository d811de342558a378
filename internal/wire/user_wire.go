package wire

import (
	"catalog-api/internal/adaptor"
	"catalog-api/internal/policy"
	"catalog-api/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireUser configures profile and user management routes
func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	log *zap.Logger,
) {
	r.Route("/users", func(r chi.Router) {
		// ==================== OWN PROFILE ====================
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authorize(policy.Authenticated, true, log))
			r.Get("/me", userHandler.Me)
			r.Patch("/me", userHandler.UpdateMe)
		})

		// ==================== ADMIN ROUTES ====================
		r.Group(func(r chi.Router) {
			r.With(middleware.Authorize(policy.AdminOnly, false, log)).Get("/", userHandler.List)
			r.With(middleware.Authorize(policy.AdminOnly, false, log)).Post("/", userHandler.Create)

			admin := middleware.Authorize(policy.AdminOnly, true, log)
			r.With(admin).Get("/{username}", userHandler.Get)
			r.With(admin).Patch("/{username}", userHandler.Update)
			r.With(admin).Delete("/{username}", userHandler.Delete)
		})
	})
}
