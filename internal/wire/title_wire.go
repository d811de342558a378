package wire

import (
	"catalog-api/internal/adaptor"
	"catalog-api/internal/policy"
	"catalog-api/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireTitle registers titles, readable by anyone and managed by admins,
// with their reviews nested below
func wireTitle(
	r chi.Router,
	titleHandler *adaptor.TitleHandler,
	reviewHandler *adaptor.ReviewHandler,
	commentHandler *adaptor.CommentHandler,
	log *zap.Logger,
) {
	collection := middleware.Authorize(policy.Catalog, false, log)
	object := middleware.Authorize(policy.Catalog, true, log)

	r.Route("/titles", func(r chi.Router) {
		r.With(collection).Get("/", titleHandler.List)
		r.With(collection).Post("/", titleHandler.Create)

		r.Route("/{titleID}", func(r chi.Router) {
			r.With(object).Get("/", titleHandler.Get)
			r.With(object).Patch("/", titleHandler.Update)
			r.With(object).Delete("/", titleHandler.Delete)

			wireReview(r, reviewHandler, commentHandler, log)
		})
	})
}
