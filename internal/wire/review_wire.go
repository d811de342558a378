package wire

import (
	"catalog-api/internal/adaptor"
	"catalog-api/internal/policy"
	"catalog-api/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireReview registers reviews under a title and comments under a review.
// Ownership of an existing object is checked by the service once it is loaded.
func wireReview(
	r chi.Router,
	reviewHandler *adaptor.ReviewHandler,
	commentHandler *adaptor.CommentHandler,
	log *zap.Logger,
) {
	collection := middleware.Authorize(policy.Content, false, log)
	object := middleware.Authorize(policy.Content, true, log)

	r.Route("/reviews", func(r chi.Router) {
		// ==================== REVIEWS ====================
		r.With(collection).Get("/", reviewHandler.List)
		r.With(collection).Post("/", reviewHandler.Create)

		r.Route("/{reviewID}", func(r chi.Router) {
			r.With(object).Get("/", reviewHandler.Get)
			r.With(object).Patch("/", reviewHandler.Update)
			r.With(object).Delete("/", reviewHandler.Delete)

			// ==================== COMMENTS ====================
			r.Route("/comments", func(r chi.Router) {
				r.With(collection).Get("/", commentHandler.List)
				r.With(collection).Post("/", commentHandler.Create)
				r.With(object).Get("/{commentID}", commentHandler.Get)
				r.With(object).Patch("/{commentID}", commentHandler.Update)
				r.With(object).Delete("/{commentID}", commentHandler.Delete)
			})
		})
	})
}
