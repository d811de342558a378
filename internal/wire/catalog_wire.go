package wire

import (
	"catalog-api/internal/adaptor"
	"catalog-api/internal/policy"
	"catalog-api/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireCatalog registers categories and genres: readable by anyone, managed by admins
func wireCatalog(
	r chi.Router,
	categoryHandler *adaptor.CategoryHandler,
	genreHandler *adaptor.GenreHandler,
	log *zap.Logger,
) {
	collection := middleware.Authorize(policy.Catalog, false, log)
	object := middleware.Authorize(policy.Catalog, true, log)

	r.Route("/categories", func(r chi.Router) {
		r.With(collection).Get("/", categoryHandler.List)
		r.With(collection).Post("/", categoryHandler.Create)
		r.With(object).Delete("/{slug}", categoryHandler.Delete)
	})

	r.Route("/genres", func(r chi.Router) {
		r.With(collection).Get("/", genreHandler.List)
		r.With(collection).Post("/", genreHandler.Create)
		r.With(object).Delete("/{slug}", genreHandler.Delete)
	})
}
