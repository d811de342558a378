package memory

import (
	"context"
	"sort"

	"catalog-api/internal/data/entity"
	"catalog-api/pkg/utils"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type categoryRepo struct{ s *Store }

func (r *categoryRepo) Create(_ context.Context, category *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, other := range r.s.categories {
		if other.Slug == category.Slug {
			return conflict("categories_slug_key")
		}
	}
	r.s.categories[category.ID] = *category
	return nil
}

func (r *categoryRepo) FindBySlug(_ context.Context, slug string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	category, ok := lo.Find(lo.Values(r.s.categories), func(c entity.Category) bool { return c.Slug == slug })
	if !ok {
		return nil, nil
	}
	return &category, nil
}

func (r *categoryRepo) matching(search string) []entity.Category {
	categories := lo.Filter(lo.Values(r.s.categories), func(c entity.Category, _ int) bool {
		return search == "" || c.Name == search
	})
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Name != categories[j].Name {
			return categories[i].Name < categories[j].Name
		}
		return categories[i].Slug < categories[j].Slug
	})
	return categories
}

func (r *categoryRepo) FindAll(_ context.Context, search string, limit, offset int) ([]*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	page := paginate(r.matching(search), limit, offset)
	return lo.Map(page, func(c entity.Category, _ int) *entity.Category { return &c }), nil
}

func (r *categoryRepo) CountAll(_ context.Context, search string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return int64(len(r.matching(search))), nil
}

func (r *categoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[id]; !ok {
		return utils.NotFound("category")
	}
	delete(r.s.categories, id)

	// ON DELETE SET NULL
	for titleID, title := range r.s.titles {
		if title.CategoryID != nil && *title.CategoryID == id {
			title.CategoryID = nil
			r.s.titles[titleID] = title
		}
	}
	return nil
}

type genreRepo struct{ s *Store }

func (r *genreRepo) Create(_ context.Context, genre *entity.Genre) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, other := range r.s.genres {
		if other.Slug == genre.Slug {
			return conflict("genres_slug_key")
		}
	}
	r.s.genres[genre.ID] = *genre
	return nil
}

func (r *genreRepo) FindBySlug(_ context.Context, slug string) (*entity.Genre, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	genre, ok := lo.Find(lo.Values(r.s.genres), func(g entity.Genre) bool { return g.Slug == slug })
	if !ok {
		return nil, nil
	}
	return &genre, nil
}

func (r *genreRepo) FindBySlugs(_ context.Context, slugs []string) ([]*entity.Genre, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	genres := lo.Filter(lo.Values(r.s.genres), func(g entity.Genre, _ int) bool {
		return lo.Contains(slugs, g.Slug)
	})
	sortGenres(genres)
	return lo.Map(genres, func(g entity.Genre, _ int) *entity.Genre { return &g }), nil
}

func (r *genreRepo) matching(search string) []entity.Genre {
	genres := lo.Filter(lo.Values(r.s.genres), func(g entity.Genre, _ int) bool {
		return search == "" || g.Name == search
	})
	sortGenres(genres)
	return genres
}

func (r *genreRepo) FindAll(_ context.Context, search string, limit, offset int) ([]*entity.Genre, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	page := paginate(r.matching(search), limit, offset)
	return lo.Map(page, func(g entity.Genre, _ int) *entity.Genre { return &g }), nil
}

func (r *genreRepo) CountAll(_ context.Context, search string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return int64(len(r.matching(search))), nil
}

func (r *genreRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.genres[id]; !ok {
		return utils.NotFound("genre")
	}
	delete(r.s.genres, id)

	for titleID, genreIDs := range r.s.titleGenres {
		r.s.titleGenres[titleID] = lo.Without(genreIDs, id)
	}
	return nil
}

func sortGenres(genres []entity.Genre) {
	sort.Slice(genres, func(i, j int) bool {
		if genres[i].Name != genres[j].Name {
			return genres[i].Name < genres[j].Name
		}
		return genres[i].Slug < genres[j].Slug
	})
}
