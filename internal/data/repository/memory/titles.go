package memory

import (
	"context"
	"sort"
	"strings"

	"catalog-api/internal/data/entity"
	"catalog-api/pkg/utils"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type titleRepo struct{ s *Store }

func (r *titleRepo) checkReferencesLocked(title *entity.Title, genreIDs []uuid.UUID) error {
	if title.CategoryID != nil {
		if _, ok := r.s.categories[*title.CategoryID]; !ok {
			return missingReference("titles_category_id_fkey")
		}
	}
	for _, genreID := range genreIDs {
		if _, ok := r.s.genres[genreID]; !ok {
			return missingReference("title_genres_genre_id_fkey")
		}
	}
	return nil
}

func (r *titleRepo) Create(_ context.Context, title *entity.Title, genreIDs []uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkReferencesLocked(title, genreIDs); err != nil {
		return err
	}

	stored := *title
	stored.Category, stored.Genres, stored.Rating = nil, nil, nil
	r.s.titles[title.ID] = stored
	r.s.titleGenres[title.ID] = lo.Uniq(genreIDs)
	return nil
}

// hydrateLocked builds the read model of a stored title.
func (r *titleRepo) hydrateLocked(stored entity.Title) *entity.Title {
	title := stored

	if title.CategoryID != nil {
		if category, ok := r.s.categories[*title.CategoryID]; ok {
			title.Category = &category
		}
	}

	genres := make([]entity.Genre, 0, len(r.s.titleGenres[title.ID]))
	for _, genreID := range r.s.titleGenres[title.ID] {
		if genre, ok := r.s.genres[genreID]; ok {
			genres = append(genres, genre)
		}
	}
	sortGenres(genres)
	title.Genres = lo.Map(genres, func(g entity.Genre, _ int) *entity.Genre { return &g })

	var sum, count int
	for _, review := range r.s.reviews {
		if review.TitleID == title.ID {
			sum += review.Score
			count++
		}
	}
	if count > 0 {
		rating := float64(sum) / float64(count)
		title.Rating = &rating
	}

	return &title
}

func (r *titleRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Title, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stored, ok := r.s.titles[id]
	if !ok {
		return nil, nil
	}
	return r.hydrateLocked(stored), nil
}

func (r *titleRepo) matchesLocked(title entity.Title, filter entity.TitleFilter) bool {
	if filter.GenreSlug != "" {
		found := lo.ContainsBy(r.s.titleGenres[title.ID], func(genreID uuid.UUID) bool {
			return r.s.genres[genreID].Slug == filter.GenreSlug
		})
		if !found {
			return false
		}
	}
	if filter.CategorySlug != "" {
		if title.CategoryID == nil || r.s.categories[*title.CategoryID].Slug != filter.CategorySlug {
			return false
		}
	}
	if filter.Name != "" && !strings.Contains(strings.ToLower(title.Name), strings.ToLower(filter.Name)) {
		return false
	}
	if filter.Year != nil && title.Year != *filter.Year {
		return false
	}
	return true
}

func (r *titleRepo) matchingLocked(filter entity.TitleFilter) []entity.Title {
	titles := lo.Filter(lo.Values(r.s.titles), func(t entity.Title, _ int) bool {
		return r.matchesLocked(t, filter)
	})
	sort.Slice(titles, func(i, j int) bool {
		if titles[i].Name != titles[j].Name {
			return titles[i].Name < titles[j].Name
		}
		return titles[i].ID.String() < titles[j].ID.String()
	})
	return titles
}

func (r *titleRepo) FindAll(_ context.Context, filter entity.TitleFilter, limit, offset int) ([]*entity.Title, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	page := paginate(r.matchingLocked(filter), limit, offset)
	return lo.Map(page, func(t entity.Title, _ int) *entity.Title { return r.hydrateLocked(t) }), nil
}

func (r *titleRepo) CountAll(_ context.Context, filter entity.TitleFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return int64(len(r.matchingLocked(filter))), nil
}

func (r *titleRepo) Update(_ context.Context, title *entity.Title, genreIDs []uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.titles[title.ID]
	if !ok {
		return utils.NotFound("title")
	}
	if err := r.checkReferencesLocked(title, genreIDs); err != nil {
		return err
	}

	stored := *title
	stored.Category, stored.Genres, stored.Rating = nil, nil, nil
	stored.CreatedAt = current.CreatedAt
	r.s.titles[title.ID] = stored
	if genreIDs != nil {
		r.s.titleGenres[title.ID] = lo.Uniq(genreIDs)
	}
	return nil
}

func (r *titleRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.titles[id]; !ok {
		return utils.NotFound("title")
	}
	r.s.deleteTitleLocked(id)
	return nil
}

func (r *titleRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.titles[id]
	return ok, nil
}
