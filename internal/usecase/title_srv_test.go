package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"catalog-api/internal/data/entity"
	"catalog-api/internal/dto/request"
	"catalog-api/pkg/utils"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(t *testing.T, env *testEnv) {
	t.Helper()
	ctx := context.Background()
	_, err := env.service.Category.Create(ctx, &request.CategoryRequest{Name: "Film", Slug: "film"})
	require.NoError(t, err)
	_, err = env.service.Genre.Create(ctx, &request.GenreRequest{Name: "Drama", Slug: "drama"})
	require.NoError(t, err)
	_, err = env.service.Genre.Create(ctx, &request.GenreRequest{Name: "Sci-Fi", Slug: "sci-fi"})
	require.NoError(t, err)
}

func TestTitleCreate(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)
	ctx := context.Background()

	tests := []struct {
		name      string
		req       request.TitleRequest
		wantField string
	}{
		{
			name: "valid",
			req:  request.TitleRequest{Name: "Solaris", Year: 1972, Genre: []string{"drama", "sci-fi"}, Category: lo.ToPtr("film")},
		},
		{
			name:      "future year",
			req:       request.TitleRequest{Name: "Later", Year: time.Now().Year() + 1},
			wantField: "year",
		},
		{
			name:      "unknown genre",
			req:       request.TitleRequest{Name: "X", Year: 2000, Genre: []string{"drama", "western"}},
			wantField: "genre",
		},
		{
			name:      "unknown category",
			req:       request.TitleRequest{Name: "X", Year: 2000, Category: lo.ToPtr("music")},
			wantField: "category",
		},
		{
			name:      "missing name",
			req:       request.TitleRequest{Year: 2000},
			wantField: "name",
		},
		{
			name:      "name longer than stored column",
			req:       request.TitleRequest{Name: strings.Repeat("a", 201), Year: 2000},
			wantField: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := env.service.Title.Create(ctx, &tt.req)
			if tt.wantField != "" {
				var verr *utils.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Contains(t, verr.Fields, tt.wantField)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.req.Name, resp.Name)
			assert.Nil(t, resp.Rating)
			require.NotNil(t, resp.Category)
			assert.Equal(t, "film", resp.Category.Slug)
			assert.Len(t, resp.Genre, 2)
		})
	}
}

func TestTitleUpdate(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)
	ctx := context.Background()

	created, err := env.service.Title.Create(ctx, &request.TitleRequest{Name: "Solaris", Year: 1972, Genre: []string{"drama"}})
	require.NoError(t, err)

	updated, err := env.service.Title.Update(ctx, created.ID, &request.TitleUpdateRequest{Name: lo.ToPtr("Solaris (1972)")})
	require.NoError(t, err)
	assert.Equal(t, "Solaris (1972)", updated.Name)
	assert.Len(t, updated.Genre, 1, "genres untouched when omitted")

	updated, err = env.service.Title.Update(ctx, created.ID, &request.TitleUpdateRequest{Genre: &[]string{}})
	require.NoError(t, err)
	assert.Empty(t, updated.Genre)

	updated, err = env.service.Title.Update(ctx, created.ID, &request.TitleUpdateRequest{Category: request.SetString("film")})
	require.NoError(t, err)
	require.NotNil(t, updated.Category)

	updated, err = env.service.Title.Update(ctx, created.ID, &request.TitleUpdateRequest{Year: lo.ToPtr(1971)})
	require.NoError(t, err)
	require.NotNil(t, updated.Category, "category untouched when omitted")

	updated, err = env.service.Title.Update(ctx, created.ID, &request.TitleUpdateRequest{Category: request.Null()})
	require.NoError(t, err)
	assert.Nil(t, updated.Category)

	_, err = env.service.Title.Update(ctx, created.ID, &request.TitleUpdateRequest{Category: request.SetString("music")})
	var verr *utils.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "category")

	_, err = env.service.Title.Update(ctx, created.ID, &request.TitleUpdateRequest{Name: lo.ToPtr(strings.Repeat("a", 201))})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")

	_, err = env.service.Title.Update(ctx, "not-a-uuid", &request.TitleUpdateRequest{})
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestTitleListFilters(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)
	ctx := context.Background()

	_, err := env.service.Title.Create(ctx, &request.TitleRequest{Name: "Solaris", Year: 1972, Genre: []string{"sci-fi"}, Category: lo.ToPtr("film")})
	require.NoError(t, err)
	_, err = env.service.Title.Create(ctx, &request.TitleRequest{Name: "Stalker", Year: 1979, Genre: []string{"drama"}})
	require.NoError(t, err)

	page := request.PaginatedRequest{Page: 1, PerPage: 10}
	list := func(q request.TitleQuery) []string {
		q.PaginatedRequest = page
		resp, err := env.service.Title.List(ctx, q)
		require.NoError(t, err)
		names := make([]string, 0, len(resp.Data))
		for _, title := range resp.Data {
			names = append(names, title.Name)
		}
		return names
	}

	assert.Equal(t, []string{"Solaris", "Stalker"}, list(request.TitleQuery{}))
	assert.Equal(t, []string{"Solaris"}, list(request.TitleQuery{TitleFilter: entity.TitleFilter{GenreSlug: "sci-fi"}}))
	assert.Equal(t, []string{"Solaris"}, list(request.TitleQuery{TitleFilter: entity.TitleFilter{CategorySlug: "film"}}))
	assert.Equal(t, []string{"Stalker"}, list(request.TitleQuery{TitleFilter: entity.TitleFilter{Name: "STALK"}}))
	assert.Equal(t, []string{"Stalker"}, list(request.TitleQuery{TitleFilter: entity.TitleFilter{Year: lo.ToPtr(1979)}}))
}

func TestCategoryDeleteKeepsTitle(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)
	ctx := context.Background()

	created, err := env.service.Title.Create(ctx, &request.TitleRequest{Name: "Solaris", Year: 1972, Category: lo.ToPtr("film")})
	require.NoError(t, err)

	require.NoError(t, env.service.Category.Delete(ctx, "film"))

	title, err := env.service.Title.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, title.Category)
}

func TestTitleDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	title := env.createTitle(t, "Solaris")

	require.NoError(t, env.service.Title.Delete(ctx, title.ID.String()))
	_, err := env.service.Title.GetByID(ctx, title.ID.String())
	assert.ErrorIs(t, err, utils.ErrNotFound)
	assert.ErrorIs(t, env.service.Title.Delete(ctx, title.ID.String()), utils.ErrNotFound)
}
