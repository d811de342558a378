package usecase

import (
	"context"
	"strings"
	"testing"

	"catalog-api/internal/dto/request"
	"catalog-api/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.service.Category.Create(ctx, &request.CategoryRequest{Name: "Film", Slug: "film"})
	require.NoError(t, err)
	assert.Equal(t, "film", created.Slug)

	_, err = env.service.Category.Create(ctx, &request.CategoryRequest{Name: "Films", Slug: "film"})
	var verr *utils.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "slug")

	_, err = env.service.Category.Create(ctx, &request.CategoryRequest{Name: "Bad", Slug: "not a slug"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "slug")

	_, err = env.service.Category.Create(ctx, &request.CategoryRequest{Name: strings.Repeat("a", 201), Slug: "long"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Maximum length is 200", verr.Fields["name"])

	list, err := env.service.Category.List(ctx, "Film", request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)

	list, err = env.service.Category.List(ctx, "Fil", request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Empty(t, list.Data)

	require.NoError(t, env.service.Category.Delete(ctx, "film"))
	assert.ErrorIs(t, env.service.Category.Delete(ctx, "film"), utils.ErrNotFound)
}

func TestGenreLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.service.Genre.Create(ctx, &request.GenreRequest{Name: "Drama", Slug: "drama"})
	require.NoError(t, err)

	_, err = env.service.Genre.Create(ctx, &request.GenreRequest{Name: "Drama 2", Slug: "drama"})
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = env.service.Genre.Create(ctx, &request.GenreRequest{Slug: "empty-name"})
	assert.ErrorIs(t, err, utils.ErrValidation)

	list, err := env.service.Genre.List(ctx, "", request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Pagination.Total)

	require.NoError(t, env.service.Genre.Delete(ctx, "drama"))
	assert.ErrorIs(t, env.service.Genre.Delete(ctx, "missing"), utils.ErrNotFound)
}
