//go:build integration

package repository

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"catalog-api/internal/data/entity"
	"catalog-api/pkg/database"
	"catalog-api/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func dockerAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return exec.CommandContext(ctx, "docker", "info").Run() == nil
}

func startPostgres(t *testing.T) database.PgxIface {
	t.Helper()
	if !dockerAvailable() {
		t.Skip("Skipping test: Docker not available")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "catalog",
				"POSTGRES_PASSWORD": "catalog",
				"POSTGRES_DB":       "catalog",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	db, err := database.InitDB(ctx, database.ConnString(utils.DatabaseConfig{
		Host:     host,
		Port:     port.Port(),
		Name:     "catalog",
		User:     "catalog",
		Password: "catalog",
	}), 4)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, database.Migrate(ctx, db))
	return db
}

func TestPostgresRepositories(t *testing.T) {
	db := startPostgres(t)
	repo := NewRepository(db, zap.NewNop())
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	author := &entity.User{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username: "author",
		Email:    "author@example.com",
		Role:     entity.RoleUser,
	}
	require.NoError(t, repo.User.Create(ctx, author))

	duplicate := *author
	duplicate.ID = uuid.New()
	duplicate.Username = "someone"
	assert.ErrorIs(t, repo.User.Create(ctx, &duplicate), utils.ErrConflict)

	category := &entity.Category{ID: uuid.New(), Name: "Film", Slug: "film"}
	require.NoError(t, repo.Category.Create(ctx, category))
	genre := &entity.Genre{ID: uuid.New(), Name: "Drama", Slug: "drama"}
	require.NoError(t, repo.Genre.Create(ctx, genre))

	title := &entity.Title{
		Base:       entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:       "Stalker",
		Year:       1979,
		CategoryID: &category.ID,
	}
	require.NoError(t, repo.Title.Create(ctx, title, []uuid.UUID{genre.ID}))

	found, err := repo.Title.FindByID(ctx, title.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Nil(t, found.Rating)
	require.NotNil(t, found.Category)
	assert.Equal(t, "film", found.Category.Slug)
	require.Len(t, found.Genres, 1)
	assert.Equal(t, "drama", found.Genres[0].Slug)

	review := &entity.Review{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
		TitleID:    title.ID,
		AuthorID:   author.ID,
		Text:       "slow and great",
		Score:      9,
	}
	require.NoError(t, repo.Review.Create(ctx, review))

	again := *review
	again.ID = uuid.New()
	assert.ErrorIs(t, repo.Review.Create(ctx, &again), utils.ErrConflict)

	titles, err := repo.Title.FindAll(ctx, entity.TitleFilter{Name: "stal", GenreSlug: "drama"}, 10, 0)
	require.NoError(t, err)
	require.Len(t, titles, 1)
	require.NotNil(t, titles[0].Rating)
	assert.InDelta(t, 9.0, *titles[0].Rating, 1e-9)

	stored, err := repo.Review.FindByIDAndTitle(ctx, review.ID, title.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "author", stored.AuthorUsername)

	require.NoError(t, repo.Category.Delete(ctx, category.ID))
	found, err = repo.Title.FindByID(ctx, title.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Nil(t, found.Category)

	require.NoError(t, repo.Title.Delete(ctx, title.ID))
	total, err := repo.Review.CountByTitleID(ctx, title.ID)
	require.NoError(t, err)
	assert.Zero(t, total)
}
