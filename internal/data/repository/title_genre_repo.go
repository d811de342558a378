package repository

import (
	"context"
	"fmt"

	"catalog-api/internal/data/entity"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// querier is implemented by the pool and by pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// titleGenres manages the title_genres bridge table.
type titleGenres struct {
	log *zap.Logger
}

func newTitleGenres(log *zap.Logger) *titleGenres {
	return &titleGenres{log: log.With(zap.String("repository", "title_genre"))}
}

func (r *titleGenres) insert(ctx context.Context, q querier, links []entity.TitleGenre) error {
	if len(links) == 0 {
		return nil
	}

	b := psql.Insert("title_genres").Columns("title_id", "genre_id")
	for _, link := range links {
		b = b.Values(link.TitleID, link.GenreID)
	}
	b = b.Suffix("ON CONFLICT DO NOTHING")

	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build title genres insert: %w", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		err = mapPgError(err)
		r.log.Error("Failed to link genres",
			zap.Error(err),
			zap.Int("count", len(links)),
		)
		return fmt.Errorf("link genres: %w", err)
	}

	return nil
}

// replace swaps the full genre set of a title.
func (r *titleGenres) replace(ctx context.Context, q querier, titleID uuid.UUID, genreIDs []uuid.UUID) error {
	if _, err := q.Exec(ctx, `DELETE FROM title_genres WHERE title_id = $1`, titleID); err != nil {
		r.log.Error("Failed to unlink genres",
			zap.Error(err),
			zap.String("title_id", titleID.String()),
		)
		return fmt.Errorf("unlink genres of title %s: %w", titleID.String(), err)
	}

	links := make([]entity.TitleGenre, 0, len(genreIDs))
	for _, genreID := range genreIDs {
		links = append(links, entity.TitleGenre{TitleID: titleID, GenreID: genreID})
	}

	return r.insert(ctx, q, links)
}

// findByTitleIDs loads the genres of several titles in one query.
func (r *titleGenres) findByTitleIDs(ctx context.Context, q querier, titleIDs []uuid.UUID) (map[uuid.UUID][]*entity.Genre, error) {
	result := make(map[uuid.UUID][]*entity.Genre, len(titleIDs))
	if len(titleIDs) == 0 {
		return result, nil
	}

	query, args, err := psql.Select("tg.title_id", "g.id", "g.name", "g.slug").
		From("title_genres tg").
		Join("genres g ON g.id = tg.genre_id").
		Where(sq.Eq{"tg.title_id": titleIDs}).
		OrderBy("g.name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build genres by titles query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find genres by title IDs",
			zap.Error(err),
			zap.Int("titles", len(titleIDs)),
		)
		return nil, fmt.Errorf("find genres by title ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var titleID uuid.UUID
		var genre entity.Genre
		if err := rows.Scan(&titleID, &genre.ID, &genre.Name, &genre.Slug); err != nil {
			r.log.Error("Failed to scan title genre row", zap.Error(err))
			return nil, fmt.Errorf("scan title genre row: %w", err)
		}
		result[titleID] = append(result[titleID], &genre)
	}

	return result, rows.Err()
}
