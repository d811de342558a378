package repository

import (
	"strings"

	"catalog-api/internal/data/entity"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

var titleColumns = []string{
	"t.id", "t.name", "t.year", "t.description", "t.category_id", "t.created_at", "t.updated_at",
	"c.id", "c.name", "c.slug",
	"AVG(r.score)::float8 AS rating",
}

// titleSelect reads titles with their category and mean review score in one pass.
func titleSelect(filter entity.TitleFilter) sq.SelectBuilder {
	b := psql.Select(titleColumns...).
		From("titles t").
		LeftJoin("categories c ON c.id = t.category_id").
		LeftJoin("reviews r ON r.title_id = t.id").
		GroupBy("t.id", "c.id")

	return applyTitleFilter(b, filter)
}

func titleCount(filter entity.TitleFilter) sq.SelectBuilder {
	b := psql.Select("COUNT(*)").
		From("titles t").
		LeftJoin("categories c ON c.id = t.category_id")

	return applyTitleFilter(b, filter)
}

func applyTitleFilter(b sq.SelectBuilder, filter entity.TitleFilter) sq.SelectBuilder {
	if filter.GenreSlug != "" {
		b = b.Where(sq.Expr(`EXISTS (
			SELECT 1 FROM title_genres tg
			JOIN genres g ON g.id = tg.genre_id
			WHERE tg.title_id = t.id AND g.slug = ?)`, filter.GenreSlug))
	}
	if filter.CategorySlug != "" {
		b = b.Where(sq.Eq{"c.slug": filter.CategorySlug})
	}
	if filter.Name != "" {
		b = b.Where(sq.ILike{"t.name": "%" + likeEscaper.Replace(filter.Name) + "%"})
	}
	if filter.Year != nil {
		b = b.Where(sq.Eq{"t.year": *filter.Year})
	}
	return b
}
