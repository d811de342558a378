package repository

import (
	"testing"

	"catalog-api/internal/data/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTitleSelect(t *testing.T) {
	year := 1999

	tests := []struct {
		name     string
		filter   entity.TitleFilter
		contains []string
		args     []any
	}{
		{
			name:     "no filter",
			filter:   entity.TitleFilter{},
			contains: []string{"LEFT JOIN reviews r", "AVG(r.score)::float8", "GROUP BY t.id, c.id"},
			args:     nil,
		},
		{
			name:     "genre",
			filter:   entity.TitleFilter{GenreSlug: "drama"},
			contains: []string{"EXISTS (", "g.slug = $1"},
			args:     []any{"drama"},
		},
		{
			name:     "all filters in order",
			filter:   entity.TitleFilter{GenreSlug: "drama", CategorySlug: "film", Name: "50%_off", Year: &year},
			contains: []string{"g.slug = $1", "c.slug = $2", "t.name ILIKE $3", "t.year = $4"},
			args:     []any{"drama", "film", `%50\%\_off%`, 1999},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := titleSelect(tt.filter).ToSql()
			require.NoError(t, err)

			for _, fragment := range tt.contains {
				assert.Contains(t, query, fragment)
			}
			if tt.args == nil {
				assert.Empty(t, args)
				return
			}
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestTitleCountSkipsReviews(t *testing.T) {
	query, args, err := titleCount(entity.TitleFilter{CategorySlug: "book"}).ToSql()
	require.NoError(t, err)

	assert.NotContains(t, query, "reviews")
	assert.Contains(t, query, "c.slug = $1")
	assert.Equal(t, []any{"book"}, args)
}
