package response

import (
	"catalog-api/internal/data/entity"

	"github.com/samber/lo"
)

type CategoryResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type GenreResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func CategoryToResponse(category *entity.Category) CategoryResponse {
	return CategoryResponse{Name: category.Name, Slug: category.Slug}
}

func GenreToResponse(genre *entity.Genre) GenreResponse {
	return GenreResponse{Name: genre.Name, Slug: genre.Slug}
}

func CategoriesToResponse(categories []*entity.Category) []CategoryResponse {
	return lo.Map(categories, func(c *entity.Category, _ int) CategoryResponse { return CategoryToResponse(c) })
}

func GenresToResponse(genres []*entity.Genre) []GenreResponse {
	return lo.Map(genres, func(g *entity.Genre, _ int) GenreResponse { return GenreToResponse(g) })
}
