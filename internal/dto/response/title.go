package response

import (
	"catalog-api/internal/data/entity"

	"github.com/samber/lo"
)

type TitleResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *float64          `json:"rating"`
	Description *string           `json:"description"`
	Genre       []GenreResponse   `json:"genre"`
	Category    *CategoryResponse `json:"category"`
}

func TitleToResponse(title *entity.Title) TitleResponse {
	resp := TitleResponse{
		ID:          title.ID.String(),
		Name:        title.Name,
		Year:        title.Year,
		Rating:      title.Rating,
		Description: title.Description,
		Genre:       GenresToResponse(title.Genres),
	}
	if title.Category != nil {
		category := CategoryToResponse(title.Category)
		resp.Category = &category
	}
	return resp
}

func TitlesToResponse(titles []*entity.Title) []TitleResponse {
	return lo.Map(titles, func(t *entity.Title, _ int) TitleResponse { return TitleToResponse(t) })
}
