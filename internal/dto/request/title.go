package request

import (
	"catalog-api/internal/data/entity"
)

// TitleRequest references genres and category by slug.
type TitleRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Year        int      `json:"year" validate:"required,notfutureyear"`
	Description *string  `json:"description,omitempty"`
	Genre       []string `json:"genre" validate:"dive,slug"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,slug"`
}

// TitleUpdateRequest is a partial update; nil fields are left unchanged.
// A null category detaches the title from its category.
type TitleUpdateRequest struct {
	Name        *string        `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Year        *int           `json:"year,omitempty" validate:"omitempty,notfutureyear"`
	Description *string        `json:"description,omitempty"`
	Genre       *[]string      `json:"genre,omitempty" validate:"omitempty,dive,slug"`
	Category    NullableString `json:"category"`
}

// TitleQuery holds the list filters taken from the query string.
type TitleQuery struct {
	PaginatedRequest
	entity.TitleFilter
}
