package entity

import (
	"github.com/google/uuid"
)

type Title struct {
	Base
	Name        string     `db:"name"`
	Year        int        `db:"year"`
	Description *string    `db:"description"`
	CategoryID  *uuid.UUID `db:"category_id"`

	// Populated on reads only.
	Category *Category `db:"-"`
	Genres   []*Genre  `db:"-"`
	Rating   *float64  `db:"-"` // mean review score, nil without reviews
}

// TitleFilter narrows title listings. Empty fields are ignored.
type TitleFilter struct {
	GenreSlug    string
	CategorySlug string
	Name         string // case-insensitive substring
	Year         *int
}
