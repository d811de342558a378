package entity

import "github.com/google/uuid"

// Category is a kind of work (book, film, music). Slug is its identity key.
type Category struct {
	ID   uuid.UUID `db:"id"`
	Name string    `db:"name"`
	Slug string    `db:"slug"`
}
