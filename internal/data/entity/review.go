package entity

import (
	"github.com/google/uuid"
)

const (
	MinScore = 1
	MaxScore = 10
)

type Review struct {
	BaseSimple
	TitleID  uuid.UUID `db:"title_id"`
	AuthorID uuid.UUID `db:"author_id"`
	Text     string    `db:"text"`
	Score    int       `db:"score"` // 1-10

	AuthorUsername string `db:"-"`
}

func (r *Review) OwnerID() uuid.UUID { return r.AuthorID }
