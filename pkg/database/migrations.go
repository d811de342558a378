package database

import (
	"context"
	"fmt"
)

// schema is applied in order on startup; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id           UUID PRIMARY KEY,
		username     VARCHAR(150) NOT NULL UNIQUE,
		email        VARCHAR(254) NOT NULL UNIQUE,
		first_name   VARCHAR(150) NOT NULL DEFAULT '',
		last_name    VARCHAR(150) NOT NULL DEFAULT '',
		role         VARCHAR(50)  NOT NULL DEFAULT 'user',
		bio          TEXT,
		is_superuser BOOLEAN      NOT NULL DEFAULT FALSE,
		last_login   TIMESTAMPTZ,
		created_at   TIMESTAMPTZ  NOT NULL,
		updated_at   TIMESTAMPTZ  NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id   UUID PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		slug VARCHAR(50)  NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS genres (
		id   UUID PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		slug VARCHAR(50)  NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS titles (
		id          UUID PRIMARY KEY,
		name        VARCHAR(200) NOT NULL,
		year        INTEGER      NOT NULL,
		description TEXT,
		category_id UUID REFERENCES categories(id) ON DELETE SET NULL,
		created_at  TIMESTAMPTZ  NOT NULL,
		updated_at  TIMESTAMPTZ  NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS title_genres (
		title_id UUID NOT NULL REFERENCES titles(id) ON DELETE CASCADE,
		genre_id UUID NOT NULL REFERENCES genres(id) ON DELETE CASCADE,
		PRIMARY KEY (title_id, genre_id)
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id         UUID PRIMARY KEY,
		title_id   UUID     NOT NULL REFERENCES titles(id) ON DELETE CASCADE,
		author_id  UUID     NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		text       TEXT     NOT NULL,
		score      SMALLINT NOT NULL CHECK (score BETWEEN 1 AND 10),
		created_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT reviews_author_title_key UNIQUE (author_id, title_id)
	)`,
	`CREATE INDEX IF NOT EXISTS reviews_created_at_idx ON reviews (created_at)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id         UUID PRIMARY KEY,
		review_id  UUID NOT NULL REFERENCES reviews(id) ON DELETE CASCADE,
		author_id  UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		text       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS comments_created_at_idx ON comments (created_at)`,
	`CREATE TABLE IF NOT EXISTS confirmation_codes (
		id          UUID PRIMARY KEY,
		user_id     UUID        NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		code_hash   TEXT        NOT NULL,
		fingerprint VARCHAR(64) NOT NULL,
		expires_at  TIMESTAMPTZ NOT NULL,
		is_used     BOOLEAN     NOT NULL DEFAULT FALSE,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
}

// Migrate applies the schema.
func Migrate(ctx context.Context, db PgxIface) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
