// Package memory is a process-local implementation of the repository
// interfaces. It applies the same referential actions and uniqueness
// constraints as the Postgres schema.
package memory

import (
	"fmt"
	"sync"

	"catalog-api/internal/data/entity"
	"catalog-api/internal/data/repository"
	"catalog-api/pkg/utils"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	users       map[uuid.UUID]entity.User
	categories  map[uuid.UUID]entity.Category
	genres      map[uuid.UUID]entity.Genre
	titles      map[uuid.UUID]entity.Title
	titleGenres map[uuid.UUID][]uuid.UUID
	reviews     map[uuid.UUID]entity.Review
	comments    map[uuid.UUID]entity.Comment
	codes       map[uuid.UUID]entity.ConfirmationCode
}

func New() *Store {
	return &Store{
		users:       make(map[uuid.UUID]entity.User),
		categories:  make(map[uuid.UUID]entity.Category),
		genres:      make(map[uuid.UUID]entity.Genre),
		titles:      make(map[uuid.UUID]entity.Title),
		titleGenres: make(map[uuid.UUID][]uuid.UUID),
		reviews:     make(map[uuid.UUID]entity.Review),
		comments:    make(map[uuid.UUID]entity.Comment),
		codes:       make(map[uuid.UUID]entity.ConfirmationCode),
	}
}

// Repository exposes the store through the repository interfaces.
func (s *Store) Repository() *repository.Repository {
	return &repository.Repository{
		User:             &userRepo{s},
		ConfirmationCode: &codeRepo{s},
		Category:         &categoryRepo{s},
		Genre:            &genreRepo{s},
		Title:            &titleRepo{s},
		Review:           &reviewRepo{s},
		Comment:          &commentRepo{s},
	}
}

func conflict(constraint string) error {
	return fmt.Errorf("%w: %s", utils.ErrConflict, constraint)
}

func missingReference(constraint string) error {
	return fmt.Errorf("referenced row %w: %s", utils.ErrNotFound, constraint)
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

// The delete helpers expect s.mu to be held for writing.

func (s *Store) deleteReviewLocked(id uuid.UUID) {
	delete(s.reviews, id)
	for commentID, comment := range s.comments {
		if comment.ReviewID == id {
			delete(s.comments, commentID)
		}
	}
}

func (s *Store) deleteTitleLocked(id uuid.UUID) {
	delete(s.titles, id)
	delete(s.titleGenres, id)
	for reviewID, review := range s.reviews {
		if review.TitleID == id {
			s.deleteReviewLocked(reviewID)
		}
	}
}

func (s *Store) deleteUserLocked(id uuid.UUID) {
	delete(s.users, id)
	for reviewID, review := range s.reviews {
		if review.AuthorID == id {
			s.deleteReviewLocked(reviewID)
		}
	}
	for commentID, comment := range s.comments {
		if comment.AuthorID == id {
			delete(s.comments, commentID)
		}
	}
	for codeID, code := range s.codes {
		if code.UserID == id {
			delete(s.codes, codeID)
		}
	}
}
