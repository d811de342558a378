package memory

import (
	"context"
	"sort"

	"catalog-api/internal/data/entity"
	"catalog-api/pkg/utils"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type reviewRepo struct{ s *Store }

func (r *reviewRepo) readLocked(review entity.Review) *entity.Review {
	review.AuthorUsername = r.s.users[review.AuthorID].Username
	return &review
}

func (r *reviewRepo) Create(_ context.Context, review *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.titles[review.TitleID]; !ok {
		return missingReference("reviews_title_id_fkey")
	}
	if _, ok := r.s.users[review.AuthorID]; !ok {
		return missingReference("reviews_author_id_fkey")
	}
	for _, other := range r.s.reviews {
		if other.AuthorID == review.AuthorID && other.TitleID == review.TitleID {
			return conflict("reviews_author_title_key")
		}
	}

	stored := *review
	stored.AuthorUsername = ""
	r.s.reviews[review.ID] = stored
	return nil
}

func (r *reviewRepo) FindByIDAndTitle(_ context.Context, id, titleID uuid.UUID) (*entity.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	review, ok := r.s.reviews[id]
	if !ok || review.TitleID != titleID {
		return nil, nil
	}
	return r.readLocked(review), nil
}

func (r *reviewRepo) byTitleLocked(titleID uuid.UUID) []entity.Review {
	reviews := lo.Filter(lo.Values(r.s.reviews), func(rv entity.Review, _ int) bool {
		return rv.TitleID == titleID
	})
	sort.Slice(reviews, func(i, j int) bool {
		if !reviews[i].CreatedAt.Equal(reviews[j].CreatedAt) {
			return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
		}
		return reviews[i].ID.String() < reviews[j].ID.String()
	})
	return reviews
}

func (r *reviewRepo) FindByTitleID(_ context.Context, titleID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	page := paginate(r.byTitleLocked(titleID), limit, offset)
	return lo.Map(page, func(rv entity.Review, _ int) *entity.Review { return r.readLocked(rv) }), nil
}

func (r *reviewRepo) CountByTitleID(_ context.Context, titleID uuid.UUID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return int64(len(r.byTitleLocked(titleID))), nil
}

func (r *reviewRepo) FindByAuthorAndTitle(_ context.Context, authorID, titleID uuid.UUID) (*entity.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	review, ok := lo.Find(lo.Values(r.s.reviews), func(rv entity.Review) bool {
		return rv.AuthorID == authorID && rv.TitleID == titleID
	})
	if !ok {
		return nil, nil
	}
	return r.readLocked(review), nil
}

func (r *reviewRepo) Update(_ context.Context, review *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.reviews[review.ID]
	if !ok {
		return utils.NotFound("review")
	}
	current.Text = review.Text
	current.Score = review.Score
	r.s.reviews[review.ID] = current
	return nil
}

func (r *reviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reviews[id]; !ok {
		return utils.NotFound("review")
	}
	r.s.deleteReviewLocked(id)
	return nil
}

type commentRepo struct{ s *Store }

func (r *commentRepo) readLocked(comment entity.Comment) *entity.Comment {
	comment.AuthorUsername = r.s.users[comment.AuthorID].Username
	return &comment
}

func (r *commentRepo) Create(_ context.Context, comment *entity.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reviews[comment.ReviewID]; !ok {
		return missingReference("comments_review_id_fkey")
	}
	if _, ok := r.s.users[comment.AuthorID]; !ok {
		return missingReference("comments_author_id_fkey")
	}

	stored := *comment
	stored.AuthorUsername = ""
	r.s.comments[comment.ID] = stored
	return nil
}

func (r *commentRepo) FindByIDAndReview(_ context.Context, id, reviewID uuid.UUID) (*entity.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	comment, ok := r.s.comments[id]
	if !ok || comment.ReviewID != reviewID {
		return nil, nil
	}
	return r.readLocked(comment), nil
}

func (r *commentRepo) byReviewLocked(reviewID uuid.UUID) []entity.Comment {
	comments := lo.Filter(lo.Values(r.s.comments), func(c entity.Comment, _ int) bool {
		return c.ReviewID == reviewID
	})
	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.After(comments[j].CreatedAt)
		}
		return comments[i].ID.String() < comments[j].ID.String()
	})
	return comments
}

func (r *commentRepo) FindByReviewID(_ context.Context, reviewID uuid.UUID, limit, offset int) ([]*entity.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	page := paginate(r.byReviewLocked(reviewID), limit, offset)
	return lo.Map(page, func(c entity.Comment, _ int) *entity.Comment { return r.readLocked(c) }), nil
}

func (r *commentRepo) CountByReviewID(_ context.Context, reviewID uuid.UUID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return int64(len(r.byReviewLocked(reviewID))), nil
}

func (r *commentRepo) Update(_ context.Context, comment *entity.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.comments[comment.ID]
	if !ok {
		return utils.NotFound("comment")
	}
	current.Text = comment.Text
	r.s.comments[comment.ID] = current
	return nil
}

func (r *commentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.comments[id]; !ok {
		return utils.NotFound("comment")
	}
	delete(r.s.comments, id)
	return nil
}
