package usecase

import (
	"context"
	"fmt"

	"catalog-api/internal/data/repository"
	"catalog-api/pkg/utils"

	"github.com/google/uuid"
)

// parseID treats a malformed id as a missing resource.
func parseID(raw, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, utils.NotFound(resource)
	}
	return id, nil
}

// resolveTitle checks that the parent title in the path exists.
func resolveTitle(ctx context.Context, titles repository.TitleRepository, rawTitleID string) (uuid.UUID, error) {
	titleID, err := parseID(rawTitleID, "title")
	if err != nil {
		return uuid.Nil, err
	}

	exists, err := titles.Exists(ctx, titleID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("check title: %w", err)
	}
	if !exists {
		return uuid.Nil, utils.NotFound("title")
	}

	return titleID, nil
}

// resolveReview resolves a review under its title. A review that exists
// under a different title is reported as not found.
func resolveReview(ctx context.Context, repo *repository.Repository, rawTitleID, rawReviewID string) (uuid.UUID, error) {
	titleID, err := resolveTitle(ctx, repo.Title, rawTitleID)
	if err != nil {
		return uuid.Nil, err
	}

	reviewID, err := parseID(rawReviewID, "review")
	if err != nil {
		return uuid.Nil, err
	}

	review, err := repo.Review.FindByIDAndTitle(ctx, reviewID, titleID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("find review: %w", err)
	}
	if review == nil {
		return uuid.Nil, utils.NotFound("review")
	}

	return review.ID, nil
}
