package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-api/internal/data/entity"
	"catalog-api/internal/data/repository"
	"catalog-api/internal/dto/request"
	"catalog-api/internal/dto/response"
	"catalog-api/internal/policy"
	"catalog-api/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DuplicateReviewMessage is the message returned for a second review of a title.
const DuplicateReviewMessage = "You can leave only one review per title"

type ReviewService interface {
	List(ctx context.Context, titleID string, req request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	GetByID(ctx context.Context, titleID, id string) (*response.ReviewResponse, error)
	Create(ctx context.Context, titleID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	Update(ctx context.Context, titleID, id string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	Delete(ctx context.Context, titleID, id string) error
}

type reviewService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewReviewService(repo *repository.Repository, log *zap.Logger) ReviewService {
	return &reviewService{
		repo: repo,
		log:  log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) List(ctx context.Context, titleID string, req request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	tid, err := resolveTitle(ctx, s.repo.Title, titleID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.repo.Review.FindByTitleID(ctx, tid, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	total, err := s.repo.Review.CountByTitleID(ctx, tid)
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	return response.NewPaginatedResponse(response.ReviewsToResponse(reviews), req.Page, req.Limit(), total), nil
}

func (s *reviewService) GetByID(ctx context.Context, titleID, id string) (*response.ReviewResponse, error) {
	review, err := s.find(ctx, titleID, id)
	if err != nil {
		return nil, err
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) Create(ctx context.Context, titleID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	actor := policy.ActorFromContext(ctx)
	if !actor.Authenticated() {
		return nil, utils.ErrUnauthorized
	}

	tid, err := resolveTitle(ctx, s.repo.Title, titleID)
	if err != nil {
		return nil, err
	}

	if err := utils.Validate(req); err != nil {
		s.log.Warn("Create review validation failed", zap.Error(err))
		return nil, err
	}
	if req.Score < entity.MinScore || req.Score > entity.MaxScore {
		return nil, utils.NewValidationError("score", fmt.Sprintf("Must be between %d and %d", entity.MinScore, entity.MaxScore))
	}

	existing, err := s.repo.Review.FindByAuthorAndTitle(ctx, actor.ID, tid)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if existing != nil {
		return nil, utils.NewValidationError("non_field_errors", DuplicateReviewMessage)
	}

	review := &entity.Review{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		TitleID:    tid,
		AuthorID:   actor.ID,
		Text:       req.Text,
		Score:      req.Score,
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		// lost a race with a concurrent create by the same author
		if errors.Is(err, utils.ErrConflict) {
			return nil, utils.NewValidationError("non_field_errors", DuplicateReviewMessage)
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("title_id", tid.String()),
		zap.Int("score", review.Score),
	)

	return s.GetByID(ctx, titleID, review.ID.String())
}

func (s *reviewService) Update(ctx context.Context, titleID, id string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	review, err := s.find(ctx, titleID, id)
	if err != nil {
		return nil, err
	}

	if err := policy.Content.Authorize(policy.ActorFromContext(ctx), policy.ActionUpdate, review); err != nil {
		return nil, err
	}

	if err := utils.Validate(req); err != nil {
		s.log.Warn("Update review validation failed", zap.Error(err))
		return nil, err
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		review.Score = *req.Score
	}

	if err := s.repo.Review.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	s.log.Info("Review updated", zap.String("review_id", review.ID.String()))

	return s.GetByID(ctx, titleID, id)
}

func (s *reviewService) Delete(ctx context.Context, titleID, id string) error {
	review, err := s.find(ctx, titleID, id)
	if err != nil {
		return err
	}

	if err := policy.Content.Authorize(policy.ActorFromContext(ctx), policy.ActionDelete, review); err != nil {
		return err
	}

	if err := s.repo.Review.Delete(ctx, review.ID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	s.log.Info("Review deleted", zap.String("review_id", review.ID.String()))
	return nil
}

func (s *reviewService) find(ctx context.Context, titleID, id string) (*entity.Review, error) {
	tid, err := resolveTitle(ctx, s.repo.Title, titleID)
	if err != nil {
		return nil, err
	}

	reviewID, err := parseID(id, "review")
	if err != nil {
		return nil, err
	}

	review, err := s.repo.Review.FindByIDAndTitle(ctx, reviewID, tid)
	if err != nil {
		return nil, fmt.Errorf("find review: %w", err)
	}
	if review == nil {
		return nil, utils.NotFound("review")
	}

	return review, nil
}
