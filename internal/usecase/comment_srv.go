package usecase

import (
	"context"
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

type CommentService interface {
	List(ctx context.Context, titleID, reviewID string, req request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error)
	GetByID(ctx context.Context, titleID, reviewID, id string) (*response.CommentResponse, error)
	Create(ctx context.Context, titleID, reviewID string, req *request.CreateCommentRequest) (*response.CommentResponse, error)
	Update(ctx context.Context, titleID, reviewID, id string, req *request.UpdateCommentRequest) (*response.CommentResponse, error)
	Delete(ctx context.Context, titleID, reviewID, id string) error
}

type commentService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCommentService(repo *repository.Repository, log *zap.Logger) CommentService {
	return &commentService{
		repo: repo,
		log:  log.With(zap.String("service", "comment")),
	}
}

func (s *commentService) List(ctx context.Context, titleID, reviewID string, req request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error) {
	rid, err := resolveReview(ctx, s.repo, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	comments, err := s.repo.Comment.FindByReviewID(ctx, rid, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	total, err := s.repo.Comment.CountByReviewID(ctx, rid)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	return response.NewPaginatedResponse(response.CommentsToResponse(comments), req.Page, req.Limit(), total), nil
}

func (s *commentService) GetByID(ctx context.Context, titleID, reviewID, id string) (*response.CommentResponse, error) {
	comment, err := s.find(ctx, titleID, reviewID, id)
	if err != nil {
		return nil, err
	}

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) Create(ctx context.Context, titleID, reviewID string, req *request.CreateCommentRequest) (*response.CommentResponse, error) {
	actor := policy.ActorFromContext(ctx)
	if !actor.Authenticated() {
		return nil, utils.ErrUnauthorized
	}

	rid, err := resolveReview(ctx, s.repo, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := utils.Validate(req); err != nil {
		s.log.Warn("Create comment validation failed", zap.Error(err))
		return nil, err
	}

	comment := &entity.Comment{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		ReviewID:   rid,
		AuthorID:   actor.ID,
		Text:       req.Text,
	}

	if err := s.repo.Comment.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.log.Info("Comment created",
		zap.String("comment_id", comment.ID.String()),
		zap.String("review_id", rid.String()),
	)

	return s.GetByID(ctx, titleID, reviewID, comment.ID.String())
}

func (s *commentService) Update(ctx context.Context, titleID, reviewID, id string, req *request.UpdateCommentRequest) (*response.CommentResponse, error) {
	comment, err := s.find(ctx, titleID, reviewID, id)
	if err != nil {
		return nil, err
	}

	if err := policy.Content.Authorize(policy.ActorFromContext(ctx), policy.ActionUpdate, comment); err != nil {
		return nil, err
	}

	if err := utils.Validate(req); err != nil {
		s.log.Warn("Update comment validation failed", zap.Error(err))
		return nil, err
	}

	if req.Text != nil {
		comment.Text = *req.Text
	}

	if err := s.repo.Comment.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}

	return s.GetByID(ctx, titleID, reviewID, id)
}

func (s *commentService) Delete(ctx context.Context, titleID, reviewID, id string) error {
	comment, err := s.find(ctx, titleID, reviewID, id)
	if err != nil {
		return err
	}

	if err := policy.Content.Authorize(policy.ActorFromContext(ctx), policy.ActionDelete, comment); err != nil {
		return err
	}

	if err := s.repo.Comment.Delete(ctx, comment.ID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	s.log.Info("Comment deleted", zap.String("comment_id", comment.ID.String()))
	return nil
}

func (s *commentService) find(ctx context.Context, titleID, reviewID, id string) (*entity.Comment, error) {
	rid, err := resolveReview(ctx, s.repo, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	commentID, err := parseID(id, "comment")
	if err != nil {
		return nil, err
	}

	comment, err := s.repo.Comment.FindByIDAndReview(ctx, commentID, rid)
	if err != nil {
		return nil, fmt.Errorf("find comment: %w", err)
	}
	if comment == nil {
		return nil, utils.NotFound("comment")
	}

	return comment, nil
}
