package usecase

import (
	"context"
	"fmt"
	"time"

	"catalog-api/internal/data/entity"
	"catalog-api/internal/data/repository"
	"catalog-api/internal/dto/request"
	"catalog-api/internal/dto/response"
	"catalog-api/pkg/utils"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type TitleService interface {
	List(ctx context.Context, query request.TitleQuery) (*response.PaginatedResponse[response.TitleResponse], error)
	GetByID(ctx context.Context, id string) (*response.TitleResponse, error)
	Create(ctx context.Context, req *request.TitleRequest) (*response.TitleResponse, error)
	Update(ctx context.Context, id string, req *request.TitleUpdateRequest) (*response.TitleResponse, error)
	Delete(ctx context.Context, id string) error
}

type titleService struct {
	titles     repository.TitleRepository
	genres     repository.GenreRepository
	categories repository.CategoryRepository
	log        *zap.Logger
}

func NewTitleService(repo *repository.Repository, log *zap.Logger) TitleService {
	return &titleService{
		titles:     repo.Title,
		genres:     repo.Genre,
		categories: repo.Category,
		log:        log.With(zap.String("service", "title")),
	}
}

func (s *titleService) List(ctx context.Context, query request.TitleQuery) (*response.PaginatedResponse[response.TitleResponse], error) {
	titles, err := s.titles.FindAll(ctx, query.TitleFilter, query.Limit(), query.Offset())
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}

	total, err := s.titles.CountAll(ctx, query.TitleFilter)
	if err != nil {
		return nil, fmt.Errorf("count titles: %w", err)
	}

	return response.NewPaginatedResponse(response.TitlesToResponse(titles), query.Page, query.Limit(), total), nil
}

func (s *titleService) GetByID(ctx context.Context, id string) (*response.TitleResponse, error) {
	title, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := response.TitleToResponse(title)
	return &resp, nil
}

func (s *titleService) Create(ctx context.Context, req *request.TitleRequest) (*response.TitleResponse, error) {
	if err := utils.Validate(req); err != nil {
		s.log.Warn("Create title validation failed", zap.Error(err))
		return nil, err
	}

	genreIDs, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	title := &entity.Title{
		Base:        entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
	}

	if req.Category != nil {
		categoryID, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &categoryID
	}

	if err := s.titles.Create(ctx, title, genreIDs); err != nil {
		return nil, fmt.Errorf("create title: %w", err)
	}

	s.log.Info("Title created", zap.String("title_id", title.ID.String()), zap.Int("genres", len(genreIDs)))

	return s.GetByID(ctx, title.ID.String())
}

func (s *titleService) Update(ctx context.Context, id string, req *request.TitleUpdateRequest) (*response.TitleResponse, error) {
	if err := utils.Validate(req); err != nil {
		s.log.Warn("Update title validation failed", zap.Error(err))
		return nil, err
	}

	title, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = req.Description
	}
	if req.Category.Set {
		title.CategoryID = nil
		if req.Category.Value != nil {
			categoryID, err := s.resolveCategory(ctx, *req.Category.Value)
			if err != nil {
				return nil, err
			}
			title.CategoryID = &categoryID
		}
	}

	var genreIDs []uuid.UUID
	if req.Genre != nil {
		genreIDs, err = s.resolveGenres(ctx, *req.Genre)
		if err != nil {
			return nil, err
		}
		// an explicit empty list clears the genres
		if genreIDs == nil {
			genreIDs = []uuid.UUID{}
		}
	}

	title.UpdatedAt = time.Now()
	if err := s.titles.Update(ctx, title, genreIDs); err != nil {
		return nil, fmt.Errorf("update title: %w", err)
	}

	s.log.Info("Title updated", zap.String("title_id", title.ID.String()))

	return s.GetByID(ctx, title.ID.String())
}

func (s *titleService) Delete(ctx context.Context, id string) error {
	titleID, err := parseID(id, "title")
	if err != nil {
		return err
	}

	if err := s.titles.Delete(ctx, titleID); err != nil {
		return err
	}

	s.log.Info("Title deleted", zap.String("title_id", id))
	return nil
}

func (s *titleService) find(ctx context.Context, id string) (*entity.Title, error) {
	titleID, err := parseID(id, "title")
	if err != nil {
		return nil, err
	}

	title, err := s.titles.FindByID(ctx, titleID)
	if err != nil {
		return nil, fmt.Errorf("find title: %w", err)
	}
	if title == nil {
		return nil, utils.NotFound("title")
	}

	return title, nil
}

// resolveGenres maps slugs to ids; every slug must name an existing genre.
func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]uuid.UUID, error) {
	slugs = lo.Uniq(slugs)
	if len(slugs) == 0 {
		return nil, nil
	}

	genres, err := s.genres.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, fmt.Errorf("find genres: %w", err)
	}

	known := lo.Map(genres, func(g *entity.Genre, _ int) string { return g.Slug })
	if missing, _ := lo.Difference(slugs, known); len(missing) > 0 {
		return nil, utils.NewValidationError("genre", fmt.Sprintf("unknown genre slug %q", missing[0]))
	}

	return lo.Map(genres, func(g *entity.Genre, _ int) uuid.UUID { return g.ID }), nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug string) (uuid.UUID, error) {
	category, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		return uuid.Nil, fmt.Errorf("find category: %w", err)
	}
	if category == nil {
		return uuid.Nil, utils.NewValidationError("category", fmt.Sprintf("unknown category slug %q", slug))
	}
	return category.ID, nil
}
