package usecase

import (
	"time"

	"catalog-api/internal/data/repository"
	"catalog-api/pkg/mailer"
	"catalog-api/pkg/token"
	"catalog-api/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth     AuthService
	User     UserService
	Category CategoryService
	Genre    GenreService
	Title    TitleService
	Review   ReviewService
	Comment  CommentService
}

// AuthConfig configures the email confirmation flow.
type AuthConfig struct {
	From       string
	Subject    string
	CodeLabel  string
	CodeTTL    time.Duration
	CodeLength int
}

func NewAuthConfig(config *utils.Config) AuthConfig {
	return AuthConfig{
		From:       config.Email.From,
		Subject:    config.Email.Subject,
		CodeLabel:  config.Email.CodeLabel,
		CodeTTL:    time.Duration(config.Code.ExpiryMinutes) * time.Minute,
		CodeLength: config.Code.Length,
	}
}

func NewService(
	repo *repository.Repository,
	tokens *token.Manager,
	sender mailer.Sender,
	authConfig AuthConfig,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:     NewAuthService(repo, tokens, sender, authConfig, log),
		User:     NewUserService(repo.User, log),
		Category: NewCategoryService(repo.Category, log),
		Genre:    NewGenreService(repo.Genre, log),
		Title:    NewTitleService(repo, log),
		Review:   NewReviewService(repo, log),
		Comment:  NewCommentService(repo, log),
	}
}
