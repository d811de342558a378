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
	"catalog-api/pkg/mailer"
	"catalog-api/pkg/token"
	"catalog-api/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const invalidCodeMessage = "Invalid confirmation code"

type AuthService interface {
	// RequestCode emails a confirmation code, creating the account on first use.
	RequestCode(ctx context.Context, req *request.RequestCodeRequest) (*response.CodeSentResponse, error)
	// ExchangeCode trades a valid confirmation code for a token pair.
	ExchangeCode(ctx context.Context, req *request.TokenRequest) (*response.TokenResponse, error)
	Refresh(ctx context.Context, req *request.RefreshRequest) (*response.TokenResponse, error)
}

type authService struct {
	repo   *repository.Repository // grouping userRepo & confirmationCodeRepo
	tokens *token.Manager
	sender mailer.Sender
	config AuthConfig
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	tokens *token.Manager,
	sender mailer.Sender,
	config AuthConfig,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		tokens: tokens,
		sender: sender,
		config: config,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) RequestCode(ctx context.Context, req *request.RequestCodeRequest) (*response.CodeSentResponse, error) {
	// 1. Validate input
	if err := utils.Validate(req); err != nil {
		s.log.Warn("Request code validation failed", zap.Error(err))
		return nil, err
	}

	// 2. Find or create the account
	user, err := s.findOrCreateUser(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	// 3. Older codes stop working once a new one is issued
	if err := s.repo.ConfirmationCode.InvalidateForUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("invalidate codes: %w", err)
	}

	// 4. Generate and store the hashed code bound to the account state
	plain, err := utils.GenerateCode(s.config.CodeLength)
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}

	hash, err := utils.HashSecret(plain)
	if err != nil {
		return nil, fmt.Errorf("hash code: %w", err)
	}

	now := time.Now()
	code := &entity.ConfirmationCode{
		BaseSimple:  entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
		UserID:      user.ID,
		CodeHash:    hash,
		Fingerprint: user.Fingerprint(),
		ExpiresAt:   now.Add(s.config.CodeTTL),
	}
	if err := s.repo.ConfirmationCode.Create(ctx, code); err != nil {
		return nil, fmt.Errorf("store code: %w", err)
	}

	// 5. Deliver
	msg := mailer.Message{
		From:    s.config.From,
		To:      []string{user.Email},
		Subject: s.config.Subject,
		Body:    fmt.Sprintf("%s: %s", s.config.CodeLabel, plain),
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		s.log.Error("Failed to send confirmation code",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
		return nil, fmt.Errorf("send confirmation code: %w", err)
	}

	s.log.Info("Confirmation code sent", zap.String("user_id", user.ID.String()))

	return &response.CodeSentResponse{Email: user.Email}, nil
}

func (s *authService) ExchangeCode(ctx context.Context, req *request.TokenRequest) (*response.TokenResponse, error) {
	// 1. Validate input
	if err := utils.Validate(req); err != nil {
		s.log.Warn("Token request validation failed", zap.Error(err))
		return nil, err
	}

	// 2. Find user
	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, utils.NotFound("user")
	}

	// 3. Match the latest code against hash and account state
	code, err := s.repo.ConfirmationCode.FindLatestValid(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("find code: %w", err)
	}
	if code == nil || !utils.CheckSecret(code.CodeHash, req.ConfirmationCode) || code.Fingerprint != user.Fingerprint() {
		s.log.Warn("Invalid confirmation code", zap.String("user_id", user.ID.String()))
		return nil, utils.NewValidationError("confirmation_code", invalidCodeMessage)
	}

	// 4. Consume it; a concurrent exchange may have won
	used, err := s.repo.ConfirmationCode.MarkAsUsed(ctx, code.ID)
	if err != nil {
		return nil, fmt.Errorf("consume code: %w", err)
	}
	if !used {
		return nil, utils.NewValidationError("confirmation_code", invalidCodeMessage)
	}

	// 5. A login changes the fingerprint, so no other code survives it
	if err := s.repo.User.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}

	// 6. Issue tokens
	pair, err := s.tokens.IssuePair(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))

	return &response.TokenResponse{Token: pair.Access, Refresh: pair.Refresh}, nil
}

func (s *authService) Refresh(ctx context.Context, req *request.RefreshRequest) (*response.TokenResponse, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	claims, err := s.tokens.Validate(req.Refresh, token.KindRefresh)
	if err != nil {
		s.log.Debug("Refresh token rejected", zap.Error(err))
		return nil, utils.ErrUnauthorized
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, utils.ErrUnauthorized
	}

	// the role may have changed since the refresh token was issued
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, utils.ErrUnauthorized
	}

	access, err := s.tokens.IssueAccess(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &response.TokenResponse{Token: access}, nil
}

func (s *authService) findOrCreateUser(ctx context.Context, email string) (*entity.User, error) {
	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	now := time.Now()
	user = &entity.User{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username: email,
		Email:    email,
		Role:     entity.RoleUser,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, utils.ErrConflict) {
			return nil, utils.NewValidationError("email", "A user with that username already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("User registered by email", zap.String("user_id", user.ID.String()))

	// reload so the fingerprint uses stored timestamp precision
	user, err = s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}
	if user == nil {
		return nil, utils.NotFound("user")
	}
	return user, nil
}
