package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"bikeshare-backend/internal/domain"
	"bikeshare-backend/internal/logger"
	"bikeshare-backend/internal/repository"
	"bikeshare-backend/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)

type authService struct {
	store    repository.Store
	tokens   security.TokenManager
	emailSvc EmailService
}

func NewAuthService(store repository.Store, tokens security.TokenManager, emailSvc EmailService) AuthService {
	return &authService{
		store:    store,
		tokens:   tokens,
		emailSvc: emailSvc,
	}
}

// Signup registers a user and provisions an empty wallet in the same
// transaction.
func (s *authService) Signup(ctx context.Context, fullName, email, password string) (*domain.User, string, string, error) {
	existing, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		return nil, "", "", err
	}
	if existing != nil {
		return nil, "", "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}

	user := &domain.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
	}
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		_, err := tx.Wallets().CreateForUser(ctx, user.ID)
		return err
	})
	if err != nil {
		return nil, "", "", err
	}

	access, refresh, err := s.issueTokens(user)
	if err != nil {
		return nil, "", "", err
	}

	if merr := s.emailSvc.SendWelcome(user.Email, user.FullName); merr != nil {
		logger.ErrorContext(ctx, "could not send welcome email", "user_id", user.ID, "error", merr)
	}
	return user, access, refresh, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, string, error) {
	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		return "", "", err
	}
	if user == nil {
		return "", "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil {
		return "", "", err
	}
	if claims.Type != security.TokenTypeRefresh {
		return "", "", security.ErrWrongTokenType
	}

	user, err := s.store.Users().GetByID(ctx, claims.UserID)
	if err != nil {
		return "", "", err
	}
	if user == nil {
		return "", "", security.ErrInvalidToken
	}
	return s.issueTokens(user)
}

func (s *authService) issueTokens(user *domain.User) (string, string, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
