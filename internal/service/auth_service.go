package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"farm-service/internal/auth"
	"farm-service/internal/model"
	"farm-service/internal/repository"
)

type AuthService struct {
	users  *repository.UserRepository
	hasher *auth.PasswordHasher
	issuer *auth.Issuer
	log    zerolog.Logger
}

func NewAuthService(users *repository.UserRepository, hasher *auth.PasswordHasher, issuer *auth.Issuer, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, issuer: issuer, log: log}
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, invalidInput("username is required")
	}

	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrConflict
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			return nil, invalidInput("%v", err)
		}
		return nil, err
	}

	user := &model.User{Username: username, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Uint("user_id", user.ID).Str("username", username).Msg("user registered")
	return user, nil
}

// Login checks the credentials and issues an access and refresh token.
func (s *AuthService) Login(ctx context.Context, username, password string) (auth.TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return auth.TokenPair{}, ErrUnauthorized
		}
		return auth.TokenPair{}, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return auth.TokenPair{}, ErrUnauthorized
	}
	return s.issuer.IssuePair(user.ID, user.Username)
}

func (s *AuthService) Refresh(refreshToken string) (string, error) {
	access, err := s.issuer.Refresh(refreshToken)
	if err != nil {
		s.log.Debug().Err(err).Msg("refresh rejected")
		return "", ErrUnauthorized
	}
	return access, nil
}
