package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"blog-backend/internal/domains/user"
	"blog-backend/pkg/jwt"
)

type userService struct {
	repo       user.Repository
	jwtManager *jwt.Manager
	bcryptCost int
	now        func() time.Time
}

func NewUserService(repo user.Repository, jwtManager *jwt.Manager) user.Service {
	return &userService{
		repo:       repo,
		jwtManager: jwtManager,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

func (s *userService) Signup(ctx context.Context, req user.SignupRequest) (*user.UserDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	newUser := &user.User{
		ID:           uuid.New(),
		Username:     req.Username,
		PasswordHash: string(passwordHash),
		CreatedAt:    s.now().UTC(),
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	log.Info().Str("user_id", newUser.ID.String()).Str("username", newUser.Username).Msg("User signed up")

	dto := newUser.ToDTO()
	return &dto, nil
}

func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindCredentials(ctx, req.Username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateAccessToken(u.ID.String(), u.Username)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	return &user.LoginResponse{
		AccessToken: token,
		ExpiresAt:   s.now().Add(s.jwtManager.AccessTTL()),
		User:        u.ToDTO(),
	}, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return s.repo.FindByUsername(ctx, username)
}

func (s *userService) DeleteByUsername(ctx context.Context, username string) error {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, u.ID); err != nil {
		return fmt.Errorf("delete user %s: %w", username, err)
	}

	log.Info().Str("username", username).Msg("User deleted")
	return nil
}
