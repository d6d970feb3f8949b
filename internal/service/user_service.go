package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jengzang/filmday-backend-go/internal/auth"
	"github.com/jengzang/filmday-backend-go/internal/logging"
	"github.com/jengzang/filmday-backend-go/internal/models"
	"github.com/jengzang/filmday-backend-go/internal/repository"
)

// UserService handles accounts and logins
type UserService struct {
	repo *repository.UserRepository
	jwt  *auth.JWTManager
}

// NewUserService creates a new user service
func NewUserService(repo *repository.UserRepository, jwt *auth.JWTManager) *UserService {
	return &UserService{repo: repo, jwt: jwt}
}

// Login checks the credentials and issues a session token. Unknown users
// and wrong passwords both yield ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := auth.CheckPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		logging.Warn().Str("username", user.Username).Msg("failed login")
		return nil, models.ErrInvalidCredentials
	}

	token, expires, err := s.jwt.GenerateToken(user.ID, user.Username, user.Name)
	if err != nil {
		return nil, err
	}
	logging.Info().Str("username", user.Username).Msg("user logged in")
	return &models.LoginResponse{Token: token, ExpiresAt: expires, Name: user.Name}, nil
}

// CreateUser registers an account
func (s *UserService) CreateUser(ctx context.Context, username, name, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, models.NewValidationError("username", "is required")
	}
	if name == "" {
		name = username
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return s.repo.CreateUser(ctx, username, name, hash)
}

// Me returns the account behind a session
func (s *UserService) Me(ctx context.Context, userID int64) (*models.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}
