package user

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kanworks/kanapi/internal/api/auth"
	"github.com/kanworks/kanapi/internal/types"
)

var ErrInvalidInput = errors.New("invalid user input")

var _ UserService = (*UserServiceImpl)(nil)

// UserService owns user registration. Plaintext passwords never reach the
// repository; they are hashed here.
type UserService interface {
	CreateUser(ctx context.Context, params types.CreateUserParams) (*types.User, error)
}

type UserServiceImpl struct {
	logger *slog.Logger
	repo   UserRepo
	hasher auth.PasswordHasher
}

func NewUserService(repo UserRepo, hasher auth.PasswordHasher, logger *slog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		logger: logger,
		repo:   repo,
		hasher: hasher,
	}
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, params types.CreateUserParams) (*types.User, error) {
	if params.Username == "" || params.Email == "" || params.Password == "" {
		return nil, ErrInvalidInput
	}

	passwordHash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, params, passwordHash)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "User created",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)
	return user, nil
}
