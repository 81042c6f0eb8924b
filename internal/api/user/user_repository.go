package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/kanworks/kanapi/app/observability/metrics"
	"github.com/kanworks/kanapi/internal/api"
	"github.com/kanworks/kanapi/internal/types"
)

var _ UserRepo = (*PostgresUserRepo)(nil)

// UserRepo defines the contract for user data persistence.
type UserRepo interface {
	// CreateUser inserts a new user record. Returns types.ErrConflict when
	// the username or email is already taken.
	CreateUser(ctx context.Context, params types.CreateUserParams, passwordHash string) (*types.User, error)
}

type PostgresUserRepo struct {
	logger *slog.Logger
	db     api.Connection
}

func NewPostgresUserRepo(db api.Connection, logger *slog.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{
		logger: logger,
		db:     db,
	}
}

func (r *PostgresUserRepo) CreateUser(ctx context.Context, params types.CreateUserParams, passwordHash string) (*types.User, error) {
	ctx, span := otel.Tracer("kanapi/user").Start(ctx, "PostgresUserRepo.CreateUser")
	defer span.End()

	user := types.User{
		ID:           uuid.NewString(),
		Username:     params.Username,
		Email:        params.Email,
		FullName:     params.FullName,
		PasswordHash: passwordHash,
		IsActive:     true,
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO users (id, username, email, full_name, password_hash, is_active)
         VALUES ($1, $2, $3, $4, $5, $6)
         RETURNING created_at, updated_at`,
		user.ID, user.Username, user.Email, user.FullName, user.PasswordHash, user.IsActive,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, types.ErrConflict
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "user insert failed")
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("create user: db insert failed: %w", err)
	}

	return &user, nil
}
