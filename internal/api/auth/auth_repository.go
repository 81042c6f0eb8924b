package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/kanworks/kanapi/app/observability/metrics"
	"github.com/kanworks/kanapi/internal/api"
	"github.com/kanworks/kanapi/internal/types"
)

// IdentifierKind selects which unique column a user lookup matches against.
type IdentifierKind string

const (
	ByUsername IdentifierKind = "username"
	ByEmail    IdentifierKind = "email"
)

// UserStore is the persistence collaborator the auth core reads from. It is
// strictly read-only here; user mutation lives in the user package.
// FindUserBy returns types.ErrNotFound when no record matches; any other
// error is an infrastructure fault, not an authentication outcome.
type UserStore interface {
	FindUserBy(ctx context.Context, kind IdentifierKind, value string) (*types.User, error)
}

var _ UserStore = (*PostgresUserStore)(nil)

// PostgresUserStore reads user records from Postgres.
type PostgresUserStore struct {
	logger *slog.Logger
	db     api.Connection
}

func NewPostgresUserStore(db api.Connection, logger *slog.Logger) *PostgresUserStore {
	return &PostgresUserStore{
		logger: logger,
		db:     db,
	}
}

func (s *PostgresUserStore) FindUserBy(ctx context.Context, kind IdentifierKind, value string) (*types.User, error) {
	ctx, span := otel.Tracer("kanapi/auth").Start(ctx, "PostgresUserStore.FindUserBy")
	defer span.End()
	span.SetAttributes(attribute.String("user.identifier_kind", string(kind)))

	var query string
	switch kind {
	case ByUsername:
		query = `SELECT id, username, email, full_name, password_hash, is_active, created_at, updated_at
                 FROM users WHERE username = $1`
	case ByEmail:
		query = `SELECT id, username, email, full_name, password_hash, is_active, created_at, updated_at
                 FROM users WHERE email = $1`
	default:
		return nil, fmt.Errorf("unsupported identifier kind %q", kind)
	}

	var user types.User
	err := s.db.QueryRow(ctx, query, value).Scan(
		&user.ID, &user.Username, &user.Email, &user.FullName,
		&user.PasswordHash, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "user lookup failed")
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("find user by %s: query failed: %w", kind, err)
	}

	return &user, nil
}
