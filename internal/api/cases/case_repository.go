package cases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/kanworks/kanapi/app/observability/metrics"
	"github.com/kanworks/kanapi/internal/api"
	"github.com/kanworks/kanapi/internal/types"
)

var _ CaseRepo = (*PostgresCaseRepo)(nil)

// CaseRepo defines the contract for case persistence.
type CaseRepo interface {
	// GetCase retrieves a case by ID. Returns types.ErrNotFound when absent
	// or soft-deleted.
	GetCase(ctx context.Context, id string) (*types.Case, error)
	ListCases(ctx context.Context) ([]types.Case, error)
	CreateCase(ctx context.Context, params types.CreateCaseParams) (*types.Case, error)
	// UpdateCase applies a partial update. Returns types.ErrNotFound when the
	// case does not exist or is soft-deleted.
	UpdateCase(ctx context.Context, id string, params types.UpdateCaseParams) error
	// SoftDeleteCase flags a case as deleted without removing the row.
	SoftDeleteCase(ctx context.Context, id string) error
	CountCases(ctx context.Context) (int, error)
}

type PostgresCaseRepo struct {
	logger *slog.Logger
	db     api.Connection
}

func NewPostgresCaseRepo(db api.Connection, logger *slog.Logger) *PostgresCaseRepo {
	return &PostgresCaseRepo{
		logger: logger,
		db:     db,
	}
}

func (r *PostgresCaseRepo) GetCase(ctx context.Context, id string) (*types.Case, error) {
	ctx, span := otel.Tracer("kanapi/cases").Start(ctx, "PostgresCaseRepo.GetCase")
	defer span.End()

	var c types.Case
	err := r.db.QueryRow(ctx,
		`SELECT id, deleted, responsible_person, status, customer, created_at, title
         FROM cases WHERE id = $1 AND NOT deleted`,
		id).Scan(&c.ID, &c.Deleted, &c.ResponsiblePerson, &c.Status, &c.Customer, &c.CreatedAt, &c.Title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "case lookup failed")
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("get case: query failed: %w", err)
	}
	return &c, nil
}

func (r *PostgresCaseRepo) ListCases(ctx context.Context) ([]types.Case, error) {
	ctx, span := otel.Tracer("kanapi/cases").Start(ctx, "PostgresCaseRepo.ListCases")
	defer span.End()

	rows, err := r.db.Query(ctx,
		`SELECT id, deleted, responsible_person, status, customer, created_at, title
         FROM cases WHERE NOT deleted ORDER BY created_at DESC`)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "case list failed")
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("list cases: query failed: %w", err)
	}
	defer rows.Close()

	var result []types.Case
	for rows.Next() {
		var c types.Case
		if err := rows.Scan(&c.ID, &c.Deleted, &c.ResponsiblePerson, &c.Status, &c.Customer, &c.CreatedAt, &c.Title); err != nil {
			return nil, fmt.Errorf("list cases: scan failed: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cases: rows failed: %w", err)
	}
	return result, nil
}

func (r *PostgresCaseRepo) CreateCase(ctx context.Context, params types.CreateCaseParams) (*types.Case, error) {
	ctx, span := otel.Tracer("kanapi/cases").Start(ctx, "PostgresCaseRepo.CreateCase")
	defer span.End()

	c := types.Case{
		ID:                uuid.NewString(),
		ResponsiblePerson: params.ResponsiblePerson,
		Status:            params.Status,
		Customer:          params.Customer,
		Title:             params.Title,
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO cases (id, responsible_person, status, customer, title)
         VALUES ($1, $2, $3, $4, $5)
         RETURNING created_at`,
		c.ID, c.ResponsiblePerson, c.Status, c.Customer, c.Title,
	).Scan(&c.CreatedAt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "case insert failed")
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("create case: db insert failed: %w", err)
	}
	return &c, nil
}

func (r *PostgresCaseRepo) UpdateCase(ctx context.Context, id string, params types.UpdateCaseParams) error {
	ctx, span := otel.Tracer("kanapi/cases").Start(ctx, "PostgresCaseRepo.UpdateCase")
	defer span.End()

	tag, err := r.db.Exec(ctx,
		`UPDATE cases SET
            responsible_person = COALESCE($2, responsible_person),
            status             = COALESCE($3, status),
            customer           = COALESCE($4, customer),
            title              = COALESCE($5, title),
            updated_at         = now()
         WHERE id = $1 AND NOT deleted`,
		id, params.ResponsiblePerson, params.Status, params.Customer, params.Title)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "case update failed")
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return fmt.Errorf("update case: db update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (r *PostgresCaseRepo) SoftDeleteCase(ctx context.Context, id string) error {
	ctx, span := otel.Tracer("kanapi/cases").Start(ctx, "PostgresCaseRepo.SoftDeleteCase")
	defer span.End()

	tag, err := r.db.Exec(ctx,
		`UPDATE cases SET deleted = TRUE, updated_at = now() WHERE id = $1 AND NOT deleted`,
		id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "case delete failed")
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return fmt.Errorf("delete case: db update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (r *PostgresCaseRepo) CountCases(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM cases`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count cases: query failed: %w", err)
	}
	return count, nil
}
