package cases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/kanworks/kanapi/internal/types"
)

var ErrInvalidStatus = errors.New("invalid case status")

var _ CaseService = (*CaseServiceImpl)(nil)

// CaseService validates and dispatches case operations to the repository.
type CaseService interface {
	GetCase(ctx context.Context, id string) (*types.Case, error)
	ListCases(ctx context.Context) ([]types.Case, error)
	CreateCase(ctx context.Context, params types.CreateCaseParams) (*types.Case, error)
	UpdateCase(ctx context.Context, id string, params types.UpdateCaseParams) error
	DeleteCase(ctx context.Context, id string) error
}

type CaseServiceImpl struct {
	logger *slog.Logger
	repo   CaseRepo
}

func NewCaseService(repo CaseRepo, logger *slog.Logger) *CaseServiceImpl {
	return &CaseServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *CaseServiceImpl) GetCase(ctx context.Context, id string) (*types.Case, error) {
	return s.repo.GetCase(ctx, id)
}

func (s *CaseServiceImpl) ListCases(ctx context.Context) ([]types.Case, error) {
	return s.repo.ListCases(ctx)
}

func (s *CaseServiceImpl) CreateCase(ctx context.Context, params types.CreateCaseParams) (*types.Case, error) {
	if !slices.Contains(types.CaseStatuses, params.Status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, params.Status)
	}
	return s.repo.CreateCase(ctx, params)
}

func (s *CaseServiceImpl) UpdateCase(ctx context.Context, id string, params types.UpdateCaseParams) error {
	if params.Status != nil && !slices.Contains(types.CaseStatuses, *params.Status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, *params.Status)
	}
	return s.repo.UpdateCase(ctx, id, params)
}

func (s *CaseServiceImpl) DeleteCase(ctx context.Context, id string) error {
	return s.repo.SoftDeleteCase(ctx, id)
}
