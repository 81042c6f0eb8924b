package cases

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanworks/kanapi/app/observability/metrics"
	"github.com/kanworks/kanapi/internal/types"
)

const testCaseID = "3e0c9d54-0000-0000-0000-000000000001"

func TestMain(m *testing.M) {
	metrics.InitAppMetrics()
	os.Exit(m.Run())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func caseColumns() []string {
	return []string{"id", "deleted", "responsible_person", "status", "customer", "created_at", "title"}
}

func TestPostgresCaseRepo_GetCase(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mockDB, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockDB.Close()

		title := "Invoice dispute"
		mockDB.ExpectQuery(`FROM cases WHERE id = \$1 AND NOT deleted`).
			WithArgs(testCaseID).
			WillReturnRows(pgxmock.NewRows(caseColumns()).
				AddRow(testCaseID, false, "Jane Doe", "open", "Acme Corp", time.Now(), &title))

		repo := NewPostgresCaseRepo(mockDB, discardLogger())
		c, err := repo.GetCase(ctx, testCaseID)
		require.NoError(t, err)
		assert.Equal(t, testCaseID, c.ID)
		assert.Equal(t, "open", c.Status)
		assert.Equal(t, "Acme Corp", c.Customer)
		require.NotNil(t, c.Title)
		assert.Equal(t, "Invoice dispute", *c.Title)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("absent or soft-deleted maps to ErrNotFound", func(t *testing.T) {
		mockDB, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockDB.Close()

		mockDB.ExpectQuery(`FROM cases WHERE id = \$1 AND NOT deleted`).
			WithArgs(testCaseID).
			WillReturnError(pgx.ErrNoRows)

		repo := NewPostgresCaseRepo(mockDB, discardLogger())
		_, err = repo.GetCase(ctx, testCaseID)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestPostgresCaseRepo_ListCases(t *testing.T) {
	ctx := context.Background()

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	mockDB.ExpectQuery(`FROM cases WHERE NOT deleted ORDER BY created_at DESC`).
		WillReturnRows(pgxmock.NewRows(caseColumns()).
			AddRow(testCaseID, false, "Jane Doe", "open", "Acme Corp", time.Now(), (*string)(nil)).
			AddRow("3e0c9d54-0000-0000-0000-000000000002", false, "John Smith", "pending", "Globex", time.Now(), (*string)(nil)))

	repo := NewPostgresCaseRepo(mockDB, discardLogger())
	list, err := repo.ListCases(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Jane Doe", list[0].ResponsiblePerson)
	assert.Equal(t, "pending", list[1].Status)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestPostgresCaseRepo_CreateCase(t *testing.T) {
	ctx := context.Background()

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	created := time.Now()
	mockDB.ExpectQuery(`INSERT INTO cases`).
		WithArgs(pgxmock.AnyArg(), "Jane Doe", "open", "Acme Corp", (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(created))

	repo := NewPostgresCaseRepo(mockDB, discardLogger())
	c, err := repo.CreateCase(ctx, types.CreateCaseParams{
		ResponsiblePerson: "Jane Doe",
		Status:            "open",
		Customer:          "Acme Corp",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.False(t, c.Deleted)
	assert.Equal(t, created, c.CreatedAt)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestPostgresCaseRepo_UpdateCase(t *testing.T) {
	ctx := context.Background()

	t.Run("updated", func(t *testing.T) {
		mockDB, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockDB.Close()

		status := "closed"
		mockDB.ExpectExec(`UPDATE cases SET`).
			WithArgs(testCaseID, (*string)(nil), &status, (*string)(nil), (*string)(nil)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := NewPostgresCaseRepo(mockDB, discardLogger())
		err = repo.UpdateCase(ctx, testCaseID, types.UpdateCaseParams{Status: &status})
		require.NoError(t, err)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("zero rows maps to ErrNotFound", func(t *testing.T) {
		mockDB, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockDB.Close()

		status := "closed"
		mockDB.ExpectExec(`UPDATE cases SET`).
			WithArgs(testCaseID, (*string)(nil), &status, (*string)(nil), (*string)(nil)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := NewPostgresCaseRepo(mockDB, discardLogger())
		err = repo.UpdateCase(ctx, testCaseID, types.UpdateCaseParams{Status: &status})
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestPostgresCaseRepo_SoftDeleteCase(t *testing.T) {
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		mockDB, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockDB.Close()

		mockDB.ExpectExec(`UPDATE cases SET deleted = TRUE`).
			WithArgs(testCaseID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := NewPostgresCaseRepo(mockDB, discardLogger())
		require.NoError(t, repo.SoftDeleteCase(ctx, testCaseID))
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("already deleted maps to ErrNotFound", func(t *testing.T) {
		mockDB, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockDB.Close()

		mockDB.ExpectExec(`UPDATE cases SET deleted = TRUE`).
			WithArgs(testCaseID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := NewPostgresCaseRepo(mockDB, discardLogger())
		err = repo.SoftDeleteCase(ctx, testCaseID)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestPostgresCaseRepo_CountCases(t *testing.T) {
	ctx := context.Background()

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	mockDB.ExpectQuery(`SELECT COUNT\(\*\) FROM cases`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(42))

	repo := NewPostgresCaseRepo(mockDB, discardLogger())
	count, err := repo.CountCases(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, count)
}

func TestPostgresCaseRepo_QueryError(t *testing.T) {
	ctx := context.Background()

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	mockDB.ExpectQuery(`FROM cases WHERE NOT deleted`).
		WillReturnError(errors.New("connection refused"))

	repo := NewPostgresCaseRepo(mockDB, discardLogger())
	_, err = repo.ListCases(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, types.ErrNotFound)
}
