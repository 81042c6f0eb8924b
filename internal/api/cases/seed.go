package cases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/kanworks/kanapi/internal/types"
)

const demoCaseCount = 20

// SeedDemoData populates the case table with generated demo records so a
// fresh development instance has something to show. It is a no-op when any
// cases already exist.
func SeedDemoData(ctx context.Context, repo CaseRepo, logger *slog.Logger) error {
	count, err := repo.CountCases(ctx)
	if err != nil {
		return fmt.Errorf("seed demo data: %w", err)
	}
	if count > 0 {
		logger.DebugContext(ctx, "Case table not empty, skipping demo seed", slog.Int("existing", count))
		return nil
	}

	for i := 0; i < demoCaseCount; i++ {
		title := gofakeit.Sentence(4)
		c, err := repo.CreateCase(ctx, types.CreateCaseParams{
			ResponsiblePerson: gofakeit.Name(),
			Status:            gofakeit.RandomString(types.CaseStatuses),
			Customer:          gofakeit.Company(),
			Title:             &title,
		})
		if err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
		// Roughly one in five demo cases starts out soft-deleted.
		if gofakeit.Number(1, 100) <= 20 {
			if err := repo.SoftDeleteCase(ctx, c.ID); err != nil {
				return fmt.Errorf("seed demo data: %w", err)
			}
		}
	}

	logger.InfoContext(ctx, "Seeded demo cases", slog.Int("count", demoCaseCount))
	return nil
}
