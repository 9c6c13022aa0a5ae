package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProjectBudgetRepository 只读 projects.budget，付款服务不拥有 projects 表
type ProjectBudgetRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProjectBudgetRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectBudgetRepository {
	return &ProjectBudgetRepository{
		db:     db,
		logger: logger,
	}
}

// GetBudget returns the project's budget; found is false when the project
// does not exist.
func (r *ProjectBudgetRepository) GetBudget(ctx context.Context, projectID int) (decimal.Decimal, bool, error) {
	var budget string
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(budget, 0)::text FROM projects WHERE id = $1`,
		projectID,
	).Scan(&budget)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, false, nil
		}
		r.logger.Error("Failed to get project budget", zap.Error(err))
		return decimal.Zero, false, err
	}

	dec, err := decimal.NewFromString(budget)
	if err != nil {
		return decimal.Zero, false, err
	}
	return dec, true, nil
}
