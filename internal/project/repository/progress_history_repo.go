package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"buildpro/internal/project/model"
)

type ProgressHistoryRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProgressHistoryRepository(db *pgxpool.Pool, logger *zap.Logger) *ProgressHistoryRepository {
	return &ProgressHistoryRepository{db: db, logger: logger}
}

func (r *ProgressHistoryRepository) ListByProject(ctx context.Context, projectID int) ([]model.ProgressHistory, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, project_id, record_date, planned_progress, actual_progress,
               COALESCE(notes, ''), created_at, updated_at
        FROM progress_history
        WHERE project_id = $1
        ORDER BY record_date ASC
    `, projectID)
	if err != nil {
		r.logger.Error("Failed to list progress history", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var history []model.ProgressHistory
	for rows.Next() {
		var h model.ProgressHistory
		if err := rows.Scan(
			&h.ID,
			&h.ProjectID,
			&h.RecordDate,
			&h.PlannedProgress,
			&h.ActualProgress,
			&h.Notes,
			&h.CreatedAt,
			&h.UpdatedAt,
		); err != nil {
			return nil, err
		}
		history = append(history, h)
	}

	return history, rows.Err()
}

// Upsert 按 (project_id, record_date) 唯一写入一天的计划/实际进度
func (r *ProgressHistoryRepository) Upsert(ctx context.Context, projectID int, recordDate time.Time, planned, actual float64, notes string) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO progress_history (project_id, record_date, planned_progress, actual_progress, notes)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (project_id, record_date)
        DO UPDATE SET planned_progress = EXCLUDED.planned_progress,
                      actual_progress = EXCLUDED.actual_progress,
                      notes = EXCLUDED.notes,
                      updated_at = NOW()
    `, projectID, recordDate, planned, actual, notes)
	if err != nil {
		r.logger.Error("Failed to upsert progress history", zap.Error(err))
	}
	return err
}
