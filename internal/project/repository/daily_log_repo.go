package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"buildpro/internal/project/model"
)

type DailyLogRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewDailyLogRepository(db *pgxpool.Pool, logger *zap.Logger) *DailyLogRepository {
	return &DailyLogRepository{db: db, logger: logger}
}

const dailyLogColumns = `
	id, project_id, log_date, COALESCE(activity, ''), progress_added,
	COALESCE(weather, ''), COALESCE(worker_count, 0), COALESCE(notes, ''),
	created_at, updated_at
`

func scanDailyLog(row pgx.Row) (*model.DailyLog, error) {
	var l model.DailyLog
	if err := row.Scan(
		&l.ID,
		&l.ProjectID,
		&l.LogDate,
		&l.Activity,
		&l.ProgressAdded,
		&l.Weather,
		&l.WorkerCount,
		&l.Notes,
		&l.CreatedAt,
		&l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *DailyLogRepository) ListByProject(ctx context.Context, projectID int) ([]model.DailyLog, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+dailyLogColumns+`
        FROM daily_logs
        WHERE project_id = $1
        ORDER BY log_date DESC, id DESC
    `, projectID)
	if err != nil {
		r.logger.Error("Failed to list daily logs", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var logs []model.DailyLog
	for rows.Next() {
		l, err := scanDailyLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *l)
	}

	return logs, rows.Err()
}

func (r *DailyLogRepository) FindByID(ctx context.Context, id int) (*model.DailyLog, error) {
	l, err := scanDailyLog(r.db.QueryRow(ctx, `
        SELECT `+dailyLogColumns+`
        FROM daily_logs
        WHERE id = $1
    `, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return l, nil
}

func (r *DailyLogRepository) Insert(ctx context.Context, l *model.DailyLog) (int, error) {
	var id int
	err := r.db.QueryRow(ctx, `
        INSERT INTO daily_logs (project_id, log_date, activity, progress_added, weather, worker_count, notes)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `,
		l.ProjectID,
		l.LogDate,
		l.Activity,
		l.ProgressAdded,
		l.Weather,
		l.WorkerCount,
		l.Notes,
	).Scan(&id)

	if err != nil {
		r.logger.Error("Failed to insert daily log", zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (r *DailyLogRepository) Update(ctx context.Context, l *model.DailyLog) (bool, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE daily_logs
        SET log_date = $2, activity = $3, progress_added = $4,
            weather = $5, worker_count = $6, notes = $7, updated_at = NOW()
        WHERE id = $1
    `,
		l.ID,
		l.LogDate,
		l.Activity,
		l.ProgressAdded,
		l.Weather,
		l.WorkerCount,
		l.Notes,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *DailyLogRepository) Delete(ctx context.Context, id int) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM daily_logs WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// SumProgress 汇总一个项目所有日报的进度增量
func (r *DailyLogRepository) SumProgress(ctx context.Context, projectID int) (float64, error) {
	var sum float64
	err := r.db.QueryRow(ctx, `
        SELECT COALESCE(SUM(progress_added), 0)
        FROM daily_logs
        WHERE project_id = $1
    `, projectID).Scan(&sum)
	if err != nil {
		r.logger.Error("Failed to sum daily log progress", zap.Error(err))
		return 0, err
	}
	return sum, nil
}
