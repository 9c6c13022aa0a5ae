package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"buildpro/contracts/mq"
	"buildpro/internal/project/model"
	"buildpro/pkg/outbox"
)

type ProjectRepository struct {
	db     *pgxpool.Pool
	outbox *outbox.Repository
	logger *zap.Logger
}

func NewProjectRepository(db *pgxpool.Pool, outboxRepo *outbox.Repository, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{
		db:     db,
		outbox: outboxRepo,
		logger: logger,
	}
}

const projectColumns = `
	id, name, COALESCE(description, ''), COALESCE(location, ''), COALESCE(client_name, ''),
	COALESCE(budget, 0)::text, start_date, end_date, progress, planned_progress,
	COALESCE(current_phase, ''), COALESCE(status, ''), created_at, updated_at
`

func scanProject(row pgx.Row) (*model.Project, error) {
	var p model.Project
	var budget string
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Location,
		&p.ClientName,
		&budget,
		&p.StartDate,
		&p.EndDate,
		&p.Progress,
		&p.PlannedProgress,
		&p.CurrentPhase,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	dec, err := decimal.NewFromString(budget)
	if err != nil {
		return nil, err
	}
	p.Budget = dec
	return &p, nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]model.Project, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+projectColumns+`
        FROM projects
        ORDER BY created_at DESC
    `)
	if err != nil {
		r.logger.Error("Failed to list projects", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}

	return projects, rows.Err()
}

func (r *ProjectRepository) FindByID(ctx context.Context, id int) (*model.Project, error) {
	p, err := scanProject(r.db.QueryRow(ctx, `
        SELECT `+projectColumns+`
        FROM projects
        WHERE id = $1
    `, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *ProjectRepository) Insert(ctx context.Context, p *model.Project) (int, error) {
	var id int
	err := r.db.QueryRow(ctx, `
        INSERT INTO projects (name, description, location, client_name, budget,
                              start_date, end_date, progress, planned_progress,
                              current_phase, status)
        VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9, $10, $11)
        RETURNING id
    `,
		p.Name,
		p.Description,
		p.Location,
		p.ClientName,
		p.Budget.String(),
		p.StartDate,
		p.EndDate,
		p.Progress,
		p.PlannedProgress,
		p.CurrentPhase,
		p.Status,
	).Scan(&id)

	if err != nil {
		r.logger.Error("Failed to insert project", zap.Error(err))
		return 0, err
	}

	r.logger.Info("Project created", zap.Int("id", id), zap.String("name", p.Name))
	return id, nil
}

// Update never touches progress: that column belongs to the recompute /
// override paths only.
func (r *ProjectRepository) Update(ctx context.Context, p *model.Project) (bool, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE projects
        SET name = $2, description = $3, location = $4, client_name = $5,
            budget = $6::numeric, start_date = $7, end_date = $8,
            planned_progress = $9, current_phase = $10, status = $11,
            updated_at = NOW()
        WHERE id = $1
    `,
		p.ID,
		p.Name,
		p.Description,
		p.Location,
		p.ClientName,
		p.Budget.String(),
		p.StartDate,
		p.EndDate,
		p.PlannedProgress,
		p.CurrentPhase,
		p.Status,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ApplyProgress writes a new progress value, upserts the daily history row
// and enqueues the PROGRESS_UPDATE event in a single transaction, so the
// event never exists without the progress write and vice versa.
// An empty phase keeps the current one.
func (r *ProjectRepository) ApplyProgress(
	ctx context.Context,
	projectID int,
	progress float64,
	phase string,
	recordDate time.Time,
	note string,
) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
        UPDATE projects
        SET progress = $2,
            current_phase = COALESCE(NULLIF($3, ''), current_phase),
            updated_at = NOW()
        WHERE id = $1
    `, projectID, progress, phase)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO progress_history (project_id, record_date, actual_progress, notes)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (project_id, record_date)
        DO UPDATE SET actual_progress = EXCLUDED.actual_progress,
                      notes = EXCLUDED.notes,
                      updated_at = NOW()
    `, projectID, recordDate, progress, note)
	if err != nil {
		return false, err
	}

	err = outbox.InsertEventInTx(ctx, tx, r.outbox, outbox.EventProgressUpdate, mq.ProgressUpdated{
		ProjectID: projectID,
		Progress:  progress,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}

	r.logger.Info("Project progress applied",
		zap.Int("project_id", projectID),
		zap.Float64("progress", progress),
	)
	return true, nil
}
