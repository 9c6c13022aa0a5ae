package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"buildpro/internal/project/model"
)

type TimelineNoteRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTimelineNoteRepository(db *pgxpool.Pool, logger *zap.Logger) *TimelineNoteRepository {
	return &TimelineNoteRepository{db: db, logger: logger}
}

func (r *TimelineNoteRepository) ListByProject(ctx context.Context, projectID int) ([]model.TimelineNote, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, project_id, note_date, COALESCE(title, ''), COALESCE(content, ''),
               COALESCE(created_by, 0), created_at, updated_at
        FROM timeline_notes
        WHERE project_id = $1
        ORDER BY note_date DESC, id DESC
    `, projectID)
	if err != nil {
		r.logger.Error("Failed to list timeline notes", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var notes []model.TimelineNote
	for rows.Next() {
		var n model.TimelineNote
		if err := rows.Scan(
			&n.ID,
			&n.ProjectID,
			&n.NoteDate,
			&n.Title,
			&n.Content,
			&n.CreatedBy,
			&n.CreatedAt,
			&n.UpdatedAt,
		); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}

	return notes, rows.Err()
}

func (r *TimelineNoteRepository) Insert(ctx context.Context, n *model.TimelineNote) (int, error) {
	var id int
	err := r.db.QueryRow(ctx, `
        INSERT INTO timeline_notes (project_id, note_date, title, content, created_by)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `, n.ProjectID, n.NoteDate, n.Title, n.Content, n.CreatedBy).Scan(&id)

	if err != nil {
		r.logger.Error("Failed to insert timeline note", zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (r *TimelineNoteRepository) Update(ctx context.Context, n *model.TimelineNote) (bool, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE timeline_notes
        SET note_date = $2, title = $3, content = $4, updated_at = NOW()
        WHERE id = $1
    `, n.ID, n.NoteDate, n.Title, n.Content)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *TimelineNoteRepository) Delete(ctx context.Context, id int) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM timeline_notes WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
