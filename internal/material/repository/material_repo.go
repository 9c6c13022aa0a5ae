package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"buildpro/internal/material/model"
	"buildpro/pkg/apperr"
)

type MaterialRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewMaterialRepository(db *pgxpool.Pool, logger *zap.Logger) *MaterialRepository {
	return &MaterialRepository{db: db, logger: logger}
}

const materialColumns = `
	id, name, COALESCE(unit, ''), stock, COALESCE(min_stock, 0), price::text,
	created_at, updated_at
`

func scanMaterial(row pgx.Row) (*model.Material, error) {
	var m model.Material
	var price string
	if err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Unit,
		&m.Stock,
		&m.MinStock,
		&price,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, err
	}

	dec, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	m.Price = dec
	return &m, nil
}

func (r *MaterialRepository) List(ctx context.Context) ([]model.Material, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+materialColumns+`
        FROM materials
        ORDER BY name ASC
    `)
	if err != nil {
		r.logger.Error("Failed to list materials", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var materials []model.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		materials = append(materials, *m)
	}
	return materials, rows.Err()
}

func (r *MaterialRepository) FindByID(ctx context.Context, id int) (*model.Material, error) {
	m, err := scanMaterial(r.db.QueryRow(ctx, `
        SELECT `+materialColumns+`
        FROM materials
        WHERE id = $1
    `, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

func (r *MaterialRepository) Insert(ctx context.Context, m *model.Material) (int, error) {
	var id int
	err := r.db.QueryRow(ctx, `
        INSERT INTO materials (name, unit, stock, min_stock, price)
        VALUES ($1, $2, $3, $4, $5::numeric)
        RETURNING id
    `, m.Name, m.Unit, m.Stock, m.MinStock, m.Price.String()).Scan(&id)

	if err != nil {
		r.logger.Error("Failed to insert material", zap.Error(err))
		return 0, err
	}
	return id, nil
}

// Restock 增加库存
func (r *MaterialRepository) Restock(ctx context.Context, id int, quantity float64) (bool, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE materials
        SET stock = stock + $2, updated_at = NOW()
        WHERE id = $1
    `, id, quantity)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// UpdatePrice 更新单价
func (r *MaterialRepository) UpdatePrice(ctx context.Context, id int, price decimal.Decimal) (bool, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE materials
        SET price = $2::numeric, updated_at = NOW()
        WHERE id = $1
    `, id, price.String())
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// RecordUsage decrements stock and records the usage row in one transaction.
// The stock guard in the WHERE clause rejects over-consumption.
func (r *MaterialRepository) RecordUsage(ctx context.Context, u *model.MaterialUsage) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
        UPDATE materials
        SET stock = stock - $2, updated_at = NOW()
        WHERE id = $1 AND stock >= $2
    `, u.MaterialID, u.Quantity)
	if err != nil {
		return 0, err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM materials WHERE id = $1)`, u.MaterialID,
		).Scan(&exists); err != nil {
			return 0, err
		}
		if !exists {
			return 0, apperr.NotFound("material %d not found", u.MaterialID)
		}
		return 0, apperr.Validation("insufficient stock for material %d", u.MaterialID)
	}

	var id int
	err = tx.QueryRow(ctx, `
        INSERT INTO material_usage (material_id, project_id, quantity, usage_date, notes)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `, u.MaterialID, u.ProjectID, u.Quantity, u.UsageDate, u.Notes).Scan(&id)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	r.logger.Info("Material usage recorded",
		zap.Int("material_id", u.MaterialID),
		zap.Int("project_id", u.ProjectID),
		zap.Float64("quantity", u.Quantity),
	)
	return id, nil
}

func (r *MaterialRepository) ListUsageByProject(ctx context.Context, projectID int) ([]model.MaterialUsage, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, material_id, project_id, quantity, usage_date, COALESCE(notes, ''), created_at
        FROM material_usage
        WHERE project_id = $1
        ORDER BY usage_date DESC, id DESC
    `, projectID)
	if err != nil {
		r.logger.Error("Failed to list material usage", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var usages []model.MaterialUsage
	for rows.Next() {
		var u model.MaterialUsage
		if err := rows.Scan(&u.ID, &u.MaterialID, &u.ProjectID, &u.Quantity, &u.UsageDate, &u.Notes, &u.CreatedAt); err != nil {
			return nil, err
		}
		usages = append(usages, u)
	}
	return usages, rows.Err()
}
