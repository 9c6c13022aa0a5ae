package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"buildpro/internal/payment/model"
)

type PaymentTermRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPaymentTermRepository(db *pgxpool.Pool, logger *zap.Logger) *PaymentTermRepository {
	return &PaymentTermRepository{
		db:     db,
		logger: logger,
	}
}

const termColumns = `
	id, project_id, termin_name, milestone_percentage, amount::text, status,
	due_date, paid_date, COALESCE(notes, ''), created_at, updated_at
`

func scanTerm(row pgx.Row) (*model.PaymentTerm, error) {
	var t model.PaymentTerm
	var amount string
	var status string
	if err := row.Scan(
		&t.ID,
		&t.ProjectID,
		&t.TerminName,
		&t.TriggerPercentage,
		&amount,
		&status,
		&t.DueDate,
		&t.PaidDate,
		&t.Notes,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}
	t.Amount = dec
	t.Status = model.Status(status)
	return &t, nil
}

func (r *PaymentTermRepository) Insert(ctx context.Context, t *model.PaymentTerm) (int, error) {
	r.logger.Debug("Inserting payment term",
		zap.Int("project_id", t.ProjectID),
		zap.String("termin_name", t.TerminName),
		zap.Float64("milestone_percentage", t.TriggerPercentage),
	)

	query := `
        INSERT INTO payment_terms (project_id, termin_name, milestone_percentage, amount, status, due_date, notes)
        VALUES ($1, $2, $3, $4::numeric, $5, $6, $7)
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query,
		t.ProjectID,
		t.TerminName,
		t.TriggerPercentage,
		t.Amount.String(),
		string(t.Status),
		t.DueDate,
		t.Notes,
	).Scan(&id)

	if err != nil {
		r.logger.Error("Failed to insert payment term", zap.Error(err))
		return 0, err
	}

	r.logger.Info("Payment term inserted",
		zap.Int("id", id),
		zap.Int("project_id", t.ProjectID),
	)
	return id, nil
}

func (r *PaymentTermRepository) ListByProject(ctx context.Context, projectID int) ([]model.PaymentTerm, error) {
	query := `
        SELECT ` + termColumns + `
        FROM payment_terms
        WHERE project_id = $1
        ORDER BY milestone_percentage ASC
    `

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to list payment terms", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var terms []model.PaymentTerm
	for rows.Next() {
		t, err := scanTerm(rows)
		if err != nil {
			r.logger.Error("Failed to scan payment term", zap.Error(err))
			return nil, err
		}
		terms = append(terms, *t)
	}

	return terms, rows.Err()
}

func (r *PaymentTermRepository) FindByID(ctx context.Context, id int) (*model.PaymentTerm, error) {
	query := `
        SELECT ` + termColumns + `
        FROM payment_terms
        WHERE id = $1
    `

	t, err := scanTerm(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

// MarkEligible flips a PENDING term to ELIGIBLE. The status guard in the
// WHERE clause makes the transition idempotent under concurrent calls.
func (r *PaymentTermRepository) MarkEligible(ctx context.Context, id int) (bool, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE payment_terms
        SET status = 'ELIGIBLE', updated_at = NOW()
        WHERE id = $1 AND status = 'PENDING'
    `, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// MarkPaid flips an ELIGIBLE term to PAID and stamps paid_date.
func (r *PaymentTermRepository) MarkPaid(ctx context.Context, id int, paidDate time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE payment_terms
        SET status = 'PAID', paid_date = $2, updated_at = NOW()
        WHERE id = $1 AND status = 'ELIGIBLE'
    `, id, paidDate)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PaymentTermRepository) Update(ctx context.Context, t *model.PaymentTerm) (bool, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE payment_terms
        SET termin_name = $2, milestone_percentage = $3, amount = $4::numeric,
            status = $5, due_date = $6, notes = $7, updated_at = NOW()
        WHERE id = $1
    `,
		t.ID,
		t.TerminName,
		t.TriggerPercentage,
		t.Amount.String(),
		string(t.Status),
		t.DueDate,
		t.Notes,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PaymentTermRepository) Delete(ctx context.Context, id int) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM payment_terms WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// SumByStatus returns the total term amount per status for a project.
func (r *PaymentTermRepository) SumByStatus(ctx context.Context, projectID int) (map[model.Status]decimal.Decimal, error) {
	rows, err := r.db.Query(ctx, `
        SELECT status, COALESCE(SUM(amount), 0)::text
        FROM payment_terms
        WHERE project_id = $1
        GROUP BY status
    `, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sums := make(map[model.Status]decimal.Decimal)
	for rows.Next() {
		var status, amount string
		if err := rows.Scan(&status, &amount); err != nil {
			return nil, err
		}
		dec, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, err
		}
		sums[model.Status(status)] = dec
	}

	return sums, rows.Err()
}
