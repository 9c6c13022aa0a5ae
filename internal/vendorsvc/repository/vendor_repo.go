package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"buildpro/internal/vendorsvc/model"
)

type VendorRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewVendorRepository(db *pgxpool.Pool, logger *zap.Logger) *VendorRepository {
	return &VendorRepository{db: db, logger: logger}
}

const vendorColumns = `
	id, name, COALESCE(contact_person, ''), COALESCE(phone, ''),
	COALESCE(email, ''), COALESCE(address, ''), created_at, updated_at
`

func scanVendor(row pgx.Row) (*model.Vendor, error) {
	var v model.Vendor
	if err := row.Scan(
		&v.ID,
		&v.Name,
		&v.ContactPerson,
		&v.Phone,
		&v.Email,
		&v.Address,
		&v.CreatedAt,
		&v.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VendorRepository) List(ctx context.Context) ([]model.Vendor, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+vendorColumns+`
        FROM vendors
        ORDER BY name ASC
    `)
	if err != nil {
		r.logger.Error("Failed to list vendors", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var vendors []model.Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, *v)
	}
	return vendors, rows.Err()
}

func (r *VendorRepository) FindByID(ctx context.Context, id int) (*model.Vendor, error) {
	v, err := scanVendor(r.db.QueryRow(ctx, `
        SELECT `+vendorColumns+`
        FROM vendors
        WHERE id = $1
    `, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

func (r *VendorRepository) Insert(ctx context.Context, v *model.Vendor) (int, error) {
	var id int
	err := r.db.QueryRow(ctx, `
        INSERT INTO vendors (name, contact_person, phone, email, address)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `, v.Name, v.ContactPerson, v.Phone, v.Email, v.Address).Scan(&id)

	if err != nil {
		r.logger.Error("Failed to insert vendor", zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (r *VendorRepository) Update(ctx context.Context, v *model.Vendor) (bool, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE vendors
        SET name = $2, contact_person = $3, phone = $4, email = $5, address = $6,
            updated_at = NOW()
        WHERE id = $1
    `, v.ID, v.Name, v.ContactPerson, v.Phone, v.Email, v.Address)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *VendorRepository) Delete(ctx context.Context, id int) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM vendors WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
