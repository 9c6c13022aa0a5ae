package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"buildpro/internal/vendorsvc/model"
)

type VendorMaterialRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewVendorMaterialRepository(db *pgxpool.Pool, logger *zap.Logger) *VendorMaterialRepository {
	return &VendorMaterialRepository{db: db, logger: logger}
}

const vendorMaterialColumns = `
	id, vendor_id, material_name, price::text, COALESCE(unit, ''), created_at, updated_at
`

func scanVendorMaterial(row pgx.Row) (*model.VendorMaterial, error) {
	var m model.VendorMaterial
	var price string
	if err := row.Scan(
		&m.ID,
		&m.VendorID,
		&m.MaterialName,
		&price,
		&m.Unit,
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

func (r *VendorMaterialRepository) List(ctx context.Context) ([]model.VendorMaterial, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+vendorMaterialColumns+`
        FROM vendor_materials
        ORDER BY material_name ASC
    `)
	if err != nil {
		r.logger.Error("Failed to list vendor materials", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var materials []model.VendorMaterial
	for rows.Next() {
		m, err := scanVendorMaterial(rows)
		if err != nil {
			return nil, err
		}
		materials = append(materials, *m)
	}
	return materials, rows.Err()
}

func (r *VendorMaterialRepository) ListByVendor(ctx context.Context, vendorID int) ([]model.VendorMaterial, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+vendorMaterialColumns+`
        FROM vendor_materials
        WHERE vendor_id = $1
        ORDER BY material_name ASC
    `, vendorID)
	if err != nil {
		r.logger.Error("Failed to list vendor materials", zap.Int("vendor_id", vendorID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var materials []model.VendorMaterial
	for rows.Next() {
		m, err := scanVendorMaterial(rows)
		if err != nil {
			return nil, err
		}
		materials = append(materials, *m)
	}
	return materials, rows.Err()
}

func (r *VendorMaterialRepository) FindByID(ctx context.Context, id int) (*model.VendorMaterial, error) {
	m, err := scanVendorMaterial(r.db.QueryRow(ctx, `
        SELECT `+vendorMaterialColumns+`
        FROM vendor_materials
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

func (r *VendorMaterialRepository) Insert(ctx context.Context, m *model.VendorMaterial) (int, error) {
	var id int
	err := r.db.QueryRow(ctx, `
        INSERT INTO vendor_materials (vendor_id, material_name, price, unit)
        VALUES ($1, $2, $3::numeric, $4)
        RETURNING id
    `, m.VendorID, m.MaterialName, m.Price.String(), m.Unit).Scan(&id)

	if err != nil {
		r.logger.Error("Failed to insert vendor material", zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (r *VendorMaterialRepository) Update(ctx context.Context, m *model.VendorMaterial) (bool, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE vendor_materials
        SET material_name = $2, price = $3::numeric, unit = $4, updated_at = NOW()
        WHERE id = $1
    `, m.ID, m.MaterialName, m.Price.String(), m.Unit)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *VendorMaterialRepository) Delete(ctx context.Context, id int) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM vendor_materials WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// PriceComparison 列出同名材料的所有报价，最便宜的在前
func (r *VendorMaterialRepository) PriceComparison(ctx context.Context, materialName string) ([]model.PriceOffer, error) {
	rows, err := r.db.Query(ctx, `
        SELECT vm.vendor_id, v.name, vm.material_name, vm.price::text, COALESCE(vm.unit, '')
        FROM vendor_materials vm
        JOIN vendors v ON v.id = vm.vendor_id
        WHERE LOWER(vm.material_name) = LOWER($1)
        ORDER BY vm.price ASC
    `, materialName)
	if err != nil {
		r.logger.Error("Failed to compare prices", zap.String("material", materialName), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var offers []model.PriceOffer
	for rows.Next() {
		var o model.PriceOffer
		var price string
		if err := rows.Scan(&o.VendorID, &o.VendorName, &o.MaterialName, &price, &o.Unit); err != nil {
			return nil, err
		}
		dec, err := decimal.NewFromString(price)
		if err != nil {
			return nil, err
		}
		o.Price = dec
		offers = append(offers, o)
	}
	return offers, rows.Err()
}
