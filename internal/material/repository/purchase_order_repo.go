package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"buildpro/internal/material/model"
	"buildpro/pkg/apperr"
)

type PurchaseOrderRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPurchaseOrderRepository(db *pgxpool.Pool, logger *zap.Logger) *PurchaseOrderRepository {
	return &PurchaseOrderRepository{db: db, logger: logger}
}

const orderColumns = `
	id, po_number, vendor_id, status, order_date, total::text, created_at, updated_at
`

func scanOrder(row pgx.Row) (*model.PurchaseOrder, error) {
	var o model.PurchaseOrder
	var total string
	if err := row.Scan(
		&o.ID,
		&o.PONumber,
		&o.VendorID,
		&o.Status,
		&o.OrderDate,
		&total,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}

	dec, err := decimal.NewFromString(total)
	if err != nil {
		return nil, err
	}
	o.Total = dec
	return &o, nil
}

func (r *PurchaseOrderRepository) List(ctx context.Context) ([]model.PurchaseOrder, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+orderColumns+`
        FROM purchase_orders
        ORDER BY order_date DESC, id DESC
    `)
	if err != nil {
		r.logger.Error("Failed to list purchase orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []model.PurchaseOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (r *PurchaseOrderRepository) FindByID(ctx context.Context, id int) (*model.PurchaseOrder, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `
        SELECT `+orderColumns+`
        FROM purchase_orders
        WHERE id = $1
    `, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	items, err := r.listItems(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *PurchaseOrderRepository) listItems(ctx context.Context, orderID int) ([]model.PurchaseOrderItem, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, order_id, material_id, quantity, unit_price::text
        FROM purchase_order_items
        WHERE order_id = $1
        ORDER BY id ASC
    `, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.PurchaseOrderItem
	for rows.Next() {
		var it model.PurchaseOrderItem
		var price string
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MaterialID, &it.Quantity, &price); err != nil {
			return nil, err
		}
		dec, err := decimal.NewFromString(price)
		if err != nil {
			return nil, err
		}
		it.UnitPrice = dec
		items = append(items, it)
	}
	return items, rows.Err()
}

// Create inserts the order and its items in one transaction. The PO number
// is generated from the date plus the sequence id.
func (r *PurchaseOrderRepository) Create(ctx context.Context, o *model.PurchaseOrder) error {
	if len(o.Items) == 0 {
		return apperr.Validation("purchase order needs at least one item")
	}

	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromFloat(it.Quantity)))
	}
	o.Total = total
	if o.OrderDate.IsZero() {
		o.OrderDate = time.Now()
	}
	o.Status = model.POStatusOrdered

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
        INSERT INTO purchase_orders (po_number, vendor_id, status, order_date, total)
        VALUES ('', $1, $2, $3, $4::numeric)
        RETURNING id
    `, o.VendorID, o.Status, o.OrderDate, o.Total.String()).Scan(&o.ID)
	if err != nil {
		return err
	}

	o.PONumber = fmt.Sprintf("PO-%s-%04d", o.OrderDate.Format("20060102"), o.ID)
	if _, err := tx.Exec(ctx,
		`UPDATE purchase_orders SET po_number = $2 WHERE id = $1`,
		o.ID, o.PONumber,
	); err != nil {
		return err
	}

	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		err = tx.QueryRow(ctx, `
            INSERT INTO purchase_order_items (order_id, material_id, quantity, unit_price)
            VALUES ($1, $2, $3, $4::numeric)
            RETURNING id
        `, it.OrderID, it.MaterialID, it.Quantity, it.UnitPrice.String()).Scan(&it.ID)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	r.logger.Info("Purchase order created",
		zap.Int("id", o.ID),
		zap.String("po_number", o.PONumber),
	)
	return nil
}

// Receive moves an ordered/confirmed order to received and books every item
// into stock, all in one transaction. The status guard makes a second receive
// a no-op conflict instead of double-counting stock.
func (r *PurchaseOrderRepository) Receive(ctx context.Context, id int) (*model.PurchaseOrder, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
        UPDATE purchase_orders
        SET status = $2, updated_at = NOW()
        WHERE id = $1 AND status IN ($3, $4)
    `, id, model.POStatusReceived, model.POStatusOrdered, model.POStatusConfirmed)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		var status string
		err := tx.QueryRow(ctx, `SELECT status FROM purchase_orders WHERE id = $1`, id).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("purchase order %d not found", id)
		}
		if err != nil {
			return nil, err
		}
		return nil, apperr.InvalidState("purchase order %d is %s and cannot be received", id, status)
	}

	_, err = tx.Exec(ctx, `
        UPDATE materials m
        SET stock = m.stock + i.quantity, updated_at = NOW()
        FROM purchase_order_items i
        WHERE i.order_id = $1 AND i.material_id = m.id
    `, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	r.logger.Info("Purchase order received", zap.Int("id", id))
	return r.FindByID(ctx, id)
}

// UpdateStatus 更新采购单状态；received 必须走 Receive 才会入库
func (r *PurchaseOrderRepository) UpdateStatus(ctx context.Context, id int, status string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE purchase_orders
        SET status = $2, updated_at = NOW()
        WHERE id = $1
    `, id, status)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
