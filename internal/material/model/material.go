package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material 库存材料
type Material struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	Stock     float64         `json:"stock"`
	MinStock  float64         `json:"min_stock"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// MaterialUsage 一次领料记录
type MaterialUsage struct {
	ID         int       `json:"id"`
	MaterialID int       `json:"material_id"`
	ProjectID  int       `json:"project_id"`
	Quantity   float64   `json:"quantity"`
	UsageDate  time.Time `json:"usage_date"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
}

// 采购单状态流转：ordered → confirmed → received；cancelled 为旁路终态
const (
	POStatusOrdered   = "ordered"
	POStatusConfirmed = "confirmed"
	POStatusReceived  = "received"
	POStatusCancelled = "cancelled"
)

// PurchaseOrder 采购单
type PurchaseOrder struct {
	ID        int                 `json:"id"`
	PONumber  string              `json:"po_number"`
	VendorID  int                 `json:"vendor_id"`
	Status    string              `json:"status"`
	OrderDate time.Time           `json:"order_date"`
	Total     decimal.Decimal     `json:"total"`
	Items     []PurchaseOrderItem `json:"items"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// PurchaseOrderItem 采购单条目
type PurchaseOrderItem struct {
	ID         int             `json:"id"`
	OrderID    int             `json:"order_id"`
	MaterialID int             `json:"material_id"`
	Quantity   float64         `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// ValidPOStatus 检查状态值是否合法
func ValidPOStatus(status string) bool {
	switch status {
	case POStatusOrdered, POStatusConfirmed, POStatusReceived, POStatusCancelled:
		return true
	}
	return false
}
