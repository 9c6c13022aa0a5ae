package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vendor 供应商
type Vendor struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	Address       string    `json:"address"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// VendorMaterial 供应商的材料报价
type VendorMaterial struct {
	ID           int             `json:"id"`
	VendorID     int             `json:"vendor_id"`
	MaterialName string          `json:"material_name"`
	Price        decimal.Decimal `json:"price"`
	Unit         string          `json:"unit"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// PriceOffer 价格对比结果的一行
type PriceOffer struct {
	VendorID     int             `json:"vendor_id"`
	VendorName   string          `json:"vendor_name"`
	MaterialName string          `json:"material_name"`
	Price        decimal.Decimal `json:"price"`
	Unit         string          `json:"unit"`
}
