package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User - The person interacting with the system
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string    `json:"-"`    // Never return this in JSON
	Role         string    `json:"role"` // 'admin', 'staff'
	CreatedAt    time.Time `json:"created_at"`
}

// Product - The Inventory Ledger. Quantity must never go negative;
// every quantity mutation happens under a row lock.
type Product struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	Name     string          `gorm:"column:product_name;uniqueIndex;size:100" json:"product_name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
}

// PendingTransaction - A sale recorded against stock but not yet finalized.
// SellingPrice is the price at sale time and may diverge from the catalog price.
type PendingTransaction struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	ProductName  string          `gorm:"size:100" json:"product_name"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(10,2)" json:"selling_price"`
	Quantity     int             `json:"quantity"`
	CustomerName string          `gorm:"size:255" json:"customer_name"`
	CreatedAt    time.Time       `gorm:"index" json:"created_at"`
}

// Receipt - Immutable record of a finalized sale. Append-only;
// UpdatedAt is bookkeeping only.
type Receipt struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	ProductName  string          `gorm:"size:100;index:idx_receipts_created_product,priority:2" json:"product_name"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(10,2)" json:"selling_price"`
	Quantity     int             `json:"quantity"`
	CustomerName string          `gorm:"size:255;index;index:idx_receipts_created_customer,priority:2" json:"customer_name"`
	CreatedAt    time.Time       `gorm:"index;index:idx_receipts_created_product,priority:1;index:idx_receipts_created_customer,priority:1" json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Total is the revenue this receipt contributes: price * quantity,
// always computed, never stored.
func (r Receipt) Total() decimal.Decimal {
	return r.SellingPrice.Mul(decimal.NewFromInt(int64(r.Quantity)))
}

// CompletedTransaction - Duplicate ledger of finalized sales,
// held only until the export job picks them up.
type CompletedTransaction struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	ProductName  string          `gorm:"size:100" json:"product_name"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(10,2)" json:"selling_price"`
	Quantity     int             `json:"quantity"`
	CustomerName string          `gorm:"size:255" json:"customer_name"`
}

// Customer - Aggregate spending ledger keyed by case-folded name.
// Created on first completed sale, incremented on every one after, never deleted.
type Customer struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Name       string          `gorm:"column:customer_name;uniqueIndex;size:255" json:"customer_name"`
	TotalSpent decimal.Decimal `gorm:"type:decimal(12,2)" json:"total_spent"`
}
