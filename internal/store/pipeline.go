package store

import (
	"context"
	"errors"
	"time"

	"alltech-pos/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleInput is the payload of a sell request. The price is the one agreed
// at the counter and is recorded verbatim; it may diverge from the catalog
// price, and both are kept distinct.
type SaleInput struct {
	ProductName  string
	Price        decimal.Decimal
	Quantity     int
	CustomerName string
}

func (in SaleInput) validate() error {
	if in.ProductName == "" {
		return Validationf("product_name is required")
	}
	if !in.Price.IsPositive() {
		return Validationf("price must be positive")
	}
	if in.Quantity <= 0 {
		return Validationf("quantity must be positive")
	}
	if in.CustomerName == "" {
		return Validationf("customer_name is required")
	}
	return nil
}

// RecordSale locks and decrements the product row, then creates the pending
// transaction, all in one atomic unit. Returns the pending row and the
// post-decrement product snapshot for the index synchronizer.
func (s *Store) RecordSale(ctx context.Context, productID uint, in SaleInput) (*models.PendingTransaction, *models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, nil, err
	}

	var p models.Product
	pending := models.PendingTransaction{
		ProductName:  in.ProductName,
		SellingPrice: in.Price,
		Quantity:     in.Quantity,
		CustomerName: in.CustomerName,
		CreatedAt:    time.Now(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := decrementLocked(tx, &p, productID, in.Quantity); err != nil {
			return err
		}
		return tx.Create(&pending).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &pending, &p, nil
}

// Pending lists not-yet-finalized sales, newest first.
func (s *Store) Pending(ctx context.Context) ([]models.PendingTransaction, error) {
	var pending []models.PendingTransaction
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&pending).Error; err != nil {
		return nil, err
	}
	return pending, nil
}

// CompleteTransaction finalizes a pending sale: upserts the customer ledger,
// writes the immutable receipt plus its export duplicate, and deletes the
// pending row. All sub-steps commit or roll back together. On commit the
// OnComplete hook busts the current year's report caches.
func (s *Store) CompleteTransaction(ctx context.Context, pendingID uint) (*models.Receipt, error) {
	var receipt models.Receipt

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pending models.PendingTransaction
		if err := tx.First(&pending, pendingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}

		customerName := FoldName(pending.CustomerName)
		total := pending.SellingPrice.Mul(decimal.NewFromInt(int64(pending.Quantity)))

		var customer models.Customer
		err := lockForUpdate(tx).Where("customer_name = ?", customerName).First(&customer).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			customer = models.Customer{Name: customerName, TotalSpent: total}
			if err := tx.Create(&customer).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			customer.TotalSpent = customer.TotalSpent.Add(total)
			if err := tx.Save(&customer).Error; err != nil {
				return err
			}
		}

		completed := models.CompletedTransaction{
			ProductName:  pending.ProductName,
			SellingPrice: pending.SellingPrice,
			Quantity:     pending.Quantity,
			CustomerName: customerName,
		}
		if err := tx.Create(&completed).Error; err != nil {
			return err
		}

		receipt = models.Receipt{
			ProductName:  pending.ProductName,
			SellingPrice: pending.SellingPrice,
			Quantity:     pending.Quantity,
			CustomerName: customerName,
			CreatedAt:    time.Now(),
		}
		if err := tx.Create(&receipt).Error; err != nil {
			return err
		}

		return tx.Delete(&pending).Error
	})
	if err != nil {
		return nil, err
	}

	if s.OnComplete != nil {
		s.OnComplete(ctx, receipt.CreatedAt.Year())
	}
	return &receipt, nil
}

// RefundTransaction reverses a pending sale: exactly one unit goes back to
// the matching product (case-insensitive name match) and the pending row is
// deleted. No receipt is written and the customer ledger is untouched.
func (s *Store) RefundTransaction(ctx context.Context, pendingID uint) (*models.Product, error) {
	var p models.Product

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pending models.PendingTransaction
		if err := tx.First(&pending, pendingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}

		err := lockForUpdate(tx).
			Where("LOWER(product_name) = LOWER(?)", pending.ProductName).
			First(&p).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotInStock
		}
		if err != nil {
			return err
		}

		// One unit per refund regardless of the quantity sold.
		p.Quantity++
		if err := tx.Save(&p).Error; err != nil {
			return err
		}

		return tx.Delete(&pending).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ExportResult is the payload handed to the scheduled export caller.
type ExportResult struct {
	Transactions []models.CompletedTransaction `json:"transactions"`
	Total        decimal.Decimal               `json:"total"`
}

// ExportCompleted returns every completed transaction with its revenue
// total, then purges them. The rows only exist between completion and
// export; an empty ledger yields ErrTransactionNotFound.
func (s *Store) ExportCompleted(ctx context.Context) (*ExportResult, error) {
	var result ExportResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Find(&result.Transactions).Error; err != nil {
			return err
		}
		if len(result.Transactions) == 0 {
			return ErrTransactionNotFound
		}

		result.Total = decimal.Zero
		for _, t := range result.Transactions {
			result.Total = result.Total.Add(t.SellingPrice.Mul(decimal.NewFromInt(int64(t.Quantity))))
		}

		return tx.Where("1 = 1").Delete(&models.CompletedTransaction{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
