package store

import (
	"context"
	"errors"

	"alltech-pos/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateProduct adds a row to the inventory ledger.
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.Name == "" {
		return Validationf("product_name is required")
	}
	if p.Quantity < 0 {
		return Validationf("quantity must not be negative")
	}
	if !p.Price.IsPositive() {
		return Validationf("price must be positive")
	}

	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		if isDuplicateErr(err) {
			return ErrDuplicateName
		}
		return err
	}
	return nil
}

// Product loads a single ledger row.
func (s *Store) Product(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Products lists the whole ledger, name-ordered.
func (s *Store) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("product_name").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// LowStock lists products at or below the threshold, lowest quantity first.
// A product sitting exactly on the threshold is included.
func (s *Store) LowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("quantity <= ?", threshold).
		Order("quantity").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Decrement reduces a product's quantity by amount inside one atomic unit.
// The row is locked before its quantity is read, so two concurrent sales
// against the same product serialize instead of both passing the stock check.
func (s *Store) Decrement(ctx context.Context, id uint, amount int) (*models.Product, error) {
	if amount <= 0 {
		return nil, Validationf("amount must be positive")
	}

	var p models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return decrementLocked(tx, &p, id, amount)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// decrementLocked is the shared lock-check-deduct step, run inside an open
// transaction by Decrement and RecordSale.
func decrementLocked(tx *gorm.DB, p *models.Product, id uint, amount int) error {
	if err := lockForUpdate(tx).First(p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	if p.Quantity < amount {
		return ErrInsufficientStock
	}

	p.Quantity -= amount
	return tx.Save(p).Error
}

// Increment adds stock back; refunds and restocks have no ceiling.
func (s *Store) Increment(ctx context.Context, id uint, amount int) (*models.Product, error) {
	if amount <= 0 {
		return nil, Validationf("amount must be positive")
	}

	var p models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		p.Quantity += amount
		return tx.Save(&p).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ProductUpdate carries the fields of a partial update; nil means untouched.
type ProductUpdate struct {
	Name     *string
	Quantity *int
	Price    *decimal.Decimal
}

// UpdateProduct applies a partial update. When quantity is among the fields
// the same locking discipline as Decrement applies.
func (s *Store) UpdateProduct(ctx context.Context, id uint, upd ProductUpdate) (*models.Product, error) {
	if upd.Name != nil && *upd.Name == "" {
		return nil, Validationf("product_name must not be empty")
	}
	if upd.Quantity != nil && *upd.Quantity < 0 {
		return nil, Validationf("quantity must not be negative")
	}
	if upd.Price != nil && !upd.Price.IsPositive() {
		return nil, Validationf("price must be positive")
	}

	var p models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if upd.Quantity != nil {
			q = lockForUpdate(tx)
		}
		if err := q.First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		if upd.Name != nil {
			p.Name = *upd.Name
		}
		if upd.Quantity != nil {
			p.Quantity = *upd.Quantity
		}
		if upd.Price != nil {
			p.Price = *upd.Price
		}

		if err := tx.Save(&p).Error; err != nil {
			if isDuplicateErr(err) {
				return ErrDuplicateName
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProduct removes a ledger row. Clearing the search index entry is
// the synchronizer's job and never blocks the delete.
func (s *Store) DeleteProduct(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
