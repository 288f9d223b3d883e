package store

import (
	"context"
	"errors"
	"strings"

	"alltech-pos/internal/models"

	"golang.org/x/text/cases"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store owns every write path against the inventory ledger and the
// transaction pipeline. Reads used by reports live in the reports package.
type Store struct {
	db *gorm.DB

	// OnComplete fires after a transaction completion commits, with the
	// year the new receipt lands in. Wired to report-cache invalidation.
	OnComplete func(ctx context.Context, year int)
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for read-only collaborators.
func (s *Store) DB() *gorm.DB { return s.db }

var foldCaser = cases.Fold()

// FoldName is the canonical customer-name form used by the customer ledger.
func FoldName(name string) string {
	return foldCaser.String(strings.TrimSpace(name))
}

// lockForUpdate takes an exclusive row lock for the rest of the transaction.
// SQLite (tests) has no FOR UPDATE syntax; its writers serialize on the
// connection instead.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// isDuplicateErr detects a unique-constraint violation across drivers.
func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate entry") || strings.Contains(msg, "unique constraint")
}

// CreateUser registers a login. The caller hashes the password.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateErr(err) {
			return ErrDuplicateName
		}
		return err
	}
	return nil
}

// UserByUsername loads a login row.
func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Customers lists the aggregate customer ledger.
func (s *Store) Customers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := s.db.WithContext(ctx).Order("total_spent desc").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}
