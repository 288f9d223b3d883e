package store

import "errors"

var (
	// ErrDuplicateName - a product with that name already exists.
	ErrDuplicateName = errors.New("product name already exists")

	// ErrProductNotFound - no product row for the given id.
	ErrProductNotFound = errors.New("product not found")

	// ErrInsufficientStock - a decrement asked for more units than are on hand.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrTransactionNotFound - no pending transaction for the given id.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrItemNotInStock - a refund found no product matching the sold name.
	ErrItemNotInStock = errors.New("item not found in stock")

	// ErrUserNotFound - no user row for the given username.
	ErrUserNotFound = errors.New("user not found")
)

// ValidationError marks malformed or out-of-range input. Handlers surface
// it as a client error, not a server fault.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a message.
func Validationf(msg string) error { return &ValidationError{Msg: msg} }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
