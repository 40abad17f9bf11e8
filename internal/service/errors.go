package service

import (
	"errors"

	"github.com/viastore/viastore/internal/repository"
)

var (
	ErrItemNotFound      = repository.ErrItemNotFound
	ErrWarehouseNotFound = repository.ErrWarehouseNotFound
	ErrOrderNotFound     = repository.ErrOrderNotFound

	ErrDuplicateSKU         = errors.New("an item with this SKU already exists")
	ErrDuplicateOrderNumber = errors.New("an order with this number already exists")
	ErrUnknownWarehouse     = errors.New("warehouse does not exist")
	ErrUnknownItem          = errors.New("item does not exist")
	ErrNoWarehouseAvailable = errors.New("no warehouse available, create a warehouse first")
	ErrQuantityNotPositive  = errors.New("quantity must be greater than zero")
	ErrQuantityNegative     = errors.New("quantity must not be negative")
	ErrQuantityTooLarge     = errors.New("quantity is too large")
	ErrRequired             = errors.New("this field is required")
	ErrTooLong              = errors.New("value is too long")
	ErrInvalidImportRow     = errors.New("invalid import row")
	ErrUnreadableWorkbook   = errors.New("file is not a readable xlsx workbook")
)

// FieldError is a validation failure tied to one input field.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldError(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}

// RowError names the sheet row that aborted an import.
type RowError = repository.RowError
