// internal/core/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks
var (
	ErrNotFound          = errors.New("not found")
	ErrStorage           = errors.New("storage failure")
	ErrInsufficientStock = errors.New("insufficient quantity")
	ErrAlreadyExists     = errors.New("already exists")
)

// NotFoundError is returned when a referenced product or department is
// missing at the point of use
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.Key)
}

// Is matches ErrNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewProductNotFound builds a NotFoundError for an item id
func NewProductNotFound(itemID int64) *NotFoundError {
	return &NotFoundError{Entity: "product", Key: fmt.Sprintf("%d", itemID)}
}

// NewDepartmentNotFound builds a NotFoundError for a department name
func NewDepartmentNotFound(name string) *NotFoundError {
	return &NotFoundError{Entity: "department", Key: fmt.Sprintf("%q", name)}
}

// StorageError wraps a failed read or write against the store
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is matches ErrStorage
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// NewStorageError wraps err for the named operation. A nil err stays nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// InsufficientStockError is a business rejection, not a fault
type InsufficientStockError struct {
	ItemID    int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient quantity for item %d: requested %d, available %d",
		e.ItemID, e.Requested, e.Available)
}

// Is matches ErrInsufficientStock
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// StepError tags a pipeline fault with the step that failed
type StepError struct {
	Step OrderStep
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("order step %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// PublicMessage renders err for end users. Storage causes are reduced to the
// operation name; the full error belongs in the log.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}

	var stockErr *InsufficientStockError
	if errors.As(err, &stockErr) {
		return "Insufficient quantity available"
	}

	var nf *NotFoundError
	var se *StorageError
	msg := err.Error()
	switch {
	case errors.As(err, &nf):
		msg = nf.Error()
	case errors.As(err, &se):
		msg = fmt.Sprintf("storage operation %q failed", se.Op)
	}

	var step *StepError
	if errors.As(err, &step) {
		return fmt.Sprintf("failed during %s: %s", step.Step, msg)
	}
	return msg
}
