// internal/core/domain/order.go
package domain

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStep names a state of the order transaction pipeline
type OrderStep string

// Pipeline states, in the order they are reached
const (
	StepStart            OrderStep = "START"
	StepCheckStock       OrderStep = "CHECK_STOCK"
	StepRejected         OrderStep = "REJECTED"
	StepDecrement        OrderStep = "DECREMENT"
	StepComputeTotal     OrderStep = "COMPUTE_TOTAL"
	StepCreditProduct    OrderStep = "CREDIT_PRODUCT"
	StepCreditDepartment OrderStep = "CREDIT_DEPARTMENT"
	StepComplete         OrderStep = "COMPLETE"
)

// MaxQuantity is the largest quantity the stock column can hold
const MaxQuantity = math.MaxInt32

// Order is a single customer request. It is never persisted.
type Order struct {
	ItemID            int64 `json:"item_id"`
	RequestedQuantity int   `json:"requested_quantity"`
}

// Validate checks the order shape. The prompt shell normally guarantees this.
func (o Order) Validate() error {
	if o.ItemID <= 0 {
		return fmt.Errorf("item_id must be positive")
	}
	if o.RequestedQuantity <= 0 {
		return fmt.Errorf("requested_quantity must be positive")
	}
	return nil
}

// TransactionTotal computes unit_price * quantity
func TransactionTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// OrderResult records how far a pipeline run got and what it charged.
// LastStep is the last step that completed; for a faulted run it is the step
// before the one that failed.
type OrderResult struct {
	RunID          uuid.UUID       `json:"run_id"`
	Order          Order           `json:"order"`
	LastStep       OrderStep       `json:"last_step"`
	ProductName    string          `json:"product_name,omitempty"`
	DepartmentName string          `json:"department_name,omitempty"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Total          decimal.Decimal `json:"total"`
	RemainingStock int             `json:"remaining_stock"`
}

// Completed reports whether the run reached COMPLETE
func (r *OrderResult) Completed() bool {
	return r != nil && r.LastStep == StepComplete
}

// Rejected reports whether the run ended in REJECTED
func (r *OrderResult) Rejected() bool {
	return r != nil && r.LastStep == StepRejected
}
