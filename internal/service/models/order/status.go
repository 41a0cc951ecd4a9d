package order

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

// PaymentMethod is how the customer pays for an order.
type PaymentMethod string

const (
	PaymentMethodCOD      PaymentMethod = "COD"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
)

var ErrInvalidPaymentMethod = errors.New("invalid payment method")

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return m.String(), nil
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch s {
	case PaymentMethodCOD.String():
		return PaymentMethodCOD, nil
	case PaymentMethodTransfer.String():
		return PaymentMethodTransfer, nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}

// Status is the payment lifecycle state of an order.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusPaid     Status = "PAID"
	StatusFailed   Status = "FAILED"
	StatusRefunded Status = "REFUNDED"
)

var ErrInvalidStatus = errors.New("invalid payment status")

// StateConflictError is returned when a transition violates the
// forward-only lifecycle.
type StateConflictError struct {
	From Status
	To   Status
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("invalid payment status transition %s -> %s", e.From, e.To)
}

func (s Status) String() string {
	return string(s)
}

func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

func ParseStatus(v string) (Status, error) {
	switch v {
	case StatusPending.String():
		return StatusPending, nil
	case StatusPaid.String():
		return StatusPaid, nil
	case StatusFailed.String():
		return StatusFailed, nil
	case StatusRefunded.String():
		return StatusRefunded, nil
	default:
		return "", ErrInvalidStatus
	}
}

// CanTransition reports whether the automated lifecycle allows moving to
// next. PENDING may settle to PAID or FAILED, and PAID may later be
// refunded. There is no path back to PENDING. Administrative overrides
// bypass this check on purpose.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusPaid || next == StatusFailed
	case StatusPaid:
		return next == StatusRefunded
	default:
		return false
	}
}

// Transition returns the next status or a StateConflictError if the
// forward-only lifecycle forbids it.
func (s Status) Transition(next Status) (Status, error) {
	if !s.CanTransition(next) {
		return s, &StateConflictError{From: s, To: next}
	}
	return next, nil
}
