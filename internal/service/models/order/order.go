package order

import (
	"errors"
	"time"

	"github.com/cosmoshop/checkout/internal/service/models/currency"
	"github.com/cosmoshop/checkout/internal/service/models/orderline"
)

var (
	ErrNotFound    = errors.New("order not found")
	ErrNotTransfer = errors.New("order does not use TRANSFER payment method")
)

// Order represents a checked-out cart: the header plus its priced lines.
type Order struct {
	ID             int64             `json:"id"`
	UserID         int64             `json:"userId"`
	TotalCents     int64             `json:"totalCents"`
	TotalCurrency  currency.Currency `json:"totalCurrency"`
	PaymentMethod  PaymentMethod     `json:"paymentMethod"`
	PaymentStatus  Status            `json:"paymentStatus"`
	Phone          string            `json:"phone"`
	Address        string            `json:"address"`
	PaymentURL     string            `json:"paymentUrl,omitempty"`
	TransactionNo  string            `json:"transactionNo,omitempty"`
	PaymentMessage string            `json:"paymentMessage"`
	CreatedBy      string            `json:"createdBy"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
	Lines          []orderline.Line  `json:"lines"`
}
