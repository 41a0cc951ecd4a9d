package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/cosmoshop/checkout/internal/service/models/order"
)

// Routing keys for the checkout exchange.
const (
	RoutingKeyOrderCreated     = "checkout.order.created"
	RoutingKeyPaymentConfirmed = "checkout.payment.confirmed"
)

// OrderCreated is published after a checkout transaction commits.
type OrderCreated struct {
	EventID       string             `json:"eventId"`
	OrderID       int64              `json:"orderId"`
	UserID        int64              `json:"userId"`
	TotalCents    int64              `json:"totalCents"`
	PaymentMethod string             `json:"paymentMethod"`
	Lines         []OrderCreatedLine `json:"lines"`
	OccurredAt    time.Time          `json:"occurredAt"`
}

type OrderCreatedLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// PaymentConfirmed is published when a gateway callback or an
// administrative override settles an order's payment status.
type PaymentConfirmed struct {
	EventID       string    `json:"eventId"`
	OrderID       int64     `json:"orderId"`
	PaymentStatus string    `json:"paymentStatus"`
	TransactionNo string    `json:"transactionNo,omitempty"`
	ResponseCode  string    `json:"responseCode,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// NewOrderCreated builds the event for a freshly committed order.
func NewOrderCreated(o *order.Order) OrderCreated {
	ev := OrderCreated{
		EventID:       uuid.NewString(),
		OrderID:       o.ID,
		UserID:        o.UserID,
		TotalCents:    o.TotalCents,
		PaymentMethod: o.PaymentMethod.String(),
		OccurredAt:    time.Now(),
	}
	for _, l := range o.Lines {
		ev.Lines = append(ev.Lines, OrderCreatedLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return ev
}

// NewPaymentConfirmed builds the event for a settled payment status.
func NewPaymentConfirmed(o *order.Order, responseCode string) PaymentConfirmed {
	return PaymentConfirmed{
		EventID:       uuid.NewString(),
		OrderID:       o.ID,
		PaymentStatus: o.PaymentStatus.String(),
		TransactionNo: o.TransactionNo,
		ResponseCode:  responseCode,
		OccurredAt:    time.Now(),
	}
}
