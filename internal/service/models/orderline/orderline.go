package orderline

import (
	"time"

	"github.com/cosmoshop/checkout/internal/service/models/currency"
)

// Line is an immutable priced record of one product within an order.
// The unit price is captured at checkout time and never tracks later
// product price changes.
type Line struct {
	ID             int64             `json:"id"`
	OrderID        int64             `json:"orderId"`
	ProductID      int64             `json:"productId"`
	ProductName    string            `json:"productName"`
	UnitPriceCents int64             `json:"unitPriceCents"`
	Quantity       int               `json:"quantity"`
	TotalCents     int64             `json:"totalCents"`
	PriceCurrency  currency.Currency `json:"priceCurrency"`
	CreatedAt      time.Time         `json:"createdAt"`
}
