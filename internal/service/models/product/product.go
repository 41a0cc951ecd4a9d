package product

import (
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("product not found")

// InsufficientStockError reports a checkout line that asked for more
// units than the product has left.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf(
		"insufficient stock for product %q: requested %d, available %d",
		e.ProductName, e.Requested, e.Available,
	)
}

// Product is the slice of the catalog this service needs: a sell price
// to capture at checkout and a stock quantity the ledger decrements.
type Product struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	SellPriceCents int64     `json:"sellPriceCents"`
	Quantity       int       `json:"quantity"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
