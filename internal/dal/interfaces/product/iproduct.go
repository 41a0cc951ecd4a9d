package iproduct

import (
	"context"

	"github.com/cosmoshop/checkout/internal/service/models/product"
)

// PostgresRepository is an interface for the product postgres repository.
// ReserveStock is the inventory ledger: check and decrement are one
// conditional statement, never a read followed by a write.
type PostgresRepository interface {
	GetByID(ctx context.Context, id int64) (*product.Product, error)
	ReserveStock(ctx context.Context, productID int64, quantity int) error
	SetStock(ctx context.Context, productID int64, quantity int) error
}
