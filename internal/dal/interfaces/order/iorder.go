package iorder

import (
	"context"

	"github.com/cosmoshop/checkout/internal/service/models/order"
)

// PostgresRepository is an interface for the order postgres repository.
type PostgresRepository interface {
	Insert(ctx context.Context, o *order.Order) (*order.Order, error)
	GetByID(ctx context.Context, id int64) (*order.Order, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*order.Order, error)
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
	Update(ctx context.Context, o *order.Order) error
}
