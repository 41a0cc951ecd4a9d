package iorderline

import (
	"context"

	"github.com/cosmoshop/checkout/internal/service/models/orderline"
)

// PostgresRepository is an interface for the order line postgres repository.
type PostgresRepository interface {
	BulkInsert(ctx context.Context, lines []orderline.Line) ([]orderline.Line, error)
	ListByOrderIDs(ctx context.Context, orderIDs []int64) ([]orderline.Line, error)
}
