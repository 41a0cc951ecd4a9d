package icart

import (
	"context"

	"github.com/cosmoshop/checkout/internal/service/models/cartline"
)

// PostgresRepository is an interface for the cart postgres repository.
type PostgresRepository interface {
	LinesByUser(ctx context.Context, userID int64) ([]cartline.Line, error)
	AddLine(ctx context.Context, userID, productID int64, quantity int) (*cartline.Line, error)
	UpdateLineQuantity(ctx context.Context, userID, lineID int64, quantity int) (*cartline.Line, error)
	DeleteLine(ctx context.Context, userID, lineID int64) error
	Clear(ctx context.Context, userID int64) error
}
