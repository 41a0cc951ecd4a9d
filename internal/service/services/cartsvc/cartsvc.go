package cartsvc

import (
	"context"
	"errors"

	icart "github.com/cosmoshop/checkout/internal/dal/interfaces/cart"
	iproduct "github.com/cosmoshop/checkout/internal/dal/interfaces/product"
	"github.com/cosmoshop/checkout/internal/dal/postgres"
	"github.com/cosmoshop/checkout/internal/dal/uow"
	"github.com/cosmoshop/checkout/internal/service/models/cartline"
)

// ErrInvalidQuantity is returned for non-positive quantities.
var ErrInvalidQuantity = errors.New("quantity must be greater than zero")

type unitOfWork interface {
	CartRepository() icart.PostgresRepository
	ProductRepository() iproduct.PostgresRepository
}

// CartService manages the per-user cart checkout reads from.
type CartService struct {
	pgClient *postgres.Client
	newUOW   func() unitOfWork
}

// option is a function that configures the CartService.
type option func(*CartService)

// MustNewCartService creates a new CartService.
func MustNewCartService(opts ...option) *CartService {
	s := &CartService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.newUOW == nil {
		s.newUOW = func() unitOfWork {
			return uow.NewUnitOfWork(s.pgClient)
		}
	}

	return s
}

// WithPostgresClient sets the Postgres client for the CartService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *CartService) {
		s.pgClient = pgClient
	}
}

// WithUnitOfWorkFactory overrides how units of work are built.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *CartService) {
		s.newUOW = factory
	}
}

// Lines returns the user's current cart lines.
func (s *CartService) Lines(ctx context.Context, userID int64) ([]cartline.Line, error) {
	return s.newUOW().CartRepository().LinesByUser(ctx, userID)
}

// AddProduct puts a product into the user's cart, summing quantities
// when it is already there. The product must exist.
func (s *CartService) AddProduct(ctx context.Context, userID, productID int64, quantity int) (*cartline.Line, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	work := s.newUOW()

	if _, err := work.ProductRepository().GetByID(ctx, productID); err != nil {
		return nil, err
	}

	return work.CartRepository().AddLine(ctx, userID, productID, quantity)
}

// UpdateQuantity sets a cart line's quantity; zero removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, lineID int64, quantity int) (*cartline.Line, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	work := s.newUOW()

	if quantity == 0 {
		if err := work.CartRepository().DeleteLine(ctx, userID, lineID); err != nil {
			return nil, err
		}

		return nil, nil
	}

	return work.CartRepository().UpdateLineQuantity(ctx, userID, lineID, quantity)
}

// RemoveLine deletes one line from the user's cart.
func (s *CartService) RemoveLine(ctx context.Context, userID, lineID int64) error {
	return s.newUOW().CartRepository().DeleteLine(ctx, userID, lineID)
}

// Clear empties the user's cart.
func (s *CartService) Clear(ctx context.Context, userID int64) error {
	return s.newUOW().CartRepository().Clear(ctx, userID)
}
