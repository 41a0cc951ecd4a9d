package cartsvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	icart "github.com/cosmoshop/checkout/internal/dal/interfaces/cart"
	iproduct "github.com/cosmoshop/checkout/internal/dal/interfaces/product"
	"github.com/cosmoshop/checkout/internal/service/models/cartline"
	"github.com/cosmoshop/checkout/internal/service/models/product"
)

type fakeCartRepo struct {
	nextID int64
	lines  map[int64]*cartline.Line
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{nextID: 1, lines: map[int64]*cartline.Line{}}
}

func (r *fakeCartRepo) LinesByUser(_ context.Context, _ int64) ([]cartline.Line, error) {
	lines := make([]cartline.Line, 0, len(r.lines))
	for _, l := range r.lines {
		lines = append(lines, *l)
	}

	return lines, nil
}

func (r *fakeCartRepo) AddLine(_ context.Context, _, productID int64, quantity int) (*cartline.Line, error) {
	for _, l := range r.lines {
		if l.ProductID == productID {
			l.Quantity += quantity
			result := *l

			return &result, nil
		}
	}

	line := &cartline.Line{ID: r.nextID, CartID: 1, ProductID: productID, Quantity: quantity}
	r.lines[line.ID] = line
	r.nextID++
	result := *line

	return &result, nil
}

func (r *fakeCartRepo) UpdateLineQuantity(_ context.Context, _, lineID int64, quantity int) (*cartline.Line, error) {
	l, ok := r.lines[lineID]
	if !ok {
		return nil, cartline.ErrNotFound
	}
	l.Quantity = quantity
	result := *l

	return &result, nil
}

func (r *fakeCartRepo) DeleteLine(_ context.Context, _, lineID int64) error {
	if _, ok := r.lines[lineID]; !ok {
		return cartline.ErrNotFound
	}
	delete(r.lines, lineID)

	return nil
}

func (r *fakeCartRepo) Clear(_ context.Context, _ int64) error {
	r.lines = map[int64]*cartline.Line{}

	return nil
}

type fakeProductRepo struct {
	products map[int64]*product.Product
}

func (r *fakeProductRepo) GetByID(_ context.Context, id int64) (*product.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	result := *p

	return &result, nil
}

func (r *fakeProductRepo) ReserveStock(_ context.Context, _ int64, _ int) error {
	return nil
}

func (r *fakeProductRepo) SetStock(_ context.Context, _ int64, _ int) error {
	return nil
}

type fakeUOW struct {
	cartRepo    *fakeCartRepo
	productRepo *fakeProductRepo
}

func (u *fakeUOW) CartRepository() icart.PostgresRepository       { return u.cartRepo }
func (u *fakeUOW) ProductRepository() iproduct.PostgresRepository { return u.productRepo }

func newService(work *fakeUOW) *CartService {
	return MustNewCartService(
		WithUnitOfWorkFactory(func() unitOfWork { return work }),
	)
}

func newWork() *fakeUOW {
	return &fakeUOW{
		cartRepo: newFakeCartRepo(),
		productRepo: &fakeProductRepo{products: map[int64]*product.Product{
			10: {ID: 10, Name: "Cosmo Mug", SellPriceCents: 150000, Quantity: 5},
		}},
	}
}

func TestAddProduct(t *testing.T) {
	svc := newService(newWork())

	line, err := svc.AddProduct(context.Background(), 7, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(10), line.ProductID)
	assert.Equal(t, 2, line.Quantity)

	// Adding again sums quantities instead of creating a second line.
	line, err = svc.AddProduct(context.Background(), 7, 10, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, line.Quantity)

	lines, err := svc.Lines(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestAddProductValidation(t *testing.T) {
	svc := newService(newWork())

	_, err := svc.AddProduct(context.Background(), 7, 10, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.AddProduct(context.Background(), 7, 10, -1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.AddProduct(context.Background(), 7, 404, 1)
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestUpdateQuantity(t *testing.T) {
	work := newWork()
	svc := newService(work)

	line, err := svc.AddProduct(context.Background(), 7, 10, 2)
	require.NoError(t, err)

	updated, err := svc.UpdateQuantity(context.Background(), 7, line.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	_, err = svc.UpdateQuantity(context.Background(), 7, line.ID, -1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	work := newWork()
	svc := newService(work)

	line, err := svc.AddProduct(context.Background(), 7, 10, 2)
	require.NoError(t, err)

	removed, err := svc.UpdateQuantity(context.Background(), 7, line.ID, 0)
	require.NoError(t, err)
	assert.Nil(t, removed)

	lines, err := svc.Lines(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestRemoveLine(t *testing.T) {
	work := newWork()
	svc := newService(work)

	line, err := svc.AddProduct(context.Background(), 7, 10, 2)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveLine(context.Background(), 7, line.ID))
	assert.ErrorIs(t, svc.RemoveLine(context.Background(), 7, line.ID), cartline.ErrNotFound)
}

func TestClear(t *testing.T) {
	work := newWork()
	svc := newService(work)

	_, err := svc.AddProduct(context.Background(), 7, 10, 2)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(context.Background(), 7))

	lines, err := svc.Lines(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, lines)
}
