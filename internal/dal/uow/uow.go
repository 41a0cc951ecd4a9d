package uow

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cosmoshop/checkout/internal/dal/conn"
	icart "github.com/cosmoshop/checkout/internal/dal/interfaces/cart"
	iorder "github.com/cosmoshop/checkout/internal/dal/interfaces/order"
	iorderline "github.com/cosmoshop/checkout/internal/dal/interfaces/orderline"
	ioutbox "github.com/cosmoshop/checkout/internal/dal/interfaces/outbox"
	iproduct "github.com/cosmoshop/checkout/internal/dal/interfaces/product"
	"github.com/cosmoshop/checkout/internal/dal/postgres"
	cartrepo "github.com/cosmoshop/checkout/internal/dal/repositories/cart/postgres"
	orderrepo "github.com/cosmoshop/checkout/internal/dal/repositories/order/postgres"
	orderlinerepo "github.com/cosmoshop/checkout/internal/dal/repositories/orderline/postgres"
	outboxrepo "github.com/cosmoshop/checkout/internal/dal/repositories/outbox/postgres"
	productrepo "github.com/cosmoshop/checkout/internal/dal/repositories/product/postgres"
)

// unitOfWork binds every repository to one connection: the pool before
// Begin, a single transaction after. Commit or Rollback ends the
// transaction; repositories then point at the pool again.
type unitOfWork struct {
	pool *pgxpool.Pool
	tx   pgx.Tx

	orderRepo     iorder.PostgresRepository
	orderLineRepo iorderline.PostgresRepository
	cartRepo      icart.PostgresRepository
	productRepo   iproduct.PostgresRepository
	outboxRepo    ioutbox.PostgresRepository
}

// NewUnitOfWork creates a unit of work over the given Postgres client.
func NewUnitOfWork(client *postgres.Client) *unitOfWork {
	u := &unitOfWork{pool: client.Pool()}
	u.bind(client.Pool())

	return u
}

func (u *unitOfWork) bind(c conn.GenericConn) {
	u.orderRepo = orderrepo.NewPostgresOrderRepository(c)
	u.orderLineRepo = orderlinerepo.NewPostgresOrderLineRepository(c)
	u.cartRepo = cartrepo.NewPostgresCartRepository(c)
	u.productRepo = productrepo.NewPostgresProductRepository(c)
	u.outboxRepo = outboxrepo.NewPostgresOutboxRepository(c)
}

func (u *unitOfWork) OrderRepository() iorder.PostgresRepository {
	return u.orderRepo
}

func (u *unitOfWork) OrderLineRepository() iorderline.PostgresRepository {
	return u.orderLineRepo
}

func (u *unitOfWork) CartRepository() icart.PostgresRepository {
	return u.cartRepo
}

func (u *unitOfWork) ProductRepository() iproduct.PostgresRepository {
	return u.productRepo
}

func (u *unitOfWork) OutboxRepository() ioutbox.PostgresRepository {
	return u.outboxRepo
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	u.bind(tx)

	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	err := u.tx.Commit(ctx)
	u.tx = nil
	u.bind(u.pool)

	return err
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	err := u.tx.Rollback(ctx)
	u.tx = nil
	u.bind(u.pool)

	return err
}
