package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/cosmoshop/checkout/internal/dal/conn"
	"github.com/cosmoshop/checkout/internal/service/models/product"
)

// ProductDal represents the product data access layer model.
type ProductDal struct {
	Id             int64     `db:"id"`
	Name           string    `db:"name"`
	SellPriceCents int64     `db:"sell_price_cents"`
	Quantity       int       `db:"quantity"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// ToModel converts ProductDal to the service layer Product model.
func (p *ProductDal) ToModel() *product.Product {
	return &product.Product{
		ID:             p.Id,
		Name:           p.Name,
		SellPriceCents: p.SellPriceCents,
		Quantity:       p.Quantity,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// PostgresProductRepository represents a Postgres product repository.
type PostgresProductRepository struct {
	conn conn.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresProductRepository creates a new Postgres product repository.
func NewPostgresProductRepository(conn conn.GenericConn) *PostgresProductRepository {
	return &PostgresProductRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// GetByID retrieves one product by id.
func (r *PostgresProductRepository) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	sql, args, err := r.sb.
		Select("id", "name", "sell_price_cents", "quantity", "created_at", "updated_at").
		From("products").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var dal ProductDal
	err = r.conn.QueryRow(ctx, sql, args...).Scan(
		&dal.Id,
		&dal.Name,
		&dal.SellPriceCents,
		&dal.Quantity,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}

		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return dal.ToModel(), nil
}

// ReserveStock decrements a product's stock by quantity. The check and
// the decrement are one conditional statement, so two checkouts racing
// on the same product serialize on the row instead of both passing a
// stale read.
func (r *PostgresProductRepository) ReserveStock(ctx context.Context, productID int64, quantity int) error {
	tag, err := r.conn.Exec(ctx, `
		UPDATE products
		SET quantity = quantity - $2, updated_at = now()
		WHERE id = $1 AND quantity >= $2
	`, productID, quantity)
	if err != nil {
		return fmt.Errorf("failed to reserve stock: %w", err)
	}

	if tag.RowsAffected() > 0 {
		return nil
	}

	// No row matched: either the product is gone or stock is short.
	p, err := r.GetByID(ctx, productID)
	if err != nil {
		return err
	}

	return &product.InsufficientStockError{
		ProductID:   p.ID,
		ProductName: p.Name,
		Requested:   quantity,
		Available:   p.Quantity,
	}
}

// SetStock overwrites a product's stock level.
func (r *PostgresProductRepository) SetStock(ctx context.Context, productID int64, quantity int) error {
	tag, err := r.conn.Exec(ctx, `
		UPDATE products
		SET quantity = $2, updated_at = now()
		WHERE id = $1
	`, productID, quantity)
	if err != nil {
		return fmt.Errorf("failed to set stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}

	return nil
}
