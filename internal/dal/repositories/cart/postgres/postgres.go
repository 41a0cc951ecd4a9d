package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/cosmoshop/checkout/internal/dal/conn"
	"github.com/cosmoshop/checkout/internal/service/models/cartline"
)

// CartLineDal represents the cart line data access layer model.
type CartLineDal struct {
	Id        int64     `db:"id"`
	CartId    int64     `db:"cart_id"`
	ProductId int64     `db:"product_id"`
	Quantity  int       `db:"quantity"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ToModel converts CartLineDal to the service layer Line model.
func (l *CartLineDal) ToModel() *cartline.Line {
	return &cartline.Line{
		ID:        l.Id,
		CartID:    l.CartId,
		ProductID: l.ProductId,
		Quantity:  l.Quantity,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

// PostgresCartRepository represents a Postgres cart repository.
// Each user owns at most one cart; it is created lazily.
type PostgresCartRepository struct {
	conn conn.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresCartRepository creates a new Postgres cart repository.
func NewPostgresCartRepository(conn conn.GenericConn) *PostgresCartRepository {
	return &PostgresCartRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *PostgresCartRepository) cartIDForUser(ctx context.Context, userID int64) (int64, error) {
	var cartID int64
	err := r.conn.QueryRow(ctx, `
		INSERT INTO carts (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = now()
		RETURNING id
	`, userID).Scan(&cartID)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve cart for user: %w", err)
	}

	return cartID, nil
}

// LinesByUser retrieves the current cart lines of a user.
func (r *PostgresCartRepository) LinesByUser(ctx context.Context, userID int64) ([]cartline.Line, error) {
	sql, args, err := r.sb.
		Select("cl.id", "cl.cart_id", "cl.product_id", "cl.quantity", "cl.created_at", "cl.updated_at").
		From("cart_lines cl").
		Join("carts c ON c.id = cl.cart_id").
		Where(sq.Eq{"c.user_id": userID}).
		OrderBy("cl.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}
	defer rows.Close()

	var result []cartline.Line
	for rows.Next() {
		var dal CartLineDal
		err := rows.Scan(&dal.Id, &dal.CartId, &dal.ProductId, &dal.Quantity, &dal.CreatedAt, &dal.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		result = append(result, *dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// AddLine adds a product to the user's cart, summing quantities when the
// product is already there.
func (r *PostgresCartRepository) AddLine(ctx context.Context, userID, productID int64, quantity int) (*cartline.Line, error) {
	cartID, err := r.cartIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var dal CartLineDal
	err = r.conn.QueryRow(ctx, `
		INSERT INTO cart_lines (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity, updated_at = now()
		RETURNING id, cart_id, product_id, quantity, created_at, updated_at
	`, cartID, productID, quantity).Scan(
		&dal.Id, &dal.CartId, &dal.ProductId, &dal.Quantity, &dal.CreatedAt, &dal.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add cart line: %w", err)
	}

	return dal.ToModel(), nil
}

// UpdateLineQuantity sets the quantity of one cart line owned by the user.
func (r *PostgresCartRepository) UpdateLineQuantity(ctx context.Context, userID, lineID int64, quantity int) (*cartline.Line, error) {
	var dal CartLineDal
	err := r.conn.QueryRow(ctx, `
		UPDATE cart_lines cl
		SET quantity = $3, updated_at = now()
		FROM carts c
		WHERE cl.id = $2 AND c.id = cl.cart_id AND c.user_id = $1
		RETURNING cl.id, cl.cart_id, cl.product_id, cl.quantity, cl.created_at, cl.updated_at
	`, userID, lineID, quantity).Scan(
		&dal.Id, &dal.CartId, &dal.ProductId, &dal.Quantity, &dal.CreatedAt, &dal.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cartline.ErrNotFound
		}

		return nil, fmt.Errorf("failed to update cart line: %w", err)
	}

	return dal.ToModel(), nil
}

// DeleteLine removes one cart line owned by the user.
func (r *PostgresCartRepository) DeleteLine(ctx context.Context, userID, lineID int64) error {
	tag, err := r.conn.Exec(ctx, `
		DELETE FROM cart_lines cl
		USING carts c
		WHERE cl.id = $2 AND c.id = cl.cart_id AND c.user_id = $1
	`, userID, lineID)
	if err != nil {
		return fmt.Errorf("failed to delete cart line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return cartline.ErrNotFound
	}

	return nil
}

// Clear removes every line from the user's cart.
func (r *PostgresCartRepository) Clear(ctx context.Context, userID int64) error {
	_, err := r.conn.Exec(ctx, `
		DELETE FROM cart_lines cl
		USING carts c
		WHERE c.id = cl.cart_id AND c.user_id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}
