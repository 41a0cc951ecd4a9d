package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/cosmoshop/checkout/internal/dal/conn"
	"github.com/cosmoshop/checkout/internal/service/models/currency"
	"github.com/cosmoshop/checkout/internal/service/models/orderline"
)

// OrderLineDal represents the order line data access layer model.
type OrderLineDal struct {
	Id             int64     `db:"id"`
	OrderId        int64     `db:"order_id"`
	ProductId      int64     `db:"product_id"`
	ProductName    string    `db:"product_name"`
	UnitPriceCents int64     `db:"unit_price_cents"`
	Quantity       int       `db:"quantity"`
	TotalCents     int64     `db:"total_cents"`
	CreatedAt      time.Time `db:"created_at"`
}

// ToModel converts OrderLineDal to the service layer Line model.
func (l *OrderLineDal) ToModel() *orderline.Line {
	return &orderline.Line{
		ID:             l.Id,
		OrderID:        l.OrderId,
		ProductID:      l.ProductId,
		ProductName:    l.ProductName,
		UnitPriceCents: l.UnitPriceCents,
		Quantity:       l.Quantity,
		TotalCents:     l.TotalCents,
		PriceCurrency:  currency.CurrencyVND,
		CreatedAt:      l.CreatedAt,
	}
}

// PostgresOrderLineRepository represents a Postgres order line repository.
type PostgresOrderLineRepository struct {
	conn conn.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderLineRepository creates a new Postgres order line repository.
func NewPostgresOrderLineRepository(conn conn.GenericConn) *PostgresOrderLineRepository {
	return &PostgresOrderLineRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// BulkInsert inserts the lines of one order and returns them with IDs.
func (r *PostgresOrderLineRepository) BulkInsert(ctx context.Context, lines []orderline.Line) ([]orderline.Line, error) {
	if len(lines) == 0 {
		return []orderline.Line{}, nil
	}

	query := r.sb.
		Insert("order_lines").
		Columns(
			"order_id",
			"product_id",
			"product_name",
			"unit_price_cents",
			"quantity",
			"total_cents",
			"created_at",
		)

	for _, l := range lines {
		query = query.Values(
			l.OrderID,
			l.ProductID,
			l.ProductName,
			l.UnitPriceCents,
			l.Quantity,
			l.TotalCents,
			l.CreatedAt,
		)
	}

	sql, args, err := query.
		Suffix("RETURNING id, order_id, product_id, product_name, unit_price_cents, quantity, total_cents, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk insert order lines: %w", err)
	}
	defer rows.Close()

	var result []orderline.Line
	for rows.Next() {
		var dal OrderLineDal
		err := rows.Scan(
			&dal.Id,
			&dal.OrderId,
			&dal.ProductId,
			&dal.ProductName,
			&dal.UnitPriceCents,
			&dal.Quantity,
			&dal.TotalCents,
			&dal.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		result = append(result, *dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// ListByOrderIDs retrieves the lines of the given orders.
func (r *PostgresOrderLineRepository) ListByOrderIDs(ctx context.Context, orderIDs []int64) ([]orderline.Line, error) {
	if len(orderIDs) == 0 {
		return []orderline.Line{}, nil
	}

	sql, args, err := r.sb.
		Select(
			"id",
			"order_id",
			"product_id",
			"product_name",
			"unit_price_cents",
			"quantity",
			"total_cents",
			"created_at",
		).
		From("order_lines").
		Where(sq.Eq{"order_id": orderIDs}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	var result []orderline.Line
	for rows.Next() {
		var dal OrderLineDal
		err := rows.Scan(
			&dal.Id,
			&dal.OrderId,
			&dal.ProductId,
			&dal.ProductName,
			&dal.UnitPriceCents,
			&dal.Quantity,
			&dal.TotalCents,
			&dal.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		result = append(result, *dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
