package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/cosmoshop/checkout/internal/dal/conn"
	"github.com/cosmoshop/checkout/internal/service/models/currency"
	"github.com/cosmoshop/checkout/internal/service/models/order"
	"github.com/cosmoshop/checkout/internal/service/models/orderline"
)

// OrderDal represents the order data access layer model.
type OrderDal struct {
	Id             int64     `db:"id"`
	UserId         int64     `db:"user_id"`
	TotalCents     int64     `db:"total_cents"`
	TotalCurrency  string    `db:"total_currency"`
	PaymentMethod  string    `db:"payment_method"`
	PaymentStatus  string    `db:"payment_status"`
	Phone          string    `db:"phone"`
	Address        string    `db:"address"`
	PaymentUrl     *string   `db:"payment_url"`
	TransactionNo  *string   `db:"transaction_no"`
	PaymentMessage string    `db:"payment_message"`
	CreatedBy      string    `db:"created_by"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// ToModel converts OrderDal to the service layer Order model.
func (o *OrderDal) ToModel() (*order.Order, error) {
	cur, err := currency.ParseCurrency(o.TotalCurrency)
	if err != nil {
		return nil, err
	}
	method, err := order.ParsePaymentMethod(o.PaymentMethod)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(o.PaymentStatus)
	if err != nil {
		return nil, err
	}

	model := &order.Order{
		ID:             o.Id,
		UserID:         o.UserId,
		TotalCents:     o.TotalCents,
		TotalCurrency:  cur,
		PaymentMethod:  method,
		PaymentStatus:  status,
		Phone:          o.Phone,
		Address:        o.Address,
		PaymentMessage: o.PaymentMessage,
		CreatedBy:      o.CreatedBy,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
		Lines:          []orderline.Line{},
	}
	if o.PaymentUrl != nil {
		model.PaymentURL = *o.PaymentUrl
	}
	if o.TransactionNo != nil {
		model.TransactionNo = *o.TransactionNo
	}

	return model, nil
}

// OrderDalFromModel converts the service layer Order model to OrderDal.
func OrderDalFromModel(o *order.Order) *OrderDal {
	dal := &OrderDal{
		Id:             o.ID,
		UserId:         o.UserID,
		TotalCents:     o.TotalCents,
		TotalCurrency:  o.TotalCurrency.String(),
		PaymentMethod:  o.PaymentMethod.String(),
		PaymentStatus:  o.PaymentStatus.String(),
		Phone:          o.Phone,
		Address:        o.Address,
		PaymentMessage: o.PaymentMessage,
		CreatedBy:      o.CreatedBy,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
	if o.PaymentURL != "" {
		dal.PaymentUrl = &o.PaymentURL
	}
	if o.TransactionNo != "" {
		dal.TransactionNo = &o.TransactionNo
	}

	return dal
}

// PostgresOrderRepository represents a Postgres order repository.
type PostgresOrderRepository struct {
	conn conn.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderRepository creates a new Postgres order repository.
func NewPostgresOrderRepository(conn conn.GenericConn) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var orderColumns = []string{
	"id",
	"user_id",
	"total_cents",
	"total_currency",
	"payment_method",
	"payment_status",
	"phone",
	"address",
	"payment_url",
	"transaction_no",
	"payment_message",
	"created_by",
	"created_at",
	"updated_at",
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	var dal OrderDal
	err := row.Scan(
		&dal.Id,
		&dal.UserId,
		&dal.TotalCents,
		&dal.TotalCurrency,
		&dal.PaymentMethod,
		&dal.PaymentStatus,
		&dal.Phone,
		&dal.Address,
		&dal.PaymentUrl,
		&dal.TransactionNo,
		&dal.PaymentMessage,
		&dal.CreatedBy,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return dal.ToModel()
}

// Insert persists a new order header and returns it with generated fields.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o *order.Order) (*order.Order, error) {
	dal := OrderDalFromModel(o)

	sql, args, err := r.sb.
		Insert("orders").
		Columns(
			"user_id",
			"total_cents",
			"total_currency",
			"payment_method",
			"payment_status",
			"phone",
			"address",
			"payment_url",
			"transaction_no",
			"payment_message",
			"created_by",
			"created_at",
			"updated_at",
		).
		Values(
			dal.UserId,
			dal.TotalCents,
			dal.TotalCurrency,
			dal.PaymentMethod,
			dal.PaymentStatus,
			dal.Phone,
			dal.Address,
			dal.PaymentUrl,
			dal.TransactionNo,
			dal.PaymentMessage,
			dal.CreatedBy,
			dal.CreatedAt,
			dal.UpdatedAt,
		).
		Suffix("RETURNING " + strings.Join(orderColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	inserted, err := scanOrder(r.conn.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}
	inserted.Lines = o.Lines

	return inserted, nil
}

// GetByID retrieves one order header by id.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	sql, args, err := r.sb.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	model, err := scanOrder(r.conn.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}

		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return model, nil
}

// GetByIDForUpdate retrieves one order header by id, locking the row
// for the rest of the transaction. Used by the payment callback path so
// duplicate deliveries serialize instead of both observing PENDING.
func (r *PostgresOrderRepository) GetByIDForUpdate(ctx context.Context, id int64) (*order.Order, error) {
	sql, args, err := r.sb.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	model, err := scanOrder(r.conn.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}

		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return model, nil
}

// Query retrieves orders based on filter criteria.
func (r *PostgresOrderRepository) Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	query := r.sb.
		Select(orderColumns...).
		From("orders").
		OrderBy("id DESC")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"id": filter.Ids})
	}

	if len(filter.UserIds) > 0 {
		query = query.Where(sq.Eq{"user_id": filter.UserIds})
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = s.String()
		}
		query = query.Where(sq.Eq{"payment_status": statuses})
	}

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		model, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Update persists the mutable payment fields of an existing order.
func (r *PostgresOrderRepository) Update(ctx context.Context, o *order.Order) error {
	dal := OrderDalFromModel(o)

	sql, args, err := r.sb.
		Update("orders").
		Set("payment_status", dal.PaymentStatus).
		Set("payment_url", dal.PaymentUrl).
		Set("transaction_no", dal.TransactionNo).
		Set("payment_message", dal.PaymentMessage).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": dal.Id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}

	return nil
}
