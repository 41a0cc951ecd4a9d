package checkoutsvc

import (
	"context"
	"fmt"
	"time"

	icart "github.com/cosmoshop/checkout/internal/dal/interfaces/cart"
	iorder "github.com/cosmoshop/checkout/internal/dal/interfaces/order"
	iorderline "github.com/cosmoshop/checkout/internal/dal/interfaces/orderline"
	ioutbox "github.com/cosmoshop/checkout/internal/dal/interfaces/outbox"
	iproduct "github.com/cosmoshop/checkout/internal/dal/interfaces/product"
	"github.com/cosmoshop/checkout/internal/dal/postgres"
	"github.com/cosmoshop/checkout/internal/dal/uow"
	"github.com/cosmoshop/checkout/internal/service/models/cartline"
	"github.com/cosmoshop/checkout/internal/service/models/currency"
	"github.com/cosmoshop/checkout/internal/service/models/events"
	"github.com/cosmoshop/checkout/internal/service/models/order"
	"github.com/cosmoshop/checkout/internal/service/models/orderline"
	"github.com/cosmoshop/checkout/internal/service/models/outbox"
)

// Confirmation messages shown to the customer per payment outcome.
const (
	MessageCODConfirmed    = "Cảm ơn bạn đã đặt hàng tại Cosmo"
	MessageAwaitingPayment = "Đang chờ thanh toán"
	MessagePaid            = "Thanh toán thành công"
	MessageFailed          = "Thanh toán thất bại"
	MessageRefunded        = "Đã hoàn tiền"
)

// unitOfWork is the transactional boundary checkout runs inside.
type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorder.PostgresRepository
	OrderLineRepository() iorderline.PostgresRepository
	CartRepository() icart.PostgresRepository
	ProductRepository() iproduct.PostgresRepository
	OutboxRepository() ioutbox.PostgresRepository
}

// paymentGateway builds signed redirect URLs for TRANSFER orders.
type paymentGateway interface {
	BuildRedirectURL(orderID int64, amountCents int64, orderInfo, clientIP string) (string, error)
}

// CheckoutService turns carts into orders and manages their payment fields.
type CheckoutService struct {
	pgClient *postgres.Client
	gateway  paymentGateway
	newUOW   func() unitOfWork
}

// option is a function that configures the CheckoutService.
type option func(*CheckoutService)

// MustNewCheckoutService creates a new CheckoutService.
func MustNewCheckoutService(opts ...option) *CheckoutService {
	s := &CheckoutService{}
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

// WithPostgresClient sets the Postgres client for the CheckoutService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *CheckoutService) {
		s.pgClient = pgClient
	}
}

// WithGateway sets the payment gateway for the CheckoutService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithGateway(gw paymentGateway) option {
	return func(s *CheckoutService) {
		s.gateway = gw
	}
}

// WithUnitOfWorkFactory overrides how units of work are built.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *CheckoutService) {
		s.newUOW = factory
	}
}

// Checkout converts the user's cart into a persisted order. Cart read,
// price capture, stock reservation, order and line inserts, the cart
// clear and the outbox record are one transaction: any failure leaves
// no trace.
func (s *CheckoutService) Checkout(
	ctx context.Context,
	userID int64,
	method order.PaymentMethod,
	phone, address, clientIP string,
) (*order.Order, error) {
	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() { _ = work.Rollback(ctx) }()

	cartLines, err := work.CartRepository().LinesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cartLines) == 0 {
		return nil, cartline.ErrEmptyCart
	}

	now := time.Now()

	var totalCents int64
	lines := make([]orderline.Line, 0, len(cartLines))
	for _, cl := range cartLines {
		p, err := work.ProductRepository().GetByID(ctx, cl.ProductID)
		if err != nil {
			return nil, err
		}

		if err := work.ProductRepository().ReserveStock(ctx, p.ID, cl.Quantity); err != nil {
			return nil, err
		}

		lineTotal := p.SellPriceCents * int64(cl.Quantity)
		totalCents += lineTotal
		lines = append(lines, orderline.Line{
			ProductID:      p.ID,
			ProductName:    p.Name,
			UnitPriceCents: p.SellPriceCents,
			Quantity:       cl.Quantity,
			TotalCents:     lineTotal,
			PriceCurrency:  currency.CurrencyVND,
			CreatedAt:      now,
		})
	}

	message := MessageAwaitingPayment
	if method == order.PaymentMethodCOD {
		message = MessageCODConfirmed
	}

	o := &order.Order{
		UserID:         userID,
		TotalCents:     totalCents,
		TotalCurrency:  currency.CurrencyVND,
		PaymentMethod:  method,
		PaymentStatus:  order.StatusPending,
		Phone:          phone,
		Address:        address,
		PaymentMessage: message,
		CreatedBy:      fmt.Sprintf("user:%d", userID),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	inserted, err := work.OrderRepository().Insert(ctx, o)
	if err != nil {
		return nil, err
	}

	for i := range lines {
		lines[i].OrderID = inserted.ID
	}
	insertedLines, err := work.OrderLineRepository().BulkInsert(ctx, lines)
	if err != nil {
		return nil, err
	}
	inserted.Lines = insertedLines

	if method == order.PaymentMethodTransfer {
		orderInfo := fmt.Sprintf("Thanh toan don hang: %d", inserted.ID)
		paymentURL, err := s.gateway.BuildRedirectURL(inserted.ID, inserted.TotalCents, orderInfo, clientIP)
		if err != nil {
			return nil, err
		}
		inserted.PaymentURL = paymentURL
		if err := work.OrderRepository().Update(ctx, inserted); err != nil {
			return nil, err
		}
	}

	if err := work.CartRepository().Clear(ctx, userID); err != nil {
		return nil, err
	}

	if err := enqueueEvent(ctx, work.OutboxRepository(), events.RoutingKeyOrderCreated, events.NewOrderCreated(inserted)); err != nil {
		return nil, err
	}

	if err := work.Commit(ctx); err != nil {
		return nil, err
	}

	return inserted, nil
}

// PaymentURL returns the order's stored payment URL, generating and
// persisting one for TRANSFER orders that do not have it yet. The URL
// is set at most once; repeat calls return the identical value.
func (s *CheckoutService) PaymentURL(ctx context.Context, orderID int64, clientIP string) (string, error) {
	work := s.newUOW()

	o, err := work.OrderRepository().GetByID(ctx, orderID)
	if err != nil {
		return "", err
	}

	if o.PaymentMethod != order.PaymentMethodTransfer {
		return "", order.ErrNotTransfer
	}

	if o.PaymentURL != "" {
		return o.PaymentURL, nil
	}

	orderInfo := fmt.Sprintf("Thanh toan don hang: %d", o.ID)
	paymentURL, err := s.gateway.BuildRedirectURL(o.ID, o.TotalCents, orderInfo, clientIP)
	if err != nil {
		return "", err
	}

	o.PaymentURL = paymentURL
	if err := work.OrderRepository().Update(ctx, o); err != nil {
		return "", err
	}

	return paymentURL, nil
}

// SetPaymentStatus is the administrative override: it sets any valid
// status directly, bypassing the forward-only lifecycle on purpose.
func (s *CheckoutService) SetPaymentStatus(ctx context.Context, orderID int64, status order.Status) (*order.Order, error) {
	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() { _ = work.Rollback(ctx) }()

	o, err := work.OrderRepository().GetByIDForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}

	o.PaymentStatus = status
	switch status {
	case order.StatusPaid:
		o.PaymentMessage = MessagePaid
	case order.StatusFailed:
		o.PaymentMessage = MessageFailed
	case order.StatusPending:
		o.PaymentMessage = MessageAwaitingPayment
	case order.StatusRefunded:
		o.PaymentMessage = MessageRefunded
	}

	if err := work.OrderRepository().Update(ctx, o); err != nil {
		return nil, err
	}

	if err := enqueueEvent(ctx, work.OutboxRepository(), events.RoutingKeyPaymentConfirmed, events.NewPaymentConfirmed(o, "")); err != nil {
		return nil, err
	}

	if err := work.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}

// GetOrder retrieves one order with its lines.
func (s *CheckoutService) GetOrder(ctx context.Context, orderID int64) (*order.Order, error) {
	work := s.newUOW()

	o, err := work.OrderRepository().GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	lines, err := work.OrderLineRepository().ListByOrderIDs(ctx, []int64{o.ID})
	if err != nil {
		return nil, err
	}
	o.Lines = lines

	return o, nil
}

// ListOrders retrieves orders with their lines based on filter.
func (s *CheckoutService) ListOrders(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	work := s.newUOW()

	orders, err := work.OrderRepository().Query(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	orderIDs := make([]int64, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
	}
	lines, err := work.OrderLineRepository().ListByOrderIDs(ctx, orderIDs)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		for _, l := range lines {
			if l.OrderID == orders[i].ID {
				orders[i].Lines = append(orders[i].Lines, l)
			}
		}
	}

	return orders, nil
}

// enqueueEvent writes one event into the outbox within the caller's
// transaction.
func enqueueEvent(ctx context.Context, repo ioutbox.PostgresRepository, routingKey string, payload any) error {
	msg, err := outbox.NewEventMessage(routingKey, payload)
	if err != nil {
		return err
	}

	return repo.Insert(ctx, msg)
}
