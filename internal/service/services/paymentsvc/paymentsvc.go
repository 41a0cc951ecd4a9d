package paymentsvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	iorder "github.com/cosmoshop/checkout/internal/dal/interfaces/order"
	ioutbox "github.com/cosmoshop/checkout/internal/dal/interfaces/outbox"
	"github.com/cosmoshop/checkout/internal/dal/postgres"
	"github.com/cosmoshop/checkout/internal/dal/uow"
	"github.com/cosmoshop/checkout/internal/gateway"
	"github.com/cosmoshop/checkout/internal/service/models/events"
	"github.com/cosmoshop/checkout/internal/service/models/order"
	"github.com/cosmoshop/checkout/internal/service/models/outbox"
)

// ErrInvalidSignature means the callback's secure hash did not match.
// The order is left untouched and the caller learns nothing more.
var ErrInvalidSignature = errors.New("invalid gateway signature")

// unitOfWork is the transactional boundary a callback is applied inside.
type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorder.PostgresRepository
	OutboxRepository() ioutbox.PostgresRepository
}

// signatureVerifier checks the MAC on inbound gateway parameters.
type signatureVerifier interface {
	VerifySignature(params map[string]string) bool
}

// PaymentService applies the gateway's asynchronous payment outcome.
type PaymentService struct {
	pgClient *postgres.Client
	verifier signatureVerifier
	newUOW   func() unitOfWork
}

// option is a function that configures the PaymentService.
type option func(*PaymentService)

// MustNewPaymentService creates a new PaymentService.
func MustNewPaymentService(opts ...option) *PaymentService {
	s := &PaymentService{}
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

// WithPostgresClient sets the Postgres client for the PaymentService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *PaymentService) {
		s.pgClient = pgClient
	}
}

// WithVerifier sets the signature verifier for the PaymentService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithVerifier(v signatureVerifier) option {
	return func(s *PaymentService) {
		s.verifier = v
	}
}

// WithUnitOfWorkFactory overrides how units of work are built.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *PaymentService) {
		s.newUOW = factory
	}
}

// HandleReturn consumes the gateway's return callback. The signature is
// verified before anything else; a bad one rejects the callback without
// touching the order. Valid callbacks settle PENDING orders to PAID or
// FAILED through the forward-only lifecycle, so a duplicate delivery
// finds the order already settled and returns it unchanged.
func (s *PaymentService) HandleReturn(ctx context.Context, params map[string]string) (*order.Order, error) {
	if !s.verifier.VerifySignature(params) {
		slog.Error("Invalid checksum on gateway callback")

		return nil, ErrInvalidSignature
	}

	orderID, err := strconv.ParseInt(params[gateway.ParamTxnRef], 10, 64)
	if err != nil {
		slog.Error("Gateway callback with malformed order reference", "txn_ref", params[gateway.ParamTxnRef])

		return nil, order.ErrNotFound
	}

	responseCode := params[gateway.ParamResponseCode]

	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() { _ = work.Rollback(ctx) }()

	o, err := work.OrderRepository().GetByIDForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}

	next := order.StatusFailed
	if responseCode == gateway.ResponseCodeSuccess {
		next = order.StatusPaid
	}

	if !o.PaymentStatus.CanTransition(next) {
		// Already settled: duplicate or out-of-order delivery.
		slog.Warn("Gateway callback for settled order ignored",
			"order_id", o.ID,
			"payment_status", o.PaymentStatus,
			"response_code", responseCode,
		)

		return o, nil
	}

	o.PaymentStatus = next
	if next == order.StatusPaid {
		if txnNo, ok := params[gateway.ParamTransactionNo]; ok {
			o.TransactionNo = txnNo
		}
		o.PaymentMessage = "Thanh toán thành công"
		slog.Info("Payment successful", "order_id", o.ID)
	} else {
		o.PaymentMessage = fmt.Sprintf("Thanh toán không thành công. Mã lỗi: %s", responseCode)
		slog.Error("Payment failed", "order_id", o.ID, "response_code", responseCode)
	}

	if err := work.OrderRepository().Update(ctx, o); err != nil {
		return nil, err
	}

	msg, err := outbox.NewEventMessage(events.RoutingKeyPaymentConfirmed, events.NewPaymentConfirmed(o, responseCode))
	if err != nil {
		return nil, err
	}
	if err := work.OutboxRepository().Insert(ctx, msg); err != nil {
		return nil, err
	}

	if err := work.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
