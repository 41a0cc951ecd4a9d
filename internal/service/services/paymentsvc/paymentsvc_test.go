package paymentsvc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	iorder "github.com/cosmoshop/checkout/internal/dal/interfaces/order"
	ioutbox "github.com/cosmoshop/checkout/internal/dal/interfaces/outbox"
	"github.com/cosmoshop/checkout/internal/gateway"
	"github.com/cosmoshop/checkout/internal/service/models/events"
	"github.com/cosmoshop/checkout/internal/service/models/order"
	"github.com/cosmoshop/checkout/internal/service/models/outbox"
)

type fakeOrderRepo struct {
	orders  map[int64]*order.Order
	updates int
}

func (r *fakeOrderRepo) Insert(_ context.Context, o *order.Order) (*order.Order, error) {
	stored := *o
	r.orders[stored.ID] = &stored
	result := stored

	return &result, nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id int64) (*order.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	result := *o

	return &result, nil
}

func (r *fakeOrderRepo) GetByIDForUpdate(ctx context.Context, id int64) (*order.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeOrderRepo) Query(_ context.Context, _ *order.QueryOrdersModel) ([]order.Order, error) {
	return nil, nil
}

func (r *fakeOrderRepo) Update(_ context.Context, o *order.Order) error {
	if _, ok := r.orders[o.ID]; !ok {
		return order.ErrNotFound
	}
	stored := *o
	r.orders[o.ID] = &stored
	r.updates++

	return nil
}

type fakeOutboxRepo struct {
	messages []outbox.Message
}

func (r *fakeOutboxRepo) Insert(_ context.Context, msg outbox.Message) error {
	r.messages = append(r.messages, msg)

	return nil
}

func (r *fakeOutboxRepo) GetPendingMessages(_ context.Context, _ int) ([]outbox.Message, error) {
	return r.messages, nil
}

func (r *fakeOutboxRepo) Delete(_ context.Context, _ int64) error {
	return nil
}

func (r *fakeOutboxRepo) UpdateRetry(_ context.Context, _ int64, _ int, _ string, _ time.Time) error {
	return nil
}

type fakeUOW struct {
	orderRepo  *fakeOrderRepo
	outboxRepo *fakeOutboxRepo

	began     bool
	commits   int
	rollbacks int
}

func newFakeUOW() *fakeUOW {
	return &fakeUOW{
		orderRepo:  &fakeOrderRepo{orders: map[int64]*order.Order{}},
		outboxRepo: &fakeOutboxRepo{},
	}
}

func (u *fakeUOW) Begin(_ context.Context) error {
	u.began = true

	return nil
}

func (u *fakeUOW) Commit(_ context.Context) error {
	u.began = false
	u.commits++

	return nil
}

func (u *fakeUOW) Rollback(_ context.Context) error {
	if u.began {
		u.rollbacks++
		u.began = false
	}

	return nil
}

func (u *fakeUOW) OrderRepository() iorder.PostgresRepository   { return u.orderRepo }
func (u *fakeUOW) OutboxRepository() ioutbox.PostgresRepository { return u.outboxRepo }

type fakeVerifier struct {
	ok bool
}

func (v *fakeVerifier) VerifySignature(_ map[string]string) bool {
	return v.ok
}

func newServiceWithUOW(work *fakeUOW, ok bool) *PaymentService {
	return MustNewPaymentService(
		WithVerifier(&fakeVerifier{ok: ok}),
		WithUnitOfWorkFactory(func() unitOfWork { return work }),
	)
}

func pendingTransferOrder(id int64) *order.Order {
	return &order.Order{
		ID:            id,
		UserID:        7,
		TotalCents:    250000,
		PaymentMethod: order.PaymentMethodTransfer,
		PaymentStatus: order.StatusPending,
	}
}

func TestHandleReturnInvalidSignature(t *testing.T) {
	work := newFakeUOW()
	work.orderRepo.orders[1] = pendingTransferOrder(1)

	svc := newServiceWithUOW(work, false)

	_, err := svc.HandleReturn(context.Background(), map[string]string{
		gateway.ParamTxnRef:       "1",
		gateway.ParamResponseCode: "00",
		gateway.ParamSecureHash:   "deadbeef",
	})
	require.ErrorIs(t, err, ErrInvalidSignature)

	stored, err := work.orderRepo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, stored.PaymentStatus)
	assert.Zero(t, work.orderRepo.updates)
	assert.Zero(t, work.commits)
	assert.Empty(t, work.outboxRepo.messages)
}

func TestHandleReturnSuccess(t *testing.T) {
	work := newFakeUOW()
	work.orderRepo.orders[1] = pendingTransferOrder(1)

	svc := newServiceWithUOW(work, true)

	o, err := svc.HandleReturn(context.Background(), map[string]string{
		gateway.ParamTxnRef:        "1",
		gateway.ParamResponseCode:  "00",
		gateway.ParamTransactionNo: "14226112",
	})
	require.NoError(t, err)

	assert.Equal(t, order.StatusPaid, o.PaymentStatus)
	assert.Equal(t, "14226112", o.TransactionNo)
	assert.Equal(t, "Thanh toán thành công", o.PaymentMessage)
	assert.Equal(t, 1, work.commits)

	require.Len(t, work.outboxRepo.messages, 1)
	assert.Equal(t, events.RoutingKeyPaymentConfirmed, work.outboxRepo.messages[0].RoutingKey)
}

func TestHandleReturnFailureCode(t *testing.T) {
	work := newFakeUOW()
	work.orderRepo.orders[1] = pendingTransferOrder(1)

	svc := newServiceWithUOW(work, true)

	o, err := svc.HandleReturn(context.Background(), map[string]string{
		gateway.ParamTxnRef:       "1",
		gateway.ParamResponseCode: "24",
	})
	require.NoError(t, err)

	assert.Equal(t, order.StatusFailed, o.PaymentStatus)
	assert.Contains(t, o.PaymentMessage, "24")
	assert.Empty(t, o.TransactionNo)
	assert.Equal(t, 1, work.commits)
}

func TestHandleReturnDuplicateDelivery(t *testing.T) {
	work := newFakeUOW()
	work.orderRepo.orders[1] = pendingTransferOrder(1)

	svc := newServiceWithUOW(work, true)

	params := map[string]string{
		gateway.ParamTxnRef:        "1",
		gateway.ParamResponseCode:  "00",
		gateway.ParamTransactionNo: "14226112",
	}

	first, err := svc.HandleReturn(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, first.PaymentStatus)

	second, err := svc.HandleReturn(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, second.PaymentStatus)

	assert.Equal(t, 1, work.orderRepo.updates, "settled order must not be updated again")
	assert.Equal(t, 1, work.commits)
	assert.Len(t, work.outboxRepo.messages, 1)
}

func TestHandleReturnLateFailureAfterPaid(t *testing.T) {
	work := newFakeUOW()
	paid := pendingTransferOrder(1)
	paid.PaymentStatus = order.StatusPaid
	work.orderRepo.orders[1] = paid

	svc := newServiceWithUOW(work, true)

	o, err := svc.HandleReturn(context.Background(), map[string]string{
		gateway.ParamTxnRef:       "1",
		gateway.ParamResponseCode: "24",
	})
	require.NoError(t, err)

	assert.Equal(t, order.StatusPaid, o.PaymentStatus, "out-of-order failure must not demote a paid order")
	assert.Zero(t, work.orderRepo.updates)
}

func TestHandleReturnUnknownOrder(t *testing.T) {
	svc := newServiceWithUOW(newFakeUOW(), true)

	_, err := svc.HandleReturn(context.Background(), map[string]string{
		gateway.ParamTxnRef:       "404",
		gateway.ParamResponseCode: "00",
	})
	assert.ErrorIs(t, err, order.ErrNotFound)
}

func TestHandleReturnMalformedReference(t *testing.T) {
	svc := newServiceWithUOW(newFakeUOW(), true)

	_, err := svc.HandleReturn(context.Background(), map[string]string{
		gateway.ParamTxnRef:       "not-a-number",
		gateway.ParamResponseCode: "00",
	})
	assert.ErrorIs(t, err, order.ErrNotFound)
}
