package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePaymentMethod(t *testing.T) {
	t.Parallel()

	m, err := ParsePaymentMethod("COD")
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodCOD, m)

	m, err = ParsePaymentMethod("TRANSFER")
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodTransfer, m)

	_, err = ParsePaymentMethod("CARD")
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)

	_, err = ParsePaymentMethod("cod")
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	for _, s := range []Status{StatusPending, StatusPaid, StatusFailed, StatusRefunded} {
		parsed, err := ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseStatus("CANCELLED")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestStatusCanTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusPaid, true},
		{StatusPending, StatusFailed, true},
		{StatusPending, StatusRefunded, false},
		{StatusPending, StatusPending, false},
		{StatusPaid, StatusRefunded, true},
		{StatusPaid, StatusPaid, false},
		{StatusPaid, StatusPending, false},
		{StatusPaid, StatusFailed, false},
		{StatusFailed, StatusPaid, false},
		{StatusFailed, StatusPending, false},
		{StatusRefunded, StatusPaid, false},
		{StatusRefunded, StatusPending, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.from.String()+"_to_"+tt.to.String(), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to))
		})
	}
}

func TestStatusTransition(t *testing.T) {
	t.Parallel()

	next, err := StatusPending.Transition(StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, next)

	next, err = StatusPaid.Transition(StatusPending)
	require.Error(t, err)
	assert.Equal(t, StatusPaid, next)

	var conflict *StateConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, StatusPaid, conflict.From)
	assert.Equal(t, StatusPending, conflict.To)
}
