package payment

import (
	"testing"
	"time"

	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"github.com/charlykso/smart-s-sub004/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers
func createTestCashPayment(t *testing.T) *Payment {
	t.Helper()
	p, err := NewCashPayment(
		uuid.New(),
		uuid.New(),
		uuid.New(),
		uuid.New(),
		uuid.New(),
		valueobject.NewMoneyNGNFromFloat(3000.00),
		"CASH-2026-0001",
	)
	require.NoError(t, err)
	return p
}

func createTestGatewayPayment(t *testing.T) *Payment {
	t.Helper()
	p, err := NewGatewayPayment(
		uuid.New(),
		uuid.New(),
		uuid.New(),
		uuid.New(),
		uuid.New(),
		valueobject.NewMoneyNGNFromFloat(3000.00),
		ChannelCard,
		GatewayPaystack,
		"PSK-ref-0001",
	)
	require.NoError(t, err)
	return p
}

// ============================================
// Channel Tests
// ============================================

func TestChannel_IsValid(t *testing.T) {
	tests := []struct {
		channel Channel
		isValid bool
	}{
		{ChannelCash, true},
		{ChannelCard, true},
		{ChannelBankTransfer, true},
		{Channel("cheque"), false},
		{Channel(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.channel), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.channel.IsValid())
		})
	}
}

func TestChannel_RequiresGateway(t *testing.T) {
	assert.False(t, ChannelCash.RequiresGateway())
	assert.True(t, ChannelCard.RequiresGateway())
	assert.True(t, ChannelBankTransfer.RequiresGateway())
}

// ============================================
// Status Tests
// ============================================

func TestStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status     Status
		isTerminal bool
	}{
		{StatusPending, false},
		{StatusSuccess, true},
		{StatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isTerminal, tt.status.IsTerminal())
		})
	}
}

// ============================================
// Constructor Tests
// ============================================

func TestNewCashPayment(t *testing.T) {
	p := createTestCashPayment(t)

	assert.Equal(t, StatusSuccess, p.Status)
	assert.Equal(t, ChannelCash, p.Channel)
	assert.NotNil(t, p.PaidAt)
	assert.Empty(t, p.Gateway)
	assert.True(t, p.IsSuccessful())
	require.Len(t, p.GetDomainEvents(), 1)
	assert.Equal(t, "PaymentSucceeded", p.GetDomainEvents()[0].EventType())
}

func TestNewGatewayPayment(t *testing.T) {
	p := createTestGatewayPayment(t)

	assert.Equal(t, StatusPending, p.Status)
	assert.Equal(t, GatewayPaystack, p.Gateway)
	assert.Nil(t, p.PaidAt)
	assert.False(t, p.IsSuccessful())
	require.Len(t, p.GetDomainEvents(), 1)
	assert.Equal(t, "PaymentInitiated", p.GetDomainEvents()[0].EventType())
}

func TestNewGatewayPayment_CashChannelRejected(t *testing.T) {
	_, err := NewGatewayPayment(uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		valueobject.NewMoneyNGNFromFloat(3000), ChannelCash, GatewayPaystack, "ref")

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CHANNEL", domainErr.Code)
}

func TestNewPayment_Validation(t *testing.T) {
	amount := valueobject.NewMoneyNGNFromFloat(3000)

	tests := []struct {
		name     string
		build    func() (*Payment, error)
		wantCode string
	}{
		{
			name: "missing fee",
			build: func() (*Payment, error) {
				return NewCashPayment(uuid.New(), uuid.Nil, uuid.New(), uuid.New(), uuid.New(), amount, "ref")
			},
			wantCode: "INVALID_FEE",
		},
		{
			name: "missing payer",
			build: func() (*Payment, error) {
				return NewCashPayment(uuid.New(), uuid.New(), uuid.Nil, uuid.New(), uuid.New(), amount, "ref")
			},
			wantCode: "INVALID_PAYER",
		},
		{
			name: "zero amount",
			build: func() (*Payment, error) {
				return NewCashPayment(uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New(), valueobject.ZeroNGN(), "ref")
			},
			wantCode: "INVALID_AMOUNT",
		},
		{
			name: "empty reference",
			build: func() (*Payment, error) {
				return NewCashPayment(uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New(), amount, "")
			},
			wantCode: "INVALID_REFERENCE",
		},
		{
			name: "invalid gateway",
			build: func() (*Payment, error) {
				return NewGatewayPayment(uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New(), amount, ChannelCard, GatewayType("stripe"), "ref")
			},
			wantCode: "INVALID_GATEWAY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.build()
			assert.Nil(t, p)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.wantCode, domainErr.Code)
		})
	}
}

// ============================================
// Confirm Tests
// ============================================

func TestPayment_Confirm_Success(t *testing.T) {
	p := createTestGatewayPayment(t)
	settledAt := time.Now()

	changed, err := p.Confirm(ChannelResult{
		Status:               StatusSuccess,
		GatewayTransactionID: "trx-839203",
		SettledAt:            settledAt,
	})

	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, StatusSuccess, p.Status)
	assert.Equal(t, "trx-839203", p.GatewayTransactionID)
	require.NotNil(t, p.PaidAt)
	assert.WithinDuration(t, settledAt, *p.PaidAt, time.Second)
}

func TestPayment_Confirm_Failed(t *testing.T) {
	p := createTestGatewayPayment(t)

	changed, err := p.Confirm(ChannelResult{
		Status:        StatusFailed,
		FailureReason: "insufficient funds",
	})

	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, StatusFailed, p.Status)
	assert.Equal(t, "insufficient funds", p.FailureReason)
	assert.Nil(t, p.PaidAt)
}

func TestPayment_Confirm_TerminalIsNoOp(t *testing.T) {
	p := createTestGatewayPayment(t)
	_, err := p.Confirm(ChannelResult{Status: StatusSuccess, GatewayTransactionID: "trx-1"})
	require.NoError(t, err)
	versionAfterFirst := p.Version

	// Duplicate webhook delivery must not error nor mutate.
	changed, err := p.Confirm(ChannelResult{Status: StatusFailed, FailureReason: "late duplicate"})

	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, StatusSuccess, p.Status)
	assert.Empty(t, p.FailureReason)
	assert.Equal(t, versionAfterFirst, p.Version)
}

func TestPayment_Confirm_PendingResultRejected(t *testing.T) {
	p := createTestGatewayPayment(t)

	_, err := p.Confirm(ChannelResult{Status: StatusPending})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CHANNEL_RESULT", domainErr.Code)
}
