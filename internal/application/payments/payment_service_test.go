package payments

import (
	"context"
	"testing"

	"github.com/charlykso/smart-s-sub004/internal/domain/access"
	"github.com/charlykso/smart-s-sub004/internal/domain/fee"
	"github.com/charlykso/smart-s-sub004/internal/domain/identity"
	"github.com/charlykso/smart-s-sub004/internal/domain/payment"
	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"github.com/charlykso/smart-s-sub004/internal/domain/shared/valueobject"
	"github.com/charlykso/smart-s-sub004/internal/domain/tenancy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByReference(ctx context.Context, reference string) (*payment.Payment, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByFee(ctx context.Context, feeID uuid.UUID, filter payment.Filter) ([]payment.Payment, error) {
	args := m.Called(ctx, feeID, filter)
	return args.Get(0).([]payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByPayer(ctx context.Context, payerID uuid.UUID, filter payment.Filter) ([]payment.Payment, error) {
	args := m.Called(ctx, payerID, filter)
	return args.Get(0).([]payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindSuccessfulByPayerAndFees(ctx context.Context, payerID uuid.UUID, feeIDs []uuid.UUID) ([]payment.Payment, error) {
	args := m.Called(ctx, payerID, feeIDs)
	return args.Get(0).([]payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) SaveForPayableFee(ctx context.Context, p *payment.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) SaveWithLock(ctx context.Context, p *payment.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) SettleForPayableFee(ctx context.Context, p *payment.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) CountByFee(ctx context.Context, feeID uuid.UUID, filter payment.Filter) (int64, error) {
	args := m.Called(ctx, feeID, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockFeeRepository struct {
	mock.Mock
}

func (m *MockFeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*fee.Fee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fee.Fee), args.Error(1)
}

func (m *MockFeeRepository) FindByIDForGroup(ctx context.Context, groupSchoolID, id uuid.UUID) (*fee.Fee, error) {
	args := m.Called(ctx, groupSchoolID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fee.Fee), args.Error(1)
}

func (m *MockFeeRepository) FindByNameTermSchool(ctx context.Context, schoolID, termID uuid.UUID, name string) (*fee.Fee, error) {
	args := m.Called(ctx, schoolID, termID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fee.Fee), args.Error(1)
}

func (m *MockFeeRepository) FindBySchool(ctx context.Context, schoolID uuid.UUID, filter fee.Filter) ([]fee.Fee, error) {
	args := m.Called(ctx, schoolID, filter)
	return args.Get(0).([]fee.Fee), args.Error(1)
}

func (m *MockFeeRepository) FindBySchools(ctx context.Context, schoolIDs []uuid.UUID, filter fee.Filter) ([]fee.Fee, error) {
	args := m.Called(ctx, schoolIDs, filter)
	return args.Get(0).([]fee.Fee), args.Error(1)
}

func (m *MockFeeRepository) FindAll(ctx context.Context, filter fee.Filter) ([]fee.Fee, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]fee.Fee), args.Error(1)
}

func (m *MockFeeRepository) FindPayableBySchool(ctx context.Context, schoolID uuid.UUID, termID *uuid.UUID) ([]fee.Fee, error) {
	args := m.Called(ctx, schoolID, termID)
	return args.Get(0).([]fee.Fee), args.Error(1)
}

func (m *MockFeeRepository) Save(ctx context.Context, f *fee.Fee) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFeeRepository) SaveWithLock(ctx context.Context, f *fee.Fee) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFeeRepository) CountBySchool(ctx context.Context, schoolID uuid.UUID, filter fee.Filter) (int64, error) {
	args := m.Called(ctx, schoolID, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindBySchool(ctx context.Context, schoolID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, schoolID, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByRole(ctx context.Context, schoolID uuid.UUID, role identity.Role, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, schoolID, role, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSchoolRepository struct {
	mock.Mock
}

func (m *MockSchoolRepository) FindByID(ctx context.Context, id uuid.UUID) (*tenancy.School, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenancy.School), args.Error(1)
}

func (m *MockSchoolRepository) FindByGroup(ctx context.Context, groupSchoolID uuid.UUID, filter shared.Filter) ([]tenancy.School, error) {
	args := m.Called(ctx, groupSchoolID, filter)
	return args.Get(0).([]tenancy.School), args.Error(1)
}

func (m *MockSchoolRepository) FindAll(ctx context.Context, filter shared.Filter) ([]tenancy.School, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]tenancy.School), args.Error(1)
}

func (m *MockSchoolRepository) Save(ctx context.Context, school *tenancy.School) error {
	args := m.Called(ctx, school)
	return args.Error(0)
}

func (m *MockSchoolRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSchoolRepository) CountByGroup(ctx context.Context, groupSchoolID uuid.UUID) (int64, error) {
	args := m.Called(ctx, groupSchoolID)
	return args.Get(0).(int64), args.Error(1)
}

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*tenancy.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenancy.Session), args.Error(1)
}

func (m *MockSessionRepository) FindBySchool(ctx context.Context, schoolID uuid.UUID, filter shared.Filter) ([]tenancy.Session, error) {
	args := m.Called(ctx, schoolID, filter)
	return args.Get(0).([]tenancy.Session), args.Error(1)
}

func (m *MockSessionRepository) FindCurrentBySchool(ctx context.Context, schoolID uuid.UUID) (*tenancy.Session, error) {
	args := m.Called(ctx, schoolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenancy.Session), args.Error(1)
}

func (m *MockSessionRepository) Save(ctx context.Context, session *tenancy.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) SetCurrent(ctx context.Context, session *tenancy.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTermRepository struct {
	mock.Mock
}

func (m *MockTermRepository) FindByID(ctx context.Context, id uuid.UUID) (*tenancy.Term, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenancy.Term), args.Error(1)
}

func (m *MockTermRepository) FindBySession(ctx context.Context, sessionID uuid.UUID, filter shared.Filter) ([]tenancy.Term, error) {
	args := m.Called(ctx, sessionID, filter)
	return args.Get(0).([]tenancy.Term), args.Error(1)
}

func (m *MockTermRepository) FindCurrentBySchool(ctx context.Context, schoolID uuid.UUID) (*tenancy.Term, error) {
	args := m.Called(ctx, schoolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenancy.Term), args.Error(1)
}

func (m *MockTermRepository) Save(ctx context.Context, term *tenancy.Term) error {
	args := m.Called(ctx, term)
	return args.Error(0)
}

func (m *MockTermRepository) SetCurrent(ctx context.Context, term *tenancy.Term) error {
	args := m.Called(ctx, term)
	return args.Error(0)
}

func (m *MockTermRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockGateway is a mock payment gateway
type MockGateway struct {
	mock.Mock
	gatewayType payment.GatewayType
}

func (m *MockGateway) GatewayType() payment.GatewayType {
	return m.gatewayType
}

func (m *MockGateway) InitiatePayment(ctx context.Context, req payment.InitiateRequest) (*payment.InitiateResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.InitiateResponse), args.Error(1)
}

func (m *MockGateway) VerifyCallback(ctx context.Context, payload []byte, signature string) (*payment.CallbackEvent, error) {
	args := m.Called(ctx, payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CallbackEvent), args.Error(1)
}

// =============================================================================
// Test Fixture
// =============================================================================

type paymentServiceFixture struct {
	payments *MockPaymentRepository
	fees     *MockFeeRepository
	users    *MockUserRepository
	gateway  *MockGateway
	service  *Service

	groupID  uuid.UUID
	schoolID uuid.UUID
	fee      *fee.Fee
	payer    *identity.User
}

func newPaymentServiceFixture(t *testing.T) *paymentServiceFixture {
	t.Helper()

	groupID := uuid.New()
	schoolID := uuid.New()

	payableFee, err := fee.NewFee(
		groupID, schoolID, uuid.New(),
		"Sports Fee", "", fee.TypeSports,
		valueobject.NewMoneyNGN(decimal.NewFromInt(5000)),
		false, 0,
	)
	require.NoError(t, err)
	require.NoError(t, payableFee.Approve(uuid.New()))
	payableFee.ClearDomainEvents()

	roles, err := identity.NewRoleSet(identity.RoleStudent)
	require.NoError(t, err)
	payer, err := identity.NewUser(groupID, schoolID, "Chinedu", "Okafor", "chinedu@smart.sch.ng", roles)
	require.NoError(t, err)
	payer.ClearDomainEvents()

	f := &paymentServiceFixture{
		payments: new(MockPaymentRepository),
		fees:     new(MockFeeRepository),
		users:    new(MockUserRepository),
		gateway:  &MockGateway{gatewayType: payment.GatewayPaystack},
		groupID:  groupID,
		schoolID: schoolID,
		fee:      payableFee,
		payer:    payer,
	}

	resolver := tenancy.NewScopeResolver(new(MockSchoolRepository), new(MockSessionRepository), new(MockTermRepository), zap.NewNop())
	f.service = NewService(ServiceConfig{
		Payments: f.payments,
		Fees:     f.fees,
		Users:    f.users,
		Resolver: resolver,
		Gate:     access.NewGate(),
		Gateways: []payment.Gateway{f.gateway},
		Logger:   zap.NewNop(),
	})

	return f
}

func (f *paymentServiceFixture) bursar(t *testing.T) identity.Actor {
	t.Helper()
	roles, err := identity.NewRoleSet(identity.RoleBursar)
	require.NoError(t, err)
	return identity.NewActor(uuid.New(), roles, f.schoolID, f.groupID)
}

func (f *paymentServiceFixture) noPriorPayments(ctx context.Context) {
	f.payments.On("FindSuccessfulByPayerAndFees", ctx, f.payer.ID, []uuid.UUID{f.fee.ID}).
		Return([]payment.Payment{}, nil)
}

func (f *paymentServiceFixture) cashRequest(amount int64) RecordCashPaymentRequest {
	return RecordCashPaymentRequest{
		FeeID:   f.fee.ID,
		PayerID: f.payer.ID,
		Amount:  decimal.NewFromInt(amount),
	}
}

// =============================================================================
// RecordCashPayment Tests
// =============================================================================

func TestRecordCashPayment(t *testing.T) {
	f := newPaymentServiceFixture(t)
	ctx := context.Background()

	f.fees.On("FindByID", ctx, f.fee.ID).Return(f.fee, nil)
	f.users.On("FindByID", ctx, f.payer.ID).Return(f.payer, nil)
	f.noPriorPayments(ctx)
	f.payments.On("SaveForPayableFee", ctx, mock.AnythingOfType("*payment.Payment")).Return(nil)

	resp, err := f.service.RecordCashPayment(ctx, f.bursar(t), f.cashRequest(5000))

	require.NoError(t, err)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "cash", resp.Channel)
	assert.Equal(t, "5000.00", resp.Amount)
	assert.False(t, resp.Overpayment)
	assert.NotEmpty(t, resp.Reference)
	require.NotNil(t, resp.PaidAt)
	f.payments.AssertExpectations(t)
}

func TestRecordCashPayment_FeeNotPayable(t *testing.T) {
	f := newPaymentServiceFixture(t)
	ctx := context.Background()

	require.NoError(t, f.fee.Deactivate())
	f.fees.On("FindByID", ctx, f.fee.ID).Return(f.fee, nil)

	_, err := f.service.RecordCashPayment(ctx, f.bursar(t), f.cashRequest(5000))

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FEE_NOT_PAYABLE", domainErr.Code)
	f.payments.AssertNotCalled(t, "SaveForPayableFee", mock.Anything, mock.Anything)
}

// A fee can be deactivated between the payability check and the insert.
// The repository re-checks under lock at commit time, and that rejection
// must surface to the caller instead of a success response.
func TestRecordCashPayment_FeeDeactivatedBeforeCommit(t *testing.T) {
	f := newPaymentServiceFixture(t)
	ctx := context.Background()

	f.fees.On("FindByID", ctx, f.fee.ID).Return(f.fee, nil)
	f.users.On("FindByID", ctx, f.payer.ID).Return(f.payer, nil)
	f.noPriorPayments(ctx)
	f.payments.On("SaveForPayableFee", ctx, mock.AnythingOfType("*payment.Payment")).
		Return(shared.ErrFeeNotPayable)

	resp, err := f.service.RecordCashPayment(ctx, f.bursar(t), f.cashRequest(5000))

	require.Nil(t, resp)
	require.ErrorIs(t, err, shared.ErrFeeNotPayable)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FEE_NOT_PAYABLE", domainErr.Code)
	f.payments.AssertExpectations(t)
}

func TestRecordCashPayment_UnapprovedFee(t *testing.T) {
	f := newPaymentServiceFixture(t)
	ctx := context.Background()

	unapproved, err := fee.NewFee(
		f.groupID, f.schoolID, uuid.New(),
		"Exam Fee", "", fee.TypeExam,
		valueobject.NewMoneyNGN(decimal.NewFromInt(2000)),
		false, 0,
	)
	require.NoError(t, err)
	f.fees.On("FindByID", ctx, unapproved.ID).Return(unapproved, nil)

	req := f.cashRequest(2000)
	req.FeeID = unapproved.ID

	_, err = f.service.RecordCashPayment(ctx, f.bursar(t), req)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FEE_NOT_PAYABLE", domainErr.Code)
}

func TestRecordCashPayment_PayerFromOtherSchool(t *testing.T) {
	f := newPaymentServiceFixture(t)
	ctx := context.Background()

	roles, err := identity.NewRoleSet(identity.RoleStudent)
	require.NoError(t, err)
	outsider, err := identity.NewUser(f.groupID, uuid.New(), "Amina", "Bello", "amina@smart.sch.ng", roles)
	require.NoError(t, err)

	f.fees.On("FindByID", ctx, f.fee.ID).Return(f.fee, nil)
	f.users.On("FindByID", ctx, outsider.ID).Return(outsider, nil)

	req := f.cashRequest(5000)
	req.PayerID = outsider.ID

	_, err = f.service.RecordCashPayment(ctx, f.bursar(t), req)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
}

func TestRecordCashPayment_StudentForbidden(t *testing.T) {
	f := newPaymentServiceFixture(t)
	ctx := context.Background()

	f.fees.On("FindByID", ctx, f.fee.ID).Return(f.fee, nil)
	f.users.On("FindByID", ctx, f.payer.ID).Return(f.payer, nil)

	_, err := f.service.RecordCashPayment(ctx, f.payer.Actor(), f.cashRequest(5000))

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
}

func TestRecordCashPayment_PartialWithoutInstallments(t *testing.T) {
	f := newPaymentServiceFixture(t)
	ctx := context.Background()

	f.fees.On("FindByID", ctx, f.fee.ID).Return(f.fee, nil)
	f.users.On("FindByID", ctx, f.payer.ID).Return(f.payer, nil)
	f.noPriorPayments(ctx)

	_, err := f.service.RecordCashPayment(ctx, f.bursar(t), f.cashRequest(2000))

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INSTALLMENT_NOT_ALLOWED", domainErr.Code)
}

func TestRecordCashPayment_PartialWithInstallments(t *testing.T) {
	f := newPaymentServiceFixture(t)
	ctx := context.Background()

	installmentFee, err := fee.NewFee(
		f.groupID, f.schoolID, uuid.New(),
		"Tuition Fee", "", fee.TypeTuition,
		valueobject.NewMoneyNGN(decimal.NewFromInt(90000)),
		true, 3,
	)
	require.NoError(t, err)
	require.NoError(t, installmentFee.Approve(uuid.New()))

	f.fees.On("FindByID", ctx, installmentFee.ID).Return(installmentFee, nil)
	f.users.On("FindByID", ctx, f.payer.ID).Return(f.payer, nil)
	f.payments.On("FindSuccessfulByPayerAndFees", ctx, f.payer.ID, []uuid.UUID{installmentFee.ID}).
		Return([]payment.Payment{}, nil)
	f.payments.On("SaveForPayableFee", ctx, mock.AnythingOfType("*payment.Payment")).Return(nil)

	req := RecordCashPaymentRequest{FeeID: installmentFee.ID, PayerID: f.payer.ID, Amount: decimal.NewFromInt(30000)}
	resp, err := f.service.RecordCashPayment(ctx, f.bursar(t), req)

	require.NoError(t, err)
	assert.Equal(t, "success", resp.Status)
	assert.False(t, resp.Overpayment)
}

func TestRecordCashPayment_OverpaymentFlagged(t *testing.T) {
	f := newPaymentServiceFixture(t)
	ctx := context.Background()

	f.fees.On("FindByID", ctx, f.fee.ID).Return(f.fee, nil)
	f.users.On("FindByID", ctx, f.payer.ID).Return(f.payer, nil)
	f.noPriorPayments(ctx)
	f.payments.On("SaveForPayableFee", ctx, mock.AnythingOfType("*payment.Payment")).Return(nil)

	resp, err := f.service.RecordCashPayment(ctx, f.bursar(t), f.cashRequest(6000))

	// Over-payment is accepted as received, not truncated, but flagged.
	require.NoError(t, err)
	assert.Equal(t, "6000.00", resp.Amount)
	assert.True(t, resp.Overpayment)
}

// =============================================================================
// InitiatePayment Tests
// =============================================================================

func TestInitiatePayment(t *testing.T) {
	f := newPaymentServiceFixture(t)
	ctx := context.Background()

	f.fees.On("FindByID", ctx, f.fee.ID).Return(f.fee, nil)
	f.users.On("FindByID", ctx, f.payer.ID).Return(f.payer, nil)
	f.noPriorPayments(ctx)
	f.gateway.On("InitiatePayment", ctx, mock.AnythingOfType("payment.InitiateRequest")).
		Return(&payment.InitiateResponse{
			Reference:        "PSK-REF-001",
			AuthorizationURL: "https://checkout.paystack.com/abc123",
			AccessCode:       "abc123",
		}, nil)
	f.payments.On("SaveForPayableFee", ctx, mock.AnythingOfType("*payment.Payment")).Return(nil)

	resp, err := f.service.InitiatePayment(ctx, f.payer.Actor(), InitiatePaymentRequest{
		FeeID:   f.fee.ID,
		Amount:  decimal.NewFromInt(5000),
		Channel: "card",
		Gateway: "paystack",
	})

	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Payment.Status)
	assert.Equal(t, "paystack", resp.Payment.Gateway)
	assert.Equal(t, "https://checkout.paystack.com/abc123", resp.AuthorizationURL)
	f.gateway.AssertExpectations(t)
}

func TestInitiatePayment_GatewayNotConfigured(t *testing.T) {
	f := newPaymentServiceFixture(t)
	ctx := context.Background()

	f.fees.On("FindByID", ctx, f.fee.ID).Return(f.fee, nil)
	f.users.On("FindByID", ctx, f.payer.ID).Return(f.payer, nil)
	f.noPriorPayments(ctx)

	_, err := f.service.InitiatePayment(ctx, f.payer.Actor(), InitiatePaymentRequest{
		FeeID:   f.fee.ID,
		Amount:  decimal.NewFromInt(5000),
		Channel: "bank_transfer",
		Gateway: "flutterwave",
	})

	assert.ErrorIs(t, err, payment.ErrGatewayNotConfigured)
}

func TestInitiatePayment_BursarForbidden(t *testing.T) {
	f := newPaymentServiceFixture(t)
	ctx := context.Background()

	bursar := f.bursar(t)

	// Bursars are not payers; only students pay their own fees online.
	bursarUser, err := identity.NewUser(f.groupID, f.schoolID, "Bola", "Ade", "bola@smart.sch.ng",
		bursar.Roles)
	require.NoError(t, err)

	f.fees.On("FindByID", ctx, f.fee.ID).Return(f.fee, nil)
	f.users.On("FindByID", ctx, bursar.UserID).Return(bursarUser, nil)

	_, err = f.service.InitiatePayment(ctx, bursar, InitiatePaymentRequest{
		FeeID:   f.fee.ID,
		Amount:  decimal.NewFromInt(5000),
		Channel: "card",
		Gateway: "paystack",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
}

// =============================================================================
// OutstandingFor Tests
// =============================================================================

func TestOutstandingFor(t *testing.T) {
	f := newPaymentServiceFixture(t)
	ctx := context.Background()

	tuition, err := fee.NewFee(
		f.groupID, f.schoolID, f.fee.TermID,
		"Tuition Fee", "", fee.TypeTuition,
		valueobject.NewMoneyNGN(decimal.NewFromInt(90000)),
		true, 3,
	)
	require.NoError(t, err)
	require.NoError(t, tuition.Approve(uuid.New()))

	paid, err := payment.NewCashPayment(
		f.groupID, tuition.ID, f.payer.ID, uuid.New(), f.schoolID,
		valueobject.NewMoneyNGN(decimal.NewFromInt(30000)), "PAY-TEST-001",
	)
	require.NoError(t, err)

	settled, err := payment.NewCashPayment(
		f.groupID, f.fee.ID, f.payer.ID, uuid.New(), f.schoolID,
		valueobject.NewMoneyNGN(decimal.NewFromInt(5000)), "PAY-TEST-002",
	)
	require.NoError(t, err)

	f.users.On("FindByID", ctx, f.payer.ID).Return(f.payer, nil)
	f.fees.On("FindPayableBySchool", ctx, f.schoolID, (*uuid.UUID)(nil)).
		Return([]fee.Fee{*f.fee, *tuition}, nil)
	f.payments.On("FindSuccessfulByPayerAndFees", ctx, f.payer.ID, mock.Anything).
		Return([]payment.Payment{*paid, *settled}, nil)

	resp, err := f.service.OutstandingFor(ctx, f.payer.Actor(), f.payer.ID, nil)

	require.NoError(t, err)
	require.Len(t, resp.Lines, 2)
	assert.Equal(t, "60000.00", resp.TotalOutstanding)
	assert.Equal(t, []uuid.UUID{f.fee.ID}, resp.SettledFees)

	for _, line := range resp.Lines {
		switch line.FeeID {
		case f.fee.ID:
			assert.True(t, line.Settled)
			assert.Equal(t, "0.00", line.Outstanding)
			assert.NotNil(t, line.LastPaidAt)
		case tuition.ID:
			assert.False(t, line.Settled)
			assert.Equal(t, "60000.00", line.Outstanding)
		default:
			t.Fatalf("unexpected fee line %s", line.FeeID)
		}
	}
}

func TestOutstandingFor_OverpaymentClampsAtZero(t *testing.T) {
	f := newPaymentServiceFixture(t)
	ctx := context.Background()

	overpaid, err := payment.NewCashPayment(
		f.groupID, f.fee.ID, f.payer.ID, uuid.New(), f.schoolID,
		valueobject.NewMoneyNGN(decimal.NewFromInt(7000)), "PAY-TEST-003",
	)
	require.NoError(t, err)

	f.users.On("FindByID", ctx, f.payer.ID).Return(f.payer, nil)
	f.fees.On("FindPayableBySchool", ctx, f.schoolID, (*uuid.UUID)(nil)).
		Return([]fee.Fee{*f.fee}, nil)
	f.payments.On("FindSuccessfulByPayerAndFees", ctx, f.payer.ID, mock.Anything).
		Return([]payment.Payment{*overpaid}, nil)

	resp, err := f.service.OutstandingFor(ctx, f.payer.Actor(), f.payer.ID, nil)

	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "0.00", resp.Lines[0].Outstanding)
	assert.Equal(t, "0.00", resp.TotalOutstanding)
	assert.True(t, resp.Lines[0].Settled)
	assert.True(t, resp.Lines[0].Overpaid)
}

func TestOutstandingFor_NoPayableFees(t *testing.T) {
	f := newPaymentServiceFixture(t)
	ctx := context.Background()

	f.users.On("FindByID", ctx, f.payer.ID).Return(f.payer, nil)
	f.fees.On("FindPayableBySchool", ctx, f.schoolID, (*uuid.UUID)(nil)).
		Return([]fee.Fee{}, nil)

	resp, err := f.service.OutstandingFor(ctx, f.payer.Actor(), f.payer.ID, nil)

	require.NoError(t, err)
	assert.Empty(t, resp.Lines)
	assert.Equal(t, "0.00", resp.TotalOutstanding)
	f.payments.AssertNotCalled(t, "FindSuccessfulByPayerAndFees", mock.Anything, mock.Anything, mock.Anything)
}

func TestOutstandingFor_OtherStudentForbidden(t *testing.T) {
	f := newPaymentServiceFixture(t)
	ctx := context.Background()

	roles, err := identity.NewRoleSet(identity.RoleStudent)
	require.NoError(t, err)
	other := identity.NewActor(uuid.New(), roles, f.schoolID, f.groupID)

	f.users.On("FindByID", ctx, f.payer.ID).Return(f.payer, nil)

	_, err = f.service.OutstandingFor(ctx, other, f.payer.ID, nil)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
}
