package fees

import (
	"context"
	"errors"
	"time"

	"github.com/charlykso/smart-s-sub004/internal/domain/access"
	"github.com/charlykso/smart-s-sub004/internal/domain/fee"
	"github.com/charlykso/smart-s-sub004/internal/domain/identity"
	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"github.com/charlykso/smart-s-sub004/internal/domain/shared/valueobject"
	"github.com/charlykso/smart-s-sub004/internal/domain/tenancy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service provides application-level fee registry operations
type Service struct {
	fees      fee.Repository
	resolver  *tenancy.ScopeResolver
	gate      *access.Gate
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewService creates a new fee Service
func NewService(
	fees fee.Repository,
	resolver *tenancy.ScopeResolver,
	gate *access.Gate,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fees:      fees,
		resolver:  resolver,
		gate:      gate,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateFeeRequest carries the data needed to create a fee
type CreateFeeRequest struct {
	Name                 string          `json:"name" binding:"required"`
	Description          string          `json:"description"`
	Type                 string          `json:"type" binding:"required"`
	Amount               decimal.Decimal `json:"amount" binding:"required"`
	SchoolID             uuid.UUID       `json:"school_id" binding:"required"`
	TermID               uuid.UUID       `json:"term_id" binding:"required"`
	InstallmentAllowed   bool            `json:"installment_allowed"`
	NumberOfInstallments int             `json:"number_of_installments"`
}

// FeeResponse represents a fee in API responses
type FeeResponse struct {
	ID                   uuid.UUID  `json:"id"`
	GroupSchoolID        uuid.UUID  `json:"group_school_id"`
	SchoolID             uuid.UUID  `json:"school_id"`
	TermID               uuid.UUID  `json:"term_id"`
	Name                 string     `json:"name"`
	Description          string     `json:"description,omitempty"`
	Type                 string     `json:"type"`
	Amount               string     `json:"amount"`
	IsActive             bool       `json:"is_active"`
	IsApproved           bool       `json:"is_approved"`
	InstallmentAllowed   bool       `json:"installment_allowed"`
	NumberOfInstallments int        `json:"number_of_installments,omitempty"`
	ApprovedAt           *time.Time `json:"approved_at,omitempty"`
	ApprovedBy           *uuid.UUID `json:"approved_by,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
	Version              int        `json:"version"`
}

// ListFilter defines filtering options for fee list queries
type ListFilter struct {
	SchoolID   *uuid.UUID `form:"school_id"`
	TermID     *uuid.UUID `form:"term_id"`
	Type       string     `form:"type"`
	IsApproved *bool      `form:"is_approved"`
	IsActive   *bool      `form:"is_active"`
	Search     string     `form:"search"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
}

// CreateFee creates a new unapproved fee for a school and term.
//
// Duplicate detection happens twice: a lookup here gives callers a clean
// conflict error in the common case, and the storage-level unique
// constraint on (school, term, name) remains the authoritative guard when
// two creations race past the lookup.
func (s *Service) CreateFee(ctx context.Context, actor identity.Actor, req CreateFeeRequest) (*FeeResponse, error) {
	school, err := s.resolver.ResolveSchoolOfTerm(ctx, req.TermID)
	if err != nil {
		return nil, err
	}
	if school.ID != req.SchoolID {
		return nil, shared.NewDomainError("TERM_SCHOOL_MISMATCH", "Term does not belong to the given school")
	}

	scope, err := s.resolver.ActorScope(ctx, actor)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(actor, scope, access.OpFeeCreate, school.ID); err != nil {
		return nil, err
	}

	existing, err := s.fees.FindByNameTermSchool(ctx, req.SchoolID, req.TermID, req.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrDuplicateFee
	}

	f, err := fee.NewFee(
		school.GroupSchoolID,
		req.SchoolID,
		req.TermID,
		req.Name,
		req.Description,
		fee.Type(req.Type),
		valueobject.NewMoneyNGN(req.Amount),
		req.InstallmentAllowed,
		req.NumberOfInstallments,
	)
	if err != nil {
		return nil, err
	}

	if err := s.fees.Save(ctx, f); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, f)

	s.logger.Info("fee created",
		zap.String("fee_id", f.ID.String()),
		zap.String("school_id", f.SchoolID.String()),
		zap.String("term_id", f.TermID.String()),
		zap.String("name", f.Name))

	return toFeeResponse(f), nil
}

// GetFee returns one fee, subject to the actor's read scope
func (s *Service) GetFee(ctx context.Context, actor identity.Actor, feeID uuid.UUID) (*FeeResponse, error) {
	f, err := s.fees.FindByID(ctx, feeID)
	if err != nil {
		return nil, err
	}

	scope, err := s.resolver.ActorScope(ctx, actor)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(actor, scope, access.OpFeeRead, f.SchoolID); err != nil {
		return nil, err
	}

	return toFeeResponse(f), nil
}

// ListFees lists fees visible to the actor, narrowed by the filter.
// Global-scope actors see every school; everyone else sees only the
// schools in their resolved scope.
func (s *Service) ListFees(ctx context.Context, actor identity.Actor, filter ListFilter) ([]FeeResponse, error) {
	scope, err := s.resolver.ActorScope(ctx, actor)
	if err != nil {
		return nil, err
	}

	domainFilter := toDomainFilter(filter)

	var found []fee.Fee
	switch {
	case filter.SchoolID != nil:
		if err := s.gate.Authorize(actor, scope, access.OpFeeRead, *filter.SchoolID); err != nil {
			return nil, err
		}
		found, err = s.fees.FindBySchool(ctx, *filter.SchoolID, domainFilter)
	case scope.IsGlobal():
		found, err = s.fees.FindAll(ctx, domainFilter)
	default:
		if scope.IsEmpty() {
			return nil, shared.ErrForbidden
		}
		found, err = s.fees.FindBySchools(ctx, scope.SchoolIDs(), domainFilter)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]FeeResponse, len(found))
	for i := range found {
		responses[i] = *toFeeResponse(&found[i])
	}
	return responses, nil
}

// ListPayableFees lists the approved, active fees of a school, optionally
// restricted to one term. This is the fee set a student can pay against.
func (s *Service) ListPayableFees(ctx context.Context, actor identity.Actor, schoolID uuid.UUID, termID *uuid.UUID) ([]FeeResponse, error) {
	scope, err := s.resolver.ActorScope(ctx, actor)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(actor, scope, access.OpFeeRead, schoolID); err != nil {
		return nil, err
	}

	found, err := s.fees.FindPayableBySchool(ctx, schoolID, termID)
	if err != nil {
		return nil, err
	}

	responses := make([]FeeResponse, len(found))
	for i := range found {
		responses[i] = *toFeeResponse(&found[i])
	}
	return responses, nil
}

// ApproveFee transitions a fee to the approved state. Approval is
// one-way; approving an already-approved fee is a conflict.
func (s *Service) ApproveFee(ctx context.Context, actor identity.Actor, feeID uuid.UUID) (*FeeResponse, error) {
	f, err := s.authorizeMutation(ctx, actor, feeID, access.OpFeeApprove)
	if err != nil {
		return nil, err
	}

	if err := f.Approve(actor.UserID); err != nil {
		return nil, err
	}

	if err := s.fees.SaveWithLock(ctx, f); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, f)

	s.logger.Info("fee approved",
		zap.String("fee_id", f.ID.String()),
		zap.String("approved_by", actor.UserID.String()))

	return toFeeResponse(f), nil
}

// DeactivateFee removes a fee from the payable set. History against the
// fee is preserved.
func (s *Service) DeactivateFee(ctx context.Context, actor identity.Actor, feeID uuid.UUID) (*FeeResponse, error) {
	f, err := s.authorizeMutation(ctx, actor, feeID, access.OpFeeDeactivate)
	if err != nil {
		return nil, err
	}

	if err := f.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.fees.SaveWithLock(ctx, f); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, f)

	return toFeeResponse(f), nil
}

// ReactivateFee restores a deactivated fee to the payable set
func (s *Service) ReactivateFee(ctx context.Context, actor identity.Actor, feeID uuid.UUID) (*FeeResponse, error) {
	f, err := s.authorizeMutation(ctx, actor, feeID, access.OpFeeDeactivate)
	if err != nil {
		return nil, err
	}

	if err := f.Reactivate(); err != nil {
		return nil, err
	}

	if err := s.fees.SaveWithLock(ctx, f); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, f)

	return toFeeResponse(f), nil
}

// authorizeMutation loads the fee and checks the actor may perform the
// given operation against the fee's school
func (s *Service) authorizeMutation(ctx context.Context, actor identity.Actor, feeID uuid.UUID, op access.Operation) (*fee.Fee, error) {
	f, err := s.fees.FindByID(ctx, feeID)
	if err != nil {
		return nil, err
	}

	scope, err := s.resolver.ActorScope(ctx, actor)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(actor, scope, op, f.SchoolID); err != nil {
		return nil, err
	}

	return f, nil
}

// publishEvents publishes the aggregate's pending events. Publishing is
// best-effort: the state change is already durable, so a broker outage
// only costs the notification.
func (s *Service) publishEvents(ctx context.Context, f *fee.Fee) {
	events := f.GetDomainEvents()
	if len(events) == 0 || s.publisher == nil {
		f.ClearDomainEvents()
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish fee events",
			zap.String("fee_id", f.ID.String()),
			zap.Error(err))
	}
	f.ClearDomainEvents()
}

func toDomainFilter(filter ListFilter) fee.Filter {
	domainFilter := fee.Filter{
		TermID:     filter.TermID,
		IsApproved: filter.IsApproved,
		IsActive:   filter.IsActive,
	}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Search = filter.Search
	if filter.Type != "" {
		feeType := fee.Type(filter.Type)
		domainFilter.FeeType = &feeType
	}
	return domainFilter
}

func toFeeResponse(f *fee.Fee) *FeeResponse {
	return &FeeResponse{
		ID:                   f.ID,
		GroupSchoolID:        f.GroupSchoolID,
		SchoolID:             f.SchoolID,
		TermID:               f.TermID,
		Name:                 f.Name,
		Description:          f.Description,
		Type:                 f.Type.String(),
		Amount:               f.Amount.StringFixed(2),
		IsActive:             f.IsActive,
		IsApproved:           f.IsApproved,
		InstallmentAllowed:   f.InstallmentAllowed,
		NumberOfInstallments: f.NumberOfInstallments,
		ApprovedAt:           f.ApprovedAt,
		ApprovedBy:           f.ApprovedBy,
		CreatedAt:            f.CreatedAt,
		UpdatedAt:            f.UpdatedAt,
		Version:              f.Version,
	}
}
