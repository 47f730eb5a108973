package fee

import (
	"strings"
	"time"

	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"github.com/charlykso/smart-s-sub004/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type categorizes a fee
type Type string

const (
	TypeTuition  Type = "tuition"
	TypeSports   Type = "sports"
	TypeExam     Type = "exam"
	TypeBoarding Type = "boarding"
	TypeOther    Type = "other"
)

// IsValid checks if the fee type is valid
func (t Type) IsValid() bool {
	switch t {
	case TypeTuition, TypeSports, TypeExam, TypeBoarding, TypeOther:
		return true
	}
	return false
}

// String returns the string representation of Type
func (t Type) String() string {
	return string(t)
}

// Fee is a chargeable assessment defined for one school and term. Its
// identity for duplicate detection is the (name, term, school) triple:
// several distinct fees legitimately coexist within one term, but the
// same name may not repeat for the same term and school.
//
// A fee is payable only while it is both approved and active. Approval is
// one-way: there is no approved-to-unapproved transition, so a fee that
// students may already be paying against can never be silently un-approved.
// Correction happens by deactivating and creating a replacement.
type Fee struct {
	shared.GroupAggregateRoot
	Name                 string
	Description          string
	Amount               decimal.Decimal
	Type                 Type
	SchoolID             uuid.UUID
	TermID               uuid.UUID
	IsActive             bool
	IsApproved           bool
	InstallmentAllowed   bool
	NumberOfInstallments int
	ApprovedAt           *time.Time
	ApprovedBy           *uuid.UUID
}

// NewFee creates a new fee in the unapproved state
func NewFee(
	groupSchoolID uuid.UUID,
	schoolID uuid.UUID,
	termID uuid.UUID,
	name string,
	description string,
	feeType Type,
	amount valueobject.Money,
	installmentAllowed bool,
	numberOfInstallments int,
) (*Fee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_FEE_NAME", "Fee name cannot be empty")
	}
	if len(name) > 150 {
		return nil, shared.NewDomainError("INVALID_FEE_NAME", "Fee name cannot exceed 150 characters")
	}
	if schoolID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SCHOOL", "School ID cannot be empty")
	}
	if termID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TERM", "Term ID cannot be empty")
	}
	if !feeType.IsValid() {
		return nil, shared.NewDomainError("INVALID_FEE_TYPE", "Fee type is not valid")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Fee amount must be positive")
	}
	if installmentAllowed && numberOfInstallments < 2 {
		return nil, shared.NewDomainError("INVALID_INSTALLMENTS", "Installment fees need at least two installments")
	}
	if !installmentAllowed {
		numberOfInstallments = 0
	}

	f := &Fee{
		GroupAggregateRoot:   shared.NewGroupAggregateRoot(groupSchoolID),
		Name:                 name,
		Description:          description,
		Amount:               amount.Amount(),
		Type:                 feeType,
		SchoolID:             schoolID,
		TermID:               termID,
		IsActive:             true,
		IsApproved:           false,
		InstallmentAllowed:   installmentAllowed,
		NumberOfInstallments: numberOfInstallments,
	}

	f.AddDomainEvent(NewFeeCreatedEvent(f))

	return f, nil
}

// AmountMoney returns the fee amount as Money
func (f *Fee) AmountMoney() valueobject.Money {
	return valueobject.NewMoneyNGN(f.Amount)
}

// IsPayable returns true if the payment ledger may accept payments
// against this fee
func (f *Fee) IsPayable() bool {
	return f.IsActive && f.IsApproved
}

// Approve transitions the fee from unapproved to approved. There is no
// reverse transition.
func (f *Fee) Approve(approvedBy uuid.UUID) error {
	if f.IsApproved {
		return shared.NewDomainError("ALREADY_APPROVED", "Fee has already been approved")
	}
	now := time.Now()
	f.IsApproved = true
	f.ApprovedAt = &now
	f.ApprovedBy = &approvedBy
	f.UpdatedAt = now
	f.IncrementVersion()

	f.AddDomainEvent(NewFeeApprovedEvent(f))

	return nil
}

// Deactivate removes the fee from the payable set without deleting any
// history. Orthogonal to approval.
func (f *Fee) Deactivate() error {
	if !f.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Fee is already inactive")
	}
	f.IsActive = false
	f.UpdatedAt = time.Now()
	f.IncrementVersion()

	f.AddDomainEvent(NewFeeDeactivatedEvent(f))

	return nil
}

// Reactivate restores a deactivated fee to the payable set, provided it
// remains approved
func (f *Fee) Reactivate() error {
	if f.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Fee is already active")
	}
	f.IsActive = true
	f.UpdatedAt = time.Now()
	f.IncrementVersion()

	f.AddDomainEvent(NewFeeReactivatedEvent(f))

	return nil
}

// UpdateDescription updates the descriptive fields without touching the
// approval or activation state
func (f *Fee) UpdateDescription(description string) {
	f.Description = description
	f.UpdatedAt = time.Now()
	f.IncrementVersion()
}
