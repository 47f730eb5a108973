package models

import (
	"time"

	"github.com/charlykso/smart-s-sub004/internal/domain/fee"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeeModel is the persistence model for the Fee aggregate root.
//
// The composite unique index on (school_id, term_id, name) is the
// authoritative duplicate guard: the application-level pre-check cannot
// catch two concurrent creations of the same fee.
type FeeModel struct {
	GroupAggregateModel
	Name                 string          `gorm:"type:varchar(200);not null;uniqueIndex:idx_fee_school_term_name,priority:3"`
	Description          string          `gorm:"type:text"`
	Amount               decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Type                 fee.Type        `gorm:"type:varchar(30);not null;index"`
	SchoolID             uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_fee_school_term_name,priority:1"`
	TermID               uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_fee_school_term_name,priority:2"`
	IsActive             bool            `gorm:"not null;default:true;index"`
	IsApproved           bool            `gorm:"not null;default:false;index"`
	InstallmentAllowed   bool            `gorm:"not null;default:false"`
	NumberOfInstallments int             `gorm:"not null;default:0"`
	ApprovedAt           *time.Time
	ApprovedBy           *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (FeeModel) TableName() string {
	return "fees"
}

// ToDomain converts the persistence model to a domain Fee
func (m *FeeModel) ToDomain() *fee.Fee {
	f := &fee.Fee{
		Name:                 m.Name,
		Description:          m.Description,
		Amount:               m.Amount,
		Type:                 m.Type,
		SchoolID:             m.SchoolID,
		TermID:               m.TermID,
		IsActive:             m.IsActive,
		IsApproved:           m.IsApproved,
		InstallmentAllowed:   m.InstallmentAllowed,
		NumberOfInstallments: m.NumberOfInstallments,
		ApprovedAt:           m.ApprovedAt,
		ApprovedBy:           m.ApprovedBy,
	}
	m.PopulateGroupAggregateRoot(&f.GroupAggregateRoot)
	return f
}

// FromDomain populates the persistence model from a domain Fee
func (m *FeeModel) FromDomain(f *fee.Fee) {
	m.FromDomainGroupAggregateRoot(f.GroupAggregateRoot)
	m.Name = f.Name
	m.Description = f.Description
	m.Amount = f.Amount
	m.Type = f.Type
	m.SchoolID = f.SchoolID
	m.TermID = f.TermID
	m.IsActive = f.IsActive
	m.IsApproved = f.IsApproved
	m.InstallmentAllowed = f.InstallmentAllowed
	m.NumberOfInstallments = f.NumberOfInstallments
	m.ApprovedAt = f.ApprovedAt
	m.ApprovedBy = f.ApprovedBy
}

// FeeModelFromDomain creates a new persistence model from a domain Fee
func FeeModelFromDomain(f *fee.Fee) *FeeModel {
	m := &FeeModel{}
	m.FromDomain(f)
	return m
}
