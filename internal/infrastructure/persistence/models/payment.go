package models

import (
	"time"

	"github.com/charlykso/smart-s-sub004/internal/domain/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentModel is the persistence model for the Payment aggregate root.
type PaymentModel struct {
	GroupAggregateModel
	FeeID                uuid.UUID           `gorm:"type:uuid;not null;index"`
	PayerID              uuid.UUID           `gorm:"type:uuid;not null;index"`
	RecordedBy           uuid.UUID           `gorm:"type:uuid;not null"`
	SchoolID             uuid.UUID           `gorm:"type:uuid;not null;index"`
	Amount               decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Channel              payment.Channel     `gorm:"type:varchar(20);not null"`
	Status               payment.Status      `gorm:"type:varchar(20);not null;index"`
	Reference            string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	Gateway              payment.GatewayType `gorm:"type:varchar(20)"`
	GatewayTransactionID string              `gorm:"type:varchar(100);index"`
	FailureReason        string              `gorm:"type:varchar(500)"`
	PaidAt               *time.Time
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment
func (m *PaymentModel) ToDomain() *payment.Payment {
	p := &payment.Payment{
		FeeID:                m.FeeID,
		PayerID:              m.PayerID,
		RecordedBy:           m.RecordedBy,
		SchoolID:             m.SchoolID,
		Amount:               m.Amount,
		Channel:              m.Channel,
		Status:               m.Status,
		Reference:            m.Reference,
		Gateway:              m.Gateway,
		GatewayTransactionID: m.GatewayTransactionID,
		FailureReason:        m.FailureReason,
		PaidAt:               m.PaidAt,
	}
	m.PopulateGroupAggregateRoot(&p.GroupAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain Payment
func (m *PaymentModel) FromDomain(p *payment.Payment) {
	m.FromDomainGroupAggregateRoot(p.GroupAggregateRoot)
	m.FeeID = p.FeeID
	m.PayerID = p.PayerID
	m.RecordedBy = p.RecordedBy
	m.SchoolID = p.SchoolID
	m.Amount = p.Amount
	m.Channel = p.Channel
	m.Status = p.Status
	m.Reference = p.Reference
	m.Gateway = p.Gateway
	m.GatewayTransactionID = p.GatewayTransactionID
	m.FailureReason = p.FailureReason
	m.PaidAt = p.PaidAt
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment
func PaymentModelFromDomain(p *payment.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}
