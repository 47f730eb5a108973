package models

import (
	"time"

	"github.com/charlykso/smart-s-sub004/internal/domain/tenancy"
	"github.com/google/uuid"
)

// GroupSchoolModel is the persistence model for the GroupSchool aggregate root.
type GroupSchoolModel struct {
	AggregateModel
	Name        string `gorm:"type:varchar(200);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	LogoURL     string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (GroupSchoolModel) TableName() string {
	return "group_schools"
}

// ToDomain converts the persistence model to a domain GroupSchool
func (m *GroupSchoolModel) ToDomain() *tenancy.GroupSchool {
	g := &tenancy.GroupSchool{
		Name:        m.Name,
		Description: m.Description,
		LogoURL:     m.LogoURL,
	}
	m.PopulateAggregateRoot(&g.BaseAggregateRoot)
	return g
}

// FromDomain populates the persistence model from a domain GroupSchool
func (m *GroupSchoolModel) FromDomain(g *tenancy.GroupSchool) {
	m.FromDomainAggregateRoot(g.BaseAggregateRoot)
	m.Name = g.Name
	m.Description = g.Description
	m.LogoURL = g.LogoURL
}

// GroupSchoolModelFromDomain creates a new persistence model from a domain GroupSchool
func GroupSchoolModelFromDomain(g *tenancy.GroupSchool) *GroupSchoolModel {
	m := &GroupSchoolModel{}
	m.FromDomain(g)
	return m
}

// SchoolModel is the persistence model for the School aggregate root.
type SchoolModel struct {
	GroupAggregateModel
	Name    string `gorm:"type:varchar(200);not null;index"`
	Email   string `gorm:"type:varchar(200)"`
	Phone   string `gorm:"type:varchar(30)"`
	Address string `gorm:"type:text"`
	Active  bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (SchoolModel) TableName() string {
	return "schools"
}

// ToDomain converts the persistence model to a domain School
func (m *SchoolModel) ToDomain() *tenancy.School {
	s := &tenancy.School{
		Name:    m.Name,
		Email:   m.Email,
		Phone:   m.Phone,
		Address: m.Address,
		Active:  m.Active,
	}
	m.PopulateGroupAggregateRoot(&s.GroupAggregateRoot)
	return s
}

// FromDomain populates the persistence model from a domain School
func (m *SchoolModel) FromDomain(s *tenancy.School) {
	m.FromDomainGroupAggregateRoot(s.GroupAggregateRoot)
	m.Name = s.Name
	m.Email = s.Email
	m.Phone = s.Phone
	m.Address = s.Address
	m.Active = s.Active
}

// SchoolModelFromDomain creates a new persistence model from a domain School
func SchoolModelFromDomain(s *tenancy.School) *SchoolModel {
	m := &SchoolModel{}
	m.FromDomain(s)
	return m
}

// SessionModel is the persistence model for the academic Session aggregate root.
type SessionModel struct {
	GroupAggregateModel
	SchoolID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_session_school_name,priority:1"`
	Name      string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_session_school_name,priority:2"`
	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`
	IsCurrent bool      `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (SessionModel) TableName() string {
	return "sessions"
}

// ToDomain converts the persistence model to a domain Session
func (m *SessionModel) ToDomain() *tenancy.Session {
	s := &tenancy.Session{
		SchoolID:  m.SchoolID,
		Name:      m.Name,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		IsCurrent: m.IsCurrent,
	}
	m.PopulateGroupAggregateRoot(&s.GroupAggregateRoot)
	return s
}

// FromDomain populates the persistence model from a domain Session
func (m *SessionModel) FromDomain(s *tenancy.Session) {
	m.FromDomainGroupAggregateRoot(s.GroupAggregateRoot)
	m.SchoolID = s.SchoolID
	m.Name = s.Name
	m.StartDate = s.StartDate
	m.EndDate = s.EndDate
	m.IsCurrent = s.IsCurrent
}

// SessionModelFromDomain creates a new persistence model from a domain Session
func SessionModelFromDomain(s *tenancy.Session) *SessionModel {
	m := &SessionModel{}
	m.FromDomain(s)
	return m
}

// TermModel is the persistence model for the Term aggregate root.
type TermModel struct {
	GroupAggregateModel
	SessionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_term_session_name,priority:1"`
	Name      string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_term_session_name,priority:2"`
	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`
	IsCurrent bool      `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (TermModel) TableName() string {
	return "terms"
}

// ToDomain converts the persistence model to a domain Term
func (m *TermModel) ToDomain() *tenancy.Term {
	t := &tenancy.Term{
		SessionID: m.SessionID,
		Name:      m.Name,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		IsCurrent: m.IsCurrent,
	}
	m.PopulateGroupAggregateRoot(&t.GroupAggregateRoot)
	return t
}

// FromDomain populates the persistence model from a domain Term
func (m *TermModel) FromDomain(t *tenancy.Term) {
	m.FromDomainGroupAggregateRoot(t.GroupAggregateRoot)
	m.SessionID = t.SessionID
	m.Name = t.Name
	m.StartDate = t.StartDate
	m.EndDate = t.EndDate
	m.IsCurrent = t.IsCurrent
}

// TermModelFromDomain creates a new persistence model from a domain Term
func TermModelFromDomain(t *tenancy.Term) *TermModel {
	m := &TermModel{}
	m.FromDomain(t)
	return m
}
