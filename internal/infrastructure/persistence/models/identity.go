package models

import (
	"strings"

	"github.com/charlykso/smart-s-sub004/internal/domain/identity"
	"github.com/google/uuid"
)

// UserModel is the persistence model for the User aggregate root.
// Roles are stored as a comma-separated list; the set is small and
// only ever read back as a whole.
type UserModel struct {
	GroupAggregateModel
	FirstName    string              `gorm:"type:varchar(100);not null"`
	LastName     string              `gorm:"type:varchar(100);not null"`
	Email        string              `gorm:"type:varchar(200);not null;uniqueIndex"`
	Phone        string              `gorm:"type:varchar(30)"`
	RegNumber    string              `gorm:"type:varchar(50);index"`
	PasswordHash string              `gorm:"type:varchar(100)"`
	SchoolID     uuid.UUID           `gorm:"type:uuid;index"`
	Roles        string              `gorm:"type:varchar(200);not null"`
	Status       identity.UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() (*identity.User, error) {
	roles, err := identity.ParseRoleSet(strings.Split(m.Roles, ","))
	if err != nil {
		return nil, err
	}
	u := &identity.User{
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Email:        m.Email,
		Phone:        m.Phone,
		RegNumber:    m.RegNumber,
		PasswordHash: m.PasswordHash,
		SchoolID:     m.SchoolID,
		Roles:        roles,
		Status:       m.Status,
	}
	m.PopulateGroupAggregateRoot(&u.GroupAggregateRoot)
	return u, nil
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainGroupAggregateRoot(u.GroupAggregateRoot)
	m.FirstName = u.FirstName
	m.LastName = u.LastName
	m.Email = u.Email
	m.Phone = u.Phone
	m.RegNumber = u.RegNumber
	m.PasswordHash = u.PasswordHash
	m.SchoolID = u.SchoolID
	m.Roles = strings.Join(u.Roles.Strings(), ",")
	m.Status = u.Status
}

// UserModelFromDomain creates a new persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
