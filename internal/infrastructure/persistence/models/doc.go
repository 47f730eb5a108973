// Package models contains GORM-specific persistence models that map to
// database tables. They are kept separate from domain entities so the
// domain layer stays free of ORM concerns.
//
// Structure:
// - base.go: base persistence models (BaseModel, GroupAggregateModel)
// - tenancy.go: group school, school, session and term models
// - identity.go: user model
// - fee.go: fee model with the (school_id, term_id, name) unique index
// - payment.go: payment model with the unique transaction reference
package models

// AllModels returns every persistence model for schema migration
func AllModels() []interface{} {
	return []interface{}{
		&GroupSchoolModel{},
		&SchoolModel{},
		&SessionModel{},
		&TermModel{},
		&UserModel{},
		&FeeModel{},
		&PaymentModel{},
	}
}
