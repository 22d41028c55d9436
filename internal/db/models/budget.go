package models

import "time"

// Budget is a fiscal-year budget line owned by some level of the hierarchy.
// Amounts are stored in cents to avoid floating point drift.
type Budget struct {
	// ID is the unique identifier for the budget.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Name is the display name of the budget line.
	Name string `gorm:"size:150;not null" json:"name"`
	// FiscalYear is the year the budget applies to.
	FiscalYear int `gorm:"not null;index" json:"fiscal_year"`
	// AmountCents is the allocated amount in cents.
	AmountCents int64 `gorm:"not null" json:"amount_cents"`
	// SpentCents is the amount already spent in cents.
	SpentCents int64 `gorm:"not null;default:0" json:"spent_cents"`
	// RegionID is the owning region.
	RegionID uint64 `gorm:"not null;index" json:"region_id"`
	// UniversityID is the owning university, if any.
	UniversityID *uint64 `gorm:"index" json:"university_id"`
	// SmallGroupID is the owning small group, if any.
	SmallGroupID *uint64 `gorm:"index" json:"small_group_id"`
	// AlumniGroupID is the owning alumni small group, if any.
	AlumniGroupID *uint64 `gorm:"column:alumni_group_id;index" json:"alumni_group_id"`
	// CreatedAt is the timestamp when the budget was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the budget was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the Budget model.
func (Budget) TableName() string {
	return "budgets"
}
