package models

import "time"

// ContributionDesignation is a fundraising purpose (missions trip, campus
// fund, benevolence) that contributions are given toward. Designations are
// owned by some level of the hierarchy.
type ContributionDesignation struct {
	// ID is the unique identifier for the designation.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Name is the display name of the designation.
	Name string `gorm:"size:150;not null" json:"name"`
	// Description provides a human-readable description of the designation.
	Description string `gorm:"size:500" json:"description"`
	// GoalCents is the fundraising goal in cents (0 means no goal).
	GoalCents int64 `gorm:"not null;default:0" json:"goal_cents"`
	// RegionID is the owning region.
	RegionID uint64 `gorm:"not null;index" json:"region_id"`
	// UniversityID is the owning university, if any.
	UniversityID *uint64 `gorm:"index" json:"university_id"`
	// SmallGroupID is the owning small group, if any.
	SmallGroupID *uint64 `gorm:"index" json:"small_group_id"`
	// AlumniGroupID is the owning alumni small group, if any.
	AlumniGroupID *uint64 `gorm:"column:alumni_group_id;index" json:"alumni_group_id"`
	// CreatedAt is the timestamp when the designation was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the designation was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the ContributionDesignation model.
func (ContributionDesignation) TableName() string {
	return "contributiondesignations"
}

// Contribution is one gift toward a designation. Contributions carry no
// organizational keys of their own; they are scoped through their designation.
type Contribution struct {
	// ID is the unique identifier for the contribution.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// DesignationID is the designation this gift was given toward.
	DesignationID uint64 `gorm:"not null;index" json:"designation_id"`
	// Designation is the associated designation (loaded via foreign key).
	Designation ContributionDesignation `gorm:"foreignKey:DesignationID;constraint:OnDelete:RESTRICT" json:"-"`
	// MemberID is the giving member, if the gift is attributed.
	MemberID *uint64 `gorm:"index" json:"member_id"`
	// AmountCents is the gift amount in cents.
	AmountCents int64 `gorm:"not null" json:"amount_cents"`
	// Currency is the ISO 4217 currency code.
	Currency string `gorm:"size:3;not null;default:'USD'" json:"currency"`
	// Method is how the gift was received (cash, check, online).
	Method string `gorm:"size:30" json:"method"`
	// ReceivedAt is when the gift was received.
	ReceivedAt time.Time `json:"received_at"`
	// CreatedAt is the timestamp when the contribution was recorded (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the database table name for the Contribution model.
func (Contribution) TableName() string {
	return "contributions"
}
