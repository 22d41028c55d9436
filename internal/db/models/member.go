package models

import "time"

// MemberStatus represents the engagement status of a member.
type MemberStatus string

const (
	// MemberStatusActive indicates a currently engaged member.
	MemberStatusActive MemberStatus = "active"
	// MemberStatusAlumni indicates a graduated member attached to an alumni group.
	MemberStatusAlumni MemberStatus = "alumni"
	// MemberStatusInactive indicates a member who is no longer engaged.
	MemberStatusInactive MemberStatus = "inactive"
)

// Member represents a person tracked by the organization. A member always
// belongs to a region; the deeper organizational keys are set only where
// applicable (students get a university and usually a small group, alumni
// get an alumni small group instead).
type Member struct {
	// ID is the unique identifier for the member.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// FirstName is the member's first or given name.
	FirstName string `gorm:"size:100;not null" json:"first_name"`
	// LastName is the member's last or family name.
	LastName string `gorm:"size:100;not null" json:"last_name"`
	// Email is the member's email address.
	Email string `gorm:"size:255" json:"email"`
	// Phone is the member's phone number.
	Phone string `gorm:"size:50" json:"phone"`
	// Status indicates the member's engagement status.
	Status MemberStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	// RegionID is the owning region.
	RegionID uint64 `gorm:"not null;index" json:"region_id"`
	// UniversityID is the member's university, if any.
	UniversityID *uint64 `gorm:"index" json:"university_id"`
	// SmallGroupID is the member's small group, if any.
	SmallGroupID *uint64 `gorm:"index" json:"small_group_id"`
	// AlumniGroupID is the member's alumni small group, if any.
	AlumniGroupID *uint64 `gorm:"column:alumni_group_id;index" json:"alumni_group_id"`
	// CreatedAt is the timestamp when the member was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the member was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
	// DeletedAt is the soft delete timestamp (nil if not deleted, managed by GORM).
	DeletedAt *time.Time `json:"-"`
}

// TableName specifies the database table name for the Member model.
func (Member) TableName() string {
	return "members"
}
