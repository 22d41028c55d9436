package models

import "time"

// SmallGroup is a student group at a university. It carries both its
// university foreign key and the (redundant but convenient) region key.
type SmallGroup struct {
	// ID is the unique identifier for the small group.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Name is the display name of the small group.
	Name string `gorm:"size:150;not null" json:"name"`
	// MeetingDay is the weekday the group usually meets on.
	MeetingDay string `gorm:"size:20" json:"meeting_day"`
	// RegionID is the owning region (denormalized from the university).
	RegionID uint64 `gorm:"not null;index" json:"region_id"`
	// UniversityID is the owning university.
	UniversityID uint64 `gorm:"not null;index" json:"university_id"`
	// University is the associated university (loaded via foreign key).
	University University `gorm:"foreignKey:UniversityID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE" json:"-"`
	// CreatedAt is the timestamp when the group was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the group was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the SmallGroup model.
func (SmallGroup) TableName() string {
	return "smallgroups"
}
