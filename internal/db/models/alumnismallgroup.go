package models

import "time"

// AlumniSmallGroup is a graduate group. It belongs directly to a region and
// deliberately has no university foreign key: alumni groups are a sibling
// branch of the hierarchy, not a descendant of any campus.
type AlumniSmallGroup struct {
	// ID is the unique identifier for the alumni small group.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Name is the display name of the alumni small group.
	Name string `gorm:"size:150;not null" json:"name"`
	// RegionID is the owning region.
	RegionID uint64 `gorm:"not null;index" json:"region_id"`
	// Region is the associated region (loaded via foreign key).
	Region Region `gorm:"foreignKey:RegionID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE" json:"-"`
	// CreatedAt is the timestamp when the group was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the group was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the AlumniSmallGroup model.
func (AlumniSmallGroup) TableName() string {
	return "alumnismallgroups"
}
