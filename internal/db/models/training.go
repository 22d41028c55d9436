package models

import "time"

// Training is a leadership or discipleship training run by some level of the
// hierarchy.
type Training struct {
	// ID is the unique identifier for the training.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Name is the display name of the training.
	Name string `gorm:"size:150;not null" json:"name"`
	// Description provides a human-readable description of the training.
	Description string `gorm:"size:500" json:"description"`
	// StartsAt is the scheduled start time.
	StartsAt time.Time `json:"starts_at"`
	// EndsAt is the scheduled end time.
	EndsAt time.Time `json:"ends_at"`
	// RegionID is the owning region.
	RegionID uint64 `gorm:"not null;index" json:"region_id"`
	// UniversityID is the owning university, if any.
	UniversityID *uint64 `gorm:"index" json:"university_id"`
	// SmallGroupID is the owning small group, if any.
	SmallGroupID *uint64 `gorm:"index" json:"small_group_id"`
	// AlumniGroupID is the owning alumni small group, if any.
	AlumniGroupID *uint64 `gorm:"column:alumni_group_id;index" json:"alumni_group_id"`
	// CreatedAt is the timestamp when the training was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the training was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the Training model.
func (Training) TableName() string {
	return "trainings"
}
