package models

import "time"

// PermanentMinistryEvent is a recurring or standing event (weekly meeting,
// conference, outreach) owned by some level of the hierarchy. The owning
// level is expressed through which organizational keys are set.
type PermanentMinistryEvent struct {
	// ID is the unique identifier for the event.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Name is the display name of the event.
	Name string `gorm:"size:150;not null" json:"name"`
	// Description provides a human-readable description of the event.
	Description string `gorm:"size:500" json:"description"`
	// Location is where the event takes place.
	Location string `gorm:"size:255" json:"location"`
	// StartsAt is the scheduled start time.
	StartsAt time.Time `json:"starts_at"`
	// EndsAt is the scheduled end time.
	EndsAt time.Time `json:"ends_at"`
	// RegionID is the owning region.
	RegionID uint64 `gorm:"not null;index" json:"region_id"`
	// UniversityID is the owning university, if the event is campus level.
	UniversityID *uint64 `gorm:"index" json:"university_id"`
	// SmallGroupID is the owning small group, if the event is group level.
	SmallGroupID *uint64 `gorm:"index" json:"small_group_id"`
	// AlumniGroupID is the owning alumni small group, if any.
	AlumniGroupID *uint64 `gorm:"column:alumni_group_id;index" json:"alumni_group_id"`
	// CreatedAt is the timestamp when the event was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the event was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the PermanentMinistryEvent model.
func (PermanentMinistryEvent) TableName() string {
	return "permanentministryevents"
}
