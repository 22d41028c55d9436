package models

import "time"

// University is a campus within a region. Universities contain small groups;
// alumni small groups hang off the region directly, not off a university.
type University struct {
	// ID is the unique identifier for the university.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Name is the display name of the university.
	Name string `gorm:"size:150;not null" json:"name"`
	// City is the city the campus is located in.
	City string `gorm:"size:100" json:"city"`
	// RegionID is the owning region.
	RegionID uint64 `gorm:"not null;index" json:"region_id"`
	// Region is the associated region (loaded via foreign key).
	Region Region `gorm:"foreignKey:RegionID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE" json:"-"`
	// CreatedAt is the timestamp when the university was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the university was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the University model.
func (University) TableName() string {
	return "universities"
}
