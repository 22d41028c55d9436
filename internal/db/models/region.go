// Package models contains database model definitions.
package models

import "time"

// Region is the top level of the organizational hierarchy.
// Every university and every alumni small group belongs to exactly one region.
type Region struct {
	// ID is the unique identifier for the region.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Name is the unique display name of the region.
	Name string `gorm:"unique;size:100;not null" json:"name"`
	// Description provides a human-readable description of the region.
	Description string `gorm:"size:255" json:"description"`
	// CreatedAt is the timestamp when the region was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the region was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the Region model.
func (Region) TableName() string {
	return "regions"
}
