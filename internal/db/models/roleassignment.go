package models

import (
	"time"

	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/rls"
)

// RoleAssignmentSource represents where a role assignment came from.
type RoleAssignmentSource string

const (
	// RoleAssignmentSourceLocal indicates the assignment was created by an administrator.
	RoleAssignmentSourceLocal RoleAssignmentSource = "local"
	// RoleAssignmentSourceOIDC indicates the assignment was synchronized from OIDC group claims.
	RoleAssignmentSourceOIDC RoleAssignmentSource = "oidc"
)

// RoleAssignment anchors a user's authority at one level of the
// organizational hierarchy. A user may hold several assignments; the rls
// package resolves them into one effective scope per request, preferring the
// most restrictive one.
//
// Only the identifier columns meaningful for Scope are expected to be set;
// an assignment whose defining identifier is missing resolves to no access,
// never to unrestricted access.
type RoleAssignment struct {
	// ID is the unique identifier for the role assignment.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// UserID is the user holding this assignment.
	UserID uint64 `gorm:"not null;index" json:"user_id"`
	// User is the associated user (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	// Scope is the organizational level this assignment anchors at.
	Scope rls.Scope `gorm:"type:varchar(30);not null" json:"scope"`
	// RegionID is set for region scoped assignments (and optionally deeper ones).
	RegionID *uint64 `json:"region_id"`
	// UniversityID is set for university scoped assignments.
	UniversityID *uint64 `json:"university_id"`
	// SmallGroupID is set for small group scoped assignments.
	SmallGroupID *uint64 `json:"small_group_id"`
	// AlumniGroupID is set for alumni small group scoped assignments.
	AlumniGroupID *uint64 `gorm:"column:alumni_group_id" json:"alumni_group_id"`
	// Source indicates where the assignment came from (local or oidc).
	Source RoleAssignmentSource `gorm:"type:varchar(20);not null;default:'local'" json:"source"`
	// CreatedAt is the timestamp when the assignment was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the assignment was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the RoleAssignment model.
func (RoleAssignment) TableName() string {
	return "role_assignments"
}

// Assignment converts the database row into the pure rls tuple consumed by
// the scope resolver.
func (ra *RoleAssignment) Assignment() rls.Assignment {
	return rls.Assignment{
		Scope:         ra.Scope,
		RegionID:      ra.RegionID,
		UniversityID:  ra.UniversityID,
		SmallGroupID:  ra.SmallGroupID,
		AlumniGroupID: ra.AlumniGroupID,
	}
}
