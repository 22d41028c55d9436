package models

import "time"

// AttendanceStatus represents a member's attendance at one event occurrence.
type AttendanceStatus string

const (
	// AttendancePresent indicates the member attended.
	AttendancePresent AttendanceStatus = "present"
	// AttendanceAbsent indicates the member did not attend.
	AttendanceAbsent AttendanceStatus = "absent"
	// AttendanceExcused indicates the member was excused.
	AttendanceExcused AttendanceStatus = "excused"
)

// Attendance records one member's attendance at one event on one date.
// Attendance rows carry no organizational keys of their own; they are scoped
// through the event they belong to.
type Attendance struct {
	// ID is the unique identifier for the attendance record.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// EventID is the event this record belongs to.
	EventID uint64 `gorm:"not null;index;uniqueIndex:idx_event_member_date" json:"event_id"`
	// Event is the associated event (loaded via foreign key).
	Event PermanentMinistryEvent `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	// MemberID is the member this record belongs to.
	MemberID uint64 `gorm:"not null;index;uniqueIndex:idx_event_member_date" json:"member_id"`
	// Member is the associated member (loaded via foreign key).
	Member Member `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE" json:"-"`
	// Date is the occurrence date the attendance applies to.
	Date time.Time `gorm:"not null;uniqueIndex:idx_event_member_date" json:"date"`
	// Status indicates presence, absence or excuse.
	Status AttendanceStatus `gorm:"type:varchar(20);not null" json:"status"`
	// CreatedAt is the timestamp when the record was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the database table name for the Attendance model.
func (Attendance) TableName() string {
	return "attendances"
}
