package models

import "time"

// Document is an uploaded file (meeting notes, reports, forms) owned by some
// level of the hierarchy. The binary payload lives in external storage; only
// metadata is kept here. ShareToken allows unauthenticated download links.
type Document struct {
	// ID is the unique identifier for the document.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Title is the display title of the document.
	Title string `gorm:"size:255;not null" json:"title"`
	// FileName is the original upload file name.
	FileName string `gorm:"size:255;not null" json:"file_name"`
	// ContentType is the MIME type of the file.
	ContentType string `gorm:"size:100" json:"content_type"`
	// SizeBytes is the file size in bytes.
	SizeBytes int64 `json:"size_bytes"`
	// ShareToken is a random token used for share links.
	ShareToken string `gorm:"size:32;uniqueIndex" json:"share_token"`
	// UploadedByID is the user who uploaded the document.
	UploadedByID uint64 `gorm:"not null" json:"uploaded_by_id"`
	// RegionID is the owning region.
	RegionID uint64 `gorm:"not null;index" json:"region_id"`
	// UniversityID is the owning university, if any.
	UniversityID *uint64 `gorm:"index" json:"university_id"`
	// SmallGroupID is the owning small group, if any.
	SmallGroupID *uint64 `gorm:"index" json:"small_group_id"`
	// AlumniGroupID is the owning alumni small group, if any.
	AlumniGroupID *uint64 `gorm:"column:alumni_group_id;index" json:"alumni_group_id"`
	// CreatedAt is the timestamp when the document was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the document was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the Document model.
func (Document) TableName() string {
	return "documents"
}
