package model

import "time"

const (
	UploadStatusOpen      = 0
	UploadStatusCompleted = 1
)

// UploadSession records every initiated multipart upload so the reaper can
// abort provider sessions the client abandoned.
type UploadSession struct {
	ID uint64 `gorm:"primaryKey"`

	ObjectKey string `gorm:"column:object_key;size:128;uniqueIndex;not null"`
	UploadID  string `gorm:"column:upload_id;size:256;not null"`

	FileName string `gorm:"column:file_name;size:255;not null"`
	FileSize int64  `gorm:"column:file_size;not null"`
	MimeType string `gorm:"column:mime_type;size:128;not null"`

	PartCount int `gorm:"column:part_count;not null"`

	Status int `gorm:"column:status;not null;default:0;index"`

	UserID *uint64 `gorm:"column:user_id;index"`
	AnonID string  `gorm:"column:anon_id;size:36;not null;default:''"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// TableName returns the database table name.
func (UploadSession) TableName() string {
	return "upload_session"
}
