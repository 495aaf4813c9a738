package models

import "time"

// Attachment is the metadata row for a file stored in the blob bucket.
type Attachment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	WorkReportID uint      `gorm:"not null;index" json:"workReportId"`
	FileName     string    `gorm:"size:255;not null" json:"fileName"`
	ContentType  string    `gorm:"size:120" json:"contentType"`
	Size         int64     `json:"size"`
	BlobKey      string    `gorm:"size:320;not null;uniqueIndex" json:"-"`
	UploadedBy   uint      `gorm:"not null" json:"uploadedBy"`
	CreatedAt    time.Time `json:"createdAt"`
}
