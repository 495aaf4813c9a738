package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ShiftMorning = "morning"
	ShiftEvening = "evening"
	ShiftNight   = "night"
)

const (
	MaintenanceScheduled   = "scheduled"
	MaintenanceUnscheduled = "unscheduled"
	MaintenanceNone        = "none"
)

// Failure classifications. Anything other than rectified raises a complaint.
const (
	FailureRectified = "rectified"
	FailurePending   = "pending"
	FailureExternal  = "external"
)

const (
	ReportSubmitted = "submitted"
	ReportReviewed  = "reviewed"
)

// DateLayout is the wire and storage format of report dates.
const DateLayout = "2006-01-02"

type Replacement struct {
	Item      string `json:"item"`
	OldSerial string `json:"oldSerial,omitempty"`
	NewSerial string `json:"newSerial,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// WorkReport is one shift log. Field groups mirror the form tabs.
type WorkReport struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	AuthorID   uint   `gorm:"not null;index" json:"authorId"`
	AuthorName string `gorm:"size:120" json:"authorName"`
	AuthorRole Role   `gorm:"size:20" json:"authorRole"`

	// general
	Date    string `gorm:"size:10;not null;index" json:"date"`
	Shift   string `gorm:"size:16;not null" json:"shift"`
	Station string `gorm:"size:120;not null;index" json:"station"`
	Section string `gorm:"size:120" json:"section,omitempty"`

	// maintenance
	MaintenanceType string `gorm:"size:16" json:"maintenanceType,omitempty"`
	GearType        string `gorm:"size:60" json:"gearType,omitempty"`
	GearID          string `gorm:"size:60" json:"gearId,omitempty"`
	Activities      string `gorm:"type:text" json:"activities,omitempty"`

	// failure
	FailureOccurred       bool       `gorm:"not null;default:false" json:"failureOccurred"`
	FailureGearType       string     `gorm:"size:60" json:"failureGearType,omitempty"`
	FailureGearID         string     `gorm:"size:60" json:"failureGearId,omitempty"`
	FailureAt             *time.Time `json:"failureAt,omitempty"`
	RectifiedAt           *time.Time `json:"rectifiedAt,omitempty"`
	FailureCause          string     `gorm:"type:text" json:"failureCause,omitempty"`
	FailureClassification string     `gorm:"size:16" json:"failureClassification,omitempty"`
	FailureRemarks        string     `gorm:"type:text" json:"failureRemarks,omitempty"`

	// replacement
	Replacements datatypes.JSONSlice[Replacement] `json:"replacements"`

	// review
	Status         string     `gorm:"size:16;not null;default:submitted;index" json:"status"`
	ReviewedBy     *uint      `json:"reviewedBy,omitempty"`
	ReviewedByName string     `gorm:"size:120" json:"reviewedByName,omitempty"`
	ReviewedAt     *time.Time `json:"reviewedAt,omitempty"`
	ReviewRemarks  string     `gorm:"type:text" json:"reviewRemarks,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RaisesComplaint reports whether saving this report must open a complaint.
func (w *WorkReport) RaisesComplaint() bool {
	return w.FailureOccurred && w.FailureClassification != FailureRectified
}
