package models

import "time"

const (
	SOSActive       = "active"
	SOSAcknowledged = "acknowledged"
)

type SOSAlert struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	RaisedBy           uint       `gorm:"not null;index" json:"raisedBy"`
	RaisedByName       string     `gorm:"size:120" json:"raisedByName"`
	Role               Role       `gorm:"size:20" json:"role"`
	Phone              string     `gorm:"size:32" json:"phone,omitempty"`
	Station            string     `gorm:"size:120" json:"station,omitempty"`
	Latitude           *float64   `json:"latitude,omitempty"`
	Longitude          *float64   `json:"longitude,omitempty"`
	Message            string     `gorm:"type:text" json:"message"`
	Status             string     `gorm:"size:16;not null;default:active;index" json:"status"`
	AcknowledgedBy     *uint      `json:"acknowledgedBy,omitempty"`
	AcknowledgedByName string     `gorm:"size:120" json:"acknowledgedByName,omitempty"`
	AcknowledgedAt     *time.Time `json:"acknowledgedAt,omitempty"`
	Notified           bool       `gorm:"not null;default:false" json:"notified"`
	NotifiedEmails     string     `gorm:"type:text" json:"notifiedEmails,omitempty"`
	CreatedAt          time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}
