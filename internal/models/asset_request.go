package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RequestCreate = "create"
	RequestUpdate = "update"
	RequestDelete = "delete"
)

const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// AssetRequest is a proposed change to an asset registry that a supervisor
// approves or rejects.
type AssetRequest struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Kind            AssetKind      `gorm:"size:24;not null;index" json:"kind"`
	AssetID         *uint          `json:"assetId,omitempty"`
	Action          string         `gorm:"size:16;not null" json:"action"`
	Payload         datatypes.JSON `json:"payload,omitempty"`
	Reason          string         `gorm:"type:text" json:"reason,omitempty"`
	RequestedBy     uint           `gorm:"not null;index" json:"requestedBy"`
	RequestedByName string         `gorm:"size:120" json:"requestedByName"`
	Status          string         `gorm:"size:16;not null;default:pending;index" json:"status"`
	DecidedBy       *uint          `json:"decidedBy,omitempty"`
	DecidedByName   string         `gorm:"size:120" json:"decidedByName,omitempty"`
	DecidedAt       *time.Time     `json:"decidedAt,omitempty"`
	DecisionRemarks string         `gorm:"type:text" json:"decisionRemarks,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}
