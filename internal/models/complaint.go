package models

import (
	"fmt"
	"time"
)

const (
	ComplaintOpen       = "open"
	ComplaintInProgress = "in_progress"
	ComplaintResolved   = "resolved"
)

// OverdueAfter is how long a complaint may stay open before its badge turns.
const OverdueAfter = 24 * time.Hour

type Complaint struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ComplaintNo    string     `gorm:"size:32;index" json:"complaintNo"`
	WorkReportID   *uint      `gorm:"index" json:"workReportId,omitempty"`
	AuthorID       uint       `gorm:"not null;index" json:"authorId"`
	AuthorName     string     `gorm:"size:120" json:"authorName"`
	Station        string     `gorm:"size:120;not null;index" json:"station"`
	GearType       string     `gorm:"size:60" json:"gearType,omitempty"`
	GearID         string     `gorm:"size:60" json:"gearId,omitempty"`
	Description    string     `gorm:"type:text;not null" json:"description"`
	Classification string     `gorm:"size:16" json:"classification,omitempty"`
	FailureAt      *time.Time `json:"failureAt,omitempty"`
	Status         string     `gorm:"size:16;not null;default:open;index" json:"status"`

	ResolvedBy        *uint      `json:"resolvedBy,omitempty"`
	ResolvedByName    string     `gorm:"size:120" json:"resolvedByName,omitempty"`
	ResolvedAt        *time.Time `json:"resolvedAt,omitempty"`
	ActionTaken       string     `gorm:"type:text" json:"actionTaken,omitempty"`
	ResolutionRemarks string     `gorm:"type:text" json:"resolutionRemarks,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Badge is the derived status chip shown next to a complaint.
type Badge struct {
	Label string `json:"label"`
	Tone  string `json:"tone"`
}

func (c *Complaint) Badge(now time.Time) Badge {
	switch c.Status {
	case ComplaintResolved:
		return Badge{Label: "Resolved", Tone: "success"}
	case ComplaintInProgress:
		return Badge{Label: "In Progress", Tone: "info"}
	}
	if now.Sub(c.CreatedAt) > OverdueAfter {
		return Badge{Label: "Overdue", Tone: "danger"}
	}
	return Badge{Label: "Open", Tone: "warning"}
}

// AssignNumber derives the complaint number once the row has an ID.
func (c *Complaint) AssignNumber() {
	c.ComplaintNo = fmt.Sprintf("CMP-%s-%06d", c.CreatedAt.UTC().Format("200601"), c.ID)
}

// ComplaintView is a complaint with its badge resolved for the client.
type ComplaintView struct {
	Complaint
	Badge Badge `json:"badge"`
}

func (c *Complaint) View(now time.Time) ComplaintView {
	return ComplaintView{Complaint: *c, Badge: c.Badge(now)}
}
