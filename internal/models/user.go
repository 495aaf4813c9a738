package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:120;not null" json:"name"`
	Email        string    `gorm:"size:200;not null;uniqueIndex" json:"email"`
	Phone        string    `gorm:"size:32" json:"phone,omitempty"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	Role         Role      `gorm:"size:20;not null;index" json:"role"`
	Designation  string    `gorm:"size:120" json:"designation,omitempty"`
	Station      string    `gorm:"size:120" json:"station,omitempty"`
	Section      string    `gorm:"size:120" json:"section,omitempty"`
	SupervisorID *uint     `gorm:"index" json:"supervisorId,omitempty"`
	Active       bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type UserResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Role         Role      `json:"role"`
	RoleLabel    string    `json:"roleLabel"`
	Designation  string    `json:"designation,omitempty"`
	Station      string    `json:"station,omitempty"`
	Section      string    `json:"section,omitempty"`
	SupervisorID *uint     `json:"supervisorId,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		Role:         u.Role,
		RoleLabel:    u.Role.Label(),
		Designation:  u.Designation,
		Station:      u.Station,
		Section:      u.Section,
		SupervisorID: u.SupervisorID,
		Active:       u.Active,
		CreatedAt:    u.CreatedAt,
	}
}

// SupervisorOption is the trimmed view shown in the sign-up form's
// "reporting to" dropdown.
type SupervisorOption struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	RoleLabel string `json:"roleLabel"`
	Station   string `json:"station,omitempty"`
}
