package models

import (
	"gorm.io/gorm"
)

// User roles
const (
	RoleStandard    = "standard"
	RoleServiceDesk = "service_desk"
	RoleAdmin       = "admin"
)

type User struct {
	gorm.Model
	Name                 string `gorm:"not null" json:"name"`
	Email                string `gorm:"unique;not null" json:"email"`
	Password             string `gorm:"not null" json:"-"`
	Role                 string `gorm:"type:varchar(20);default:'standard'" json:"role"`
	ProfilePhoto         string `gorm:"default:''" json:"profilePhoto,omitempty"`
	PreferredOfficeID    *uint  `json:"preferredOfficeId,omitempty"`
	PreferredWorkstation string `gorm:"default:''" json:"preferredWorkstation,omitempty"`
}

func ValidRole(role string) bool {
	return role == RoleStandard || role == RoleServiceDesk || role == RoleAdmin
}
