package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Ticket status enum
const (
	StatusOpen       = "open"
	StatusAssigned   = "assigned"
	StatusInProgress = "in-progress"
	StatusClosed     = "closed"
)

// Ticket priority enum
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// Location is stored as a JSON column on the ticket
type Location struct {
	Coordinates []float64 `json:"coordinates"`
	Address     string    `json:"address,omitempty"`
}

// MediaItem is one uploaded attachment reference (storage itself is external)
type MediaItem struct {
	URL        string    `json:"url"`
	Type       string    `json:"type"` // image or video
	UploadedAt time.Time `json:"uploadedAt"`
}

// AIAnalysis holds the best-effort image analysis result for ticket media
type AIAnalysis struct {
	Labels      []string `json:"labels"`
	Objects     []string `json:"objects"`
	Description string   `json:"description"`
	Confidence  float64  `json:"confidence"`
}

type Ticket struct {
	gorm.Model
	Title        string         `gorm:"not null" json:"title"`
	Description  string         `gorm:"type:text;not null" json:"description"`
	ReporterID   uint           `gorm:"not null;index" json:"reporterId"`
	AssignedToID *uint          `gorm:"index" json:"assignedToId"`
	OfficeID     uint           `gorm:"not null;index" json:"officeId"`
	Workstation  string         `gorm:"default:''" json:"workstation,omitempty"`
	Status       string         `gorm:"type:varchar(20);default:'open';index" json:"status"`
	Priority     string         `gorm:"type:varchar(20);default:'medium'" json:"priority"`
	Location     datatypes.JSON `json:"location"`
	Media        datatypes.JSON `json:"media,omitempty"`
	AIAnalysis   datatypes.JSON `json:"aiAnalysis,omitempty"`
	ClosedAt     *time.Time     `json:"closedAt,omitempty"`

	// Relations
	Reporter   User   `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
	AssignedTo *User  `gorm:"foreignKey:AssignedToID" json:"assignedTo,omitempty"`
	Office     Office `gorm:"foreignKey:OfficeID" json:"office,omitempty"`
}

func (Ticket) TableName() string {
	return "tickets"
}

func ValidStatus(status string) bool {
	switch status {
	case StatusOpen, StatusAssigned, StatusInProgress, StatusClosed:
		return true
	}
	return false
}

func ValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}
