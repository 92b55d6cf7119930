package models

import (
	"time"

	"gorm.io/gorm"
)

type Message struct {
	gorm.Model
	TicketID uint       `gorm:"not null;index" json:"ticketId"`
	SenderID uint       `gorm:"not null;index" json:"senderId"`
	Content  string     `gorm:"type:text;not null" json:"content"`
	Read     bool       `gorm:"default:false" json:"read"`
	ReadAt   *time.Time `json:"readAt"`

	// Relations
	Sender User   `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Ticket Ticket `gorm:"foreignKey:TicketID" json:"-"`
}

func (Message) TableName() string {
	return "messages"
}
