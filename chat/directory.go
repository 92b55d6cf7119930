package chat

import (
	"errors"

	"fixdesk/models"

	"gorm.io/gorm"
)

// TicketDirectory looks tickets up for authorization decisions.
type TicketDirectory interface {
	TicketByID(id uint) (*models.Ticket, error)
}

// UserDirectory resolves verified token subjects to users at handshake time.
type UserDirectory interface {
	UserByID(id uint) (*models.User, error)
}

// GormDirectory backs both directories with the relational store.
type GormDirectory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

func (d *GormDirectory) TicketByID(id uint) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := d.db.First(&ticket, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "Ticket"}
		}
		return nil, &StoreError{Op: "ticket lookup", Err: err}
	}
	return &ticket, nil
}

func (d *GormDirectory) UserByID(id uint) (*models.User, error) {
	var user models.User
	if err := d.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "User"}
		}
		return nil, &StoreError{Op: "user lookup", Err: err}
	}
	return &user, nil
}
