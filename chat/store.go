package chat

import (
	"strings"
	"time"

	"fixdesk/models"

	"gorm.io/gorm"
)

// MessageStore is the persistence boundary for the chat thread. The persisted
// log exclusively owns Message records; everything above it holds transient
// copies for delivery only.
type MessageStore interface {
	// Append stores a new message and returns it with sender fields populated
	// for immediate echo to clients.
	Append(ticketID, senderID uint, content string) (*models.Message, error)
	// ListByTicket returns the full thread in ascending creation order with
	// sender fields populated.
	ListByTicket(ticketID uint) ([]models.Message, error)
	// MarkReadExcept flips read/readAt on every unread message in the ticket
	// not sent by excludeSenderID. Idempotent.
	MarkReadExcept(ticketID, excludeSenderID uint) (int64, error)
}

// GormMessageStore implements MessageStore over GORM.
type GormMessageStore struct {
	db *gorm.DB
}

func NewMessageStore(db *gorm.DB) *GormMessageStore {
	return &GormMessageStore{db: db}
}

func (s *GormMessageStore) Append(ticketID, senderID uint, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, &ValidationError{Msg: "Message content is required"}
	}

	message := models.Message{
		TicketID: ticketID,
		SenderID: senderID,
		Content:  content,
	}
	if err := s.db.Create(&message).Error; err != nil {
		return nil, &StoreError{Op: "append message", Err: err}
	}

	// Reload with the sender joined so callers can echo the enriched record
	// without a second round trip.
	if err := s.db.Preload("Sender").First(&message, message.ID).Error; err != nil {
		return nil, &StoreError{Op: "load appended message", Err: err}
	}
	return &message, nil
}

func (s *GormMessageStore) ListByTicket(ticketID uint) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.Preload("Sender").
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, &StoreError{Op: "list messages", Err: err}
	}
	return messages, nil
}

func (s *GormMessageStore) MarkReadExcept(ticketID, excludeSenderID uint) (int64, error) {
	now := time.Now()
	res := s.db.Model(&models.Message{}).
		Where("ticket_id = ? AND sender_id <> ? AND read = ?", ticketID, excludeSenderID, false).
		Updates(map[string]interface{}{"read": true, "read_at": now})
	if res.Error != nil {
		return 0, &StoreError{Op: "mark messages read", Err: res.Error}
	}
	return res.RowsAffected, nil
}
