package store

import (
	"time"

	"github.com/lifeblood-dev/lifeblood/internal/models"
	"gorm.io/gorm"
)

// MessageStore is the durable, time-ordered record of chat messages per
// request.
type MessageStore struct {
	DB *gorm.DB
}

func NewMessageStore(db *gorm.DB) *MessageStore {
	return &MessageStore{DB: db}
}

func (s *MessageStore) Append(requestID, senderID, recipientID uint, message string, timestamp time.Time) (*models.ChatMessage, error) {
	chatMessage := models.ChatMessage{
		RequestID:   requestID,
		SenderID:    senderID,
		RecipientID: recipientID,
		Message:     message,
		Timestamp:   timestamp,
	}

	if err := s.DB.Create(&chatMessage).Error; err != nil {
		return nil, err
	}

	return &chatMessage, nil
}

// History returns all messages for a request ordered by timestamp ascending.
// The id tiebreak keeps the order stable when timestamps collide.
func (s *MessageStore) History(requestID uint) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage

	err := s.DB.Where("request_id = ?", requestID).
		Order("timestamp ASC, id ASC").
		Find(&messages).Error

	return messages, err
}
