// internal/services/message_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jaddid/marketplace-backend/internal/models"
	"github.com/jaddid/marketplace-backend/internal/utils"
)

type MessageService struct {
	db *gorm.DB
}

type SendMessageRequest struct {
	RecipientID       uuid.UUID  `json:"recipient_id" validate:"required"`
	ProductID         *uuid.UUID `json:"product_id,omitempty"`
	MaterialListingID *uuid.UUID `json:"material_listing_id,omitempty"`
	Subject           string     `json:"subject" validate:"omitempty,max=255"`
	Body              string     `json:"body" validate:"required"`
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// SendMessage delivers a message, optionally about one item. Unlike the
// transactional models the item reference may be empty here, but still
// never points at both kinds.
func (s *MessageService) SendMessage(senderID uuid.UUID, req *SendMessageRequest) (*models.Message, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.RecipientID == senderID {
		return nil, NewValidationError("recipient_id", "You cannot message yourself.")
	}

	var recipient models.User
	if err := s.db.Where("is_active = ?", true).First(&recipient, req.RecipientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	ref := models.ItemRef{ProductID: req.ProductID, MaterialListingID: req.MaterialListingID}
	if !ref.IsEmpty() {
		if err := ref.Validate(); err != nil {
			return nil, NewValidationError("item", err.Error())
		}
	}

	message := &models.Message{
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		ItemRef:     ref,
		Subject:     req.Subject,
		Body:        req.Body,
	}
	if err := s.db.Create(message).Error; err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return message, nil
}

func (s *MessageService) Inbox(userID uuid.UUID, params utils.PaginationParams) ([]models.Message, int64, error) {
	return s.listMessages(s.db.Where("recipient_id = ?", userID), params)
}

func (s *MessageService) Sent(userID uuid.UUID, params utils.PaginationParams) ([]models.Message, int64, error) {
	return s.listMessages(s.db.Where("sender_id = ?", userID), params)
}

func (s *MessageService) listMessages(base *gorm.DB, params utils.PaginationParams) ([]models.Message, int64, error) {
	query := base.Model(&models.Message{}).
		Preload("Sender").Preload("Recipient").
		Preload("Product").Preload("MaterialListing")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	allowedSortFields := []string{"created_at"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var messages []models.Message
	if err := query.Find(&messages).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch messages: %w", err)
	}

	return messages, total, nil
}

// MarkRead flips a message to read. Recipient only; read_at is written
// once and kept on repeat calls.
func (s *MessageService) MarkRead(messageID, userID uuid.UUID) (*models.Message, error) {
	var message models.Message
	if err := s.db.First(&message, messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if message.RecipientID != userID {
		return nil, ErrPermissionDenied
	}

	if !message.IsRead {
		now := time.Now()
		message.IsRead = true
		message.ReadAt = &now
		if err := s.db.Save(&message).Error; err != nil {
			return nil, fmt.Errorf("failed to mark message read: %w", err)
		}
	}

	return &message, nil
}

func (s *MessageService) UnreadCount(userID uuid.UUID) (int64, error) {
	var count int64
	if err := s.db.Model(&models.Message{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}
