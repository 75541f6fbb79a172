package repository

import (
	"context"

	"dermacare-backend/internal/models"

	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(ctx context.Context, m *models.Message) error
	FindByID(ctx context.Context, id uint64) (*models.Message, error)
	ListForUser(ctx context.Context, userID uint64) ([]models.Message, error)
	MarkRead(ctx context.Context, id uint64) error
	CountUnread(ctx context.Context, userID uint64) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, m *models.Message) error {
	return translate(r.db.WithContext(ctx).Omit("Sender", "Receiver").Create(m).Error, "create message")
}

func (r *messageRepository) FindByID(ctx context.Context, id uint64) (*models.Message, error) {
	var m models.Message
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err, "find message")
	}
	return &m, nil
}

// ListForUser returns messages sent or received by the user, newest first.
func (r *messageRepository) ListForUser(ctx context.Context, userID uint64) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Receiver").
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("timestamp desc").Order("id desc").
		Find(&msgs).Error
	return msgs, translate(err, "list messages")
}

func (r *messageRepository) MarkRead(ctx context.Context, id uint64) error {
	err := r.db.WithContext(ctx).Model(&models.Message{}).Where("id = ?", id).Update("is_read", true).Error
	return translate(err, "mark message read")
}

func (r *messageRepository) CountUnread(ctx context.Context, userID uint64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Count(&total).Error
	return total, translate(err, "count unread")
}
