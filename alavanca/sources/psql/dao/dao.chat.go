package dao

import (
	"context"
	"fmt"
	"time"

	"alavanca/alavanca/sources/psql/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoryLimit caps conversation replay for returning users.
const HistoryLimit = 50

type ChatMessageDAO struct {
	DB *gorm.DB
}

func NewChatMessageDAO(db *gorm.DB) *ChatMessageDAO {
	return &ChatMessageDAO{DB: db}
}

// NewSessionID mints the opaque token that groups one conversation.
func (dao *ChatMessageDAO) NewSessionID() string {
	return fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), uuid.New().String()[:8])
}

func (dao *ChatMessageDAO) SaveMessage(ctx context.Context, userID uuid.UUID, sessionID, role, content string) (*models.ChatMessage, error) {
	msg := models.ChatMessage{
		UserID:    userID,
		SessionID: sessionID,
		Role:      role,
		Content:   content,
	}
	err := dao.DB.WithContext(ctx).Create(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetHistoryByUser returns the user's most recent messages across sessions,
// oldest first, capped at HistoryLimit.
func (dao *ChatMessageDAO) GetHistoryByUser(ctx context.Context, userID uuid.UUID) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	err := dao.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Limit(HistoryLimit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// GetAllMessages feeds the admin conversation browser.
func (dao *ChatMessageDAO) GetAllMessages(ctx context.Context) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	err := dao.DB.WithContext(ctx).Order("created_at ASC").Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}
