package repository

import (
	"errors"

	"github.com/Hasib105/Generated-Chat/internal/model"
	"gorm.io/gorm"
)

// MessageRepository 问答记录数据访问
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建问答记录仓库
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create 插入问答记录
// 只插入不更新；slug 唯一索引冲突以 gorm.ErrDuplicatedKey 返回。
func (r *MessageRepository) Create(msg *model.ChatMessage) error {
	return r.db.Create(msg).Error
}

// ListByThread 列出会话内的问答记录，时间升序
func (r *MessageRepository) ListByThread(threadID string) ([]*model.ChatMessage, error) {
	var messages []*model.ChatMessage
	err := r.db.Where("thread_id = ?", threadID).Order("timestamp ASC").Find(&messages).Error
	return messages, err
}

// FindFirstByQuestion 按问题原文查找最早的问答记录，不存在时返回 nil
// userID 为空时跨全部用户查找，否则仅限该用户。
func (r *MessageRepository) FindFirstByQuestion(question, userID string) (*model.ChatMessage, error) {
	var msg model.ChatMessage
	query := r.db.Where("question = ?", question)
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	err := query.Order("timestamp ASC").First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
