package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatThread 聊天会话
// slug 创建时一次性分配，全局唯一且不可变。
type ChatThread struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Title     string    `gorm:"size:100;not null" json:"title"`
	Slug      string    `gorm:"uniqueIndex;size:150;not null" json:"slug"`
	UserID    string    `gorm:"index;size:36;not null" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (ChatThread) TableName() string {
	return "chat_threads"
}

// BeforeCreate GORM 钩子，创建前生成 UUID
func (t *ChatThread) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// ChatMessage 问答记录
// 每次成功的对话回合插入一条新记录，从不原地更新。
type ChatMessage struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ThreadID  string    `gorm:"index;size:36;not null" json:"thread_id"`
	UserID    string    `gorm:"index;size:36;not null" json:"user_id"`
	Question  string    `gorm:"type:text;not null" json:"message"`
	Response  string    `gorm:"type:text" json:"response"`
	Slug      string    `gorm:"uniqueIndex;size:150;not null" json:"slug"`
	Timestamp time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}

// TableName 指定表名
func (ChatMessage) TableName() string {
	return "chat_messages"
}

// BeforeCreate GORM 钩子，创建前生成 UUID
func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
