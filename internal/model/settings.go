package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Settings 用户级对话配置，与用户一对一
type Settings struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	UserID       string `gorm:"uniqueIndex;size:36;not null" json:"user_id"`
	Model        string `gorm:"size:100;not null" json:"model"`
	MaxTokens    int    `gorm:"default:200" json:"max_tokens"`
	SystemPrompt string `gorm:"type:text" json:"customize_response"`
}

// TableName 指定表名
func (Settings) TableName() string {
	return "settings"
}

// BeforeCreate GORM 钩子，创建前生成 UUID
func (s *Settings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// 配置默认值
const (
	DefaultModel        = "llama3-8b-8192"
	DefaultMaxTokens    = 200
	DefaultSystemPrompt = "You are an intelligent assistant. Please provide informative and helpful responses."
)

// ModelChoice 可选补全模型
type ModelChoice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ModelChoices 支持的补全模型枚举
var ModelChoices = []ModelChoice{
	{Value: "llama3-8b-8192", Label: "LLaMA3 8B"},
	{Value: "llama3-70b-8192", Label: "LLaMA3 70B"},
	{Value: "mixtral-8x7b-32768", Label: "Mixtral 8x7B"},
	{Value: "gemma-7b-it", Label: "Gemma 7B"},
}

// IsValidModel 判断模型标识是否受支持
func IsValidModel(value string) bool {
	for _, c := range ModelChoices {
		if c.Value == value {
			return true
		}
	}
	return false
}
