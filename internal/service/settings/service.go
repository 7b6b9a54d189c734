// Package settings 提供用户级对话配置管理
package settings

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Hasib105/Generated-Chat/internal/apperr"
	"github.com/Hasib105/Generated-Chat/internal/model"
)

// Store 配置存储
type Store interface {
	GetByUserID(userID string) (*model.Settings, error)
	Create(settings *model.Settings) error
	Save(settings *model.Settings) error
}

// Service 配置服务
type Service struct {
	store Store
}

// NewService 创建配置服务
func NewService(store Store) *Service {
	return &Service{store: store}
}

// GetOrCreate 获取用户配置，缺失时以默认值惰性创建
func (s *Service) GetOrCreate(ctx context.Context, userID string) (*model.Settings, error) {
	settings, err := s.store.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	if settings != nil {
		return settings, nil
	}

	settings = &model.Settings{
		UserID:       userID,
		Model:        model.DefaultModel,
		MaxTokens:    model.DefaultMaxTokens,
		SystemPrompt: model.DefaultSystemPrompt,
	}
	if err := s.store.Create(settings); err != nil {
		// 并发创建时第二个写入者读回先到者的记录
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.store.GetByUserID(userID)
		}
		return nil, fmt.Errorf("failed to create settings: %w", err)
	}

	return settings, nil
}

// UpdateRequest 配置更新请求，指针字段缺省表示保留原值
type UpdateRequest struct {
	Model        *string `json:"model"`
	MaxTokens    *int    `json:"max_tokens"`
	SystemPrompt *string `json:"customize_response"`
}

// Update 部分更新用户配置
func (s *Service) Update(ctx context.Context, userID string, req *UpdateRequest) (*model.Settings, error) {
	settings, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Model != nil {
		if !model.IsValidModel(*req.Model) {
			return nil, apperr.Validation(fmt.Sprintf("unsupported model: %q", *req.Model))
		}
		settings.Model = *req.Model
	}
	if req.MaxTokens != nil {
		if *req.MaxTokens <= 0 {
			return nil, apperr.Validation("max_tokens must be positive")
		}
		settings.MaxTokens = *req.MaxTokens
	}
	if req.SystemPrompt != nil {
		settings.SystemPrompt = *req.SystemPrompt
	}

	if err := s.store.Save(settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	return settings, nil
}

// ModelChoices 列出支持的补全模型
func (s *Service) ModelChoices(ctx context.Context) []model.ModelChoice {
	return model.ModelChoices
}
