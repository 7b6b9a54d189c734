// Package handler 提供 HTTP 处理器
package handler

import (
	"github.com/Hasib105/Generated-Chat/internal/service"
)

// Handlers 处理器集合
type Handlers struct {
	Auth     *AuthHandler
	Chat     *ChatHandler
	Settings *SettingsHandler
}

// NewHandlers 创建所有处理器
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Auth:     NewAuthHandler(svc),
		Chat:     NewChatHandler(svc),
		Settings: NewSettingsHandler(svc),
	}
}
