// Package service 提供业务服务的组装
package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Hasib105/Generated-Chat/internal/config"
	"github.com/Hasib105/Generated-Chat/internal/repository"
	"github.com/Hasib105/Generated-Chat/internal/service/auth"
	"github.com/Hasib105/Generated-Chat/internal/service/chat"
	"github.com/Hasib105/Generated-Chat/internal/service/llm"
	"github.com/Hasib105/Generated-Chat/internal/service/settings"
)

// Services 服务集合
type Services struct {
	Auth     *auth.Service
	Settings *settings.Service
	Chat     *chat.Service

	Config *config.Config
}

// NewServices 创建所有服务
// 存储句柄在此一次性注入，进程内不再重新初始化。
func NewServices(repo *repository.Repositories, cfg *config.Config, redisClient *redis.Client) (*Services, error) {
	ctx := context.Background()

	authSvc := auth.NewService(repo.User, repo.Token, cfg)
	settingsSvc := settings.NewService(repo.Settings)

	completer, err := llm.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var cache *chat.AnswerCache
	if cfg.Chat.ReuseAnswers {
		cache = chat.NewAnswerCache(redisClient, time.Duration(cfg.Chat.CacheTTLHours)*time.Hour)
	}

	chatSvc := chat.NewService(repo.Thread, repo.Message, settingsSvc, completer, cache, cfg.Chat)

	return &Services{
		Auth:     authSvc,
		Settings: settingsSvc,
		Chat:     chatSvc,
		Config:   cfg,
	}, nil
}
