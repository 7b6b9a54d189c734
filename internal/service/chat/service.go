// Package chat 提供会话生命周期与单轮对话编排
package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Hasib105/Generated-Chat/internal/apperr"
	"github.com/Hasib105/Generated-Chat/internal/config"
	"github.com/Hasib105/Generated-Chat/internal/model"
	"github.com/Hasib105/Generated-Chat/internal/service/llm"
	"github.com/Hasib105/Generated-Chat/internal/slug"
)

const (
	// 会话标题取问题前 30 个字符
	titleMaxLen = 30
	// 会话 slug 种子上限
	threadSlugSeedLen = 100
	// 问答 slug 种子取问题前 30 个字符
	messageSlugSeedLen = 30
)

// ThreadStore 会话存储
type ThreadStore interface {
	Create(thread *model.ChatThread) error
	GetBySlugForUser(slug, userID string) (*model.ChatThread, error)
	ListByUser(userID string) ([]*model.ChatThread, error)
	FindByTitle(title, userID string) (*model.ChatThread, error)
}

// MessageStore 问答记录存储
type MessageStore interface {
	Create(msg *model.ChatMessage) error
	ListByThread(threadID string) ([]*model.ChatMessage, error)
	FindFirstByQuestion(question, userID string) (*model.ChatMessage, error)
}

// SettingsProvider 用户配置提供者
type SettingsProvider interface {
	GetOrCreate(ctx context.Context, userID string) (*model.Settings, error)
}

// Service 聊天服务
type Service struct {
	threads   ThreadStore
	messages  MessageStore
	settings  SettingsProvider
	completer llm.Completer
	cache     *AnswerCache
	cfg       config.ChatConfig
}

// NewService 创建聊天服务
func NewService(threads ThreadStore, messages MessageStore, settings SettingsProvider, completer llm.Completer, cache *AnswerCache, cfg config.ChatConfig) *Service {
	return &Service{
		threads:   threads,
		messages:  messages,
		settings:  settings,
		completer: completer,
		cache:     cache,
		cfg:       cfg,
	}
}

// AskRequest 单轮对话请求
type AskRequest struct {
	UserID     string
	Question   string
	ThreadSlug string
}

// AskResponse 单轮对话响应
type AskResponse struct {
	Message          *model.ChatMessage `json:"data"`
	NewThreadCreated bool               `json:"new_thread_created"`
	ThreadSlug       string             `json:"thread_slug"`
}

// Ask 执行一轮对话
// 依次：解析/创建会话 → 解析配置 → 可选的重复问题短路 → 补全 → 落库。
// 各步顺序提交且不回滚：补全失败时已创建的会话与配置保留。
func (s *Service) Ask(ctx context.Context, req *AskRequest) (*AskResponse, error) {
	if req.Question == "" {
		return nil, apperr.Validation("question is required")
	}

	thread, newThreadCreated, err := s.resolveThread(req)
	if err != nil {
		return nil, err
	}

	settings, err := s.settings.GetOrCreate(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	response, reused, err := s.resolveAnswer(ctx, req, settings)
	if err != nil {
		return nil, err
	}

	msg := &model.ChatMessage{
		ThreadID:  thread.ID,
		UserID:    req.UserID,
		Question:  req.Question,
		Response:  response,
		Slug:      slug.Generate(req.Question, messageSlugSeedLen),
		Timestamp: time.Now().UTC(),
	}
	if err := s.messages.Create(msg); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("message slug already exists")
		}
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	if !reused {
		s.cache.Put(ctx, s.cacheScope(req.UserID), req.Question, response)
	}

	return &AskResponse{
		Message:          msg,
		NewThreadCreated: newThreadCreated,
		ThreadSlug:       thread.Slug,
	}, nil
}

// resolveThread 解析目标会话
// 显式 slug 未命中立即失败，不产生任何写入；
// 未给 slug 时按派生标题复用既有会话，否则新建。
func (s *Service) resolveThread(req *AskRequest) (*model.ChatThread, bool, error) {
	if req.ThreadSlug != "" {
		thread, err := s.threads.GetBySlugForUser(req.ThreadSlug, req.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, false, apperr.NotFound("chat thread does not exist")
			}
			return nil, false, fmt.Errorf("failed to get thread: %w", err)
		}
		return thread, false, nil
	}

	title := truncateRunes(req.Question, titleMaxLen)

	existing, err := s.threads.FindByTitle(title, req.UserID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to find thread by title: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	thread, err := s.createThread(req.UserID, title)
	if err != nil {
		return nil, false, err
	}
	return thread, true, nil
}

// resolveAnswer 取得回答文本
// 复用模式开启时先查缓存再查存储；命中即跳过补全调用，
// 但当前会话仍会追加一条新的问答记录。
func (s *Service) resolveAnswer(ctx context.Context, req *AskRequest, settings *model.Settings) (string, bool, error) {
	if s.cfg.ReuseAnswers {
		scope := s.cacheScope(req.UserID)
		if cached, ok := s.cache.Get(ctx, scope, req.Question); ok {
			return cached, true, nil
		}

		scopeUser := ""
		if s.cfg.ReuseScope == config.ReuseScopeUser {
			scopeUser = req.UserID
		}
		prior, err := s.messages.FindFirstByQuestion(req.Question, scopeUser)
		if err != nil {
			return "", false, fmt.Errorf("failed to look up prior answer: %w", err)
		}
		if prior != nil {
			return prior.Response, true, nil
		}
	}

	response, err := s.completer.Complete(ctx, req.Question, settings.Model, settings.SystemPrompt, settings.MaxTokens)
	if err != nil || response == "" {
		return "", false, apperr.Upstream("failed to generate a valid response")
	}
	return response, false, nil
}

// cacheScope 缓存键的作用域段
func (s *Service) cacheScope(userID string) string {
	if s.cfg.ReuseScope == config.ReuseScopeUser {
		return userID
	}
	return config.ReuseScopeGlobal
}

// CreateThread 创建会话
func (s *Service) CreateThread(ctx context.Context, userID, title string) (*model.ChatThread, error) {
	if title == "" {
		return nil, apperr.Validation("title is required")
	}
	if len([]rune(title)) > threadSlugSeedLen {
		return nil, apperr.Validation("title must be at most 100 characters")
	}
	return s.createThread(userID, title)
}

// createThread 分配 slug 并写入会话
// slug 创建时一次性分配；唯一索引冲突按原样上抛，不重试改名。
func (s *Service) createThread(userID, title string) (*model.ChatThread, error) {
	thread := &model.ChatThread{
		Title:  title,
		Slug:   slug.Generate(title, threadSlugSeedLen),
		UserID: userID,
	}
	if err := s.threads.Create(thread); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("thread slug already exists")
		}
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}
	return thread, nil
}

// ListThreads 列出用户的会话，最新在前
func (s *Service) ListThreads(ctx context.Context, userID string) ([]*model.ChatThread, error) {
	threads, err := s.threads.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	return threads, nil
}

// ThreadMessages 列出指定会话的问答记录，时间升序
// 仅会话属主可见，他人访问视同不存在。
func (s *Service) ThreadMessages(ctx context.Context, userID, threadSlug string) ([]*model.ChatMessage, error) {
	thread, err := s.threads.GetBySlugForUser(threadSlug, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("thread not found")
		}
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}

	messages, err := s.messages.ListByThread(thread.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// truncateRunes 按 rune 截断
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max])
	}
	return s
}
