// Package llm 提供补全服务客户端
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	ecomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/Hasib105/Generated-Chat/internal/config"
	appmodel "github.com/Hasib105/Generated-Chat/internal/model"
)

// Completer 单次补全调用
// 失败或空结果均由调用方视作终态，不做重试。
type Completer interface {
	Complete(ctx context.Context, question, modelName, systemPrompt string, maxTokens int) (string, error)
}

// Client 基于 eino ChatModel 的补全客户端
// Groq 暴露 OpenAI 兼容接口，模型与 token 预算按调用传入。
type Client struct {
	chatModel ecomodel.ChatModel
	timeout   time.Duration
}

// New 创建补全客户端
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if cfg.AI.APIKey == "" {
		return nil, fmt.Errorf("ai.apiKey is required")
	}

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  cfg.AI.APIKey,
		BaseURL: cfg.AI.BaseURL,
		Model:   appmodel.DefaultModel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	return &Client{
		chatModel: chatModel,
		timeout:   time.Duration(cfg.AI.Timeout) * time.Second,
	}, nil
}

// Complete 执行一次补全
func (c *Client) Complete(ctx context.Context, question, modelName, systemPrompt string, maxTokens int) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(question),
	}

	resp, err := c.chatModel.Generate(ctx, messages,
		ecomodel.WithModel(modelName),
		ecomodel.WithMaxTokens(maxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("completion call failed: %w", err)
	}

	return resp.Content, nil
}
