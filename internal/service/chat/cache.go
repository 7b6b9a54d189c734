package chat

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key 前缀
const answerKeyPrefix = "answer:"

// AnswerCache 重复问题的回答缓存
// 内存为一级、Redis 为可选二级；只做尽力而为的加速，
// 未命中时调用方回落到问答记录存储查找。
type AnswerCache struct {
	mu     sync.RWMutex
	memory map[string]string
	redis  *redis.Client
	ttl    time.Duration
}

// NewAnswerCache 创建回答缓存
// redisClient 可为 nil，此时仅使用进程内缓存。
func NewAnswerCache(redisClient *redis.Client, ttl time.Duration) *AnswerCache {
	return &AnswerCache{
		memory: make(map[string]string),
		redis:  redisClient,
		ttl:    ttl,
	}
}

// Get 查找缓存的回答
func (c *AnswerCache) Get(ctx context.Context, scope, question string) (string, bool) {
	if c == nil {
		return "", false
	}

	key := answerKey(scope, question)

	c.mu.RLock()
	answer, ok := c.memory[key]
	c.mu.RUnlock()
	if ok {
		return answer, true
	}

	if c.redis != nil {
		answer, err := c.redis.Get(ctx, key).Result()
		if err == nil {
			c.mu.Lock()
			c.memory[key] = answer
			c.mu.Unlock()
			return answer, true
		}
	}

	return "", false
}

// Put 写入回答
func (c *AnswerCache) Put(ctx context.Context, scope, question, answer string) {
	if c == nil {
		return
	}

	key := answerKey(scope, question)

	c.mu.Lock()
	c.memory[key] = answer
	c.mu.Unlock()

	if c.redis != nil {
		// 写入失败只影响缓存命中率，不影响对话结果
		_ = c.redis.Set(ctx, key, answer, c.ttl).Err()
	}
}

// answerKey 由作用域与问题原文派生缓存键
func answerKey(scope, question string) string {
	sum := sha256.Sum256([]byte(scope + "\x00" + question))
	return answerKeyPrefix + hex.EncodeToString(sum[:])
}
