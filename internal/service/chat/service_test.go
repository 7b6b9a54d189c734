// Package chat 提供聊天服务单元测试
package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Hasib105/Generated-Chat/internal/apperr"
	"github.com/Hasib105/Generated-Chat/internal/config"
	"github.com/Hasib105/Generated-Chat/internal/model"
)

// mockThreadStore Mock 会话存储
type mockThreadStore struct {
	threads   []*model.ChatThread
	createErr error
}

func (m *mockThreadStore) Create(thread *model.ChatThread) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, t := range m.threads {
		if t.Slug == thread.Slug {
			return gorm.ErrDuplicatedKey
		}
	}
	if thread.ID == "" {
		thread.ID = uuid.New().String()
	}
	m.threads = append(m.threads, thread)
	return nil
}

func (m *mockThreadStore) GetBySlugForUser(slug, userID string) (*model.ChatThread, error) {
	for _, t := range m.threads {
		if t.Slug == slug && t.UserID == userID {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockThreadStore) ListByUser(userID string) ([]*model.ChatThread, error) {
	result := make([]*model.ChatThread, 0)
	for _, t := range m.threads {
		if t.UserID == userID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *mockThreadStore) FindByTitle(title, userID string) (*model.ChatThread, error) {
	for _, t := range m.threads {
		if t.Title == title && t.UserID == userID {
			return t, nil
		}
	}
	return nil, nil
}

// mockMessageStore Mock 问答记录存储
type mockMessageStore struct {
	messages  []*model.ChatMessage
	createErr error
}

func (m *mockMessageStore) Create(msg *model.ChatMessage) error {
	if m.createErr != nil {
		return m.createErr
	}
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockMessageStore) ListByThread(threadID string) ([]*model.ChatMessage, error) {
	result := make([]*model.ChatMessage, 0)
	for _, msg := range m.messages {
		if msg.ThreadID == threadID {
			result = append(result, msg)
		}
	}
	return result, nil
}

func (m *mockMessageStore) FindFirstByQuestion(question, userID string) (*model.ChatMessage, error) {
	for _, msg := range m.messages {
		if msg.Question != question {
			continue
		}
		if userID != "" && msg.UserID != userID {
			continue
		}
		return msg, nil
	}
	return nil, nil
}

// mockSettingsProvider Mock 配置提供者
type mockSettingsProvider struct {
	settings *model.Settings
}

func (m *mockSettingsProvider) GetOrCreate(ctx context.Context, userID string) (*model.Settings, error) {
	if m.settings != nil {
		return m.settings, nil
	}
	return &model.Settings{
		UserID:       userID,
		Model:        model.DefaultModel,
		MaxTokens:    model.DefaultMaxTokens,
		SystemPrompt: model.DefaultSystemPrompt,
	}, nil
}

// fakeCompleter 固定回答的补全客户端
type fakeCompleter struct {
	response string
	err      error
	calls    int
}

func (f *fakeCompleter) Complete(ctx context.Context, question, modelName, systemPrompt string, maxTokens int) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newTestService(threads *mockThreadStore, messages *mockMessageStore, completer *fakeCompleter, cfg config.ChatConfig) *Service {
	return NewService(threads, messages, &mockSettingsProvider{}, completer, nil, cfg)
}

// ========== Ask 测试 ==========

func TestAskCreatesThread(t *testing.T) {
	threads := &mockThreadStore{}
	messages := &mockMessageStore{}
	completer := &fakeCompleter{response: "The capital of France is Paris."}
	svc := newTestService(threads, messages, completer, config.ChatConfig{})

	resp, err := svc.Ask(context.Background(), &AskRequest{
		UserID:   "user-1",
		Question: "Please explain how tides work in simple terms",
	})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if !resp.NewThreadCreated {
		t.Error("Expected new_thread_created = true")
	}
	if resp.ThreadSlug == "" {
		t.Error("Expected a non-empty thread slug")
	}
	if len(threads.threads) != 1 {
		t.Fatalf("Expected 1 thread, got %d", len(threads.threads))
	}
	if got := threads.threads[0].Title; got != "Please explain how tides work " {
		t.Errorf("Thread title = %q, want first 30 characters of the question", got)
	}
	if len(messages.messages) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(messages.messages))
	}
	if messages.messages[0].Response != "The capital of France is Paris." {
		t.Errorf("Unexpected stored response: %q", messages.messages[0].Response)
	}
	if completer.calls != 1 {
		t.Errorf("Completer calls = %d, want 1", completer.calls)
	}
}

func TestAskReusesThreadByTitle(t *testing.T) {
	threads := &mockThreadStore{}
	messages := &mockMessageStore{}
	completer := &fakeCompleter{response: "answer"}
	svc := newTestService(threads, messages, completer, config.ChatConfig{})

	first, err := svc.Ask(context.Background(), &AskRequest{UserID: "user-1", Question: "hello"})
	if err != nil {
		t.Fatalf("First Ask() error = %v", err)
	}
	second, err := svc.Ask(context.Background(), &AskRequest{UserID: "user-1", Question: "hello"})
	if err != nil {
		t.Fatalf("Second Ask() error = %v", err)
	}

	if second.NewThreadCreated {
		t.Error("Expected the existing thread to be reused")
	}
	if first.ThreadSlug != second.ThreadSlug {
		t.Errorf("Thread slug changed between turns: %q vs %q", first.ThreadSlug, second.ThreadSlug)
	}
	if len(threads.threads) != 1 {
		t.Errorf("Expected 1 thread, got %d", len(threads.threads))
	}
	if len(messages.messages) != 2 {
		t.Errorf("Expected 2 messages, got %d", len(messages.messages))
	}
}

func TestAskExplicitSlugNotFound(t *testing.T) {
	threads := &mockThreadStore{}
	messages := &mockMessageStore{}
	completer := &fakeCompleter{response: "answer"}
	svc := newTestService(threads, messages, completer, config.ChatConfig{})

	_, err := svc.Ask(context.Background(), &AskRequest{
		UserID:     "user-1",
		Question:   "hello",
		ThreadSlug: "no-such-thread-20240101000000",
	})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Expected a not-found error, got %v", err)
	}

	if completer.calls != 0 {
		t.Error("Completer should not be called when the thread lookup fails")
	}
	if len(threads.threads) != 0 || len(messages.messages) != 0 {
		t.Error("Nothing should be persisted when the thread lookup fails")
	}
}

func TestAskOwnershipEnforced(t *testing.T) {
	threads := &mockThreadStore{threads: []*model.ChatThread{
		{ID: "t1", Title: "hello", Slug: "hello-20240101000000", UserID: "user-1"},
	}}
	svc := newTestService(threads, &mockMessageStore{}, &fakeCompleter{response: "answer"}, config.ChatConfig{})

	_, err := svc.Ask(context.Background(), &AskRequest{
		UserID:     "user-2",
		Question:   "hello",
		ThreadSlug: "hello-20240101000000",
	})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Expected another user's thread to be invisible, got %v", err)
	}
}

func TestAskEmptyQuestion(t *testing.T) {
	svc := newTestService(&mockThreadStore{}, &mockMessageStore{}, &fakeCompleter{}, config.ChatConfig{})

	_, err := svc.Ask(context.Background(), &AskRequest{UserID: "user-1", Question: ""})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("Expected a validation error, got %v", err)
	}
}

func TestAskUpstreamFailure(t *testing.T) {
	tests := []struct {
		name      string
		completer *fakeCompleter
	}{
		{name: "error from completion service", completer: &fakeCompleter{err: errors.New("rate limited")}},
		{name: "empty completion", completer: &fakeCompleter{response: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages := &mockMessageStore{}
			svc := newTestService(&mockThreadStore{}, messages, tt.completer, config.ChatConfig{})

			_, err := svc.Ask(context.Background(), &AskRequest{UserID: "user-1", Question: "hello"})
			if !errors.Is(err, apperr.ErrUpstream) {
				t.Fatalf("Expected an upstream error, got %v", err)
			}
			if len(messages.messages) != 0 {
				t.Error("No message should be persisted when completion fails")
			}
		})
	}
}

func TestAskMessageConflictSurfaced(t *testing.T) {
	messages := &mockMessageStore{createErr: gorm.ErrDuplicatedKey}
	svc := newTestService(&mockThreadStore{}, messages, &fakeCompleter{response: "answer"}, config.ChatConfig{})

	_, err := svc.Ask(context.Background(), &AskRequest{UserID: "user-1", Question: "hello"})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("Expected a conflict error, got %v", err)
	}
}

// ========== 回答复用测试 ==========

func TestAskReusesPriorAnswer(t *testing.T) {
	messages := &mockMessageStore{messages: []*model.ChatMessage{
		{ID: "m1", ThreadID: "t0", UserID: "user-2", Question: "hello", Response: "cached answer"},
	}}
	completer := &fakeCompleter{response: "fresh answer"}
	svc := newTestService(&mockThreadStore{}, messages, completer, config.ChatConfig{
		ReuseAnswers: true,
		ReuseScope:   config.ReuseScopeGlobal,
	})

	resp, err := svc.Ask(context.Background(), &AskRequest{UserID: "user-1", Question: "hello"})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if completer.calls != 0 {
		t.Errorf("Completer calls = %d, want 0 when a prior answer exists", completer.calls)
	}
	if resp.Message.Response != "cached answer" {
		t.Errorf("Response = %q, want the prior answer", resp.Message.Response)
	}
	// 复用仍然追加一条新的问答记录
	if len(messages.messages) != 2 {
		t.Errorf("Expected 2 messages, got %d", len(messages.messages))
	}
}

func TestAskReuseScopeUser(t *testing.T) {
	messages := &mockMessageStore{messages: []*model.ChatMessage{
		{ID: "m1", ThreadID: "t0", UserID: "user-2", Question: "hello", Response: "someone else's answer"},
	}}
	completer := &fakeCompleter{response: "fresh answer"}
	svc := newTestService(&mockThreadStore{}, messages, completer, config.ChatConfig{
		ReuseAnswers: true,
		ReuseScope:   config.ReuseScopeUser,
	})

	resp, err := svc.Ask(context.Background(), &AskRequest{UserID: "user-1", Question: "hello"})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if completer.calls != 1 {
		t.Errorf("Completer calls = %d, want 1 when the prior answer belongs to another user", completer.calls)
	}
	if resp.Message.Response != "fresh answer" {
		t.Errorf("Response = %q, want a fresh completion", resp.Message.Response)
	}
}

func TestAskReuseDisabledByDefault(t *testing.T) {
	messages := &mockMessageStore{messages: []*model.ChatMessage{
		{ID: "m1", ThreadID: "t0", UserID: "user-1", Question: "hello", Response: "old answer"},
	}}
	completer := &fakeCompleter{response: "fresh answer"}
	svc := newTestService(&mockThreadStore{}, messages, completer, config.ChatConfig{})

	resp, err := svc.Ask(context.Background(), &AskRequest{UserID: "user-1", Question: "hello"})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if completer.calls != 1 {
		t.Errorf("Completer calls = %d, want 1 when reuse is disabled", completer.calls)
	}
	if resp.Message.Response != "fresh answer" {
		t.Errorf("Response = %q, want a fresh completion", resp.Message.Response)
	}
}

// ========== 会话管理测试 ==========

func TestCreateThread(t *testing.T) {
	threads := &mockThreadStore{}
	svc := newTestService(threads, &mockMessageStore{}, &fakeCompleter{}, config.ChatConfig{})

	thread, err := svc.CreateThread(context.Background(), "user-1", "Travel plans")
	if err != nil {
		t.Fatalf("CreateThread() error = %v", err)
	}

	if thread.Slug == "" {
		t.Error("Expected a non-empty slug")
	}
	if !strings.HasPrefix(thread.Slug, "travel-plans-") {
		t.Errorf("Slug = %q, want prefix %q", thread.Slug, "travel-plans-")
	}
}

func TestCreateThreadValidation(t *testing.T) {
	tests := []struct {
		name  string
		title string
	}{
		{name: "empty title", title: ""},
		{name: "title too long", title: strings.Repeat("a", 101)},
	}

	svc := newTestService(&mockThreadStore{}, &mockMessageStore{}, &fakeCompleter{}, config.ChatConfig{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateThread(context.Background(), "user-1", tt.title)
			if !errors.Is(err, apperr.ErrValidation) {
				t.Errorf("Expected a validation error, got %v", err)
			}
		})
	}
}

func TestCreateThreadSlugConflict(t *testing.T) {
	threads := &mockThreadStore{createErr: gorm.ErrDuplicatedKey}
	svc := newTestService(threads, &mockMessageStore{}, &fakeCompleter{}, config.ChatConfig{})

	_, err := svc.CreateThread(context.Background(), "user-1", "hello")
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("Expected a conflict error, got %v", err)
	}
}

func TestThreadMessages(t *testing.T) {
	threads := &mockThreadStore{threads: []*model.ChatThread{
		{ID: "t1", Title: "hello", Slug: "hello-20240101000000", UserID: "user-1"},
	}}
	messages := &mockMessageStore{messages: []*model.ChatMessage{
		{ID: "m1", ThreadID: "t1", UserID: "user-1", Question: "hello", Response: "hi"},
		{ID: "m2", ThreadID: "t2", UserID: "user-1", Question: "other", Response: "nope"},
	}}
	svc := newTestService(threads, messages, &fakeCompleter{}, config.ChatConfig{})

	got, err := svc.ThreadMessages(context.Background(), "user-1", "hello-20240101000000")
	if err != nil {
		t.Fatalf("ThreadMessages() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "m1" {
		t.Errorf("Expected only the thread's own messages, got %d", len(got))
	}

	// 他人会话不可见
	_, err = svc.ThreadMessages(context.Background(), "user-2", "hello-20240101000000")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Expected a not-found error for another user, got %v", err)
	}
}
