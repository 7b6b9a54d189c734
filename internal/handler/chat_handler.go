package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Hasib105/Generated-Chat/internal/middleware"
	"github.com/Hasib105/Generated-Chat/internal/service"
	"github.com/Hasib105/Generated-Chat/internal/service/chat"
)

// ChatHandler 聊天处理器
type ChatHandler struct {
	svc *service.Services
}

// NewChatHandler 创建聊天处理器
func NewChatHandler(svc *service.Services) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// ListThreads 列出当前用户的会话
func (h *ChatHandler) ListThreads(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		Unauthorized(c, "Not authenticated")
		return
	}

	threads, err := h.svc.Chat.ListThreads(c.Request.Context(), userID)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, threads)
}

// CreateThread 创建会话
func (h *ChatHandler) CreateThread(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		Unauthorized(c, "Not authenticated")
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	thread, err := h.svc.Chat.CreateThread(c.Request.Context(), userID, req.Title)
	if err != nil {
		Error(c, err)
		return
	}

	Created(c, thread)
}

// ThreadMessages 列出会话内的问答记录
func (h *ChatHandler) ThreadMessages(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		Unauthorized(c, "Not authenticated")
		return
	}

	messages, err := h.svc.Chat.ThreadMessages(c.Request.Context(), userID, c.Param("slug"))
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, messages)
}

// Chat 执行一轮对话
func (h *ChatHandler) Chat(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		Unauthorized(c, "Not authenticated")
		return
	}

	var req struct {
		Question string `json:"question"`
		Slug     string `json:"slug"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	resp, err := h.svc.Chat.Ask(c.Request.Context(), &chat.AskRequest{
		UserID:     userID,
		Question:   req.Question,
		ThreadSlug: req.Slug,
	})
	if err != nil {
		Error(c, err)
		return
	}

	Created(c, resp)
}
