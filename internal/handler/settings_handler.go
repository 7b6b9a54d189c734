package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Hasib105/Generated-Chat/internal/middleware"
	"github.com/Hasib105/Generated-Chat/internal/service"
	"github.com/Hasib105/Generated-Chat/internal/service/settings"
)

// SettingsHandler 配置处理器
type SettingsHandler struct {
	svc *service.Services
}

// NewSettingsHandler 创建配置处理器
func NewSettingsHandler(svc *service.Services) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// Get 获取当前用户配置，缺失时惰性创建
func (h *SettingsHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		Unauthorized(c, "Not authenticated")
		return
	}

	s, err := h.svc.Settings.GetOrCreate(c.Request.Context(), userID)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, s)
}

// Update 部分更新当前用户配置
func (h *SettingsHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		Unauthorized(c, "Not authenticated")
		return
	}

	var req settings.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	s, err := h.svc.Settings.Update(c.Request.Context(), userID, &req)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, s)
}

// ModelChoices 列出支持的补全模型
func (h *SettingsHandler) ModelChoices(c *gin.Context) {
	Success(c, h.svc.Settings.ModelChoices(c.Request.Context()))
}
