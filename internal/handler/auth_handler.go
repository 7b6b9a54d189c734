package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Hasib105/Generated-Chat/internal/service"
	"github.com/Hasib105/Generated-Chat/internal/service/auth"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	svc *service.Services
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(svc *service.Services) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register 用户注册
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	info, err := h.svc.Auth.Register(c.Request.Context(), &req)
	if err != nil {
		Error(c, err)
		return
	}

	Created(c, info)
}

// Login 用户登录，签发访问/刷新令牌对
// POST /token 复用同一处理逻辑。
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	resp, err := h.svc.Auth.Login(c.Request.Context(), &req)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, resp)
}

// RefreshToken 刷新令牌
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		Refresh string `json:"refresh" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters")
		return
	}

	pair, err := h.svc.Auth.RefreshToken(c.Request.Context(), req.Refresh)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, pair)
}

// Logout 用户登出，撤销提交的刷新令牌及当前访问令牌
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		Refresh string `json:"refresh" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters")
		return
	}

	if err := h.svc.Auth.RevokeToken(c.Request.Context(), req.Refresh); err != nil {
		Error(c, err)
		return
	}

	// 访问令牌一并撤销，失败不影响登出结果
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		_ = h.svc.Auth.RevokeToken(c.Request.Context(), strings.TrimPrefix(authHeader, "Bearer "))
	}

	Success(c, gin.H{"message": "Logged out"})
}

// ListUsers 列出所有用户摘要
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.svc.Auth.ListUsers(c.Request.Context())
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, users)
}
