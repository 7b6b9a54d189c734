// Package router 配置 HTTP 路由
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hasib105/Generated-Chat/internal/handler"
	"github.com/Hasib105/Generated-Chat/internal/middleware"
	"github.com/Hasib105/Generated-Chat/internal/service"
)

// SetupRouter 配置路由
func SetupRouter(h *handler.Handlers, svc *service.Services) *gin.Engine {
	r := gin.New()

	// 全局中间件
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.CORSMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		// 公开接口
		v1.POST("/register", h.Auth.Register)
		v1.POST("/login", h.Auth.Login)
		v1.POST("/token", h.Auth.Login)
		v1.POST("/token/refresh", h.Auth.RefreshToken)

		// 认证接口
		authed := v1.Group("")
		authed.Use(middleware.RequireAuth(svc.Auth))
		{
			authed.POST("/logout", h.Auth.Logout)
			authed.GET("/users", h.Auth.ListUsers)

			authed.GET("/threads", h.Chat.ListThreads)
			authed.POST("/threads", h.Chat.CreateThread)
			authed.GET("/threads/:slug/messages", h.Chat.ThreadMessages)
			authed.POST("/threads/chat", h.Chat.Chat)

			authed.GET("/settings", h.Settings.Get)
			authed.PUT("/settings/update", h.Settings.Update)
			authed.PATCH("/settings/update", h.Settings.Update)
			authed.GET("/settings/model-choices", h.Settings.ModelChoices)
		}
	}

	return r
}
