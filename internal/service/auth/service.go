// Package auth 提供用户注册、登录与令牌管理
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Hasib105/Generated-Chat/internal/apperr"
	"github.com/Hasib105/Generated-Chat/internal/config"
	"github.com/Hasib105/Generated-Chat/internal/model"
)

// UserStore 用户存储
type UserStore interface {
	Create(user *model.User) error
	GetByID(id string) (*model.User, error)
	GetByUsername(username string) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	List() ([]*model.User, error)
}

// TokenStore 令牌存储
type TokenStore interface {
	Create(token *model.AuthToken) error
	GetByValue(tokenValue string) (*model.AuthToken, error)
	Revoke(tokenID string) error
	RevokeByUserID(userID string) error
}

// Service 认证服务
type Service struct {
	users      UserStore
	tokens     TokenStore
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewService 创建认证服务
func NewService(users UserStore, tokens TokenStore, cfg *config.Config) *Service {
	return &Service{
		users:      users,
		tokens:     tokens,
		secret:     []byte(cfg.Auth.JWTSecret),
		accessTTL:  time.Duration(cfg.Auth.AccessTTLHours) * time.Hour,
		refreshTTL: time.Duration(cfg.Auth.RefreshTTLHours) * time.Hour,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username       string `json:"username" binding:"required,max=150"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required"`
	RetypePassword string `json:"retype_password" binding:"required"`
}

// TokenPair 访问/刷新令牌对
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Username string `json:"username"`
	Access   string `json:"access"`
	Refresh  string `json:"refresh"`
}

// Register 注册用户
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*model.UserInfo, error) {
	if req.Password != req.RetypePassword {
		return nil, apperr.Validation("passwords do not match")
	}
	if len(req.Password) < 8 {
		return nil, apperr.Validation("password must be at least 8 characters long")
	}

	// 唯一性预检；并发窗口内的竞态由唯一索引兜底
	existing, err := s.users.GetByUsername(req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, apperr.Validation("user with this username already exists")
	}

	existing, err = s.users.GetByEmail(req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, apperr.Validation("user with this email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashed),
	}

	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user.ToUserInfo(), nil
}

// Login 用户登录，签发令牌对
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := s.users.GetByUsername(req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperr.Auth("invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.Auth("invalid username or password")
	}

	pair, err := s.generateTokens(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	return &LoginResponse{
		Username: user.Username,
		Access:   pair.Access,
		Refresh:  pair.Refresh,
	}, nil
}

// ValidateToken 验证访问令牌并返回对应用户
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*model.User, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil, err
	}

	tokenType, _ := claims["type"].(string)
	if tokenType != model.TokenTypeAccess {
		return nil, apperr.Auth("not an access token")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, apperr.Auth("invalid user ID in token")
	}

	// 检查令牌是否被撤销
	record, err := s.tokens.GetByValue(tokenString)
	if err != nil || record == nil || record.IsRevoked {
		return nil, apperr.Auth("token is revoked")
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, apperr.Auth("user not found")
	}
	return user, nil
}

// RefreshToken 刷新令牌对，旧刷新令牌即刻撤销
func (s *Service) RefreshToken(ctx context.Context, refreshTokenString string) (*TokenPair, error) {
	claims, err := s.parseToken(refreshTokenString)
	if err != nil {
		return nil, err
	}

	tokenType, _ := claims["type"].(string)
	if tokenType != model.TokenTypeRefresh {
		return nil, apperr.Auth("not a refresh token")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, apperr.Auth("invalid user ID in token")
	}

	record, err := s.tokens.GetByValue(refreshTokenString)
	if err != nil || record == nil || record.IsRevoked {
		return nil, apperr.Auth("refresh token is revoked")
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, apperr.Auth("user not found")
	}

	if err := s.tokens.Revoke(record.ID); err != nil {
		return nil, fmt.Errorf("failed to revoke old refresh token: %w", err)
	}

	return s.generateTokens(ctx, user)
}

// RevokeToken 撤销单个令牌
func (s *Service) RevokeToken(ctx context.Context, tokenString string) error {
	record, err := s.tokens.GetByValue(tokenString)
	if err != nil || record == nil {
		return apperr.Auth("token not found")
	}
	return s.tokens.Revoke(record.ID)
}

// ListUsers 列出所有用户摘要
func (s *Service) ListUsers(ctx context.Context) ([]*model.UserInfo, error) {
	users, err := s.users.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	infos := make([]*model.UserInfo, 0, len(users))
	for _, u := range users {
		infos = append(infos, u.ToUserInfo())
	}
	return infos, nil
}

// parseToken 解析并校验 JWT 签名与有效期
func (s *Service) parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Auth("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperr.Auth("invalid token claims")
	}
	return claims, nil
}

// generateTokens 生成并持久化访问/刷新令牌对
func (s *Service) generateTokens(ctx context.Context, user *model.User) (*TokenPair, error) {
	now := time.Now()

	accessClaims := jwt.MapClaims{
		"user_id": user.ID,
		"exp":     now.Add(s.accessTTL).Unix(),
		"iat":     now.Unix(),
		"jti":     uuid.New().String(),
		"type":    model.TokenTypeAccess,
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	refreshClaims := jwt.MapClaims{
		"user_id": user.ID,
		"exp":     now.Add(s.refreshTTL).Unix(),
		"iat":     now.Unix(),
		"jti":     uuid.New().String(),
		"type":    model.TokenTypeRefresh,
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	records := []*model.AuthToken{
		{
			ID:        uuid.New().String(),
			UserID:    user.ID,
			Token:     accessToken,
			TokenType: model.TokenTypeAccess,
			ExpiresAt: now.Add(s.accessTTL),
		},
		{
			ID:        uuid.New().String(),
			UserID:    user.ID,
			Token:     refreshToken,
			TokenType: model.TokenTypeRefresh,
			ExpiresAt: now.Add(s.refreshTTL),
		},
	}
	for _, record := range records {
		if err := s.tokens.Create(record); err != nil {
			return nil, err
		}
	}

	return &TokenPair{Access: accessToken, Refresh: refreshToken}, nil
}
