package repository

import (
	"time"

	"github.com/Hasib105/Generated-Chat/internal/model"
	"gorm.io/gorm"
)

// TokenRepository 令牌数据访问
type TokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository 创建令牌仓库
func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Create 创建令牌
func (r *TokenRepository) Create(token *model.AuthToken) error {
	return r.db.Create(token).Error
}

// GetByValue 获取未过期且未撤销的令牌
func (r *TokenRepository) GetByValue(tokenValue string) (*model.AuthToken, error) {
	var token model.AuthToken
	err := r.db.Where("token = ? AND is_revoked = ?", tokenValue, false).
		Where("expires_at > ?", time.Now()).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// Revoke 撤销令牌
func (r *TokenRepository) Revoke(tokenID string) error {
	return r.db.Model(&model.AuthToken{}).Where("id = ?", tokenID).Update("is_revoked", true).Error
}

// RevokeByUserID 撤销用户的所有令牌
func (r *TokenRepository) RevokeByUserID(userID string) error {
	return r.db.Model(&model.AuthToken{}).Where("user_id = ?", userID).Update("is_revoked", true).Error
}

// DeleteExpired 删除过期令牌
func (r *TokenRepository) DeleteExpired() error {
	return r.db.Where("expires_at < ? OR is_revoked = ?", time.Now(), true).Delete(&model.AuthToken{}).Error
}
