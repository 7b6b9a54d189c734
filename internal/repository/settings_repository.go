package repository

import (
	"errors"

	"github.com/Hasib105/Generated-Chat/internal/model"
	"gorm.io/gorm"
)

// SettingsRepository 用户配置数据访问
type SettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository 创建配置仓库
func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetByUserID 获取用户配置，不存在时返回 nil
func (r *SettingsRepository) GetByUserID(userID string) (*model.Settings, error) {
	var settings model.Settings
	err := r.db.Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Create 创建用户配置
// user_id 唯一索引保证一人一份，并发创建由冲突裁决。
func (r *SettingsRepository) Create(settings *model.Settings) error {
	return r.db.Create(settings).Error
}

// Save 保存用户配置
func (r *SettingsRepository) Save(settings *model.Settings) error {
	return r.db.Save(settings).Error
}
