package repository

import (
	"errors"

	"github.com/Hasib105/Generated-Chat/internal/model"
	"gorm.io/gorm"
)

// ThreadRepository 会话数据访问
type ThreadRepository struct {
	db *gorm.DB
}

// NewThreadRepository 创建会话仓库
func NewThreadRepository(db *gorm.DB) *ThreadRepository {
	return &ThreadRepository{db: db}
}

// Create 创建会话
// slug 唯一索引冲突以 gorm.ErrDuplicatedKey 返回。
func (r *ThreadRepository) Create(thread *model.ChatThread) error {
	return r.db.Create(thread).Error
}

// GetBySlugForUser 按 slug 获取指定用户的会话
// 归属校验与查询合一，避免跨用户访问。
func (r *ThreadRepository) GetBySlugForUser(slug, userID string) (*model.ChatThread, error) {
	var thread model.ChatThread
	err := r.db.Where("slug = ? AND user_id = ?", slug, userID).First(&thread).Error
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

// ListByUser 列出用户的会话，创建时间倒序
func (r *ThreadRepository) ListByUser(userID string) ([]*model.ChatThread, error) {
	var threads []*model.ChatThread
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&threads).Error
	return threads, err
}

// FindByTitle 按标题查找用户的会话，不存在时返回 nil
func (r *ThreadRepository) FindByTitle(title, userID string) (*model.ChatThread, error) {
	var thread model.ChatThread
	err := r.db.Where("title = ? AND user_id = ?", title, userID).First(&thread).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &thread, nil
}
