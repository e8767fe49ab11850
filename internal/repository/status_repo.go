package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/maliky/tuth-sub000/internal/model"
)

// StatusHistoryRepository 状态历史数据访问接口
type StatusHistoryRepository interface {
	Create(ctx context.Context, entry *model.StatusHistory) error
	// Latest 返回对象最近一条状态记录，没有则返回 gorm.ErrRecordNotFound
	Latest(ctx context.Context, kind, objectID string) (*model.StatusHistory, error)
	List(ctx context.Context, kind, objectID string) ([]model.StatusHistory, error)
}

type statusHistoryRepo struct {
	db *gorm.DB
}

// NewStatusHistoryRepo 创建 StatusHistoryRepository 实例
func NewStatusHistoryRepo(db *gorm.DB) StatusHistoryRepository {
	return &statusHistoryRepo{db: db}
}

func (r *statusHistoryRepo) Create(ctx context.Context, entry *model.StatusHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *statusHistoryRepo) Latest(ctx context.Context, kind, objectID string) (*model.StatusHistory, error) {
	var entry model.StatusHistory
	err := r.db.WithContext(ctx).
		Where("content_kind = ? AND object_id = ?", kind, objectID).
		Order("created_at DESC").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *statusHistoryRepo) List(ctx context.Context, kind, objectID string) ([]model.StatusHistory, error) {
	var entries []model.StatusHistory
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("content_kind = ? AND object_id = ?", kind, objectID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}
