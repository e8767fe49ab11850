package repository

import (
	"context"

	"gorm.io/gorm"
)

// LookupRepository 小型查找表的装载与校验
type LookupRepository interface {
	// Seed 把代码集合补齐到查找表，已存在的行保持不动
	Seed(ctx context.Context, table string, codes []string) error
	Exists(ctx context.Context, table, code string) (bool, error)
	Codes(ctx context.Context, table string) ([]string, error)
}

type lookupRepo struct {
	db *gorm.DB
}

// NewLookupRepo 创建 LookupRepository 实例
func NewLookupRepo(db *gorm.DB) LookupRepository {
	return &lookupRepo{db: db}
}

func (r *lookupRepo) Seed(ctx context.Context, table string, codes []string) error {
	for _, code := range codes {
		err := r.db.WithContext(ctx).Exec(
			"INSERT INTO "+table+" (code, label) VALUES (?, ?) ON CONFLICT (code) DO NOTHING",
			code, code,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *lookupRepo) Exists(ctx context.Context, table, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table(table).
		Where("code = ?", code).
		Count(&count).Error
	return count > 0, err
}

func (r *lookupRepo) Codes(ctx context.Context, table string) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).
		Table(table).
		Order("code").
		Pluck("code", &codes).Error
	return codes, err
}
