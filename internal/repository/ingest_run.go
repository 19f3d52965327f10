package repository

import (
	"context"

	"github.com/muaazl/cine-match/internal/model"
	"gorm.io/gorm"
)

type IngestRunRepository struct {
	db *gorm.DB
}

func NewIngestRunRepository(db *gorm.DB) *IngestRunRepository {
	return &IngestRunRepository{db: db}
}

// Create 记录一次导入任务
func (r *IngestRunRepository) Create(ctx context.Context, run *model.IngestRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// Recent 最近的导入记录
func (r *IngestRunRepository) Recent(ctx context.Context, limit int) ([]*model.IngestRun, error) {
	var runs []*model.IngestRun
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}
