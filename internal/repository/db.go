package repository

import (
	"fmt"

	"github.com/muaazl/cine-match/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 初始化数据库连接
func InitDB(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取连接池失败: %w", err)
	}

	// 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	// 设置连接池
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return db, nil
}

// Migrate 启用 pgvector 扩展并同步表结构
func Migrate(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("启用 vector 扩展失败: %w", err)
	}
	if err := db.AutoMigrate(&model.ItemVector{}, &model.IngestRun{}); err != nil {
		return fmt.Errorf("同步表结构失败: %w", err)
	}
	return nil
}

// Repositories 仓库集合
type Repositories struct {
	DB         *gorm.DB
	Vectors    *VectorRepository
	IngestRuns *IngestRunRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		DB:         db,
		Vectors:    NewVectorRepository(db),
		IngestRuns: NewIngestRunRepository(db),
	}
}
