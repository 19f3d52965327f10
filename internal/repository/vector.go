package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/lib/pq"
	"github.com/muaazl/cine-match/internal/model"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// filterColumns 允许参与元数据过滤的列
var filterColumns = map[string]string{
	"type":        "type",
	"original_id": "original_id",
	"title":       "title",
}

// VectorRepository 基于 pgvector 的向量库
type VectorRepository struct {
	db *gorm.DB
}

func NewVectorRepository(db *gorm.DB) *VectorRepository {
	return &VectorRepository{db: db}
}

// Upsert 按 item_key 写入或覆盖向量
func (r *VectorRepository) Upsert(ctx context.Context, vectors []model.Vector) error {
	if len(vectors) == 0 {
		return nil
	}

	now := time.Now()
	rows := make([]model.ItemVector, len(vectors))
	for i, v := range vectors {
		emb := pgvector.NewVector(v.Values)
		rows[i] = model.ItemVector{
			ItemKey:    v.Key,
			OriginalID: v.Metadata.OriginalID,
			Title:      v.Metadata.Title,
			Type:       string(v.Metadata.Type),
			Rating:     v.Metadata.Rating,
			Genres:     pq.StringArray(v.Metadata.Genres),
			Embedding:  &emb,
			UpdatedAt:  now,
		}
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"original_id", "title", "type", "rating", "genres", "embedding", "updated_at"}),
	}).Create(&rows).Error
}

// vectorRow 近邻查询结果行
type vectorRow struct {
	ItemKey    string
	OriginalID string
	Title      string
	Type       string
	Rating     float64
	Genres     pq.StringArray
	Score      float64
}

// Query 余弦距离最近的 topK 条，score = 1 - distance
func (r *VectorRepository) Query(ctx context.Context, values []float32, topK int, filter model.Filter) ([]model.Match, error) {
	q, err := r.nearest(r.db.WithContext(ctx), values, topK, filter)
	if err != nil {
		return nil, err
	}

	var rows []vectorRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("向量查询失败: %w", err)
	}

	matches := make([]model.Match, len(rows))
	for i, row := range rows {
		matches[i] = model.Match{
			Key:   row.ItemKey,
			Score: row.Score,
			Metadata: model.Metadata{
				Title:      row.Title,
				Type:       model.ItemType(row.Type),
				OriginalID: row.OriginalID,
				Rating:     row.Rating,
				Genres:     row.Genres,
			},
		}
	}
	return matches, nil
}

// nearest 构造近邻查询，过滤键只接受白名单列
func (r *VectorRepository) nearest(tx *gorm.DB, values []float32, topK int, filter model.Filter) (*gorm.DB, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("topK 必须大于 0")
	}
	emb := pgvector.NewVector(values)

	q := tx.Model(&model.ItemVector{}).
		Select("item_key, original_id, title, type, rating, genres, 1 - (embedding <=> ?) AS score", emb).
		Where("embedding IS NOT NULL")

	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		col, ok := filterColumns[k]
		if !ok {
			return nil, fmt.Errorf("不支持的过滤字段: %s", k)
		}
		q = q.Where(clause.Eq{Column: clause.Column{Name: col}, Value: filter[k]})
	}

	return q.Clauses(clause.OrderBy{
		Expression: clause.Expr{SQL: "embedding <=> ?", Vars: []interface{}{emb}},
	}).Limit(topK), nil
}

// Count 已写入的向量数量
func (r *VectorRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.ItemVector{}).Count(&n).Error
	return n, err
}
