package model

import (
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// EmbeddingDimensions all-minilm (all-MiniLM-L6-v2) 输出维度
const EmbeddingDimensions = 384

// Metadata 向量附带的元数据
type Metadata struct {
	Title      string   `json:"title"`
	Type       ItemType `json:"type"`
	OriginalID string   `json:"original_id"`
	Rating     float64  `json:"rating"`
	Genres     []string `json:"genres,omitempty"`
}

// Vector 待写入向量库的一条记录
type Vector struct {
	Key      string
	Values   []float32
	Metadata Metadata
}

// Match 向量库返回的一条近邻
type Match struct {
	Key      string
	Score    float64
	Metadata Metadata
}

// Filter 元数据等值过滤，如 {"type": "Movie"}
type Filter map[string]string

// TypeFilter 按条目类型过滤
func TypeFilter(t ItemType) Filter {
	return Filter{"type": string(t)}
}

// NewVector 由条目和向量构造写入记录
func NewVector(item ItemRecord, values []float32) Vector {
	return Vector{
		Key:    item.Key(),
		Values: values,
		Metadata: Metadata{
			Title:      item.Title,
			Type:       item.Type,
			OriginalID: item.ID,
			Rating:     item.Rating,
			Genres:     item.Genres(),
		},
	}
}

// ItemVector pgvector 中存储的条目向量
type ItemVector struct {
	ItemKey    string           `json:"item_key" gorm:"primaryKey"`
	OriginalID string           `json:"original_id"`
	Title      string           `json:"title"`
	Type       string           `json:"type" gorm:"index"`
	Rating     float64          `json:"rating"`
	Genres     pq.StringArray   `json:"genres" gorm:"type:text[]"`
	Embedding  *pgvector.Vector `json:"-" gorm:"type:vector(384)"`
	UpdatedAt  time.Time        `json:"updated_at" gorm:"index"`
}

// TableName 表名
func (ItemVector) TableName() string {
	return "item_vectors"
}
