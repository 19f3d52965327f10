package corpus

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/muaazl/cine-match/internal/model"
	"github.com/muaazl/cine-match/internal/quiz"
)

// Manifest 一次构建的元信息
type Manifest struct {
	BuildID   string    `json:"build_id"`
	Seed      int64     `json:"seed"`
	Count     int       `json:"count"`
	VocabSize int       `json:"vocab_size"`
	Genres    int       `json:"genres"`
	CreatedAt time.Time `json:"created_at"`
}

// Bundle 本地推荐所需的全部产物，Items 的下标即矩阵行号
type Bundle struct {
	Manifest Manifest
	Items    []model.ItemRecord
	Matrix   *SimilarityMatrix
	Quiz     quiz.Index
}

// LegacyOptions 本地构建参数
type LegacyOptions struct {
	Seed        int64
	MaxItems    int
	MaxFeatures int
	Workers     int
}

// BuildLegacy 合并、抽样、向量化并计算相似度矩阵和问卷索引
func BuildLegacy(ctx context.Context, opts LegacyOptions, sources ...[]model.ItemRecord) (*Bundle, error) {
	start := time.Now()

	items := SampleCap(Merge(sources...), opts.Seed, opts.MaxItems)
	if len(items) == 0 {
		return nil, fmt.Errorf("语料为空")
	}

	texts := make([]string, len(items))
	for i, it := range items {
		texts[i] = it.TextBlob
	}
	vec := NewVectorizer(opts.MaxFeatures)
	vectors := vec.FitTransform(texts)
	log.Printf("[Corpus] 词表大小 %d，语料 %d 条", len(vec.Vocabulary()), len(items))

	matrix, err := CosineMatrix(ctx, vectors, opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("计算相似度矩阵失败: %w", err)
	}

	idx := quiz.Build(items)

	b := &Bundle{
		Manifest: Manifest{
			BuildID:   start.UTC().Format("20060102T150405"),
			Seed:      opts.Seed,
			Count:     len(items),
			VocabSize: len(vec.Vocabulary()),
			Genres:    len(idx),
			CreatedAt: start.UTC(),
		},
		Items:  items,
		Matrix: matrix,
		Quiz:   idx,
	}
	log.Printf("[Corpus] 本地构建完成 %s，耗时 %v", b.Manifest.BuildID, time.Since(start))
	return b, nil
}
