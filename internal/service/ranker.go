package service

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/muaazl/cine-match/internal/model"
)

// 字面重排参数
const (
	ExactBoost       = 2.0
	PartialBoost     = 0.5
	exactThreshold   = 85
	partialThreshold = 90
)

// DefaultOutputSize 返回结果上限
const DefaultOutputSize = 20

// Embedder 文本向量生成
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex 向量库
type VectorIndex interface {
	Upsert(ctx context.Context, vectors []model.Vector) error
	Query(ctx context.Context, values []float32, topK int, filter model.Filter) ([]model.Match, error)
}

// LexicalScorer 0-100 的字符串相似度
type LexicalScorer interface {
	Ratio(a, b string) int
	PartialRatio(a, b string) int
}

// Rand 可注入的随机源
type Rand interface {
	Intn(n int) int
}

// lockedRand 并发安全的随机源
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRand 以 seed 创建并发安全的随机源
func NewRand(seed int64) Rand {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// retriever 向量生成 + 近邻查询，两步都有超时
type retriever struct {
	embedder Embedder
	index    VectorIndex
	timeout  time.Duration
}

func (r *retriever) retrieve(ctx context.Context, q Query) ([]model.Match, error) {
	embedCtx, cancel := r.withTimeout(ctx)
	vec, err := r.embedder.Embed(embedCtx, q.Text)
	cancel()
	if err != nil {
		return nil, &RetrievalError{Stage: StageEmbed, Err: err}
	}

	queryCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	matches, err := r.index.Query(queryCtx, vec, q.TopK, q.Filter)
	if err != nil {
		return nil, &RetrievalError{Stage: StageQuery, Err: err}
	}
	return matches, nil
}

func (r *retriever) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// toResult 将近邻转为检索结果，分数取向量库原始相似度
func toResult(m model.Match) model.SearchResult {
	id := m.Metadata.OriginalID
	if id == "" {
		if i := strings.IndexByte(m.Key, '_'); i >= 0 {
			id = m.Key[i+1:]
		}
	}
	return model.SearchResult{
		ID:     id,
		Title:  m.Metadata.Title,
		Type:   m.Metadata.Type,
		Score:  m.Score,
		Rating: m.Metadata.Rating,
	}
}

// LexicalBoost 标题与查询的字面加分
// 整串相似度 > 85 加 2.0（足以压过语义分数），否则子串相似度 > 90 加 0.5
func LexicalBoost(scorer LexicalScorer, query, title string) float64 {
	q, t := strings.ToLower(query), strings.ToLower(title)
	if scorer.Ratio(q, t) > exactThreshold {
		return ExactBoost
	}
	if scorer.PartialRatio(q, t) > partialThreshold {
		return PartialBoost
	}
	return 0
}

// Rerank 字面加分后按分数降序（稳定）排序并截断
func Rerank(scorer LexicalScorer, query string, results []model.SearchResult, size int) []model.SearchResult {
	for i := range results {
		results[i].Score += LexicalBoost(scorer, query, results[i].Title)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return truncate(results, size)
}

func truncate[T any](s []T, size int) []T {
	if size > 0 && len(s) > size {
		return s[:size]
	}
	return s
}
