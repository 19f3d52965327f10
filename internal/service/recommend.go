package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/muaazl/cine-match/internal/model"
)

// LuckyReason 随机推荐的理由
const LuckyReason = "Serendipity ✨"

// RecommendOptions 推荐服务参数
type RecommendOptions struct {
	Timeout    time.Duration // 单次外部调用超时
	OutputSize int           // 搜索/混合推荐返回上限
	Rand       Rand          // 随机源，nil 时按当前时间创建
}

// RecommendService 在线推荐：组装查询 -> 生成向量 -> 查询向量库 -> 排序
// 依赖在构造时注入，无状态，可并发调用
type RecommendService struct {
	retriever
	scorer     LexicalScorer
	rand       Rand
	outputSize int
}

// NewRecommendService 创建推荐服务
func NewRecommendService(embedder Embedder, index VectorIndex, scorer LexicalScorer, opts RecommendOptions) *RecommendService {
	if opts.OutputSize <= 0 {
		opts.OutputSize = DefaultOutputSize
	}
	if opts.Rand == nil {
		opts.Rand = NewRand(time.Now().UnixNano())
	}
	return &RecommendService{
		retriever:  retriever{embedder: embedder, index: index, timeout: opts.Timeout},
		scorer:     scorer,
		rand:       opts.Rand,
		outputSize: opts.OutputSize,
	}
}

// Search 自由文本搜索，filterType 为 ""/"All" 时不过滤
func (s *RecommendService) Search(ctx context.Context, text, filterType string) ([]model.SearchResult, error) {
	return s.search(ctx, SearchQuery(text, filterType))
}

// Mood 心情搜索
func (s *RecommendService) Mood(ctx context.Context, mood string) ([]model.SearchResult, error) {
	return s.search(ctx, MoodQuery(mood))
}

func (s *RecommendService) search(ctx context.Context, q Query) ([]model.SearchResult, error) {
	matches, err := s.retrieve(ctx, q)
	if err != nil {
		log.Printf("[Recommend] %s 检索失败: %v", q.Intent, err)
		return nil, err
	}

	results := make([]model.SearchResult, len(matches))
	for i, m := range matches {
		results[i] = toResult(m)
	}
	if q.Rerank() {
		return Rerank(s.scorer, q.Text, results, s.outputSize), nil
	}
	return truncate(results, s.outputSize), nil
}

// QuizItems 问卷条目，保持向量库返回顺序
func (s *RecommendService) QuizItems(ctx context.Context, genre string) ([]model.QuizItem, error) {
	matches, err := s.retrieve(ctx, QuizQuery(genre))
	if err != nil {
		log.Printf("[Recommend] 问卷条目检索失败 (%s): %v", genre, err)
		return nil, err
	}

	items := make([]model.QuizItem, len(matches))
	for i, m := range matches {
		r := toResult(m)
		items[i] = model.QuizItem{ID: r.ID, Title: r.Title, Type: r.Type}
	}
	return items, nil
}

// Hybrid 混合推荐：排除种子标题，并为每条结果附上推荐理由
func (s *RecommendService) Hybrid(ctx context.Context, mood, genre string, seeds []string) ([]model.Recommendation, error) {
	matches, err := s.retrieve(ctx, HybridQuery(mood, genre, seeds))
	if err != nil {
		log.Printf("[Recommend] 混合推荐检索失败: %v", err)
		return nil, err
	}

	exclude := make(map[string]struct{}, len(seeds))
	for _, t := range seeds {
		exclude[t] = struct{}{}
	}

	recs := make([]model.Recommendation, 0, len(matches))
	for _, m := range matches {
		if _, ok := exclude[m.Metadata.Title]; ok {
			continue
		}
		recs = append(recs, model.Recommendation{
			SearchResult: toResult(m),
			Reason:       s.reason(mood, seeds),
		})
		if len(recs) == s.outputSize {
			break
		}
	}
	return recs, nil
}

func (s *RecommendService) reason(mood string, seeds []string) string {
	if len(seeds) == 0 {
		return fmt.Sprintf("Because you wanted something %s.", mood)
	}
	return fmt.Sprintf("Because you liked %s and wanted something %s.", seeds[s.rand.Intn(len(seeds))], mood)
}

// Lucky 从经典高分候选中随机挑一部
func (s *RecommendService) Lucky(ctx context.Context) (*model.LuckyPick, error) {
	matches, err := s.retrieve(ctx, LuckyQuery())
	if err != nil {
		log.Printf("[Recommend] 随机推荐检索失败: %v", err)
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrNoResults
	}

	r := toResult(matches[s.rand.Intn(len(matches))])
	return &model.LuckyPick{
		ID:     r.ID,
		Title:  r.Title,
		Type:   r.Type,
		Rating: r.Rating,
		Reason: LuckyReason,
	}, nil
}
