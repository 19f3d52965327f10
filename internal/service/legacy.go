package service

import (
	"log"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/muaazl/cine-match/internal/artifact"
	"github.com/muaazl/cine-match/internal/corpus"
	"github.com/muaazl/cine-match/internal/model"
	"github.com/muaazl/cine-match/internal/quiz"
)

// 相似条目数量
const (
	DefaultSimilarCount = 10
	MaxSimilarCount     = 50
)

// minTitleRatio 标题模糊匹配的最低分
const minTitleRatio = 60

// legacyState 一次加载的只读产物
type legacyState struct {
	bundle  *corpus.Bundle
	byTitle map[string]int // 小写标题 -> 首次出现的行号
}

func newLegacyState(b *corpus.Bundle) *legacyState {
	st := &legacyState{bundle: b, byTitle: make(map[string]int, len(b.Items))}
	for i, it := range b.Items {
		key := strings.ToLower(it.Title)
		if _, ok := st.byTitle[key]; !ok {
			st.byTitle[key] = i
		}
	}
	return st
}

// LegacyEngine 基于本地相似度矩阵的推荐
// 产物整体替换，读请求看到的始终是同一次构建
type LegacyEngine struct {
	dir    string
	scorer LexicalScorer
	state  atomic.Pointer[legacyState]
}

// NewLegacyEngine 创建本地推荐引擎，需调用 Reload 加载产物
func NewLegacyEngine(dir string, scorer LexicalScorer) *LegacyEngine {
	return &LegacyEngine{dir: dir, scorer: scorer}
}

// NewLegacyEngineFromBundle 直接使用内存中的产物
func NewLegacyEngineFromBundle(b *corpus.Bundle, scorer LexicalScorer) *LegacyEngine {
	e := &LegacyEngine{scorer: scorer}
	e.state.Store(newLegacyState(b))
	return e
}

// Reload 加载 CURRENT 指向的构建，已是当前构建时不重复加载
func (e *LegacyEngine) Reload() (string, error) {
	id, err := artifact.CurrentID(e.dir)
	if err != nil {
		return "", err
	}
	if id == e.BuildID() {
		return id, nil
	}

	b, err := artifact.LoadBuild(e.dir, id)
	if err != nil {
		return "", err
	}
	e.state.Store(newLegacyState(b))
	log.Printf("[Legacy] 已加载构建 %s (%d 条, %d 个类型)", id, len(b.Items), len(b.Quiz))
	return id, nil
}

// BuildID 当前构建 ID，未加载时为空
func (e *LegacyEngine) BuildID() string {
	if st := e.state.Load(); st != nil {
		return st.bundle.Manifest.BuildID
	}
	return ""
}

// Ready 是否已加载产物
func (e *LegacyEngine) Ready() bool {
	return e.state.Load() != nil
}

// Genres 问卷类型列表
func (e *LegacyEngine) Genres() ([]string, error) {
	st := e.state.Load()
	if st == nil {
		return nil, ErrNotReady
	}
	return st.bundle.Quiz.Genres(), nil
}

// Quiz 某类型的问卷条目
func (e *LegacyEngine) Quiz(genre string) ([]quiz.Entry, error) {
	st := e.state.Load()
	if st == nil {
		return nil, ErrNotReady
	}
	entries := st.bundle.Quiz.Items(genre)
	if len(entries) == 0 {
		return nil, ErrNoResults
	}
	return entries, nil
}

// Similar 与 title 最相似的 n 个条目（不含自身）
// 标题先按忽略大小写精确匹配，找不到时取模糊匹配得分最高的条目
func (e *LegacyEngine) Similar(title string, n int) (*model.ItemRecord, []model.SimilarItem, error) {
	st := e.state.Load()
	if st == nil {
		return nil, nil, ErrNotReady
	}
	if n <= 0 {
		n = DefaultSimilarCount
	}
	if n > MaxSimilarCount {
		n = MaxSimilarCount
	}

	row, ok := st.lookup(e.scorer, title)
	if !ok {
		return nil, nil, ErrNoResults
	}

	items := st.bundle.Items
	scores := st.bundle.Matrix.Row(row)
	order := make([]int, 0, len(items)-1)
	for j := range items {
		if j != row {
			order = append(order, j)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	order = truncate(order, n)

	source := items[row]
	out := make([]model.SimilarItem, len(order))
	for i, j := range order {
		it := items[j]
		reason, reasonType := GenerateSimilarReason(source, it)
		out[i] = model.SimilarItem{
			ID:         it.ID,
			Title:      it.Title,
			Type:       it.Type,
			Score:      float64(scores[j]),
			Rating:     it.Rating,
			Reason:     reason,
			ReasonType: reasonType,
		}
	}
	return &source, out, nil
}

func (st *legacyState) lookup(scorer LexicalScorer, title string) (int, bool) {
	q := strings.ToLower(strings.TrimSpace(title))
	if q == "" {
		return 0, false
	}
	if row, ok := st.byTitle[q]; ok {
		return row, true
	}

	best, bestRow := 0, -1
	for i, it := range st.bundle.Items {
		if s := scorer.Ratio(q, strings.ToLower(it.Title)); s > best {
			best, bestRow = s, i
		}
	}
	if best < minTitleRatio {
		return 0, false
	}
	return bestRow, true
}
