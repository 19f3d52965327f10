package service

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"

	"github.com/muaazl/cine-match/internal/model"
)

// fakeEmbedder 确定性的假向量：按文本哈希生成
type fakeEmbedder struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h := fnv.New32a()
	h.Write([]byte(text))
	return []float32{float32(h.Sum32() % 1000)}, nil
}

func (f *fakeEmbedder) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeIndex 返回预置的近邻并记录最后一次查询
type fakeIndex struct {
	mu         sync.Mutex
	matches    []model.Match
	queryErr   error
	lastTopK   int
	lastFilter model.Filter
	upserted   []model.Vector
	upsertErrs map[int]error // 第 n 次 Upsert 调用返回的错误
	upserts    int
}

func (f *fakeIndex) Query(ctx context.Context, values []float32, topK int, filter model.Filter) ([]model.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastTopK = topK
	f.lastFilter = filter
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	out := make([]model.Match, len(f.matches))
	copy(out, f.matches)
	if len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}

func (f *fakeIndex) Upsert(ctx context.Context, vectors []model.Vector) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.upserts
	f.upserts++
	if err := f.upsertErrs[n]; err != nil {
		return err
	}
	f.upserted = append(f.upserted, vectors...)
	return nil
}

// fixedRand 总是返回固定下标
type fixedRand struct{ n int }

func (r fixedRand) Intn(n int) int { return r.n % n }

var errBoom = errors.New("boom")

func match(id, title string, typ model.ItemType, score, rating float64) model.Match {
	return model.Match{
		Key:   string(typ) + "_" + id,
		Score: score,
		Metadata: model.Metadata{
			Title:      title,
			Type:       typ,
			OriginalID: id,
			Rating:     rating,
		},
	}
}
