package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/muaazl/cine-match/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchSize 每批写入的条数
const DefaultBatchSize = 100

// BatchResult 单批导入结果
type BatchResult struct {
	Index    int
	Size     int
	Upserted int
	Failed   bool
	Reason   string
}

// Report 一次导入的汇总
// 导入是尽力而为的：失败的批次只记录不重试，不保证全量覆盖
type Report struct {
	Total      int
	Batches    []BatchResult
	StartedAt  time.Time
	FinishedAt time.Time
}

// Upserted 成功写入的条数
func (r *Report) Upserted() int {
	n := 0
	for _, b := range r.Batches {
		n += b.Upserted
	}
	return n
}

// FailedBatches 失败的批次
func (r *Report) FailedBatches() []BatchResult {
	var failed []BatchResult
	for _, b := range r.Batches {
		if b.Failed {
			failed = append(failed, b)
		}
	}
	return failed
}

// Summary 失败原因汇总
func (r *Report) Summary() string {
	failed := r.FailedBatches()
	if len(failed) == 0 {
		return ""
	}
	lines := make([]string, len(failed))
	for i, b := range failed {
		lines[i] = fmt.Sprintf("batch %d (%d items): %s", b.Index, b.Size, b.Reason)
	}
	return strings.Join(lines, "\n")
}

// Run 转为持久化记录
func (r *Report) Run(backend string) *model.IngestRun {
	failed := len(r.FailedBatches())
	return &model.IngestRun{
		Backend:        backend,
		TotalItems:     r.Total,
		BatchesOK:      len(r.Batches) - failed,
		BatchesFailed:  failed,
		ItemsUpserted:  r.Upserted(),
		FailureSummary: r.Summary(),
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
	}
}

// Ingestor 将语料逐批向量化并写入向量库
type Ingestor struct {
	embedder    Embedder
	index       VectorIndex
	batchSize   int
	concurrency int
}

// NewIngestor 创建导入器，concurrency 为每批内并发生成向量的数量
func NewIngestor(embedder Embedder, index VectorIndex, batchSize, concurrency int) *Ingestor {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Ingestor{embedder: embedder, index: index, batchSize: batchSize, concurrency: concurrency}
}

// Run 逐批导入，某批失败时记录原因并继续下一批
// 只有 ctx 被取消时提前结束
func (ing *Ingestor) Run(ctx context.Context, items []model.ItemRecord) *Report {
	report := &Report{Total: len(items), StartedAt: time.Now()}
	total := (len(items) + ing.batchSize - 1) / ing.batchSize

	for start, idx := 0, 0; start < len(items); start, idx = start+ing.batchSize, idx+1 {
		if ctx.Err() != nil {
			log.Printf("[Ingest] 已取消，剩余 %d 条未导入", len(items)-start)
			break
		}
		end := start + ing.batchSize
		if end > len(items) {
			end = len(items)
		}

		res := ing.runBatch(ctx, idx, items[start:end])
		if res.Failed {
			log.Printf("[Ingest] 第 %d/%d 批失败: %s", idx+1, total, res.Reason)
		} else {
			log.Printf("[Ingest] 第 %d/%d 批完成 (%d 条)", idx+1, total, res.Upserted)
		}
		report.Batches = append(report.Batches, res)
	}

	report.FinishedAt = time.Now()
	log.Printf("[Ingest] 导入结束: %d/%d 条写入，%d 批失败，耗时 %v",
		report.Upserted(), report.Total, len(report.FailedBatches()), report.FinishedAt.Sub(report.StartedAt))
	return report
}

func (ing *Ingestor) runBatch(ctx context.Context, idx int, batch []model.ItemRecord) BatchResult {
	res := BatchResult{Index: idx, Size: len(batch)}

	vectors := make([]model.Vector, len(batch))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ing.concurrency)
	for i := range batch {
		i := i
		g.Go(func() error {
			values, err := ing.embedder.Embed(gctx, batch[i].TextChunk)
			if err != nil {
				return fmt.Errorf("embed %s: %w", batch[i].Key(), err)
			}
			vectors[i] = model.NewVector(batch[i], values)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		res.Failed = true
		res.Reason = err.Error()
		return res
	}

	if err := ing.index.Upsert(ctx, vectors); err != nil {
		res.Failed = true
		res.Reason = fmt.Sprintf("upsert: %v", err)
		return res
	}
	res.Upserted = len(vectors)
	return res
}
