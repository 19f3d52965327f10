package corpus

import (
	"context"
	"errors"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// SimilarityMatrix 稠密对称的 N×N 余弦相似度矩阵（行优先）
// 第 i 行/列对应语料第 i 条，语料重排后矩阵即失效
//
// 复杂度：时间 O(N²·L)，内存 N² 个 float32；N=12000 时约 1.44 亿项（约 576 MB），
// 语料上限正是为此设置。
type SimilarityMatrix struct {
	N    int
	Data []float32
}

// At 取 (i, j) 的相似度
func (m *SimilarityMatrix) At(i, j int) float32 {
	return m.Data[i*m.N+j]
}

// Row 返回第 i 行（共享底层数组，只读）
func (m *SimilarityMatrix) Row(i int) []float32 {
	return m.Data[i*m.N : (i+1)*m.N]
}

// ErrMatrixTooLarge 矩阵规模超出可寻址范围
var ErrMatrixTooLarge = errors.New("similarity matrix too large")

// CosineMatrix 计算全部两两余弦相似度
// 只计算上三角并镜像写入，每个 (i, j) 只由一个 worker 写，无需加锁
func CosineMatrix(ctx context.Context, vecs []SparseVector, workers int) (*SimilarityMatrix, error) {
	n := len(vecs)
	if n > 0 && n > math.MaxInt/n {
		return nil, ErrMatrixTooLarge
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	norms := make([]float64, n)
	for i, v := range vecs {
		var sum float64
		for _, c := range v.Counts {
			sum += float64(c) * float64(c)
		}
		norms[i] = math.Sqrt(sum)
	}

	m := &SimilarityMatrix{N: n, Data: make([]float32, n*n)}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if norms[i] == 0 {
				return nil
			}
			m.Data[i*n+i] = 1
			for j := i + 1; j < n; j++ {
				if norms[j] == 0 {
					continue
				}
				s := float32(dot(vecs[i], vecs[j]) / (norms[i] * norms[j]))
				m.Data[i*n+j] = s
				m.Data[j*n+i] = s
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}

// dot 两个有序稀疏向量的点积
func dot(a, b SparseVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			sum += float64(a.Counts[i]) * float64(b.Counts[j])
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}
