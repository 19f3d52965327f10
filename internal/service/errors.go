package service

import (
	"errors"
	"fmt"
)

// ErrNoResults 候选集为空（如随机推荐）
var ErrNoResults = errors.New("No movies found")

// ErrNotReady 本地产物尚未加载
var ErrNotReady = errors.New("recommendation artifacts not loaded")

// ErrRetrieval 向量生成或向量库查询失败
var ErrRetrieval = errors.New("retrieval failed")

// 检索阶段
const (
	StageEmbed = "embed"
	StageQuery = "query"
)

// RetrievalError 检索失败，保留失败阶段和原始错误
type RetrievalError struct {
	Stage string
	Err   error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// Is 使 errors.Is(err, ErrRetrieval) 成立
func (e *RetrievalError) Is(target error) bool {
	return target == ErrRetrieval
}
