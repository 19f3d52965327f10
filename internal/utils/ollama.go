package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrDimensionMismatch 模型返回的向量维度与配置不一致
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// EmbeddingRequest Ollama embedding API 请求结构
type EmbeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// EmbeddingResponse Ollama embedding API 响应结构
type EmbeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

// OllamaEmbedder 调用 Ollama API 生成向量
// 同一模型对相同输入的输出是确定的
type OllamaEmbedder struct {
	host   string
	model  string
	dim    int
	client *HTTPClient
}

// NewOllamaEmbedder 创建 Ollama 向量生成器，dim <= 0 时不校验维度
func NewOllamaEmbedder(host, model string, dim int, timeout time.Duration) *OllamaEmbedder {
	if host == "" {
		host = "http://localhost:11434"
	}
	return &OllamaEmbedder{
		host:   strings.TrimRight(host, "/"),
		model:  model,
		dim:    dim,
		client: NewHTTPClient(timeout, nil),
	}
}

// Embed 生成文本向量
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var result EmbeddingResponse
	err := e.client.PostJSON(ctx, e.host+"/api/embeddings", EmbeddingRequest{
		Model:  e.model,
		Prompt: text,
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("ollama embedding 请求失败: %w", err)
	}

	if len(result.Embedding) == 0 {
		return nil, fmt.Errorf("ollama 返回空向量 (model=%s)", e.model)
	}
	if e.dim > 0 && len(result.Embedding) != e.dim {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(result.Embedding), e.dim)
	}
	return result.Embedding, nil
}
