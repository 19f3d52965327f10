package utils

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/muaazl/cine-match/internal/model"
)

// pineconeAPIVersion 使用的 Pinecone 数据面 API 版本
const pineconeAPIVersion = "2024-07"

// PineconeIndex 基于 Pinecone REST 数据面的向量库
type PineconeIndex struct {
	host      string
	namespace string
	client    *HTTPClient
}

// NewPineconeIndex 创建 Pinecone 客户端，host 为索引的数据面地址
func NewPineconeIndex(host, apiKey, namespace string, timeout time.Duration) *PineconeIndex {
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	return &PineconeIndex{
		host:      strings.TrimRight(host, "/"),
		namespace: namespace,
		client: NewHTTPClient(timeout, map[string]string{
			"Api-Key":                apiKey,
			"X-Pinecone-API-Version": pineconeAPIVersion,
		}),
	}
}

type pineconeVector struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata model.Metadata `json:"metadata"`
}

type pineconeUpsertRequest struct {
	Vectors   []pineconeVector `json:"vectors"`
	Namespace string           `json:"namespace,omitempty"`
}

type pineconeQueryRequest struct {
	Vector          []float32                    `json:"vector"`
	TopK            int                          `json:"topK"`
	IncludeMetadata bool                         `json:"includeMetadata"`
	Namespace       string                       `json:"namespace,omitempty"`
	Filter          map[string]map[string]string `json:"filter,omitempty"`
}

type pineconeQueryResponse struct {
	Matches []struct {
		ID       string         `json:"id"`
		Score    float64        `json:"score"`
		Metadata model.Metadata `json:"metadata"`
	} `json:"matches"`
}

// Upsert 写入或覆盖向量
func (p *PineconeIndex) Upsert(ctx context.Context, vectors []model.Vector) error {
	if len(vectors) == 0 {
		return nil
	}
	req := pineconeUpsertRequest{
		Vectors:   make([]pineconeVector, len(vectors)),
		Namespace: p.namespace,
	}
	for i, v := range vectors {
		req.Vectors[i] = pineconeVector{ID: v.Key, Values: v.Values, Metadata: v.Metadata}
	}

	if err := p.client.PostJSON(ctx, p.host+"/vectors/upsert", req, nil); err != nil {
		return fmt.Errorf("pinecone upsert 失败: %w", err)
	}
	return nil
}

// Query 查询 topK 近邻，过滤条件按等值匹配
func (p *PineconeIndex) Query(ctx context.Context, values []float32, topK int, filter model.Filter) ([]model.Match, error) {
	req := pineconeQueryRequest{
		Vector:          values,
		TopK:            topK,
		IncludeMetadata: true,
		Namespace:       p.namespace,
	}
	if len(filter) > 0 {
		req.Filter = make(map[string]map[string]string, len(filter))
		for k, v := range filter {
			req.Filter[k] = map[string]string{"$eq": v}
		}
	}

	var resp pineconeQueryResponse
	if err := p.client.PostJSON(ctx, p.host+"/query", req, &resp); err != nil {
		return nil, fmt.Errorf("pinecone query 失败: %w", err)
	}

	matches := make([]model.Match, len(resp.Matches))
	for i, m := range resp.Matches {
		matches[i] = model.Match{Key: m.ID, Score: m.Score, Metadata: m.Metadata}
	}
	return matches, nil
}
