package utils

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// maxErrorBody 错误响应最多保留的字节数
const maxErrorBody = 512

// HTTPClient 调用外部 JSON API 的客户端（Ollama、Pinecone）
// 可并发使用
type HTTPClient struct {
	httpClient *http.Client
	headers    map[string]string
}

// NewHTTPClient 创建新的HTTP客户端，headers 会附加到每个请求
func NewHTTPClient(timeout time.Duration, headers map[string]string) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: headers,
	}
}

// StatusError 非 2xx 响应
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("请求失败，状态码: %d, 响应: %s", e.StatusCode, e.Body)
}

// PostJSON 发送 JSON 请求并解析 JSON 响应，target 为 nil 时忽略响应体
func (c *HTTPClient) PostJSON(ctx context.Context, url string, body, target interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("序列化请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	reader, err := decodeBody(resp)
	if err != nil {
		return err
	}
	defer reader.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(reader, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}
	if target == nil {
		return nil
	}

	raw, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("读取响应失败: %w", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		log.Printf("解析JSON失败: %v, 响应体: %.200s", err, raw)
		return fmt.Errorf("解析JSON失败: %w", err)
	}
	return nil
}

func (c *HTTPClient) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
}

// decodeBody 按 Content-Encoding 解压响应体
func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		r, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("创建gzip读取器失败: %w", err)
		}
		return r, nil
	case "deflate":
		return flate.NewReader(resp.Body), nil
	default:
		return io.NopCloser(resp.Body), nil
	}
}
