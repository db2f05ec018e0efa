package provider

import (
	"context"
	"errors"
	"time"
)

// ErrMissingAPIKey 推理服務缺少必要的 API Key；
// 必須在任何網路 I/O 之前回報
var ErrMissingAPIKey = errors.New("reasoning service API key is not configured")

// Message 表示與推理服務的對話消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request 表示發送到推理服務的請求
type Request struct {
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

// Response 表示從推理服務收到的響應
type Response struct {
	Content string `json:"content"`
	Usage   struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Provider 定義推理服務介面，文字進、文字出
type Provider interface {
	// Generate 生成回應
	Generate(ctx context.Context, req *Request) (*Response, error)

	// GetModel 獲取當前使用的模型名稱
	GetModel() string

	// GetTimeout 獲取請求超時時間
	GetTimeout() time.Duration

	// Close 關閉提供者連接
	Close() error
}
