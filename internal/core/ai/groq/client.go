package groq

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"zomato-recommender/internal/core/ai/provider"
	"zomato-recommender/internal/infrastructure/config"
	"zomato-recommender/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "llama-3.3-70b-versatile"

	// 錯誤訊息中保留的回應內容上限
	maxErrorBodyBytes = 500
)

// ServiceError 推理服務回傳非成功狀態或傳輸失敗
type ServiceError struct {
	Status int
	Body   string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("Groq API error (status %d): %s", e.Status, e.Body)
}

// ShapeError 推理服務回應的結構不符預期
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("unexpected Groq response shape: %s", e.Reason)
}

// Client Groq chat completions 客戶端
type Client struct {
	config *config.Config
	client *resty.Client
}

// NewClient 創建新的 Groq 客戶端
func NewClient(cfg *config.Config) *Client {
	baseURL := strings.TrimSuffix(cfg.Groq.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Groq.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		config: cfg,
		client: client,
	}
}

// Generate 生成回應
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	// 缺少憑證時必須在發出任何網路請求前失敗
	if strings.TrimSpace(c.config.Groq.APIKey) == "" {
		return nil, provider.ErrMissingAPIKey
	}

	// 構建請求
	body := map[string]interface{}{
		"model":    c.GetModel(),
		"messages": req.Messages,
	}
	if req.MaxTokens > 0 {
		body["max_tokens"] = req.MaxTokens
	}
	if req.Temperature > 0 {
		body["temperature"] = req.Temperature
	}

	common.LogDebug("Sending request to Groq",
		zap.String("model", c.GetModel()),
		zap.Int("messages", len(req.Messages)),
	)

	// 發送請求
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(c.config.Groq.APIKey).
		SetBody(body).
		Post("/chat/completions")

	if err != nil {
		return nil, fmt.Errorf("failed to send request to Groq: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &ServiceError{
			Status: resp.StatusCode(),
			Body:   truncateBody(resp.String()),
		}
	}

	// 解析回應
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
			TotalTokens      int `json:"total_tokens"`
		} `json:"usage"`
	}

	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, &ShapeError{Reason: fmt.Sprintf("invalid response JSON: %v", err)}
	}

	if len(result.Choices) == 0 {
		return nil, &ShapeError{Reason: "no choices in response"}
	}

	content := result.Choices[0].Message.Content
	if content == "" {
		return nil, &ShapeError{Reason: "empty content in response"}
	}

	common.LogInfo("Groq response received",
		zap.String("model", c.GetModel()),
		zap.Int("content_length", len(content)),
		zap.Int("total_tokens", result.Usage.TotalTokens),
	)

	out := &provider.Response{Content: content}
	out.Usage.PromptTokens = result.Usage.PromptTokens
	out.Usage.CompletionTokens = result.Usage.CompletionTokens
	out.Usage.TotalTokens = result.Usage.TotalTokens
	return out, nil
}

// GetModel 獲取當前使用的模型名稱
func (c *Client) GetModel() string {
	if c.config.Groq.Model == "" {
		return defaultModel
	}
	return c.config.Groq.Model
}

// GetTimeout 獲取請求超時時間
func (c *Client) GetTimeout() time.Duration {
	return c.config.Groq.Timeout
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}

// truncateBody 截斷回應內容，避免錯誤訊息過長
func truncateBody(body string) string {
	if len(body) > maxErrorBodyBytes {
		return body[:maxErrorBodyBytes]
	}
	return body
}
