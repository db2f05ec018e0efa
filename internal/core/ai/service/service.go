package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"time"

	"zomato-recommender/internal/core/ai/cache"
	"zomato-recommender/internal/core/ai/provider"
	"zomato-recommender/internal/infrastructure/config"
	"zomato-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

// Response 推理服務回應
type Response struct {
	Content  string
	CacheHit bool
}

// Service 包裝推理提供者，加上緩存與請求頻率控制
type Service struct {
	config      *config.Config
	provider    provider.Provider
	cache       cache.Backend
	mu          sync.Mutex
	lastRequest time.Time
}

// NewService 創建推理服務
func NewService(cfg *config.Config, p provider.Provider, backend cache.Backend) *Service {
	return &Service{
		config:   cfg,
		provider: p,
		cache:    backend,
	}
}

// ProcessMessages 送出對話消息並回傳模型輸出。
// 相同消息序列命中緩存時直接回傳，不再呼叫提供者。
func (s *Service) ProcessMessages(ctx context.Context, messages []provider.Message) (*Response, error) {
	if err := s.checkRequestRate(); err != nil {
		return nil, err
	}

	key := cacheKey(messages)

	// 檢查緩存
	if s.cache != nil {
		if val, err := s.cache.Get(ctx, key); err == nil && val != "" {
			return &Response{Content: val, CacheHit: true}, nil
		}
	}

	req := &provider.Request{
		Messages:    messages,
		MaxTokens:   s.config.Groq.MaxTokens,
		Temperature: s.config.Groq.Temperature,
	}

	start := time.Now()
	resp, err := s.provider.Generate(ctx, req)
	common.LogAICall(time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resp.Content); err != nil {
			common.LogWarn("快取寫入失敗", zap.Error(err))
		}
	}

	return &Response{Content: resp.Content}, nil
}

// checkRequestRate 檢查請求頻率，最小間隔由視窗除以允許請求數得出
func (s *Service) checkRequestRate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if s.config.RateLimit.Enabled && s.config.RateLimit.Requests > 0 {
		minInterval := s.config.RateLimit.Window / time.Duration(s.config.RateLimit.Requests)
		if now.Sub(s.lastRequest) < minInterval {
			return errors.New("request rate limit exceeded")
		}
	}

	s.lastRequest = now
	return nil
}

// cacheKey 以消息序列的 SHA-256 作為緩存鍵。
// 以 0x1f 分隔角色與內容，避免不同切分產生相同鍵。
func cacheKey(messages []provider.Message) string {
	var b strings.Builder
	for _, m := range messages {
		b.WriteString(m.Role)
		b.WriteByte(0x1f)
		b.WriteString(m.Content)
		b.WriteByte(0x1f)
	}
	hash := sha256.Sum256([]byte(b.String()))
	return "chat:" + hex.EncodeToString(hash[:])
}
