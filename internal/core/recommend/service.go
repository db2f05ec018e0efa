package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"zomato-recommender/internal/core/ai/provider"
	aiservice "zomato-recommender/internal/core/ai/service"
	"zomato-recommender/internal/core/dataset"
	"zomato-recommender/internal/core/retrieval"
	"zomato-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

// Generator 生成推薦理由的推理服務
type Generator interface {
	ProcessMessages(ctx context.Context, messages []provider.Message) (*aiservice.Response, error)
}

// Recommendation 最終推薦結果：候選餐廳加上模型給出的理由
type Recommendation struct {
	Candidate retrieval.Candidate
	Reason    string
}

// ParseError 模型輸出無法解析為預期的 JSON 結構
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse reasoner reply: %s", e.Reason)
}

// Service 推薦服務：檢索候選、組裝提示、驗證模型輸出
type Service struct {
	ai    Generator
	store *dataset.Store
}

// NewService 創建推薦服務
func NewService(ai Generator, store *dataset.Store) *Service {
	return &Service{ai: ai, store: store}
}

// GetRecommendations 執行完整推薦流程。
// 過濾後無候選時直接回傳空結果，不呼叫推理服務。
// 模型輸出中的每個索引都會對照候選清單驗證，
// 無效索引只會被丟棄，不會讓整個請求失敗。
func (s *Service) GetRecommendations(ctx context.Context, prefs retrieval.Preferences, maxCandidates, maxResults int) ([]Recommendation, error) {
	filtered := retrieval.Filter(s.store.Records(), prefs)
	candidates := retrieval.Rank(filtered, maxCandidates)

	if len(candidates) == 0 {
		common.LogInfo("過濾後無候選餐廳，跳過推理服務")
		return []Recommendation{}, nil
	}

	messages := BuildMessages(prefs, candidates, maxResults)
	resp, err := s.ai.ProcessMessages(ctx, messages)
	if err != nil {
		return nil, err
	}

	return parseReasonerReply(resp.Content, candidates)
}

// looseEntry 模型輸出中的單筆推薦，欄位型別刻意放寬
type looseEntry struct {
	CandidateIndex interface{} `json:"candidate_index"`
	Reason         interface{} `json:"reason"`
}

// parseReasonerReply 解析並驗證模型輸出。
// 頂層結構缺失視為錯誤；個別條目的缺陷（壞索引、越界）只丟棄該條目。
func parseReasonerReply(content string, candidates []retrieval.Candidate) ([]Recommendation, error) {
	jsonText, err := common.ExtractJSONObject(content)
	if err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}

	var reply struct {
		Recommendations *[]looseEntry `json:"recommendations"`
	}
	if err := common.ParseJSON(jsonText, &reply); err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if reply.Recommendations == nil {
		return nil, &ParseError{Reason: "missing recommendations field"}
	}

	results := make([]Recommendation, 0, len(*reply.Recommendations))
	dropped := 0
	for _, entry := range *reply.Recommendations {
		idx, ok := coerceIndex(entry.CandidateIndex)
		if !ok || idx < 0 || idx >= len(candidates) {
			dropped++
			continue
		}
		results = append(results, Recommendation{
			Candidate: candidates[idx],
			Reason:    coerceReason(entry.Reason),
		})
	}

	if dropped > 0 {
		common.LogWarn("模型輸出含無效候選索引，已丟棄",
			zap.Int("dropped", dropped),
			zap.Int("kept", len(results)),
		)
	}

	return results, nil
}

// coerceIndex 將模型輸出的索引轉為 int，容忍浮點數與數字字串
func coerceIndex(v interface{}) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		if f, err := n.Float64(); err == nil {
			return int(f), true
		}
		return 0, false
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// coerceReason 理由欄位缺失或非字串時落到空字串
func coerceReason(v interface{}) string {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
