package recommend

import (
	"errors"
	"net/http"

	"zomato-recommender/internal/core/ai/groq"
	"zomato-recommender/internal/core/ai/provider"
	"zomato-recommender/internal/core/dataset"
	recommendService "zomato-recommender/internal/core/recommend"
	"zomato-recommender/internal/core/retrieval"
	"zomato-recommender/internal/infrastructure/config"
	"zomato-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecommendationRequest 推薦請求，所有偏好欄位皆為可選
type RecommendationRequest struct {
	MinPrice        *float64 `json:"min_price" binding:"omitempty,gte=0"`
	MaxPrice        *float64 `json:"max_price" binding:"omitempty,gte=0"`
	Locality        string   `json:"locality"`
	MinRating       *float64 `json:"min_rating" binding:"omitempty,gte=0,lte=5"`
	DesiredCuisines []string `json:"desired_cuisines"`
}

// RecommendationEntry 單筆推薦：餐廳資料與推薦理由
type RecommendationEntry struct {
	Restaurant dataset.Record `json:"restaurant"`
	Reason     string         `json:"reason"`
}

// RecommendationResponse 推薦回應
type RecommendationResponse struct {
	Preferences     retrieval.Preferences `json:"preferences"`
	Recommendations []RecommendationEntry `json:"recommendations"`
}

// Handler 推薦相關的 HTTP 處理器
type Handler struct {
	service *recommendService.Service
	store   *dataset.Store
	config  *config.Config
}

// NewHandler 創建推薦處理器
func NewHandler(svc *recommendService.Service, store *dataset.Store, cfg *config.Config) *Handler {
	return &Handler{
		service: svc,
		store:   store,
		config:  cfg,
	}
}

// HandleRecommend 處理 POST /recommend
func (h *Handler) HandleRecommend(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	var req RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "Invalid request format",
			Details: err.Error(),
		})
		return
	}

	prefs := retrieval.Preferences{
		MinPrice:        req.MinPrice,
		MaxPrice:        req.MaxPrice,
		Locality:        req.Locality,
		MinRating:       req.MinRating,
		DesiredCuisines: req.DesiredCuisines,
	}

	recommendations, err := h.service.GetRecommendations(
		c.Request.Context(),
		prefs,
		h.config.Retrieval.MaxCandidates,
		h.config.Retrieval.MaxResults,
	)
	if err != nil {
		h.writeError(c, requestID, err)
		return
	}

	entries := make([]RecommendationEntry, len(recommendations))
	for i, rec := range recommendations {
		entries[i] = RecommendationEntry{
			Restaurant: rec.Candidate.Record,
			Reason:     rec.Reason,
		}
	}

	common.LogInfo("推薦請求處理完成",
		zap.String("request_id", requestID),
		zap.Int("recommendations", len(entries)),
	)

	c.JSON(http.StatusOK, RecommendationResponse{
		Preferences:     prefs,
		Recommendations: entries,
	})
}

// writeError 將服務層錯誤映射到 HTTP 狀態碼。
// 推理服務失敗與輸出解析失敗視為上游錯誤（502）；
// 憑證未設定視為服務未就緒（503）。
func (h *Handler) writeError(c *gin.Context, requestID string, err error) {
	var serviceErr *groq.ServiceError
	var shapeErr *groq.ShapeError
	var parseErr *recommendService.ParseError

	switch {
	case errors.Is(err, provider.ErrMissingAPIKey):
		common.LogError("推理服務憑證未設定",
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusServiceUnavailable, common.ErrorResponse{
			Code:    common.ErrCodeServiceUnavailable,
			Message: "Reasoning service is not configured",
		})
	case errors.As(err, &serviceErr):
		common.LogError("推理服務請求失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.Int("upstream_status", serviceErr.Status),
		)
		c.JSON(http.StatusBadGateway, common.ErrorResponse{
			Code:    common.ErrCodeBadGateway,
			Message: "Reasoning service request failed",
		})
	case errors.As(err, &shapeErr), errors.As(err, &parseErr):
		common.LogError("推理服務輸出無法解析",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadGateway, common.ErrorResponse{
			Code:    common.ErrCodeBadGateway,
			Message: "Reasoning service returned an unusable response",
		})
	default:
		common.LogError("推薦請求處理失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Code:    common.ErrCodeInternalError,
			Message: "Recommendation failed",
		})
	}
}

// HandleLocalities 處理 GET /meta/localities
func (h *Handler) HandleLocalities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"localities": h.store.Localities(),
	})
}

// HandleCuisines 處理 GET /meta/cuisines
func (h *Handler) HandleCuisines(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"cuisines": h.store.Cuisines(),
	})
}
