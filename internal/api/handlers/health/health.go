package health

import (
	"net/http"
	"runtime"
	"time"

	"zomato-recommender/internal/core/dataset"
	"zomato-recommender/internal/infrastructure/config"
	"zomato-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Dataset   *DatasetStatus         `json:"dataset,omitempty"`
	Runtime   map[string]interface{} `json:"runtime"`
}

// DatasetStatus 資料集狀態
type DatasetStatus struct {
	Rows       int `json:"rows"`
	Localities int `json:"localities"`
	Cuisines   int `json:"cuisines"`
}

// HealthCheck 健康檢查處理器
func HealthCheck(c *gin.Context) {
	// 獲取配置
	cfg, exists := c.Get("config")
	if !exists {
		common.LogError("Configuration not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Configuration not found",
		})
		return
	}
	config, ok := cfg.(*config.Config)
	if !ok {
		common.LogError("Invalid configuration type in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Invalid configuration type",
		})
		return
	}

	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	// 構建響應
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   config.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	if store := storeFromContext(c); store != nil {
		response.Dataset = &DatasetStatus{
			Rows:       store.Len(),
			Localities: len(store.Localities()),
			Cuisines:   len(store.Cuisines()),
		}
	}

	// 記錄請求
	common.LogInfo("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器；資料集尚未載入時回報未就緒
func ReadinessCheck(c *gin.Context) {
	store := storeFromContext(c)
	if store == nil || store.Len() == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": common.ErrDatasetNotLoaded.Message,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

func storeFromContext(c *gin.Context) *dataset.Store {
	v, exists := c.Get("dataset_store")
	if !exists {
		return nil
	}
	store, ok := v.(*dataset.Store)
	if !ok {
		return nil
	}
	return store
}
