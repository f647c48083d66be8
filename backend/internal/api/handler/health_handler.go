package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/9dragon/workinghour/backend/pkg/response"
)

// HealthHandler 存活检查
type HealthHandler struct {
	ping func(ctx context.Context) error // 可为 nil
}

// NewHealthHandler 创建 HealthHandler，ping 用于检查数据库连接
func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

// Health 存活检查
// GET /api/v1/health
func (h *HealthHandler) Health(c *gin.Context) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			_ = c.Error(err)
			response.Error(c, http.StatusServiceUnavailable, 50300, "数据库不可用")
			return
		}
	}

	response.OK(c, gin.H{"status": "ok", "time": time.Now().Format(time.RFC3339)})
}
