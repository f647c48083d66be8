package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/9dragon/workinghour/backend/internal/api/middleware"
	"github.com/9dragon/workinghour/backend/pkg/response"
)

// MustGetOperator 从 Gin 上下文中提取操作人（JWT 中间件注入）。
// 缺失时写入 401 响应，调用方应在 ok=false 时直接 return。
func MustGetOperator(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.ContextOperator)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}
