package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/9dragon/workinghour/backend/pkg/redis"
	"github.com/9dragon/workinghour/backend/pkg/response"
)

// RateLimit 基于 Redis 滑动窗口的速率限制中间件，用于上传接口
// 已认证请求按操作人计数，否则按客户端 IP
// rdb 为 nil 或 limit <= 0 时不限流
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 {
			c.Next()
			return
		}

		who := c.GetString(ContextOperator)
		if who == "" {
			who = c.ClientIP()
		}
		key := fmt.Sprintf("%s:%s", c.FullPath(), who)

		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			// Redis 出错时降级放行
			c.Next()
			return
		}

		if !allowed {
			response.TooManyRequests(c, 10004, "上传过于频繁，请稍后再试")
			c.Abort()
			return
		}

		c.Next()
	}
}
