package router

import (
	"context"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/9dragon/workinghour/backend/config"
	"github.com/9dragon/workinghour/backend/internal/api/handler"
	"github.com/9dragon/workinghour/backend/internal/api/middleware"
	"github.com/9dragon/workinghour/backend/pkg/jwt"
	"github.com/9dragon/workinghour/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时不做 Token 黑名单检查与上传限流；ping 为 nil 时健康检查不探测数据库
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, ping func(ctx context.Context) error, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	// xlsx 本身已压缩，导出接口不再 gzip
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/v1/query/export"})))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	health := handler.NewHealthHandler(ping)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", health.Health)

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 导入模块
			imp := authorized.Group("/import")
			{
				imp.POST("/upload",
					middleware.RateLimit(rdb, cfg.Import.RateLimit, cfg.Import.RateLimitWindow),
					h.Import.Upload,
				)
				imp.GET("/records", h.Import.ListBatches)
				imp.GET("/record/:batchNo", h.Import.GetBatch)
				imp.GET("/record/:batchNo/data", h.Import.GetBatchData)
			}

			// 核对模块
			check := authorized.Group("/check")
			{
				check.POST("/missing-days", h.Check.MissingDays)
				check.POST("/overlaps", h.Check.Overlaps)
				check.POST("/compliance", h.Check.Compliance)
				check.POST("/hours", h.Check.Hours)
				check.GET("/history", h.Check.History)
				check.GET("/record/:checkNo", h.Check.GetRecord)
			}

			// 查询模块
			query := authorized.Group("/query")
			{
				query.GET("/records", h.Query.QueryRecords)
				query.POST("/export", h.Export.ExportRecords)
			}
			authorized.GET("/data/dict", h.Query.Dict)

			// 系统配置模块
			systemConfig := authorized.Group("/system/config")
			{
				systemConfig.GET("", h.SystemConfig.GetConfig)
				systemConfig.PUT("", middleware.RoleAuth("admin"), h.SystemConfig.UpdateConfig)
			}
		}
	}

	return r
}
