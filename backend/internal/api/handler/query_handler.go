package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/9dragon/workinghour/backend/internal/dto"
	"github.com/9dragon/workinghour/backend/internal/service"
	"github.com/9dragon/workinghour/backend/pkg/response"
)

// QueryHandler 工时查询模块 HTTP 处理器
type QueryHandler struct {
	querySvc service.QueryService
}

// NewQueryHandler 创建 QueryHandler
func NewQueryHandler(querySvc service.QueryService) *QueryHandler {
	return &QueryHandler{querySvc: querySvc}
}

// QueryRecords 按项目/组织维度分页查询工时记录
// GET /api/v1/query/records?dimension=project&project_name=xx&page=1
func (h *QueryHandler) QueryRecords(c *gin.Context) {
	var req dto.RecordQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.querySvc.QueryRecords(c.Request.Context(), &req)
	if err != nil {
		handleQueryError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Dict 数据字典
// GET /api/v1/data/dict
func (h *QueryHandler) Dict(c *gin.Context) {
	dict, err := h.querySvc.Dict(c.Request.Context())
	if err != nil {
		handleQueryError(c, err)
		return
	}

	response.OK(c, dict)
}

// handleQueryError 查询与导出共用的错误映射
func handleQueryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidWorkType):
		response.BadRequest(c, 22001, err.Error())
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 22002, err.Error())
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 22003, err.Error())
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
