package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/9dragon/workinghour/backend/internal/dto"
	"github.com/9dragon/workinghour/backend/internal/model"
	"github.com/9dragon/workinghour/backend/internal/service"
	"github.com/9dragon/workinghour/backend/pkg/response"
)

// CheckHandler 一致性核对模块 HTTP 处理器
type CheckHandler struct {
	checkSvc service.CheckService
}

// NewCheckHandler 创建 CheckHandler
func NewCheckHandler(checkSvc service.CheckService) *CheckHandler {
	return &CheckHandler{checkSvc: checkSvc}
}

// MissingDays 缺报核对
// POST /api/v1/check/missing-days
func (h *CheckHandler) MissingDays(c *gin.Context) { h.run(c, model.CheckMissingDay) }

// Overlaps 重叠核对
// POST /api/v1/check/overlaps
func (h *CheckHandler) Overlaps(c *gin.Context) { h.run(c, model.CheckOverlap) }

// Compliance 合规核对
// POST /api/v1/check/compliance
func (h *CheckHandler) Compliance(c *gin.Context) { h.run(c, model.CheckCompliance) }

// Hours 工时核对
// POST /api/v1/check/hours
func (h *CheckHandler) Hours(c *gin.Context) { h.run(c, model.CheckHoursReconciliation) }

// run 请求体可为空，全部参数取默认值
func (h *CheckHandler) run(c *gin.Context, kind model.CheckKind) {
	var req dto.CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	operator, ok := MustGetOperator(c)
	if !ok {
		return
	}

	result, err := h.checkSvc.Run(c.Request.Context(), kind, &req, operator)
	if err != nil {
		h.handleCheckError(c, err)
		return
	}

	response.OK(c, result)
}

// History 核对历史
// GET /api/v1/check/history?kind=overlap&page=1&page_size=20
func (h *CheckHandler) History(c *gin.Context) {
	var req dto.CheckHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.checkSvc.History(c.Request.Context(), &req)
	if err != nil {
		h.handleCheckError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetRecord 核对记录详情
// GET /api/v1/check/record/:checkNo
func (h *CheckHandler) GetRecord(c *gin.Context) {
	detail, err := h.checkSvc.Detail(c.Request.Context(), c.Param("checkNo"))
	if err != nil {
		h.handleCheckError(c, err)
		return
	}

	response.OK(c, detail)
}

// handleCheckError 统一处理核对模块业务错误
func (h *CheckHandler) handleCheckError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 21001, err.Error())
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 21002, err.Error())
	case errors.Is(err, service.ErrInvalidWorkdays):
		response.BadRequest(c, 21003, err.Error())
	case errors.Is(err, service.ErrInvalidCheckKind):
		response.BadRequest(c, 21004, err.Error())
	case errors.Is(err, service.ErrCheckRunNotFound):
		response.NotFound(c, 21101, err.Error())
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
