package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/9dragon/workinghour/backend/internal/dto"
	"github.com/9dragon/workinghour/backend/internal/service"
	"github.com/9dragon/workinghour/backend/pkg/response"
)

// ImportHandler 工时导入模块 HTTP 处理器
type ImportHandler struct {
	importSvc service.ImportService
	querySvc  service.QueryService
}

// NewImportHandler 创建 ImportHandler
func NewImportHandler(importSvc service.ImportService, querySvc service.QueryService) *ImportHandler {
	return &ImportHandler{importSvc: importSvc, querySvc: querySvc}
}

// Upload 上传并导入工时表
// POST /api/v1/import/upload  multipart: file, duplicateStrategy
func (h *ImportHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			response.TooLarge(c, 20002, service.ErrFileTooLarge.Error())
			return
		}
		response.BadRequest(c, 20006, "请选择要上传的文件")
		return
	}

	policy := c.PostForm("duplicateStrategy")
	if policy == "" {
		policy = c.PostForm("duplicate_strategy")
	}

	operator, ok := MustGetOperator(c)
	if !ok {
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, 20003, service.ErrUnparsableFile.Error())
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		response.BadRequest(c, 20003, service.ErrUnparsableFile.Error())
		return
	}

	result, err := h.importSvc.Import(c.Request.Context(), service.ImportInput{
		FileName: fh.Filename,
		Data:     data,
		Policy:   policy,
		Operator: operator,
	})
	if err != nil {
		h.handleImportError(c, err)
		return
	}

	response.OKMessage(c, "导入完成", result)
}

// ListBatches 导入批次列表
// GET /api/v1/import/records?page=1&page_size=20
func (h *ImportHandler) ListBatches(c *gin.Context) {
	var req dto.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.querySvc.ListBatches(c.Request.Context(), &req)
	if err != nil {
		h.handleImportError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetBatch 导入批次详情（含完整诊断）
// GET /api/v1/import/record/:batchNo
func (h *ImportHandler) GetBatch(c *gin.Context) {
	detail, err := h.querySvc.BatchDetail(c.Request.Context(), c.Param("batchNo"))
	if err != nil {
		h.handleImportError(c, err)
		return
	}

	response.OK(c, detail)
}

// GetBatchData 批次写入的工时记录
// GET /api/v1/import/record/:batchNo/data
func (h *ImportHandler) GetBatchData(c *gin.Context) {
	var req dto.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.querySvc.BatchData(c.Request.Context(), c.Param("batchNo"), &req)
	if err != nil {
		h.handleImportError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// handleImportError 统一处理导入模块业务错误
func (h *ImportHandler) handleImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnsupportedFormat):
		response.BadRequest(c, 20001, err.Error())
	case errors.Is(err, service.ErrFileTooLarge):
		response.TooLarge(c, 20002, err.Error())
	case errors.Is(err, service.ErrUnparsableFile):
		response.BadRequest(c, 20003, err.Error())
	case errors.Is(err, service.ErrTooManyRows):
		response.BadRequest(c, 20004, err.Error())
	case errors.Is(err, service.ErrInvalidPolicy):
		response.BadRequest(c, 20005, err.Error())
	case errors.Is(err, service.ErrBatchNotFound):
		response.NotFound(c, 20101, err.Error())
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
