package handler

import (
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/9dragon/workinghour/backend/internal/dto"
	"github.com/9dragon/workinghour/backend/internal/service"
	"github.com/9dragon/workinghour/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportRecords 导出工时查询结果
// POST /api/v1/query/export  body: 与 /query/records 相同的筛选条件
func (h *ExportHandler) ExportRecords(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	buf, filename, err := h.exportSvc.ExportRecords(c.Request.Context(), &req.RecordFilter)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 中文文件名按 RFC 5987 编码
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportGenerateFail):
		_ = c.Error(err)
		response.InternalError(c)
	default:
		handleQueryError(c, err)
	}
}
