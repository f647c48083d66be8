package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/9dragon/workinghour/backend/internal/dto"
	"github.com/9dragon/workinghour/backend/internal/service"
	"github.com/9dragon/workinghour/backend/pkg/response"
)

// SystemConfigHandler 系统配置模块 HTTP 处理器
type SystemConfigHandler struct {
	configSvc service.SystemConfigService
}

// NewSystemConfigHandler 创建 SystemConfigHandler
func NewSystemConfigHandler(configSvc service.SystemConfigService) *SystemConfigHandler {
	return &SystemConfigHandler{configSvc: configSvc}
}

// GetConfig 获取系统配置（按分类分组）
// GET /api/v1/system/config?category=import
func (h *SystemConfigHandler) GetConfig(c *gin.Context) {
	cfg, err := h.configSvc.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.handleConfigError(c, err)
		return
	}

	response.OK(c, cfg)
}

// UpdateConfig 批量更新系统配置
// PUT /api/v1/system/config
func (h *SystemConfigHandler) UpdateConfig(c *gin.Context) {
	var req dto.UpdateSysConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	operator, ok := MustGetOperator(c)
	if !ok {
		return
	}

	if err := h.configSvc.Update(c.Request.Context(), &req, operator); err != nil {
		h.handleConfigError(c, err)
		return
	}

	response.OKMessage(c, "配置已更新", nil)
}

// handleConfigError 统一处理系统配置模块业务错误
func (h *SystemConfigHandler) handleConfigError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrConfigNotFound):
		response.NotFound(c, 23001, err.Error())
	case errors.Is(err, service.ErrConfigReadOnly):
		response.BadRequest(c, 23002, err.Error())
	case errors.Is(err, service.ErrConfigInvalidValue):
		response.BadRequest(c, 23003, err.Error())
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
