package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/9dragon/workinghour/backend/internal/dto"
	"github.com/9dragon/workinghour/backend/internal/model"
	"github.com/9dragon/workinghour/backend/internal/repository"
)

// ── 系统配置模块业务错误 ──

var (
	ErrConfigNotFound     = errors.New("配置项不存在")
	ErrConfigReadOnly     = errors.New("配置项为只读，不能修改")
	ErrConfigInvalidValue = errors.New("配置值与类型不符")
)

// SystemConfigService 系统配置业务接口
type SystemConfigService interface {
	// List 按分类分组返回配置，category 为空时返回全部
	List(ctx context.Context, category string) (map[string][]dto.SysConfigItem, error)
	// Update 先整体校验再在一个事务内写入，任一项不合法则全部不生效
	Update(ctx context.Context, req *dto.UpdateSysConfigRequest, operator string) error
}

type systemConfigService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSystemConfigService 创建 SystemConfigService 实例
func NewSystemConfigService(repo *repository.Repository, logger *zap.Logger) SystemConfigService {
	return &systemConfigService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *systemConfigService) List(ctx context.Context, category string) (map[string][]dto.SysConfigItem, error) {
	configs, err := s.repo.SysConfig.List(ctx, strings.TrimSpace(category))
	if err != nil {
		s.logger.Error("查询系统配置失败", zap.Error(err))
		return nil, err
	}

	result := make(map[string][]dto.SysConfigItem)
	for _, c := range configs {
		result[c.Category] = append(result[c.Category], dto.SysConfigItem{
			ConfigKey:   c.ConfigKey,
			ConfigValue: c.ConfigValue,
			ConfigType:  c.ConfigType,
			Category:    c.Category,
			Description: c.Description,
			IsEditable:  c.IsEditable,
			UpdatedAt:   c.UpdatedAt.Format(time.RFC3339),
		})
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *systemConfigService) Update(ctx context.Context, req *dto.UpdateSysConfigRequest, operator string) error {
	for _, item := range req.Configs {
		cfg, err := s.repo.SysConfig.GetByKey(ctx, item.ConfigKey)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrConfigNotFound, item.ConfigKey)
			}
			s.logger.Error("查询系统配置失败", zap.String("key", item.ConfigKey), zap.Error(err))
			return err
		}
		if !cfg.IsEditable {
			return fmt.Errorf("%w: %s", ErrConfigReadOnly, cfg.ConfigKey)
		}
		if err := validateConfigValue(cfg.ConfigType, item.ConfigValue); err != nil {
			return fmt.Errorf("%w: %s %v", ErrConfigInvalidValue, cfg.ConfigKey, err)
		}
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return err
	}
	txRepo := s.repo.WithTx(tx)

	for _, item := range req.Configs {
		if err := txRepo.SysConfig.UpdateValue(ctx, item.ConfigKey, item.ConfigValue); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("更新系统配置失败", zap.String("key", item.ConfigKey), zap.Error(err))
			return err
		}
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return err
		}
	}

	s.logger.Info("系统配置已更新", zap.String("operator", operator), zap.Int("count", len(req.Configs)))
	return nil
}

// validateConfigValue 按配置类型校验取值
func validateConfigValue(configType, value string) error {
	switch configType {
	case model.ConfigTypeNumber:
		if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
			return errors.New("值必须为数字")
		}
	case model.ConfigTypeBoolean:
		switch value {
		case "true", "false", "0", "1":
		default:
			return errors.New("值必须为布尔值")
		}
	case model.ConfigTypeJSON:
		if !json.Valid([]byte(value)) {
			return errors.New("值必须为合法的JSON")
		}
	}
	return nil
}
