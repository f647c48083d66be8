package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/9dragon/workinghour/backend/config"
	"github.com/9dragon/workinghour/backend/internal/app"
	applogger "github.com/9dragon/workinghour/backend/pkg/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "whctl",
	Short:         "工时导入与核对命令行工具",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件路径（默认 ./config/config.yaml）")
	rootCmd.AddCommand(newImportCmd(), newCheckCmd(), newMigrateCmd())
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

// setup 加载配置与日志并组装依赖，返回的 cleanup 需由调用方执行
func setup(ctx context.Context) (*app.App, *zap.Logger, func(), error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Sync()
		return nil, nil, nil, err
	}
	return a, logger, func() {
		a.Close()
		logger.Sync()
	}, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
