package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "执行数据库迁移并写入默认系统配置",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, cleanup, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()
			logger.Info("迁移完成", zap.String("config", cfgFile))
			return nil
		},
	}
}
