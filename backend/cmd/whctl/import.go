package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/9dragon/workinghour/backend/internal/service"
)

type importOptions struct {
	policy   string
	operator string
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "导入一份工时表（.xlsx / .xls）",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.policy, "policy", "", "重复数据处理策略: skip | overwrite（默认取系统配置）")
	cmd.Flags().StringVar(&opts.operator, "operator", "whctl", "操作人")

	return cmd
}

func runImport(cmd *cobra.Command, path string, opts importOptions) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取文件失败: %w", err)
	}

	ctx := cmd.Context()
	a, _, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := a.Service.Import.Import(ctx, service.ImportInput{
		FileName: filepath.Base(path),
		Data:     data,
		Policy:   opts.policy,
		Operator: opts.operator,
	})
	if err != nil {
		return err
	}

	return printJSON(result)
}
