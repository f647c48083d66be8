package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/9dragon/workinghour/backend/internal/dto"
	"github.com/9dragon/workinghour/backend/internal/model"
)

// 命令行名称与 HTTP 路径保持一致
var checkKinds = map[string]model.CheckKind{
	"missing-days": model.CheckMissingDay,
	"overlaps":     model.CheckOverlap,
	"compliance":   model.CheckCompliance,
	"hours":        model.CheckHoursReconciliation,
}

type checkOptions struct {
	start    string
	end      string
	dept     string
	user     string
	workdays []int
	holidays []string
	operator string
}

func newCheckCmd() *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:       "check <missing-days|overlaps|compliance|hours>",
		Short:     "执行一次一致性核对并保存核对记录",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"missing-days", "overlaps", "compliance", "hours"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := checkKinds[args[0]]
			if !ok {
				kind = model.CheckKind(args[0])
				if !kind.Valid() {
					return fmt.Errorf("未知的核对类型: %s", args[0])
				}
			}
			return runCheck(cmd, kind, opts)
		},
	}

	cmd.Flags().StringVar(&opts.start, "start", "", "开始日期 YYYY-MM-DD（默认数据集最早日期）")
	cmd.Flags().StringVar(&opts.end, "end", "", "结束日期 YYYY-MM-DD（默认数据集最晚日期）")
	cmd.Flags().StringVar(&opts.dept, "dept", "", "部门名称（模糊匹配）")
	cmd.Flags().StringVar(&opts.user, "user", "", "姓名（模糊匹配）")
	cmd.Flags().IntSliceVar(&opts.workdays, "workdays", nil, "工作日 1-7（周一为 1），默认 1,2,3,4,5")
	cmd.Flags().StringSliceVar(&opts.holidays, "holidays", nil, "节假日 YYYY-MM-DD，逗号分隔")
	cmd.Flags().StringVar(&opts.operator, "operator", "whctl", "操作人")

	return cmd
}

func runCheck(cmd *cobra.Command, kind model.CheckKind, opts checkOptions) error {
	ctx := cmd.Context()
	a, _, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := a.Service.Check.Run(ctx, kind, &dto.CheckRequest{
		StartDate: opts.start,
		EndDate:   opts.end,
		DeptName:  opts.dept,
		UserName:  opts.user,
		Workdays:  opts.workdays,
		Holidays:  opts.holidays,
		Trigger:   "manual",
	}, opts.operator)
	if err != nil {
		return err
	}

	return printJSON(result)
}
