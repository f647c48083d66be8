package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/9dragon/workinghour/backend/internal/dto"
	"github.com/9dragon/workinghour/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出与分页查询使用同一套筛选条件与排序，不分页
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportRecords 导出工时查询结果为 Excel
	ExportRecords(ctx context.Context, filter *dto.RecordFilter) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// exportColumns 导出列
var exportColumns = []struct {
	title string
	width float64
	value func(it *dto.WorkHourItem) interface{}
}{
	{"序号", 14, func(it *dto.WorkHourItem) interface{} { return it.SerialNo }},
	{"姓名", 10, func(it *dto.WorkHourItem) interface{} { return it.UserName }},
	{"开始时间", 12, func(it *dto.WorkHourItem) interface{} { return it.StartDate }},
	{"结束时间", 12, func(it *dto.WorkHourItem) interface{} { return it.EndDate }},
	{"工时分类", 10, func(it *dto.WorkHourItem) interface{} { return it.WorkTypeLabel }},
	{"项目名称", 28, func(it *dto.WorkHourItem) interface{} { return it.ProjectName }},
	{"工作时长", 10, func(it *dto.WorkHourItem) interface{} { return it.WorkHours }},
	{"加班时长", 10, func(it *dto.WorkHourItem) interface{} { return it.OvertimeHours }},
	{"请假时长", 10, func(it *dto.WorkHourItem) interface{} { return it.LeaveHours }},
	{"审批结果", 10, func(it *dto.WorkHourItem) interface{} { return it.ApprovalResult }},
	{"审批状态", 10, func(it *dto.WorkHourItem) interface{} { return it.ApprovalStatus }},
	{"项目经理", 10, func(it *dto.WorkHourItem) interface{} { return it.ProjectManager }},
	{"部门", 16, func(it *dto.WorkHourItem) interface{} { return it.DeptName }},
	{"导入批次", 30, func(it *dto.WorkHourItem) interface{} { return it.ImportBatchNo }},
}

// ═══════════════════════════════════════════════════════════
// ExportRecords 导出工时查询结果
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "工时数据"，第 1 行为表头
//   - 文件名：工时查询结果_<项目维度|组织维度|全部>_<yyyymmddHHMMSS>.xlsx

func (s *exportService) ExportRecords(ctx context.Context, filter *dto.RecordFilter) (*bytes.Buffer, string, error) {
	q, err := buildRecordQuery(filter)
	if err != nil {
		return nil, "", err
	}
	recs, err := s.repo.WorkHour.QueryAll(ctx, q)
	if err != nil {
		s.logger.Error("查询导出数据失败", zap.Error(err))
		return nil, "", err
	}
	items := toWorkHourItems(recs)

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "工时数据"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, col := range exportColumns {
		name, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, name, name, col.width)
		f.SetCellValue(sheetName, cell(name, 1), col.title)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(exportColumns))
	f.SetCellStyle(sheetName, "A1", cell(lastCol, 1), headerStyle)

	for r := range items {
		values := make([]interface{}, len(exportColumns))
		for i, col := range exportColumns {
			values[i] = col.value(&items[r])
		}
		if err := f.SetSheetRow(sheetName, cell("A", r+2), &values); err != nil {
			s.logger.Error("写入导出行失败", zap.Int("row", r+2), zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("工时查询结果_%s_%s.xlsx", dimensionLabel(filter.Dimension), time.Now().Format("20060102150405"))
	return buf, filename, nil
}

func dimensionLabel(d string) string {
	switch d {
	case dto.DimensionProject:
		return "项目维度"
	case dto.DimensionOrganization:
		return "组织维度"
	}
	return "全部"
}

// cell 生成单元格坐标，如 cell("A", 3) → "A3"
func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
