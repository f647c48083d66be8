package timesheet

// 单行表头（与导出模板一致的列顺序）
var singleHeader = []string{
	"序号", "姓名", "开始时间", "结束时间",
	"项目交付-项目经理", "项目交付-项目名称", "项目交付-工作时长", "项目交付-加班时长", "项目交付-工作内容",
	"产品-项目经理", "产品-项目名称", "产品-工作时长", "产品-加班时长", "产品-研发工作内容",
	"售前-审批人", "售前-项目名称", "售前-工作时长", "售前-加班时长", "售前-工作内容",
	"部门", "部门-项目名称", "部门-工作时长", "部门-加班时长", "部门-内务工作内容",
	"请假类别", "请假时长",
	"审批编号", "审批结果", "审批状态", "创建人部门",
}

func testAliases() Aliases {
	return NewAliases([]string{"请假类别", "请假类型"}, []string{"请假时长", "请假时长(小时)"})
}

func testRules() Rules {
	return Rules{
		AcceptedResults:  []string{"通过", "审批通过"},
		AcceptedStatuses: []string{"已完成", "已结束"},
	}
}

// dataRow 按 singleHeader 列顺序构造一行
func dataRow(values map[string]string) []string {
	row := make([]string, len(singleHeader))
	for i, name := range singleHeader {
		row[i] = values[name]
	}
	return row
}

func baseValues() map[string]string {
	return map[string]string{
		"序号":   "1001",
		"姓名":   "张三",
		"开始时间": "2026-01-05",
		"结束时间": "2026-01-09",
		"审批结果": "通过",
		"审批状态": "已完成",
		"部门":   "交付一部",
	}
}
