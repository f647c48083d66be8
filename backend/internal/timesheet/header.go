package timesheet

import "strings"

// HeaderLayout 表头识别结果
// 行号均为工作表中的 1 起始行号
type HeaderLayout struct {
	HeaderRow int      // 字段名所在行
	DataStart int      // 第一条数据所在行
	TwoRow    bool     // 是否为分组 + 字段名两行表头
	Names     []string // 归一化后的列名
	Groups    []string // 两行表头的分组标签（已向右填充），单行表头为空
}

// DetectHeader 根据锚点列判断表头形态
// 第 1 行含锚点：单行表头；否则第 2 行含锚点：两行表头，数据从第 3 行开始；
// 都不含时退回第 1 行作为表头。
func DetectHeader(rows [][]string, anchor string) HeaderLayout {
	anchor = NormalizeHeader(anchor)

	if len(rows) > 0 && containsHeader(rows[0], anchor) {
		return singleRow(rows[0])
	}
	if len(rows) > 1 && containsHeader(rows[1], anchor) {
		return twoRow(rows[0], rows[1])
	}
	if len(rows) > 0 {
		return singleRow(rows[0])
	}
	return HeaderLayout{HeaderRow: 1, DataStart: 2}
}

func containsHeader(row []string, anchor string) bool {
	for _, cell := range row {
		if NormalizeHeader(cell) == anchor {
			return true
		}
	}
	return false
}

func singleRow(row []string) HeaderLayout {
	names := make([]string, len(row))
	for i, cell := range row {
		names[i] = NormalizeHeader(cell)
	}
	return HeaderLayout{HeaderRow: 1, DataStart: 2, Names: names}
}

func twoRow(groupRow, fieldRow []string) HeaderLayout {
	width := len(fieldRow)
	if len(groupRow) > width {
		width = len(groupRow)
	}

	names := make([]string, width)
	groups := make([]string, width)
	current := ""
	for i := 0; i < width; i++ {
		group := NormalizeHeader(cellAt(groupRow, i))
		field := NormalizeHeader(cellAt(fieldRow, i))

		// 纵向合并的基础列：第 2 行为空，沿用第 1 行
		if field == "" {
			names[i] = group
			current = ""
			continue
		}
		names[i] = field

		// 横向合并的分组标签只出现在首列
		if group != "" {
			current = group
		}
		groups[i] = current
	}

	return HeaderLayout{HeaderRow: 2, DataStart: 3, TwoRow: true, Names: names, Groups: groups}
}

// ColumnMap 字段 → 列下标
type ColumnMap map[Field]int

// Resolve 按别名表把列名映射到规范字段，同一字段取最先出现的列
// 两行表头中未带前缀的字段名会补上所在分组的前缀再匹配
func (l HeaderLayout) Resolve(aliases Aliases) ColumnMap {
	lookup := make(map[string]Field)
	for f := Field(0); f < fieldCount; f++ {
		for _, name := range aliases[f] {
			if _, ok := lookup[name]; !ok {
				lookup[name] = f
			}
		}
	}

	cols := make(ColumnMap)
	for i, name := range l.Names {
		if name == "" {
			continue
		}
		f, ok := lookup[name]
		if !ok && l.TwoRow && !strings.Contains(name, "-") {
			if prefix := groupPrefix(cellAt(l.Groups, i)); prefix != "" {
				f, ok = lookup[prefix+"-"+name]
			}
		}
		if !ok {
			continue
		}
		if _, seen := cols[f]; !seen {
			cols[f] = i
		}
	}
	return cols
}

// Has 是否识别到该字段
func (c ColumnMap) Has(f Field) bool {
	_, ok := c[f]
	return ok
}

// Extract 取出一行中已识别字段的原始文本
func (c ColumnMap) Extract(number int, cells []string) RawRow {
	values := make(map[Field]string, len(c))
	for f, idx := range c {
		values[f] = strings.TrimSpace(cellAt(cells, idx))
	}
	return RawRow{Number: number, values: values}
}

// RawRow 按规范字段索引的一行原始数据
type RawRow struct {
	Number int // 工作表行号
	values map[Field]string
}

// Text 字段文本，缺列时为空串
func (r RawRow) Text(f Field) string {
	return r.values[f]
}

// BlankRow 整行是否全为空白单元格
func BlankRow(cells []string) bool {
	for _, v := range cells {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
