package timesheet

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("文件格式错误，仅支持.xlsx或.xls格式")
	ErrUnreadable        = errors.New("Excel文件解析失败")
)

// maxXLSRows 旧版 xls 一次读取的行数上限
const maxXLSRows = 100000

// SupportedExt 是否为支持的扩展名
func SupportedExt(fileName string) bool {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx", ".xls":
		return true
	}
	return false
}

// ReadSheet 读取第一个工作表的全部行
// xlsx 使用原始单元格值（日期为序列号），xls 使用库格式化后的文本
func ReadSheet(fileName string, data []byte) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx":
		return readXLSX(data)
	case ".xls":
		return readXLS(data)
	}
	return nil, ErrUnsupportedFormat
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, fmt.Errorf("%w: 没有工作表", ErrUnreadable)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return rows, nil
}

func readXLS(data []byte) (rows [][]string, err error) {
	// 损坏的 xls 会让解析库 panic
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("%w: %v", ErrUnreadable, r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("%w: 没有工作表", ErrUnreadable)
	}
	return wb.ReadAllCells(maxXLSRows), nil
}
