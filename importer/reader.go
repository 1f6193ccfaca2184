package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat 仅支持 xlsx / csv
var ErrUnsupportedFormat = errors.New("unsupported file format, use .xlsx or .csv")

// ErrMissingHeader 表头缺少必需列
var ErrMissingHeader = errors.New("header must contain date, amount, type and category columns")

const utf8BOM = "\xEF\xBB\xBF"

type columns struct {
	date, amount, typ, category, note int
}

// Read 按扩展名选择解析方式
func Read(r io.Reader, filename string) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return ReadExcel(r)
	case ".csv":
		return ReadCSV(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// ReadExcel 读取第一个工作表，日期单元格按原始值读取
func ReadExcel(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("打开表格失败: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrMissingHeader
	}
	table, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}
	return fromTable(table)
}

// ReadCSV 首行为表头，纯数字日期同样视为序列号
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	table, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("读取 CSV 失败: %w", err)
	}
	return fromTable(table)
}

func fromTable(table [][]string) ([]Row, error) {
	if len(table) == 0 {
		return nil, ErrMissingHeader
	}
	cols, err := headerColumns(table[0])
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(table)-1)
	for _, record := range table[1:] {
		if blankRecord(record) {
			continue
		}
		row := Row{
			Date:     cell(record, cols.date),
			Amount:   cell(record, cols.amount),
			Type:     cell(record, cols.typ),
			Category: cell(record, cols.category),
			Note:     cell(record, cols.note),
		}
		// 没有任何日期格式是纯数字，能解析为数字的一律按序列号处理
		if s, ok := row.Date.(string); ok {
			if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				row.Date = f
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func headerColumns(header []string) (columns, error) {
	cols := columns{date: -1, amount: -1, typ: -1, category: -1, note: -1}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		switch normalize(h) {
		case "date":
			cols.date = i
		case "amount":
			cols.amount = i
		case "type":
			cols.typ = i
		case "category":
			cols.category = i
		case "note":
			cols.note = i
		}
	}
	if cols.date < 0 || cols.amount < 0 || cols.typ < 0 || cols.category < 0 {
		return cols, ErrMissingHeader
	}
	return cols, nil
}

func cell(record []string, i int) any {
	if i < 0 || i >= len(record) {
		return nil
	}
	if strings.TrimSpace(record[i]) == "" {
		return nil
	}
	return record[i]
}

func blankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
