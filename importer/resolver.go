// Package importer 把表格行解析成交易记录：类别名匹配、日期与金额转换。
package importer

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"fintrack/models"

	"github.com/shopspring/decimal"
)

// ErrNoMatchingRows 没有任何一行能匹配到类别
var ErrNoMatchingRows = errors.New("no matching categories found")

// excelEpochOffset 1970-01-01 对应的表格日期序列号
const excelEpochOffset = 25569

// maxNoteLength 与 transactions.note 列宽一致
const maxNoteLength = 255

var dateLayouts = []string{
	models.DateLayout,
	"2006/01/02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
	"01-02-06",
}

// Row 导入行，字段类型不固定：表格里可能是数字也可能是文本
type Row struct {
	Date     any `json:"date"`
	Amount   any `json:"amount"`
	Type     any `json:"type"`
	Category any `json:"category"`
	Note     any `json:"note"`
}

// Lookup 规范化名称到类别ID的映射，两个体系各一张
type Lookup struct {
	Types   map[string]uint
	Sources map[string]uint
}

// NewLookup 由可见类别构建，同名时保留先出现的一个
func NewLookup(categories []models.Category) Lookup {
	l := Lookup{Types: make(map[string]uint), Sources: make(map[string]uint)}
	for _, c := range categories {
		key := normalize(c.Name)
		target := l.Sources
		if c.Taxonomy == models.TaxonomyType {
			target = l.Types
		}
		if _, exists := target[key]; !exists {
			target[key] = c.ID
		}
	}
	return l
}

// Result 解析结果
type Result struct {
	Accepted []models.Transaction
	Skipped  int
}

// Resolve 日期、金额、类型、类别齐全且两个名称都能匹配的行才会被接受
func Resolve(rows []Row, lookup Lookup, userID uint) Result {
	res := Result{Accepted: make([]models.Transaction, 0, len(rows))}
	for _, row := range rows {
		tx, ok := resolveRow(row, lookup)
		if !ok {
			res.Skipped++
			continue
		}
		tx.UserID = userID
		res.Accepted = append(res.Accepted, tx)
	}
	return res
}

func resolveRow(row Row, lookup Lookup) (models.Transaction, bool) {
	typeName := normalize(text(row.Type))
	catName := normalize(text(row.Category))
	if typeName == "" || catName == "" || isBlank(row.Date) || isBlank(row.Amount) {
		return models.Transaction{}, false
	}
	typeID, ok := lookup.Types[typeName]
	if !ok {
		return models.Transaction{}, false
	}
	catID, ok := lookup.Sources[catName]
	if !ok {
		return models.Transaction{}, false
	}
	date, ok := ParseDate(row.Date)
	if !ok {
		return models.Transaction{}, false
	}
	amount, ok := ParseAmount(row.Amount)
	if !ok {
		return models.Transaction{}, false
	}
	return models.Transaction{
		Date:       date,
		Amount:     amount.Round(2),
		Note:       truncate(strings.TrimSpace(text(row.Note)), maxNoteLength),
		TypeID:     typeID,
		CategoryID: catID,
	}, true
}

// SerialToDate 表格日期序列号转日历日，44927 对应 2023-01-01
func SerialToDate(serial float64) time.Time {
	secs := (serial - excelEpochOffset) * 86400
	t := time.Unix(int64(math.Floor(secs)), 0).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate 数字按序列号转换，文本按常见格式解析
func ParseDate(v any) (time.Time, bool) {
	if f, ok := number(v); ok {
		return SerialToDate(f), true
	}
	switch d := v.(type) {
	case time.Time:
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), true
	case string:
		s := strings.TrimSpace(d)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
			}
		}
	}
	return time.Time{}, false
}

// ParseAmount 返回金额绝对值，方向由类型类别决定
func ParseAmount(v any) (decimal.Decimal, bool) {
	if f, ok := number(v); ok {
		return decimal.NewFromFloat(f).Abs(), true
	}
	s, ok := v.(string)
	if !ok {
		return decimal.Decimal{}, false
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	switch {
	case strings.Contains(s, ",") && strings.Contains(s, "."):
		s = strings.ReplaceAll(s, ",", "")
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d.Abs(), true
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func text(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	}
	if f, ok := number(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
