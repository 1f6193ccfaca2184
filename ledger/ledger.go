// Package ledger 汇总与余额计算，纯函数，不访问存储。
package ledger

import (
	"time"

	"fintrack/models"

	"github.com/shopspring/decimal"
)

const (
	// WindowMonths 仪表盘统计月数（含当月）
	WindowMonths = 12
	// MonthLabelLayout 月份标签格式，如 "Jan 2024"
	MonthLabelLayout = "Jan 2006"
)

// Totals 按角色汇总的金额
type Totals struct {
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
	Loan       decimal.Decimal `json:"loan"`
	Settlement decimal.Decimal `json:"settlement"`
}

// Net 收入减支出
func (t Totals) Net() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

// Summarize 按类型类别角色累加，角色为 none 的交易不计入任何一项
func Summarize(txs []models.Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch tx.Role() {
		case models.RoleIncome:
			t.Income = t.Income.Add(tx.Amount)
		case models.RoleExpense:
			t.Expense = t.Expense.Add(tx.Amount)
		case models.RoleLoan:
			t.Loan = t.Loan.Add(tx.Amount)
		case models.RoleSettlement:
			t.Settlement = t.Settlement.Add(tx.Amount)
		}
	}
	return t
}

// WindowStart 统计窗口起点：11 个月前那个月的 1 号（UTC 零点）
func WindowStart(now time.Time) time.Time {
	y, m, _ := now.Date()
	return time.Date(y, m-(WindowMonths-1), 1, 0, 0, 0, 0, time.UTC)
}

// MonthPoint 单月收支
type MonthPoint struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

type monthKey struct {
	year  int
	month time.Month
}

// MonthlySeries 固定返回 12 个月，按时间先后排列，窗口外的交易忽略
func MonthlySeries(txs []models.Transaction, now time.Time) []MonthPoint {
	start := WindowStart(now)
	points := make([]MonthPoint, WindowMonths)
	index := make(map[monthKey]int, WindowMonths)
	for i := range points {
		m := start.AddDate(0, i, 0)
		points[i] = MonthPoint{Month: m.Format(MonthLabelLayout)}
		index[monthKey{m.Year(), m.Month()}] = i
	}

	for _, tx := range txs {
		i, ok := index[monthKey{tx.Date.Year(), tx.Date.Month()}]
		if !ok {
			continue
		}
		switch tx.Role() {
		case models.RoleIncome:
			points[i].Income = points[i].Income.Add(tx.Amount)
		case models.RoleExpense:
			points[i].Expense = points[i].Expense.Add(tx.Amount)
		}
	}
	return points
}

// CategoryTotal 单个来源类别的支出合计
type CategoryTotal struct {
	CategoryID   uint            `json:"category_id"`
	Category     string          `json:"category"`
	TotalExpense decimal.Decimal `json:"total_expense"`
}

// ExpenseBreakdown 每个已知来源类别一项，初始为 0；不在已知列表中的来源类别被丢弃
func ExpenseBreakdown(txs []models.Transaction, sources []models.Category) []CategoryTotal {
	out := make([]CategoryTotal, len(sources))
	index := make(map[uint]int, len(sources))
	for i, c := range sources {
		out[i] = CategoryTotal{CategoryID: c.ID, Category: c.Name}
		index[c.ID] = i
	}
	for _, tx := range txs {
		if tx.Role() != models.RoleExpense {
			continue
		}
		if i, ok := index[tx.CategoryID]; ok {
			out[i].TotalExpense = out[i].TotalExpense.Add(tx.Amount)
		}
	}
	return out
}

// PeriodTotals 报表区间汇总
type PeriodTotals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// Period 与 Summarize 使用相同的角色规则
func Period(txs []models.Transaction) PeriodTotals {
	t := Summarize(txs)
	return PeriodTotals{Income: t.Income, Expense: t.Expense, Net: t.Net()}
}
