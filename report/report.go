// Package report 生成区间报表及其 Excel / CSV / PDF 文件。
package report

import (
	"time"

	"fintrack/ledger"
	"fintrack/models"
)

// Headers 导出文件的列
var Headers = []string{"Date", "Type", "Category", "Amount", "Note"}

const (
	// SheetTransactions 全量导出的工作表名
	SheetTransactions = "Transactions"
	// SheetReport 区间报表的工作表名
	SheetReport = "Report"
)

// Report 区间报表
type Report struct {
	Start        time.Time            `json:"-"`
	End          time.Time            `json:"-"`
	Currency     string               `json:"currency"`
	Totals       ledger.PeriodTotals  `json:"totals"`
	Transactions []models.Transaction `json:"transactions"`
}

// New 计算区间汇总
func New(start, end time.Time, currency string, txs []models.Transaction) Report {
	return Report{
		Start:        start,
		End:          end,
		Currency:     currency,
		Totals:       ledger.Period(txs),
		Transactions: txs,
	}
}

// Period 形如 "2024-03-01 to 2024-03-31"
func (r Report) Period() string {
	return r.Start.Format(models.DateLayout) + " to " + r.End.Format(models.DateLayout)
}

// MonthRange 当月第一天到最后一天，按 UTC 日历日返回，与交易日期的存储方式一致
func MonthRange(now time.Time) (time.Time, time.Time) {
	y, m, _ := now.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

func record(tx models.Transaction) []string {
	return []string{
		tx.Date.Format(models.DateLayout),
		tx.TypeName(),
		tx.CategoryName(),
		tx.Amount.StringFixed(2),
		tx.Note,
	}
}
