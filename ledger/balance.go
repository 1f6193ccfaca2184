package ledger

import (
	"time"

	"fintrack/models"

	"github.com/shopspring/decimal"
)

// LiveBalance 快照余额加上快照之后录入的交易
// 只看录入时间 created_at，与交易日期无关；snapshotAt 为空时直接返回快照
func LiveBalance(snapshot decimal.Decimal, snapshotAt *time.Time, txs []models.Transaction) decimal.Decimal {
	if snapshotAt == nil {
		return snapshot
	}
	balance := snapshot
	for _, tx := range txs {
		if !tx.CreatedAt.After(*snapshotAt) {
			continue
		}
		switch tx.Role() {
		case models.RoleIncome:
			balance = balance.Add(tx.Amount)
		case models.RoleExpense, models.RoleSettlement:
			balance = balance.Sub(tx.Amount)
		}
	}
	return balance
}

// Balance 仪表盘中的余额部分
type Balance struct {
	InitialBalance   decimal.Decimal `json:"initial_balance"`
	BalanceUpdatedAt *time.Time      `json:"balance_updated_at"`
	LiveBalance      decimal.Decimal `json:"live_balance"`
}

// Dashboard 仪表盘数据
type Dashboard struct {
	Currency   string          `json:"currency"`
	Totals     Totals          `json:"totals"`
	Net        decimal.Decimal `json:"net"`
	Monthly    []MonthPoint    `json:"monthly"`
	Categories []CategoryTotal `json:"categories"`
	Balance    Balance         `json:"balance"`
}

// DashboardInput 组装仪表盘所需的全部数据
type DashboardInput struct {
	Now           time.Time
	Window        []models.Transaction // WindowStart(Now) 之后的交易
	Sources       []models.Category    // 全部可见来源类别
	Profile       models.Profile
	SinceSnapshot []models.Transaction // 录入时间晚于快照的交易
}

// BuildDashboard 汇总仪表盘
func BuildDashboard(in DashboardInput) Dashboard {
	totals := Summarize(in.Window)
	return Dashboard{
		Currency:   in.Profile.Currency,
		Totals:     totals,
		Net:        totals.Net(),
		Monthly:    MonthlySeries(in.Window, in.Now),
		Categories: ExpenseBreakdown(in.Window, in.Sources),
		Balance: Balance{
			InitialBalance:   in.Profile.InitialBalance,
			BalanceUpdatedAt: in.Profile.BalanceUpdatedAt,
			LiveBalance:      LiveBalance(in.Profile.InitialBalance, in.Profile.BalanceUpdatedAt, in.SinceSnapshot),
		},
	}
}
