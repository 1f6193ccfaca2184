package api

import (
	"testing"
	"time"

	"fintrack/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amountOf(t *testing.T, v any) decimal.Decimal {
	t.Helper()
	s, ok := v.(string)
	require.True(t, ok, "amount %v is not a string", v)
	return decimal.RequireFromString(s)
}

func TestProfileHandler_GetDefaults(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "alice")

	w := env.do(t, "GET", "/api/v1/profile", token, nil)
	require.Equal(t, 200, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "£", data["currency"])
	assert.True(t, amountOf(t, data["initial_balance"]).IsZero())
	assert.Nil(t, data["balance_updated_at"])
}

func TestProfileHandler_Update(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "alice")

	w := env.do(t, "PUT", "/api/v1/profile", token, map[string]string{
		"currency":        " $ ",
		"initial_balance": "1500.456",
	})
	require.Equal(t, 200, w.Code, w.Body.String())
	resp := decode(t, w)
	assert.Equal(t, "Settings saved", resp["message"])
	data := resp["data"].(map[string]any)
	assert.Equal(t, "$", data["currency"])
	assert.True(t, decimal.RequireFromString("1500.46").Equal(amountOf(t, data["initial_balance"])))
	assert.NotNil(t, data["balance_updated_at"])

	// 会话中的币种同步更新
	w = env.do(t, "GET", "/api/v1/auth/session", token, nil)
	require.Equal(t, 200, w.Code)
	assert.Equal(t, "$", decode(t, w)["data"].(map[string]any)["currency"])
}

func TestProfileHandler_Update_Invalid(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "alice")

	w := env.do(t, "PUT", "/api/v1/profile", token, map[string]string{"currency": "", "initial_balance": "10"})
	assert.Equal(t, 400, w.Code)

	w = env.do(t, "PUT", "/api/v1/profile", token, map[string]string{"currency": "DOLLARS", "initial_balance": "10"})
	assert.Equal(t, 400, w.Code)
}

func TestDashboardHandler_Get(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "alice")
	today := time.Now().UTC().Format(models.DateLayout)
	env.addTx(t, token, today, "Income", "Salary", "1000")
	env.addTx(t, token, today, "Expense", "Groceries", "150")
	env.addTx(t, token, today, "Expense", "Rent", "50")

	w := env.do(t, "GET", "/api/v1/dashboard", token, nil)
	require.Equal(t, 200, w.Code, w.Body.String())
	data := decode(t, w)["data"].(map[string]any)

	totals := data["totals"].(map[string]any)
	assert.True(t, decimal.NewFromInt(1000).Equal(amountOf(t, totals["income"])))
	assert.True(t, decimal.NewFromInt(200).Equal(amountOf(t, totals["expense"])))
	assert.True(t, decimal.NewFromInt(800).Equal(amountOf(t, data["net"])))
	assert.Equal(t, "£", data["currency"])
	assert.Len(t, data["monthly"].([]any), 12)

	spent := map[string]decimal.Decimal{}
	for _, item := range data["categories"].([]any) {
		c := item.(map[string]any)
		spent[c["category"].(string)] = amountOf(t, c["total_expense"])
	}
	assert.Len(t, spent, 8)
	assert.True(t, decimal.NewFromInt(150).Equal(spent["Groceries"]))
	assert.True(t, decimal.NewFromInt(50).Equal(spent["Rent"]))
	assert.True(t, spent["Salary"].IsZero())
}

func TestDashboardHandler_Get_Empty(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "alice")

	w := env.do(t, "GET", "/api/v1/dashboard", token, nil)
	require.Equal(t, 200, w.Code, w.Body.String())
	data := decode(t, w)["data"].(map[string]any)
	assert.True(t, amountOf(t, data["net"]).IsZero())
}
