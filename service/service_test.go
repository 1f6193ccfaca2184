package service

import (
	"context"
	"testing"
	"time"

	"fintrack/models"
	"fintrack/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

// catID 按名称查找可见类别
func catID(t *testing.T, st store.Store, userID uint, taxonomy models.Taxonomy, name string) uint {
	t.Helper()
	cats, err := st.ListCategories(context.Background(), userID, taxonomy)
	require.NoError(t, err)
	for _, c := range cats {
		if c.Name == name {
			return c.ID
		}
	}
	t.Fatalf("category %s/%s not found", taxonomy, name)
	return 0
}

func addTx(t *testing.T, st store.Store, userID uint, date string, amount string, typeName, catName string) models.Transaction {
	t.Helper()
	d, err := time.Parse(models.DateLayout, date)
	require.NoError(t, err)
	tx := models.Transaction{
		UserID:     userID,
		Date:       d,
		Amount:     decimal.RequireFromString(amount),
		TypeID:     catID(t, st, userID, models.TaxonomyType, typeName),
		CategoryID: catID(t, st, userID, models.TaxonomySource, catName),
	}
	require.NoError(t, st.CreateTransaction(context.Background(), &tx))
	return tx
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}
