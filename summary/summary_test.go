package summary

import (
	"testing"
	"time"

	"bajeti/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func tx(date, amount, typ, categoryID string) models.Transaction {
	return models.Transaction{Date: date, Amount: d(amount), Type: typ, CategoryID: categoryID}
}

func assertTotals(t *testing.T, want [3]string, got Totals) {
	t.Helper()
	assert.True(t, d(want[0]).Equal(got.Income), "income: want %s got %s", want[0], got.Income)
	assert.True(t, d(want[1]).Equal(got.Expenses), "expenses: want %s got %s", want[1], got.Expenses)
	assert.True(t, d(want[2]).Equal(got.Balance), "balance: want %s got %s", want[2], got.Balance)
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2025-01", MonthKey("2025-01-05"))
	assert.Equal(t, "2025", MonthKey("2025"))
}

func TestMonthTotals_Example(t *testing.T) {
	txs := []models.Transaction{
		tx("2025-01-05", "100", models.TypeIncome, ""),
		tx("2025-01-20", "-40", models.TypeExpense, ""),
		tx("2025-02-01", "-10", models.TypeExpense, ""),
	}
	got := MonthTotals(txs)
	require.Len(t, got, 2)
	assertTotals(t, [3]string{"100", "40", "60"}, got["2025-01"])
	assertTotals(t, [3]string{"0", "10", "-10"}, got["2025-02"])
}

func TestMonthTotals_UsesTypeNotSign(t *testing.T) {
	// 金额符号与类型不一致时以类型为准
	got := MonthTotals([]models.Transaction{
		tx("2025-03-01", "-25", models.TypeIncome, ""),
		tx("2025-03-02", "5", models.TypeExpense, ""),
	})
	assertTotals(t, [3]string{"25", "5", "20"}, got["2025-03"])
}

func TestMonthTotals_BalanceInvariant(t *testing.T) {
	txs := []models.Transaction{
		tx("2024-11-30", "1200.10", models.TypeIncome, ""),
		tx("2024-12-01", "-33.33", models.TypeExpense, ""),
		tx("2024-12-24", "-400", models.TypeExpense, ""),
		tx("2025-01-01", "50.05", models.TypeIncome, ""),
		tx("2025-01-15", "-0.01", models.TypeExpense, ""),
	}

	signed := decimal.Zero
	for _, x := range txs {
		if x.Type == models.TypeIncome {
			signed = signed.Add(x.Amount.Abs())
		} else {
			signed = signed.Sub(x.Amount.Abs())
		}
	}

	balances := decimal.Zero
	for key, m := range MonthTotals(txs) {
		assert.True(t, m.Income.Sub(m.Expenses).Equal(m.Balance), "month %s", key)
		balances = balances.Add(m.Balance)
	}
	assert.True(t, signed.Equal(balances))
	assert.True(t, signed.Equal(Overall(txs).Balance))
}

func TestCurrentMonth(t *testing.T) {
	now := time.Date(2025, 2, 14, 10, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		tx("2025-02-01", "-10", models.TypeExpense, ""),
		tx("2025-02-10", "300", models.TypeIncome, ""),
	}
	assertTotals(t, [3]string{"300", "10", "290"}, CurrentMonth(txs, now))

	empty := CurrentMonth(txs, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	assertTotals(t, [3]string{"0", "0", "0"}, empty)
	assertTotals(t, [3]string{"0", "0", "0"}, CurrentMonth(nil, now))
}

func TestExpenseByCategory(t *testing.T) {
	names := map[string]string{"food": "Food", "rent": "Rent", "salary": "Salary"}
	txs := []models.Transaction{
		tx("2025-01-01", "-10", models.TypeExpense, "food"),
		tx("2025-01-02", "-15.5", models.TypeExpense, "food"),
		tx("2025-01-03", "-800", models.TypeExpense, "rent"),
		tx("2025-01-04", "-7", models.TypeExpense, "gone"),
		tx("2025-01-05", "3000", models.TypeIncome, "salary"),
	}
	got := ExpenseByCategory(txs, names)
	require.Len(t, got, 3)
	assert.Equal(t, "Rent", got[0].Name)
	assert.True(t, d("800").Equal(got[0].Value))
	assert.Equal(t, "Food", got[1].Name)
	assert.True(t, d("25.5").Equal(got[1].Value))
	assert.Equal(t, OtherCategory, got[2].Name)
	assert.True(t, d("7").Equal(got[2].Value))

	assert.Empty(t, ExpenseByCategory(nil, names))
}

func TestSpendingOverTime(t *testing.T) {
	now := time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		tx("2024-10-03", "-20", models.TypeExpense, ""),
		tx("2025-02-01", "-10", models.TypeExpense, ""),
		tx("2025-02-02", "100", models.TypeIncome, ""),
		tx("2024-01-01", "-999", models.TypeExpense, ""),
	}

	got := SpendingOverTime(txs, now, 6)
	require.Len(t, got, 6)

	keys := make([]string, 0, len(got))
	for _, p := range got {
		keys = append(keys, p.Key)
	}
	assert.Equal(t, []string{"2024-09", "2024-10", "2024-11", "2024-12", "2025-01", "2025-02"}, keys)
	assert.Equal(t, "Sep 24", got[0].Month)
	assert.Equal(t, "Feb 25", got[5].Month)

	assert.True(t, got[0].Expenses.IsZero())
	assert.True(t, d("20").Equal(got[1].Expenses))
	assert.True(t, got[2].Income.IsZero())
	assert.True(t, d("10").Equal(got[5].Expenses))
	assert.True(t, d("100").Equal(got[5].Income))
}

func TestSpendingOverTime_AlwaysNEntries(t *testing.T) {
	now := time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC)
	for _, n := range []int{1, 3, 12, 24} {
		got := SpendingOverTime(nil, now, n)
		require.Len(t, got, n)
		assert.Equal(t, "2025-03", got[n-1].Key)
		for i := 1; i < len(got); i++ {
			assert.Less(t, got[i-1].Key, got[i].Key)
		}
	}
	assert.Len(t, SpendingOverTime(nil, now, 0), DefaultMonths)
}

func TestBuild(t *testing.T) {
	now := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	cats := []models.Category{{ID: "food", Name: "Food"}}
	txs := []models.Transaction{tx("2025-01-05", "-12", models.TypeExpense, "food")}

	r := Build(txs, cats, now, 3)
	assert.Equal(t, "2025-01", r.Month)
	assertTotals(t, [3]string{"0", "12", "-12"}, r.CurrentMonth)
	require.Len(t, r.ExpenseByCategory, 1)
	assert.Equal(t, "Food", r.ExpenseByCategory[0].Name)
	assert.Len(t, r.SpendingOverTime, 3)
	assert.Contains(t, r.MonthTotals, "2025-01")
}

func TestMonthBoundaryUsesUTC(t *testing.T) {
	// 东京 3 月 1 日凌晨仍是 UTC 的 2 月
	tokyo := time.FixedZone("JST", 9*3600)
	now := time.Date(2025, 3, 1, 2, 0, 0, 0, tokyo)
	txs := []models.Transaction{
		tx("2025-02-20", "-10", models.TypeExpense, ""),
		tx("2025-03-01", "-99", models.TypeExpense, ""),
	}

	assertTotals(t, [3]string{"0", "10", "-10"}, CurrentMonth(txs, now))

	points := SpendingOverTime(txs, now, 2)
	require.Len(t, points, 2)
	assert.Equal(t, "2025-01", points[0].Key)
	assert.Equal(t, "2025-02", points[1].Key)

	assert.Equal(t, "2025-02", Build(txs, nil, now, 2).Month)
}
