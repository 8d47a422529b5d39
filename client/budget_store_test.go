package client

import (
	"context"
	"testing"
	"time"

	"bajeti/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetStore(t *testing.T) {
	c, _ := newTestServer(t)
	ctx := context.Background()
	s := NewBudgetStore(c)

	require.NoError(t, s.Load(ctx))
	assert.True(t, s.Loaded())
	assert.Len(t, s.Categories(), len(models.DefaultCategories))
	assert.Empty(t, s.Transactions())

	food, err := s.AddCategory(ctx, CategoryInput{Name: "Groceries", Type: models.TypeExpense})
	require.NoError(t, err)
	snacks, err := s.AddCategory(ctx, CategoryInput{Name: "Snacks", Type: models.TypeExpense})
	require.NoError(t, err)
	assert.Equal(t, "Snacks", s.Categories()[len(s.Categories())-1].Name)
	assert.True(t, s.HasCategoryNamed(" groceries ", models.TypeExpense, ""))
	assert.False(t, s.HasCategoryNamed("groceries", models.TypeExpense, food.ID))
	assert.False(t, s.HasCategoryNamed("groceries", models.TypeIncome, ""))
	// 默认分类也参与重名判断
	assert.True(t, s.HasCategoryNamed("FOOD", models.TypeExpense, ""))

	first, err := s.AddTransaction(ctx, TransactionInput{Amount: dec("10"), CategoryID: food.ID, Date: "2025-03-01", Type: models.TypeExpense})
	require.NoError(t, err)
	second, err := s.AddTransaction(ctx, TransactionInput{Amount: dec("5"), CategoryID: food.ID, Date: "2025-03-02", Type: models.TypeExpense})
	require.NoError(t, err)
	txs := s.Transactions()
	require.Len(t, txs, 2)
	assert.Equal(t, second.ID, txs[0].ID)

	// 返回的是副本
	txs[0].Notes = "mutated"
	assert.Empty(t, s.Transactions()[0].Notes)

	_, err = s.UpdateTransaction(ctx, first.ID, TransactionInput{Amount: dec("12"), CategoryID: food.ID, Date: "2025-03-01", Notes: "lunch", Type: models.TypeExpense})
	require.NoError(t, err)
	assert.Equal(t, "lunch", s.Transactions()[1].Notes)

	renamed, err := s.UpdateCategory(ctx, food.ID, CategoryInput{Name: "Dining", Type: models.TypeExpense})
	require.NoError(t, err)
	got, ok := s.CategoryByID(food.ID)
	require.True(t, ok)
	assert.Equal(t, renamed.Name, got.Name)

	now := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "17", s.CurrentMonth(now).Expenses.String())
	byCat := s.ExpenseByCategory()
	require.Len(t, byCat, 1)
	assert.Equal(t, "Dining", byCat[0].Name)
	assert.Len(t, s.SpendingOverTime(now, 6), 6)
	assert.Equal(t, "2025-03", s.Report(now, 6).Month)

	// 迁移后重新拉取交易
	require.NoError(t, s.DeleteCategory(ctx, food.ID, &DeleteCategoryOptions{ReassignToCategoryID: snacks.ID}))
	for _, tx := range s.Transactions() {
		assert.Equal(t, snacks.ID, tx.CategoryID)
	}
	_, ok = s.CategoryByID(food.ID)
	assert.False(t, ok)

	require.NoError(t, s.DeleteTransaction(ctx, first.ID))
	assert.Len(t, s.Transactions(), 1)
}

func TestBudgetStore_DeleteCategoryConflictKeepsCache(t *testing.T) {
	c, _ := newTestServer(t)
	ctx := context.Background()
	s := NewBudgetStore(c)
	require.NoError(t, s.Load(ctx))

	cat, err := s.AddCategory(ctx, CategoryInput{Name: "Rent", Type: models.TypeExpense})
	require.NoError(t, err)
	_, err = s.AddTransaction(ctx, TransactionInput{Amount: dec("900"), CategoryID: cat.ID, Date: "2025-01-01", Type: models.TypeExpense})
	require.NoError(t, err)

	err = s.DeleteCategory(ctx, cat.ID, nil)
	require.Error(t, err)
	_, ok := s.CategoryByID(cat.ID)
	assert.True(t, ok)
	assert.Len(t, s.Transactions(), 1)
}
