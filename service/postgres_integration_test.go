//go:build integration

package service

import (
	"context"
	"testing"
	"time"

	"bajeti/database"
	"bajeti/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 运行: go test -tags integration ./service/...
func openPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	ctr, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("bajeti"),
		postgres.WithUsername("bajeti"),
		postgres.WithPassword("bajeti"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(ctx) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(pgdriver.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestPostgres_QueryAndReassign(t *testing.T) {
	db := openPostgres(t)
	from := mustCategory(t, db, "u1", "Eating out", models.TypeExpense)
	to := mustCategory(t, db, "u1", "Food", models.TypeExpense)
	for _, day := range []string{"05", "10", "15", "20", "25"} {
		mustTransaction(t, db, models.Transaction{ID: "id" + day, UserID: "u1", CategoryID: from.ID, Amount: amount("-1.25"), Date: "2025-01-" + day, Notes: "Lunch"})
	}

	txSvc := NewTransactionService(db)
	page, err := txSvc.Query(ctx(), "u1", TransactionFilter{Limit: 2, Paginate: true, Search: "LUN"})
	require.NoError(t, err)
	assert.Equal(t, []string{"id25", "id20"}, ids(page.Transactions))
	require.NotNil(t, page.NextCursor)
	assert.Equal(t, "2025-01-20|id20", *page.NextCursor)

	catSvc := NewCategoryService(db)
	var conflict *ConflictError
	require.ErrorAs(t, catSvc.Delete(ctx(), "u1", from.ID, DeleteCategoryOptions{}), &conflict)
	assert.Equal(t, int64(5), conflict.TransactionCount)

	require.NoError(t, catSvc.Delete(ctx(), "u1", from.ID, DeleteCategoryOptions{ReassignToCategoryID: to.ID}))
	assert.Equal(t, int64(0), countByCategory(t, db, from.ID))
	assert.True(t, amount("-6.25").Equal(sumByCategory(t, db, to.ID)))

	st, err := NewSettingsService(db).Patch(ctx(), "u1", SettingsPatch{Currency: strPtr("KES")})
	require.NoError(t, err)
	assert.Equal(t, "KES", st.Currency)
}
