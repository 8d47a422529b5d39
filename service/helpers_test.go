package service

import (
	"context"
	"testing"

	"bajeti/database"
	"bajeti/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB 每个测试一个独立的内存库
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func mustCategory(t *testing.T, db *gorm.DB, userID, name, typ string) models.Category {
	t.Helper()
	c := models.Category{UserID: userID, Name: name, Type: typ}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func mustTransaction(t *testing.T, db *gorm.DB, tx models.Transaction) models.Transaction {
	t.Helper()
	if tx.Type == "" {
		tx.Type = models.TypeExpense
	}
	require.NoError(t, db.Create(&tx).Error)
	return tx
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ctx() context.Context {
	return context.Background()
}
