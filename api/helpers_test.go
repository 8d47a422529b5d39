package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"bajeti/database"
	"bajeti/middleware"
	"bajeti/models"
	"bajeti/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testUser = "user-1"

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

// setUserIDMiddleware 模拟认证中间件，userID 为空时不设置
func setUserIDMiddleware(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.ContextUserIDKey, userID)
		}
		c.Next()
	}
}

// setupRouter 以真实 service + 内存库组装 /api 路由
func setupRouter(t *testing.T, db *gorm.DB, userID string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	RegisterValidators()

	cats := service.NewCategoryService(db)
	txs := service.NewTransactionService(db)
	settings := service.NewSettingsService(db)

	r := gin.New()
	g := r.Group("/api", setUserIDMiddleware(userID))

	ch := NewCategoryHandler(cats)
	g.GET("/categories", ch.List)
	g.POST("/categories", ch.Create)
	g.PATCH("/categories/:id", ch.Update)
	g.DELETE("/categories/:id", ch.Delete)

	th := NewTransactionHandler(txs)
	g.GET("/transactions", th.List)
	g.GET("/transactions/:id", th.Get)
	g.POST("/transactions", th.Create)
	g.PATCH("/transactions/:id", th.Update)
	g.DELETE("/transactions/:id", th.Delete)

	sh := NewSettingsHandler(settings)
	g.GET("/settings", sh.Get)
	g.PATCH("/settings", sh.Patch)

	g.GET("/summary", NewSummaryHandler(cats, txs).Get)

	eh := NewExportHandler(cats, txs, settings)
	g.GET("/export/csv", eh.ExportCSV)
	g.GET("/export/xlsx", eh.ExportExcel)
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body == "" {
		buf = new(bytes.Buffer)
	} else {
		buf = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, buf)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func mustCategory(t *testing.T, db *gorm.DB, userID, name, typ string) models.Category {
	t.Helper()
	c := models.Category{UserID: userID, Name: name, Type: typ}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func mustTransaction(t *testing.T, db *gorm.DB, userID string, cat models.Category, amount, date, notes string) models.Transaction {
	t.Helper()
	tx := models.Transaction{
		UserID:     userID,
		CategoryID: cat.ID,
		Amount:     decimal.RequireFromString(amount),
		Date:       date,
		Notes:      notes,
		Type:       cat.Type,
	}
	require.NoError(t, db.Create(&tx).Error)
	return tx
}
