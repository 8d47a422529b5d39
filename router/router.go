package router

import (
	"log/slog"
	"net/http"
	"time"

	"bajeti/api"
	"bajeti/config"
	_ "bajeti/docs"
	"bajeti/middleware"
	"bajeti/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, db *gorm.DB, verifier middleware.TokenVerifier, log *slog.Logger) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)
	api.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(CORSMiddleware(cfg.Server.CORSOrigins))

	// 健康检查
	r.GET("/health", api.NewHealthHandler(db).Check)

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	categorySvc := service.NewCategoryService(db)
	transactionSvc := service.NewTransactionService(db)
	settingsSvc := service.NewSettingsService(db)

	// 需要认证的路由
	authorized := r.Group("/api")
	authorized.Use(middleware.Auth(verifier))
	if cfg.Server.WriteRateLimit > 0 {
		authorized.Use(middleware.WriteMethodsOnly(middleware.RateLimit(cfg.Server.WriteRateLimit, time.Minute)))
	}
	{
		categoryHandler := api.NewCategoryHandler(categorySvc)
		categories := authorized.Group("/categories")
		{
			categories.GET("", categoryHandler.List)
			categories.POST("", categoryHandler.Create)
			categories.PATCH("/:id", categoryHandler.Update)
			categories.DELETE("/:id", categoryHandler.Delete)
		}

		transactionHandler := api.NewTransactionHandler(transactionSvc)
		transactions := authorized.Group("/transactions")
		{
			transactions.GET("", transactionHandler.List)
			transactions.POST("", transactionHandler.Create)
			transactions.GET("/:id", transactionHandler.Get)
			transactions.PATCH("/:id", transactionHandler.Update)
			transactions.DELETE("/:id", transactionHandler.Delete)
		}

		settingsHandler := api.NewSettingsHandler(settingsSvc)
		authorized.GET("/settings", settingsHandler.Get)
		authorized.PATCH("/settings", settingsHandler.Patch)

		authorized.GET("/summary", api.NewSummaryHandler(categorySvc, transactionSvc).Get)

		// 导出相关
		exportHandler := api.NewExportHandler(categorySvc, transactionSvc, settingsSvc)
		export := authorized.Group("/export")
		{
			export.GET("/csv", exportHandler.ExportCSV)
			export.GET("/xlsx", exportHandler.ExportExcel)
		}
	}

	return r
}

// CORSMiddleware CORS 跨域中间件，origins 含 "*" 时放行所有来源
func CORSMiddleware(origins []string) gin.HandlerFunc {
	allowAll := false
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case allowAll:
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && allowed[origin]:
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Add("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
