package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"bajeti/config"
	"bajeti/database"
	"bajeti/logger"
	"bajeti/middleware"
	"bajeti/router"
)

// @title 个人记账 API
// @version 1.0
// @description 收支分类、交易记录、偏好设置、汇总统计与导出
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const version = "v1.0.0"

var (
	configFile  string
	port        string
	showVersion bool
	tokenFor    string
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 8080 或 :8080")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
	flag.StringVar(&tokenFor, "token", "", "为指定用户 ID 签发开发用 JWT 并退出")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Println("bajeti", version)
		return
	}

	// 加载配置（内置配置 + 可选的外部配置覆盖）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		slog.Error("加载配置失败", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	slog.SetDefault(log)

	// 命令行参数覆盖端口配置
	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Info("命令行指定端口", "port", port)
	}

	middleware.InitJWT(cfg)

	if tokenFor != "" {
		token, err := middleware.GenerateToken(tokenFor, cfg.Auth.TokenTTL)
		if err != nil {
			log.Error("签发令牌失败", "error", err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	config.PrintConfig(log)

	// 初始化数据库
	if err := database.Init(cfg); err != nil {
		log.Error("数据库初始化失败", "error", err)
		os.Exit(1)
	}

	verifier, err := newVerifier(cfg)
	if err != nil {
		log.Error("认证初始化失败", "error", err)
		os.Exit(1)
	}

	r := router.SetupRouter(cfg, database.GetDB(), verifier, log)

	log.Info("服务已启动",
		"version", version,
		"addr", cfg.Server.Port,
		"swagger", fmt.Sprintf("http://localhost%s/swagger/index.html", cfg.Server.Port),
	)
	if err := r.Run(cfg.Server.Port); err != nil {
		log.Error("服务器启动失败", "error", err)
		os.Exit(1)
	}
}

func newVerifier(cfg *config.Config) (middleware.TokenVerifier, error) {
	if cfg.Auth.Provider == config.ProviderFirebase {
		return middleware.NewFirebaseVerifier(context.Background())
	}
	return middleware.JWTVerifier{}, nil
}
