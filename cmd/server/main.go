package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/config"
	"github.com/inkwell/internal/db"
	"github.com/inkwell/internal/router"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	gdb, err := db.Init(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	if err := db.EnsureSuperAdmin(gdb, cfg.SuperAdminName, cfg.SuperAdminEmail, cfg.SuperAdminPassword); err != nil {
		log.Fatalf("failed to ensure super admin: %v", err)
	}

	// 设置并运行 Gin 服务器
	r := router.Setup(gdb, cfg)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
