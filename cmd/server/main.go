package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/habitlog/internal/config"
	"github.com/habitlog/internal/handler"
	"github.com/habitlog/internal/router"
	"github.com/habitlog/internal/service"
	"github.com/habitlog/internal/storage"
	"github.com/habitlog/internal/store"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 按配置选择持久化后端
	var backend storage.Backend
	var err error
	switch cfg.StorageBackend {
	case "sqlite":
		backend, err = storage.NewSQLiteBackend(cfg.DatabasePath)
	default:
		backend, err = storage.NewFileBackend(cfg.DataPath)
	}
	if err != nil {
		log.Fatalf("failed to open storage backend: %v", err)
	}

	// 会话启动时恢复快照
	tracker := service.NewTrackerService(store.NewStore(), backend)
	if err := tracker.Load(); err != nil {
		log.Fatalf("failed to load snapshot: %v", err)
	}

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(handler.NewAPI(tracker), cfg.SessionSecret)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
