package main

import (
	"context"
	"flag"
	"log"

	"go-acquire/config"
	"go-acquire/controller"
	"go-acquire/repository"
	"go-acquire/router"
	"go-acquire/service"
	"go-acquire/utils"
	"go-acquire/ws"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "YAML 配置文件路径")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	logger, err := cfg.Log.Build()
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	opts := []service.ManagerOption{}

	rdb, err := repository.NewRedis(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 不可用，对局不会持久化", zap.Error(err))
	} else {
		defer rdb.Close()
		opts = append(opts, service.WithSnapshots(repository.NewSnapshotStore(rdb, cfg.Redis.SnapshotTTL)))
	}

	if cfg.Archive.Driver != "" {
		archive, err := repository.OpenResultArchive(ctx, cfg.Archive.Driver, cfg.Archive.DSN)
		if err != nil {
			logger.Fatal("打开归档库失败", zap.String("driver", cfg.Archive.Driver), zap.Error(err))
		}
		defer archive.Close()
		opts = append(opts, service.WithArchive(archive))
	}

	manager := service.NewManager(logger, opts...)
	if _, err := manager.Restore(ctx); err != nil {
		logger.Warn("恢复对局失败", zap.Error(err))
	}

	hub := ws.NewHub(manager, logger)
	manager.SetNotifier(hub)

	issuer := utils.NewTokenIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	r := router.New(cfg, controller.NewHandler(manager, issuer, logger), hub, issuer)

	logger.Info("服务启动", zap.String("addr", cfg.Server.Addr))
	if err := r.Run(cfg.Server.Addr); err != nil {
		logger.Fatal("服务退出", zap.Error(err))
	}
}
