// 通知サービスのエントリポイント。
// タスクのリマインダー・操作・アサインのイベントを受け取り、
// プッシュ通知をマルチキャスト送信して配信結果を返す。
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nao1215/taskpush/internal/config"
	"github.com/nao1215/taskpush/internal/dispatch"
	"github.com/nao1215/taskpush/internal/gateway"
	"github.com/nao1215/taskpush/internal/notification"
	"github.com/nao1215/taskpush/pkg/logging"
	"github.com/nao1215/taskpush/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("ロガーの初期化に失敗: %v", err)
	}
	defer cleanup()
	logger = logger.With().Str("app", cfg.AppName).Logger()

	if logging.ParseLevel(cfg.LogLevel) != zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw, err := gateway.New(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Str("gateway", cfg.Gateway).Msg("Gatewayの初期化に失敗")
		os.Exit(1)
	}
	logger.Info().Str("gateway", cfg.Gateway).Msg("Gatewayを初期化しました")

	m := metrics.New()
	server := notification.NewServer(cfg, dispatch.NewDispatcher(gw, logger, m), m, logger)

	if err := server.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("通知サービスが異常終了しました")
		os.Exit(1)
	}
}
