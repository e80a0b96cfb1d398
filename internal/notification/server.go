package notification

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nao1215/taskpush/internal/config"
	"github.com/nao1215/taskpush/internal/dispatch"
	"github.com/nao1215/taskpush/pkg/metrics"
	"github.com/nao1215/taskpush/pkg/middleware"
)

// Server は通知サービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// dispatcher は通知の送信と結果の集計を行う。
	dispatcher *dispatch.Dispatcher
	// metrics は/metricsで公開するメトリクス。
	metrics *metrics.Metrics
	// logger はリクエストに紐づかないログの出力先。
	logger zerolog.Logger
	// jwtSecret はBearerトークン検証用の秘密鍵。空の場合は検証しない。
	jwtSecret string
	// shutdownTimeout はグレースフルシャットダウンの待機時間。
	shutdownTimeout time.Duration
}

// NewServer は新しい通知サーバーを生成する。
// dispatcherとmetricsは起動時に1つだけ生成し、全リクエストで共有する。
func NewServer(cfg *config.Config, dispatcher *dispatch.Dispatcher, m *metrics.Metrics, logger zerolog.Logger) *Server {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(logger))
	router.Use(middleware.Recovery(logger))

	s := &Server{
		router:          router,
		port:            cfg.Port,
		dispatcher:      dispatcher,
		metrics:         m,
		logger:          logger,
		jwtSecret:       cfg.JWTSecret,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
	s.setupRoutes()

	return s
}

// Handler はサーバーのHTTPハンドラを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run はHTTPサーバーを起動し、ctxがキャンセルされるとグレースフルシャットダウンする。
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.logger.Info().Str("addr", srv.Addr).Msgf("通知サービスを起動します: %s", srv.Addr)

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTPサーバーの起動に失敗: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTPサーバーの停止に失敗: %w", err)
	}
	s.logger.Info().Msg("通知サービスを停止しました")
	return nil
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	api := s.router.Group("")
	if s.jwtSecret != "" {
		api.Use(middleware.BearerAuth(s.jwtSecret))
	}
	{
		// リマインダー通知
		api.POST("/notificationReminder", s.handleNotification(dispatch.KindReminder))
		// タスク操作の通知
		api.POST("/notificationAction", s.handleNotification(dispatch.KindAction))
		// アサイン通知
		api.POST("/notificationAssign", s.handleNotification(dispatch.KindAssign))
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "notification"})
	})
	// Prometheusメトリクス
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
}

// notificationRequest は通知リクエストのJSON構造。
// 通知の種類によって使わない項目は無視する。
type notificationRequest struct {
	// TaskID はタスクの識別子。
	TaskID string `json:"taskId"`
	// TaskName はタスクの表示名。
	TaskName string `json:"taskName"`
	// Actor は操作を行ったユーザーの表示名（Action/Assign）。
	Actor string `json:"actor"`
	// Action はタスクに対する操作（Action）。
	Action string `json:"action"`
	// Tokens は送信先デバイストークン。
	Tokens []string `json:"tokens"`
}

// toDispatchRequest はJSONリクエストを送信リクエストに変換する。
func (r notificationRequest) toDispatchRequest(kind dispatch.Kind) dispatch.Request {
	return dispatch.Request{
		Kind:     kind,
		TaskID:   r.TaskID,
		TaskName: r.TaskName,
		Actor:    r.Actor,
		Action:   dispatch.Action(r.Action),
		Tokens:   r.Tokens,
	}
}

// handleNotification は指定された種類の通知を送信するハンドラ。
//
// トークンが空の場合は何も送信せず、ボディなしの200を返す。
// トークン単位の失敗はレスポンスボディで報告し、ステータスは常に200とする。
// Gateway呼び出し自体が失敗した場合はボディなしの500を返す。
func (s *Server) handleNotification(kind dispatch.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := s.requestLogger(c)
		logger.Info().Str("kind", string(kind)).Msgf("通知ペイロードを受信しました (%s)", kind)

		var req notificationRequest
		// 空のボディは{}として扱う
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		result, err := s.dispatcher.Dispatch(c.Request.Context(), req.toDispatchRequest(kind))
		switch {
		case errors.Is(err, dispatch.ErrNoTokens):
			c.Status(http.StatusOK)
			return
		case err != nil:
			logger.Error().Err(err).Str("kind", string(kind)).Msg("通知の送信に失敗しました")
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// requestLogger はAccessLogミドルウェアが設定したロガーを返す。
func (s *Server) requestLogger(c *gin.Context) *zerolog.Logger {
	if l := zerolog.Ctx(c.Request.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.logger
}
