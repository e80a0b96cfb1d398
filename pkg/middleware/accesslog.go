package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AccessLog はzerologでアクセスログを出力するGinミドルウェアを返す。
// リクエストIDを付与したロガーをリクエストコンテキストに設定するため、
// 後続の処理はzerolog.Ctxで同じIDのログを出力できる。
func AccessLog(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()

		reqLogger := logger.With().Str("request_id", GetRequestID(c)).Logger()
		c.Request = c.Request.WithContext(reqLogger.WithContext(c.Request.Context()))

		c.Next()

		status := c.Writer.Status()
		event := reqLogger.Info()
		if status >= 500 {
			event = reqLogger.Error()
		} else if status >= 400 {
			event = reqLogger.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Int("size", c.Writer.Size()).
			Dur("latency", time.Since(started)).
			Msg("リクエストを処理しました")
	}
}
