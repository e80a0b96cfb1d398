package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nao1215/taskpush/pkg/httpclient"
)

// contextKeyRequestID はGinコンテキストにリクエストIDを格納するキー。
const contextKeyRequestID = "request_id"

// RequestID はリクエストIDを設定するGinミドルウェアを返す。
// 受信したX-Request-IDがあれば引き継ぎ、なければUUIDを採番する。
// IDはレスポンスヘッダーとリクエストコンテキストにも設定し、外部への送信に伝播させる。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(httpclient.HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(contextKeyRequestID, requestID)
		c.Header(httpclient.HeaderRequestID, requestID)
		c.Request = c.Request.WithContext(httpclient.WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

// GetRequestID はGinコンテキストからリクエストIDを取得する。
// RequestIDミドルウェアが事前に適用されている必要がある。
func GetRequestID(c *gin.Context) string {
	return c.GetString(contextKeyRequestID)
}
