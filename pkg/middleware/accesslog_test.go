package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// TestAccessLog はAccessLogミドルウェアを検証する。
func TestAccessLog(t *testing.T) {
	t.Parallel()

	t.Run("リクエストIDとステータスが記録されること", func(t *testing.T) {
		t.Parallel()

		var logs bytes.Buffer
		router := gin.New()
		router.Use(RequestID(), AccessLog(zerolog.New(&logs)))
		router.POST("/notificationReminder", func(c *gin.Context) {
			zerolog.Ctx(c.Request.Context()).Info().Msg("ハンドラ内のログ")
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodPost, "/notificationReminder", nil)
		req.Header.Set("X-Request-ID", "log-id")
		router.ServeHTTP(httptest.NewRecorder(), req)

		lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
		if len(lines) != 2 {
			t.Fatalf("ログ行数 = %d, want 2: %s", len(lines), logs.String())
		}
		for _, line := range lines {
			if !strings.Contains(line, `"request_id":"log-id"`) {
				t.Errorf("request_idがない: %s", line)
			}
		}
		if !strings.Contains(lines[1], `"status":200`) || !strings.Contains(lines[1], `"path":"/notificationReminder"`) {
			t.Errorf("アクセスログの内容が不正: %s", lines[1])
		}
	})

	t.Run("5xxはerrorレベルで記録されること", func(t *testing.T) {
		t.Parallel()

		var logs bytes.Buffer
		router := gin.New()
		router.Use(AccessLog(zerolog.New(&logs)))
		router.GET("/fail", func(c *gin.Context) {
			c.Status(http.StatusInternalServerError)
		})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

		if !strings.Contains(logs.String(), `"level":"error"`) {
			t.Errorf("errorレベルではない: %s", logs.String())
		}
	})
}
