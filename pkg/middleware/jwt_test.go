package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testSecret はテスト用のJWTシークレット。
const testSecret = "test-secret-key-for-unit-tests"

// TestGenerateJWT はGenerateJWT関数を検証する。
func TestGenerateJWT(t *testing.T) {
	t.Parallel()

	t.Run("正常にJWTトークンを生成できること", func(t *testing.T) {
		t.Parallel()

		tokenStr, err := GenerateJWT(testSecret, "task-backend", time.Hour)
		if err != nil {
			t.Fatalf("GenerateJWT()でエラーが発生: %v", err)
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(_ *jwt.Token) (any, error) {
			return []byte(testSecret), nil
		})
		if err != nil || !token.Valid {
			t.Fatalf("トークンのパースに失敗: %v", err)
		}
		if claims.Subject != "task-backend" {
			t.Errorf("Subject = %q, want %q", claims.Subject, "task-backend")
		}
		if claims.Issuer != issuer {
			t.Errorf("Issuer = %q, want %q", claims.Issuer, issuer)
		}
		if token.Method.Alg() != "HS256" {
			t.Errorf("Alg = %q, want HS256", token.Method.Alg())
		}
	})

	t.Run("ttlが0以下の場合は24時間有効であること", func(t *testing.T) {
		t.Parallel()

		before := time.Now()
		tokenStr, err := GenerateJWT(testSecret, "task-backend", 0)
		if err != nil {
			t.Fatalf("GenerateJWT()でエラーが発生: %v", err)
		}

		claims := &jwt.RegisteredClaims{}
		if _, err := jwt.ParseWithClaims(tokenStr, claims, func(_ *jwt.Token) (any, error) {
			return []byte(testSecret), nil
		}); err != nil {
			t.Fatalf("トークンのパースに失敗: %v", err)
		}

		expected := before.Add(24 * time.Hour)
		// 有効期限が24時間後の前後1分以内であること
		if claims.ExpiresAt.Time.Before(expected.Add(-time.Minute)) || claims.ExpiresAt.Time.After(expected.Add(time.Minute)) {
			t.Errorf("ExpiresAt = %v, want about %v", claims.ExpiresAt.Time, expected)
		}
	})

	t.Run("秘密鍵が空の場合はエラー", func(t *testing.T) {
		t.Parallel()

		if _, err := GenerateJWT("", "task-backend", time.Hour); err == nil {
			t.Fatal("GenerateJWT()がエラーを返すべきだが、nilが返った")
		}
	})
}

// TestBearerAuth はBearerAuthミドルウェアを検証する。
func TestBearerAuth(t *testing.T) {
	t.Parallel()

	newRouter := func() *gin.Engine {
		router := gin.New()
		router.Use(BearerAuth(testSecret))
		router.POST("/notificationAssign", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"subject": GetSubject(c)})
		})
		return router
	}

	do := func(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/notificationAssign", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("有効なトークンで通過しsubjectが設定されること", func(t *testing.T) {
		t.Parallel()

		tokenStr, err := GenerateJWT(testSecret, "task-backend", time.Hour)
		if err != nil {
			t.Fatalf("GenerateJWT()でエラーが発生: %v", err)
		}

		w := do(newRouter(), "Bearer "+tokenStr)
		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}

		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("レスポンスボディのパースに失敗: %v", err)
		}
		if body["subject"] != "task-backend" {
			t.Errorf("subject = %q, want task-backend", body["subject"])
		}
	})

	t.Run("Authorizationヘッダーがない場合は401", func(t *testing.T) {
		t.Parallel()

		if w := do(newRouter(), ""); w.Code != http.StatusUnauthorized {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("Bearer形式でない場合は401", func(t *testing.T) {
		t.Parallel()

		if w := do(newRouter(), "Basic dXNlcjpwYXNz"); w.Code != http.StatusUnauthorized {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("別の秘密鍵で署名されたトークンは401", func(t *testing.T) {
		t.Parallel()

		tokenStr, err := GenerateJWT("other-secret", "task-backend", time.Hour)
		if err != nil {
			t.Fatalf("GenerateJWT()でエラーが発生: %v", err)
		}
		if w := do(newRouter(), "Bearer "+tokenStr); w.Code != http.StatusUnauthorized {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("期限切れのトークンは401", func(t *testing.T) {
		t.Parallel()

		claims := jwt.RegisteredClaims{
			Subject:   "task-backend",
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		}
		tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		if err != nil {
			t.Fatalf("トークンの署名に失敗: %v", err)
		}
		if w := do(newRouter(), "Bearer "+tokenStr); w.Code != http.StatusUnauthorized {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("発行者が異なるトークンは401", func(t *testing.T) {
		t.Parallel()

		claims := jwt.RegisteredClaims{
			Subject:   "task-backend",
			Issuer:    "other-service",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		if err != nil {
			t.Fatalf("トークンの署名に失敗: %v", err)
		}
		if w := do(newRouter(), "Bearer "+tokenStr); w.Code != http.StatusUnauthorized {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})
}
