// Package config は環境変数から通知サービスの設定を読み込む。
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Gatewayの種類。
const (
	// GatewayFirebase はFirebase Admin SDKで直接送信する。
	GatewayFirebase = "firebase"
	// GatewayRelay はHTTPのプッシュ配信リレー経由で送信する。
	GatewayRelay = "relay"
)

// Config は通知サービスの設定。
type Config struct {
	// AppName はログに出力するアプリケーション名。
	AppName string
	// Port はHTTPサーバーのリッスンポート。
	Port string
	// LogLevel はログレベル（debug, info, warn, error）。
	LogLevel string
	// LogFile はログの出力先ファイル。空の場合は標準出力のみ。
	LogFile string
	// Gateway は使用するDelivery Gatewayの種類。
	Gateway string
	// FirebaseProjectID はFirebaseのプロジェクトID。空の場合は認証情報から推定する。
	FirebaseProjectID string
	// FirebaseCredentialsFile はサービスアカウント鍵のパス。空の場合はADCを使う。
	FirebaseCredentialsFile string
	// RelayURL はプッシュ配信リレーのベースURL。
	RelayURL string
	// RelayAPIKey はプッシュ配信リレーのAPIキー。
	RelayAPIKey string
	// GatewayTimeout はGateway呼び出しのタイムアウト。
	GatewayTimeout time.Duration
	// ShutdownTimeout はグレースフルシャットダウンの待機時間。
	ShutdownTimeout time.Duration
	// JWTSecret は受信リクエストのBearerトークン検証に使う秘密鍵。空の場合は検証しない。
	JWTSecret string
}

// Load は環境変数（および存在すれば.env）から設定を読み込み、検証する。
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppName:                 getEnv("APP_NAME", "taskpush"),
		Port:                    getEnv("PORT", "8080"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogFile:                 getEnv("LOG_FILE", ""),
		Gateway:                 strings.ToLower(getEnv("GATEWAY", GatewayFirebase)),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		RelayURL:                strings.TrimRight(getEnv("RELAY_URL", ""), "/"),
		RelayAPIKey:             getEnv("RELAY_API_KEY", ""),
		GatewayTimeout:          getEnvAsDuration("GATEWAY_TIMEOUT", 30*time.Second),
		ShutdownTimeout:         getEnvAsDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
		JWTSecret:               getEnv("JWT_SECRET", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if _, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("PORTが不正です: %q", c.Port))
	}
	switch c.Gateway {
	case GatewayFirebase:
	case GatewayRelay:
		if c.RelayURL == "" {
			errs = append(errs, errors.New("GATEWAY=relayの場合はRELAY_URLが必要です"))
		}
	default:
		errs = append(errs, fmt.Errorf("GATEWAYが不正です: %q（firebase または relay）", c.Gateway))
	}
	return errors.Join(errs...)
}

func getEnv(key, def string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	return value
}

func getEnvAsDuration(key string, def time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			log.Printf("%sの値が不正なため既定値%sを使用します: %q", key, def, value)
			return def
		}
		return d
	}
	return def
}
