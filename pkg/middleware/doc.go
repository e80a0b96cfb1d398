// Package middleware は通知サービスのHTTP APIで使用するGinミドルウェアを提供する。
//
// リクエストIDの採番、zerologによるアクセスログ、パニックリカバリ、
// および任意で有効化するBearerトークン認証を含む。
package middleware
