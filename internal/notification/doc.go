// Package notification は通知サービスのHTTPサーバーを提供する。
//
// タスクのリマインダー・アクション・アサインの各イベントを受け取り、
// プッシュ通知のマルチキャスト送信結果を集計して返す。
// 配信先トークンの管理は呼び出し元が行い、このサービスは状態を持たない。
package notification
