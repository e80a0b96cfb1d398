// Package dispatch はタスク通知イベントをプッシュ通知のマルチキャスト送信に変換する。
//
// 通知種別（リマインダー・アクション・アサイン）ごとにペイロードを組み立て、
// Delivery Gatewayへ1回だけ送信し、トークンごとの結果を集計する。
// 配信先から「登録されていない」と報告されたトークンだけを呼び出し元に返し、
// 呼び出し元が自身のトークンストアから削除できるようにする。
package dispatch
