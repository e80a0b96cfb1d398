// Package httpclient はJSON形式で外部サービスと通信するHTTPクライアントを提供する。
//
// プッシュ配信リレーへのマルチキャスト送信に使用する。
// リクエストIDをコンテキストからヘッダーへ伝播し、
// 受信したリクエストと外部への送信をログ上で追跡できるようにする。
package httpclient
