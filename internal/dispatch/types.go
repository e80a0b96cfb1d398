package dispatch

import (
	"context"
	"errors"
)

// Kind は通知の種類を表す。どのエンドポイントが呼ばれたかで決まる。
type Kind string

const (
	// KindReminder はタスクのリマインダー通知を表す。
	KindReminder Kind = "reminder"
	// KindAction はタスクに対する操作（追加・削除・完了）の通知を表す。
	KindAction Kind = "action"
	// KindAssign はタスクがユーザーにアサインされたことの通知を表す。
	KindAssign Kind = "assign"
)

// Action はタスクに対して行われた操作を表す。
// 未知の値もそのまま保持し、データペイロードへ透過的に渡す。
type Action string

const (
	// ActionAddTask はタスクが追加されたことを表す。
	ActionAddTask Action = "AddTask"
	// ActionRemoveTask はタスクが削除されたことを表す。
	ActionRemoveTask Action = "RemoveTask"
	// ActionCompleteTask はタスクが完了したことを表す。
	ActionCompleteTask Action = "CompleteTask"
)

// CodeRegistrationTokenNotRegistered は登録トークンが既に無効であることを示す
// Delivery Gatewayのエラーコード。アプリのアンインストール等で発生する。
const CodeRegistrationTokenNotRegistered = "messaging/registration-token-not-registered"

var (
	// ErrNoTokens は送信先トークンが空であることを表す。
	// 送信は行われず、呼び出し元は何も返さずに終了する。
	ErrNoTokens = errors.New("送信先トークンがありません")
	// ErrUnknownKind は未知の通知種類が指定されたことを表す。
	ErrUnknownKind = errors.New("未知の通知種類です")
	// ErrGateway はDelivery Gatewayへのマルチキャスト送信自体が失敗したことを表す。
	ErrGateway = errors.New("マルチキャスト送信に失敗")
	// ErrOutcomeMismatch はGatewayの応答件数がトークン数と一致しないことを表す。
	ErrOutcomeMismatch = errors.New("送信結果の件数がトークン数と一致しません")
)

// Request は通知リクエストを表す。リクエスト処理中だけ存在する。
type Request struct {
	// Kind は通知の種類。
	Kind Kind
	// TaskID はタスクの識別子。
	TaskID string
	// TaskName はタスクの表示名。通知タイトルに使用する。
	TaskName string
	// Actor は操作を行ったユーザーの表示名。Action/Assignのみ使用する。
	Actor string
	// Action はタスクに対する操作。Actionのみ使用する。
	Action Action
	// Tokens は送信先デバイストークン。結果は位置で突き合わせるため順序に意味がある。
	Tokens []string
}

// Alert はiOS向けの通知表示（aps.alert）を表す。
type Alert struct {
	// Title は通知タイトル。
	Title string
	// Body は通知本文。空の場合は送信しない。
	Body string
}

// Message はDelivery Gatewayに渡すプッシュメッセージ。
type Message struct {
	// Data はアプリに渡すデータペイロード。値はすべて文字列でなければならない。
	Data map[string]string
	// Alert は通知の表示内容。
	Alert Alert
	// Category はaps.categoryに設定するカテゴリ。
	Category string
	// Tokens は送信先デバイストークン。
	Tokens []string
}

// SendError はトークン単位の送信失敗を表す。
type SendError struct {
	// Code はGatewayが定義するエラーコード。
	Code string `json:"code"`
	// Message はエラーメッセージ。
	Message string `json:"message"`
}

// SendResponse はトークン1件分の送信結果。入力トークンと同じ位置に並ぶ。
type SendResponse struct {
	// Success は送信に成功したかどうか。
	Success bool `json:"success"`
	// Error は失敗時のエラー。成功時はnil。
	Error *SendError `json:"error,omitempty"`
}

// BatchResponse はマルチキャスト送信全体の結果。
type BatchResponse struct {
	// SuccessCount は送信に成功したトークン数。
	SuccessCount int `json:"successCount"`
	// FailureCount は送信に失敗したトークン数。
	FailureCount int `json:"failureCount"`
	// Responses はトークンごとの結果。
	Responses []SendResponse `json:"responses"`
}

// Result は呼び出し元に返す集計結果。
type Result struct {
	// SuccessCount は送信に成功したトークン数。
	SuccessCount int `json:"successCount"`
	// FailureCount は送信に失敗したトークン数。
	FailureCount int `json:"failureCount"`
	// FailedTokens は「登録されていない」として失敗したトークンのみを含む。
	FailedTokens []string `json:"failedTokens"`
}

// Gateway はプッシュ通知の配信基盤（Delivery Gateway）を表す。
// 実装は複数のgoroutineから同時に呼ばれても安全でなければならない。
type Gateway interface {
	// SendMulticast はメッセージをTokensの全デバイスに1回の呼び出しで送信する。
	// Responsesはmsg.Tokensと同じ件数・同じ順序で返す。
	SendMulticast(ctx context.Context, msg *Message) (*BatchResponse, error)
}
