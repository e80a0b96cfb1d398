package dispatch

import "fmt"

// データペイロードのキー。クライアントアプリがこのキー名で値を読み取る。
const (
	DataKeyMessageType = "DATA_MESSAGE_TYPE"
	DataKeyTaskID      = "DATA_TASK_ID"
	DataKeyActor       = "DATA_ACTOR"
	DataKeyAction      = "DATA_ACTION"
)

// DATA_MESSAGE_TYPEの値。
const (
	MessageTypeReminder = "MESSAGE_TYPE_REMINDER"
	MessageTypeAction   = "MESSAGE_TYPE_ACTION"
	MessageTypeAssigned = "MESSAGE_TYPE_ASSIGNED"
)

// aps.categoryの値。
const (
	CategoryReminder = "reminder"
	CategoryAction   = "action"
	CategoryAssigned = "assigned"
)

// actionSuffixes は操作ごとの通知本文の後半部分。
var actionSuffixes = map[Action]string{
	ActionAddTask:      "added",
	ActionRemoveTask:   "removed",
	ActionCompleteTask: "completed",
}

// ActionLabel は操作者と操作から通知本文を生成する。
// 未知の操作の場合はリクエストを失敗させず空文字列を返す。
func ActionLabel(actor string, action Action) string {
	suffix, ok := actionSuffixes[action]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s %s", actor, suffix)
}

// BuildMessage は通知の種類に応じたプッシュメッセージを組み立てる。
// 必須項目の有無は検証せず、未指定の項目は空文字列のまま渡す。
func BuildMessage(req Request) (*Message, error) {
	msg := &Message{
		Alert:  Alert{Title: req.TaskName},
		Tokens: req.Tokens,
	}

	switch req.Kind {
	case KindReminder:
		msg.Data = map[string]string{
			DataKeyMessageType: MessageTypeReminder,
			DataKeyTaskID:      req.TaskID,
		}
		msg.Category = CategoryReminder
	case KindAction:
		msg.Data = map[string]string{
			DataKeyMessageType: MessageTypeAction,
			DataKeyTaskID:      req.TaskID,
			DataKeyActor:       req.Actor,
			DataKeyAction:      string(req.Action),
		}
		msg.Alert.Body = ActionLabel(req.Actor, req.Action)
		msg.Category = CategoryAction
	case KindAssign:
		msg.Data = map[string]string{
			DataKeyMessageType: MessageTypeAssigned,
			DataKeyTaskID:      req.TaskID,
			DataKeyActor:       req.Actor,
		}
		msg.Alert.Body = fmt.Sprintf("%s assigned to you", req.Actor)
		msg.Category = CategoryAssigned
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, req.Kind)
	}
	return msg, nil
}
