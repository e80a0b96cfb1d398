package dispatch

import (
	"errors"
	"reflect"
	"testing"
)

// TestActionLabel はActionLabelが操作ごとの本文を返すことを検証する。
func TestActionLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		action Action
		want   string
	}{
		{name: "追加", action: ActionAddTask, want: "Alice added"},
		{name: "削除", action: ActionRemoveTask, want: "Alice removed"},
		{name: "完了", action: ActionCompleteTask, want: "Alice completed"},
		{name: "未知の操作は空文字列", action: Action("ArchiveTask"), want: ""},
		{name: "空の操作は空文字列", action: Action(""), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ActionLabel("Alice", tt.action); got != tt.want {
				t.Errorf("ActionLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestBuildMessage は通知の種類ごとのペイロードを検証する。
func TestBuildMessage(t *testing.T) {
	t.Parallel()

	t.Run("リマインダーは本文なしでreminderカテゴリ", func(t *testing.T) {
		t.Parallel()

		msg, err := BuildMessage(Request{
			Kind:     KindReminder,
			TaskID:   "task-1",
			TaskName: "牛乳を買う",
			Actor:    "無視される",
			Tokens:   []string{"A", "B"},
		})
		if err != nil {
			t.Fatalf("BuildMessage()でエラーが発生: %v", err)
		}

		wantData := map[string]string{
			DataKeyMessageType: MessageTypeReminder,
			DataKeyTaskID:      "task-1",
		}
		if !reflect.DeepEqual(msg.Data, wantData) {
			t.Errorf("Data = %v, want %v", msg.Data, wantData)
		}
		if msg.Alert != (Alert{Title: "牛乳を買う"}) {
			t.Errorf("Alert = %+v", msg.Alert)
		}
		if msg.Category != CategoryReminder {
			t.Errorf("Category = %q, want %q", msg.Category, CategoryReminder)
		}
		if !reflect.DeepEqual(msg.Tokens, []string{"A", "B"}) {
			t.Errorf("Tokens = %v", msg.Tokens)
		}
	})

	t.Run("アクションは操作者と操作をデータに含める", func(t *testing.T) {
		t.Parallel()

		msg, err := BuildMessage(Request{
			Kind:     KindAction,
			TaskID:   "task-2",
			TaskName: "Buy milk",
			Actor:    "Alice",
			Action:   ActionCompleteTask,
			Tokens:   []string{"A"},
		})
		if err != nil {
			t.Fatalf("BuildMessage()でエラーが発生: %v", err)
		}

		wantData := map[string]string{
			DataKeyMessageType: MessageTypeAction,
			DataKeyTaskID:      "task-2",
			DataKeyActor:       "Alice",
			DataKeyAction:      "CompleteTask",
		}
		if !reflect.DeepEqual(msg.Data, wantData) {
			t.Errorf("Data = %v, want %v", msg.Data, wantData)
		}
		if msg.Alert != (Alert{Title: "Buy milk", Body: "Alice completed"}) {
			t.Errorf("Alert = %+v", msg.Alert)
		}
		if msg.Category != CategoryAction {
			t.Errorf("Category = %q, want %q", msg.Category, CategoryAction)
		}
	})

	t.Run("未知の操作でも失敗せず本文が空になる", func(t *testing.T) {
		t.Parallel()

		msg, err := BuildMessage(Request{Kind: KindAction, Actor: "Alice", Action: "Rename", Tokens: []string{"A"}})
		if err != nil {
			t.Fatalf("BuildMessage()でエラーが発生: %v", err)
		}
		if msg.Alert.Body != "" {
			t.Errorf("Body = %q, want empty", msg.Alert.Body)
		}
		if msg.Data[DataKeyAction] != "Rename" {
			t.Errorf("DATA_ACTION = %q, want Rename", msg.Data[DataKeyAction])
		}
	})

	t.Run("アサインは定型の本文とassignedカテゴリ", func(t *testing.T) {
		t.Parallel()

		msg, err := BuildMessage(Request{Kind: KindAssign, TaskID: "task-3", TaskName: "Report", Actor: "Bob", Tokens: []string{"A"}})
		if err != nil {
			t.Fatalf("BuildMessage()でエラーが発生: %v", err)
		}

		wantData := map[string]string{
			DataKeyMessageType: MessageTypeAssigned,
			DataKeyTaskID:      "task-3",
			DataKeyActor:       "Bob",
		}
		if !reflect.DeepEqual(msg.Data, wantData) {
			t.Errorf("Data = %v, want %v", msg.Data, wantData)
		}
		if msg.Alert.Body != "Bob assigned to you" {
			t.Errorf("Body = %q, want %q", msg.Alert.Body, "Bob assigned to you")
		}
		if msg.Category != CategoryAssigned {
			t.Errorf("Category = %q, want %q", msg.Category, CategoryAssigned)
		}
	})

	t.Run("未指定の項目は空文字列のまま渡す", func(t *testing.T) {
		t.Parallel()

		msg, err := BuildMessage(Request{Kind: KindAssign, Tokens: []string{"A"}})
		if err != nil {
			t.Fatalf("BuildMessage()でエラーが発生: %v", err)
		}
		if v, ok := msg.Data[DataKeyTaskID]; !ok || v != "" {
			t.Errorf("DATA_TASK_ID = %q (ok=%v), want empty", v, ok)
		}
		if msg.Alert.Body != " assigned to you" {
			t.Errorf("Body = %q", msg.Alert.Body)
		}
	})

	t.Run("未知の通知種類はエラー", func(t *testing.T) {
		t.Parallel()

		_, err := BuildMessage(Request{Kind: Kind("digest")})
		if !errors.Is(err, ErrUnknownKind) {
			t.Errorf("err = %v, want ErrUnknownKind", err)
		}
	})
}
