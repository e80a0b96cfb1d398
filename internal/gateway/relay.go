package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/nao1215/taskpush/internal/dispatch"
	"github.com/nao1215/taskpush/pkg/httpclient"
)

// multicastPath はリレーのマルチキャスト送信エンドポイント。
const multicastPath = "/v1/multicast"

// Relay はHTTPのプッシュ配信リレーへ送信するGateway。
// リレーはFCMのsendEachForMulticastと同じ形の結果を返す。
type Relay struct {
	// client はリレーへの通信クライアント。
	client *httpclient.Client
}

// NewRelay は新しいRelayを生成する。apiKeyが空の場合は認証ヘッダーを付与しない。
func NewRelay(baseURL, apiKey string, timeout time.Duration) *Relay {
	opts := []httpclient.Option{httpclient.WithTimeout(timeout)}
	if apiKey != "" {
		opts = append(opts, httpclient.WithHeader("Authorization", "Bearer "+apiKey))
	}
	return &Relay{client: httpclient.New(baseURL, opts...)}
}

// relayRequest はリレーへのマルチキャスト送信リクエストのJSON構造。
type relayRequest struct {
	// Tokens は送信先デバイストークン。
	Tokens []string `json:"tokens"`
	// Data はデータペイロード。
	Data map[string]string `json:"data"`
	// APNS はiOS向けの表示設定。
	APNS relayAPNS `json:"apns"`
}

type relayAPNS struct {
	Category string     `json:"category"`
	Alert    relayAlert `json:"alert"`
}

type relayAlert struct {
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
}

// SendMulticast はリレーにメッセージを送信し、トークンごとの結果を返す。
func (r *Relay) SendMulticast(ctx context.Context, msg *dispatch.Message) (*dispatch.BatchResponse, error) {
	req := relayRequest{
		Tokens: msg.Tokens,
		Data:   msg.Data,
		APNS: relayAPNS{
			Category: msg.Category,
			Alert: relayAlert{
				Title: msg.Alert.Title,
				Body:  msg.Alert.Body,
			},
		},
	}

	var resp dispatch.BatchResponse
	if err := r.client.PostJSON(ctx, multicastPath, req, &resp); err != nil {
		return nil, fmt.Errorf("リレーへの送信に失敗: %w", err)
	}
	return &resp, nil
}
