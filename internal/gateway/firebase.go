package gateway

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/errorutils"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/nao1215/taskpush/internal/dispatch"
)

// Firebase Cloud Messagingのトークン単位エラーコード。
const (
	codeInvalidArgument      = "messaging/invalid-argument"
	codeMismatchedCredential = "messaging/mismatched-credential"
	codeRateExceeded         = "messaging/message-rate-exceeded"
	codeThirdPartyAuth       = "messaging/third-party-auth-error"
	codeInternal             = "messaging/internal-error"
	codeUnavailable          = "messaging/server-unavailable"
	codeUnknown              = "messaging/unknown-error"
)

// multicastSender はmessaging.Clientのうち使用するメソッドだけを切り出したもの。
type multicastSender interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// Firebase はFirebase Admin SDKでプッシュ通知を送信するGateway。
type Firebase struct {
	// client はFCMのメッセージングクライアント。
	client multicastSender
	// timeout は1回の送信にかけられる最大時間。
	timeout time.Duration
}

// NewFirebase はFirebaseアプリを初期化し、Gatewayを生成する。
// credentialsFileが空の場合はApplication Default Credentialsを使用する。
func NewFirebase(ctx context.Context, projectID, credentialsFile string, timeout time.Duration) (*Firebase, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("Firebaseアプリの初期化に失敗: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("メッセージングクライアントの生成に失敗: %w", err)
	}
	return &Firebase{client: client, timeout: timeout}, nil
}

// SendMulticast はFCMのsendEachForMulticastでメッセージを送信する。
func (f *Firebase) SendMulticast(ctx context.Context, msg *dispatch.Message) (*dispatch.BatchResponse, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	br, err := f.client.SendEachForMulticast(ctx, toMulticastMessage(msg))
	if err != nil {
		return nil, fmt.Errorf("FCMへの送信に失敗: %w", err)
	}

	responses := make([]dispatch.SendResponse, 0, len(br.Responses))
	for _, r := range br.Responses {
		if r == nil {
			responses = append(responses, dispatch.SendResponse{
				Error: &dispatch.SendError{Code: codeUnknown, Message: "送信結果がありません"},
			})
			continue
		}
		if r.Success {
			responses = append(responses, dispatch.SendResponse{Success: true})
			continue
		}
		responses = append(responses, dispatch.SendResponse{Error: toSendError(r.Error)})
	}

	return &dispatch.BatchResponse{
		SuccessCount: br.SuccessCount,
		FailureCount: br.FailureCount,
		Responses:    responses,
	}, nil
}

// toMulticastMessage はメッセージをFCMのマルチキャストメッセージに変換する。
func toMulticastMessage(msg *dispatch.Message) *messaging.MulticastMessage {
	return &messaging.MulticastMessage{
		Tokens: msg.Tokens,
		Data:   msg.Data,
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Category: msg.Category,
					Alert: &messaging.ApsAlert{
						Title: msg.Alert.Title,
						Body:  msg.Alert.Body,
					},
				},
			},
		},
	}
}

// toSendError はFCMのエラーをエラーコード付きのSendErrorに変換する。
func toSendError(err error) *dispatch.SendError {
	if err == nil {
		return &dispatch.SendError{Code: codeUnknown}
	}
	return &dispatch.SendError{Code: errorCode(err), Message: err.Error()}
}

func errorCode(err error) string {
	switch {
	case messaging.IsUnregistered(err):
		return dispatch.CodeRegistrationTokenNotRegistered
	case messaging.IsSenderIDMismatch(err):
		return codeMismatchedCredential
	case messaging.IsQuotaExceeded(err):
		return codeRateExceeded
	case messaging.IsThirdPartyAuthError(err):
		return codeThirdPartyAuth
	case errorutils.IsInvalidArgument(err):
		return codeInvalidArgument
	case errorutils.IsInternal(err):
		return codeInternal
	case errorutils.IsUnavailable(err):
		return codeUnavailable
	default:
		return codeUnknown
	}
}
