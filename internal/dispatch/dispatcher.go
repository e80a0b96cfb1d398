package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nao1215/taskpush/pkg/metrics"
)

// Dispatcher は通知リクエストを1回のマルチキャスト送信に変換し、結果を集計する。
// 状態を持たないため、1つのインスタンスを全リクエストで共有できる。
type Dispatcher struct {
	// gateway はプッシュ通知の配信基盤。
	gateway Gateway
	// logger はリクエストコンテキストにロガーがない場合に使うロガー。
	logger zerolog.Logger
	// metrics は送信状況の記録先。nilの場合は記録しない。
	metrics *metrics.Metrics
}

// NewDispatcher は新しいDispatcherを生成する。
func NewDispatcher(gateway Gateway, logger zerolog.Logger, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		gateway: gateway,
		logger:  logger,
		metrics: m,
	}
}

// Dispatch は通知を送信し、トークンごとの結果を集計して返す。
//
// トークンが空の場合はGatewayを呼ばずにErrNoTokensを返す。
// トークン単位の失敗は正常系として結果に含め、エラーにはしない。
// エラーを返すのはGateway呼び出し自体が失敗した場合だけである。
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (*Result, error) {
	logger := d.loggerFor(ctx).With().Str("kind", string(req.Kind)).Logger()
	kind := string(req.Kind)

	if len(req.Tokens) == 0 {
		logger.Info().Msg("送信先トークンがないため送信をスキップします")
		d.metrics.IncDispatch(kind, metrics.OutcomeSkipped)
		return nil, ErrNoTokens
	}

	msg, err := BuildMessage(req)
	if err != nil {
		return nil, err
	}

	logger.Info().Int("tokens", len(req.Tokens)).Msgf("%d台のデバイスに通知を送信します", len(req.Tokens))

	started := time.Now()
	resp, err := d.gateway.SendMulticast(ctx, msg)
	d.metrics.ObserveGateway(kind, time.Since(started))
	if err != nil {
		d.metrics.IncDispatch(kind, metrics.OutcomeGatewayError)
		return nil, fmt.Errorf("%w: %w", ErrGateway, err)
	}
	if resp == nil {
		d.metrics.IncDispatch(kind, metrics.OutcomeGatewayError)
		return nil, fmt.Errorf("%w: 送信結果がありません", ErrOutcomeMismatch)
	}
	if len(resp.Responses) != len(req.Tokens) {
		d.metrics.IncDispatch(kind, metrics.OutcomeGatewayError)
		return nil, fmt.Errorf("%w: responses=%d, tokens=%d", ErrOutcomeMismatch, len(resp.Responses), len(req.Tokens))
	}

	failedTokens := reconcile(logger, req.Tokens, resp.Responses)

	d.metrics.IncDispatch(kind, metrics.OutcomeSent)
	d.metrics.AddTokens(kind, metrics.ResultSuccess, resp.SuccessCount)
	d.metrics.AddTokens(kind, metrics.ResultFailure, resp.FailureCount)
	d.metrics.AddTokens(kind, metrics.ResultUnregistered, len(failedTokens))

	logger.Info().Int("failed_tokens", len(failedTokens)).
		Msgf("レスポンスを返します: 無効トークン数 %d", len(failedTokens))

	return &Result{
		SuccessCount: resp.SuccessCount,
		FailureCount: resp.FailureCount,
		FailedTokens: failedTokens,
	}, nil
}

// reconcile は送信結果を入力トークンと位置で突き合わせ、
// 「登録されていない」エラーで失敗したトークンだけを入力順に返す。
// それ以外の失敗はログに記録するだけで結果には含めない。
func reconcile(logger zerolog.Logger, tokens []string, responses []SendResponse) []string {
	failedTokens := make([]string, 0)
	for idx, resp := range responses {
		if resp.Success {
			continue
		}
		if resp.Error != nil && resp.Error.Code == CodeRegistrationTokenNotRegistered {
			failedTokens = append(failedTokens, tokens[idx])
			continue
		}

		// 一時的な失敗や設定不備はトークンの削除対象にしない
		var code, message string
		if resp.Error != nil {
			code, message = resp.Error.Code, resp.Error.Message
		}
		logger.Error().Str("code", code).Int("index", idx).Msg(message)
	}
	return failedTokens
}

// loggerFor はリクエストコンテキストのロガーを優先して返す。
func (d *Dispatcher) loggerFor(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &d.logger
}
