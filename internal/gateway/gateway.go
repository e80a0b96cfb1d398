package gateway

import (
	"context"
	"fmt"

	"github.com/nao1215/taskpush/internal/config"
	"github.com/nao1215/taskpush/internal/dispatch"
)

// New は設定に応じたGatewayを生成する。
func New(ctx context.Context, cfg *config.Config) (dispatch.Gateway, error) {
	switch cfg.Gateway {
	case config.GatewayFirebase:
		return NewFirebase(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile, cfg.GatewayTimeout)
	case config.GatewayRelay:
		return NewRelay(cfg.RelayURL, cfg.RelayAPIKey, cfg.GatewayTimeout), nil
	default:
		return nil, fmt.Errorf("未対応のGatewayです: %q", cfg.Gateway)
	}
}
