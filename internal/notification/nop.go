package notification

import (
	"context"

	"go.uber.org/zap"
)

// NopNotifier stands in for FCM when no credentials are configured
type NopNotifier struct {
	logger *zap.Logger
}

func NewNopNotifier(logger *zap.Logger) *NopNotifier {
	return &NopNotifier{logger: logger}
}

func (n *NopNotifier) Send(_ context.Context, token, title, _ string, _ map[string]string) error {
	n.logger.Info("Push notifications disabled, dropping message",
		zap.String("token", maskToken(token)),
		zap.String("title", title),
	)
	return nil
}
