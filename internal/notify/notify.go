// Package notify delivers alert messages to the configured channel.
// Delivery is best effort: callers log failures and carry on.
package notify

import (
	"context"

	"stockwatch/internal/logger"
)

// Notifier sends one plain-text message to the preconfigured recipient.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Console logs messages instead of pushing them; the fallback when no
// notification channel is configured.
type Console struct{}

func NewConsole() *Console { return &Console{} }

func (*Console) Notify(_ context.Context, text string) error {
	logger.Info("ALERT %s", text)
	return nil
}
