package events

import (
	"context"

	"github.com/mamarbank/bank_backend/internal/core/domain"
	"github.com/mamarbank/bank_backend/internal/core/ports"
)

// NoopNotifier discards every event. Used when no broker is configured.
type NoopNotifier struct{}

// Ensure NoopNotifier implements ports.Notifier
var _ ports.Notifier = (*NoopNotifier)(nil)

func (NoopNotifier) Publish(_ context.Context, _ domain.NotificationEvent) error {
	return nil
}
