package ports

import (
	"context"

	"github.com/mamarbank/bank_backend/internal/core/domain"
)

// Notifier delivers post-commit notification events. Implementations must be
// safe for concurrent use; publish errors are the caller's to log and swallow,
// never to propagate into the financial operation.
type Notifier interface {
	Publish(ctx context.Context, event domain.NotificationEvent) error
}
