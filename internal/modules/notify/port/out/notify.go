package out

import (
	"context"

	"ykwatch/internal/modules/notify/domain"
)

// Sink delivers a rendered notification to the desktop.
type Sink interface {
	Send(ctx context.Context, notification domain.Notification) error
}
