package out

import (
	"context"
	"fmt"

	"github.com/gen2brain/beeep"

	"ykwatch/internal/modules/notify/domain"
	notifyout "ykwatch/internal/modules/notify/port/out"
)

// BeeepSink delivers notifications through the OS notification service.
type BeeepSink struct {
	appName string
}

func NewBeeepSink(appName string) notifyout.Sink {
	return &BeeepSink{appName: appName}
}

func (s *BeeepSink) Send(_ context.Context, notification domain.Notification) error {
	beeep.AppName = s.appName
	if err := beeep.Notify(notification.Title, notification.Body, ""); err != nil {
		return fmt.Errorf("desktop notification: %w", err)
	}
	return nil
}
