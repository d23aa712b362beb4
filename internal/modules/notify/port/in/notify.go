package in

import (
	"context"

	"ykwatch/internal/modules/notify/dto"
)

type Usecase interface {
	// NotifyUrgent sends one alert covering every urgent record in the
	// cached snapshot. No snapshot or no urgent record sends nothing,
	// which is a success.
	NotifyUrgent(ctx context.Context) (dto.NotifyOutput, error)
	// Test sends a plain notification to verify the desktop path works.
	Test(ctx context.Context) error
}
