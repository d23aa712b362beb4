package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	homeworkdomain "ykwatch/internal/modules/homework/domain"
	homeworkdto "ykwatch/internal/modules/homework/dto"
	homeworkin "ykwatch/internal/modules/homework/port/in"
	"ykwatch/internal/modules/notify/domain"
	"ykwatch/internal/modules/notify/dto"
	notifyin "ykwatch/internal/modules/notify/port/in"
	notifyout "ykwatch/internal/modules/notify/port/out"
	"ykwatch/internal/platform/clock"
	apperrors "ykwatch/internal/platform/errors"
)

type Interactor struct {
	homeworks homeworkin.Usecase
	sink      notifyout.Sink
	clock     clock.Clock
	window    time.Duration
}

func NewInteractor(
	homeworks homeworkin.Usecase,
	sink notifyout.Sink,
	clk clock.Clock,
	window time.Duration,
) notifyin.Usecase {
	return &Interactor{homeworks: homeworks, sink: sink, clock: clk, window: window}
}

func (i *Interactor) NotifyUrgent(ctx context.Context) (dto.NotifyOutput, error) {
	cached, err := i.homeworks.Cached(ctx)
	if errors.Is(err, apperrors.ErrNoSnapshot) {
		return dto.NotifyOutput{}, nil
	}
	if err != nil {
		return dto.NotifyOutput{}, fmt.Errorf("load snapshot: %w", err)
	}

	now := i.clock.Now()
	urgent := domain.SelectUrgent(toDomain(cached.Homeworks), now, i.window)
	notification, ok := domain.Build(urgent, now)
	if !ok {
		return dto.NotifyOutput{}, nil
	}
	if err := i.sink.Send(ctx, notification); err != nil {
		return dto.NotifyOutput{}, fmt.Errorf("send notification: %w", err)
	}
	return dto.NotifyOutput{
		Sent:  true,
		Count: len(urgent),
		Title: notification.Title,
		Body:  notification.Body,
	}, nil
}

func (i *Interactor) Test(ctx context.Context) error {
	notification := domain.Notification{
		Title: "Notifications are working",
		Body:  "Deadline alerts will appear like this.",
	}
	if err := i.sink.Send(ctx, notification); err != nil {
		return fmt.Errorf("send test notification: %w", err)
	}
	return nil
}

func toDomain(items []homeworkdto.HomeworkOutput) []homeworkdomain.Homework {
	out := make([]homeworkdomain.Homework, len(items))
	for idx, hw := range items {
		out[idx] = homeworkdomain.Homework{
			ID:         hw.ID,
			Title:      hw.Title,
			CourseID:   hw.CourseID,
			CourseName: hw.CourseName,
			Deadline:   hw.Deadline,
			StartTime:  hw.StartTime,
			Status:     homeworkdomain.Status(hw.Status),
			Score:      hw.Score,
			Kind:       homeworkdomain.Kind(hw.Kind),
			URL:        hw.URL,
		}
	}
	return out
}
