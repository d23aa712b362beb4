package in

import (
	"context"

	notifydto "ykwatch/internal/modules/notify/dto"
	notifyin "ykwatch/internal/modules/notify/port/in"
)

type CLIHandler struct {
	usecase notifyin.Usecase
}

func NewCLIHandler(usecase notifyin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) NotifyUrgent(ctx context.Context) (notifydto.NotifyOutput, error) {
	return h.usecase.NotifyUrgent(ctx)
}

func (h CLIHandler) Test(ctx context.Context) error {
	return h.usecase.Test(ctx)
}
