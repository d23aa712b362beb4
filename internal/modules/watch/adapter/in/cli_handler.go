package in

import (
	"context"

	watchdto "ykwatch/internal/modules/watch/dto"
	watchin "ykwatch/internal/modules/watch/port/in"
)

type CLIHandler struct {
	usecase watchin.Usecase
}

func NewCLIHandler(usecase watchin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Run(ctx context.Context) error {
	return h.usecase.Run(ctx)
}

func (h CLIHandler) Start(ctx context.Context) error {
	return h.usecase.Start(ctx)
}

func (h CLIHandler) Stop(ctx context.Context) error {
	return h.usecase.Stop(ctx)
}

func (h CLIHandler) Status(ctx context.Context) (watchdto.DaemonStatus, error) {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) Logs(ctx context.Context, tail int) (string, error) {
	return h.usecase.Logs(ctx, tail)
}
