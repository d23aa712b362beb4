package in

import (
	"context"

	homeworkdto "ykwatch/internal/modules/homework/dto"
	homeworkin "ykwatch/internal/modules/homework/port/in"
)

type CLIHandler struct {
	usecase homeworkin.Usecase
}

func NewCLIHandler(usecase homeworkin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Refresh(ctx context.Context) (homeworkdto.SnapshotOutput, error) {
	return h.usecase.Refresh(ctx)
}

func (h CLIHandler) List(ctx context.Context, input homeworkdto.ListInput) (homeworkdto.SnapshotOutput, error) {
	return h.usecase.List(ctx, input)
}

func (h CLIHandler) Stats(ctx context.Context) (homeworkdto.StatsOutput, error) {
	return h.usecase.Stats(ctx)
}
