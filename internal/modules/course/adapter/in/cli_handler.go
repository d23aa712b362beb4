package in

import (
	"context"

	coursedto "ykwatch/internal/modules/course/dto"
	coursein "ykwatch/internal/modules/course/port/in"
)

type CLIHandler struct {
	usecase coursein.Usecase
}

func NewCLIHandler(usecase coursein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) ListActive(ctx context.Context) ([]coursedto.CourseOutput, error) {
	courses, err := h.usecase.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]coursedto.CourseOutput, len(courses))
	for i, c := range courses {
		out[i] = coursedto.CourseOutput{ID: c.ID, Name: c.Name}
	}
	return out, nil
}
