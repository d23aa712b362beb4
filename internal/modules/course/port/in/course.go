package in

import (
	"context"

	"ykwatch/internal/modules/course/domain"
)

type Usecase interface {
	// ListActive returns the non-ended courses for the current session.
	ListActive(ctx context.Context) ([]domain.Course, error)
}
