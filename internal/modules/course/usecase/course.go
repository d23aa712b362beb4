package usecase

import (
	"context"

	"ykwatch/internal/modules/course/domain"
	coursein "ykwatch/internal/modules/course/port/in"
	"ykwatch/internal/modules/course/service"
)

type Interactor struct {
	svc *service.CourseService
}

func NewInteractor(svc *service.CourseService) coursein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) ListActive(ctx context.Context) ([]domain.Course, error) {
	return i.svc.ListActive(ctx)
}
