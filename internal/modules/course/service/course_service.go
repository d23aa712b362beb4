package service

import (
	"context"

	"ykwatch/internal/modules/course/domain"
	courseout "ykwatch/internal/modules/course/port/out"
)

type CourseService struct {
	source courseout.CourseSource
}

func NewCourseService(source courseout.CourseSource) *CourseService {
	return &CourseService{source: source}
}

// ListActive fetches and decodes the course list, dropping ended courses and
// items without a usable id. Source errors propagate untouched so the caller
// can distinguish an expired session from a plain fetch failure.
func (s *CourseService) ListActive(ctx context.Context) ([]domain.Course, error) {
	items, err := s.source.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	courses := make([]domain.Course, 0, len(items))
	for _, item := range items {
		if course, ok := domain.Decode(item); ok {
			courses = append(courses, course)
		}
	}
	return domain.Active(courses), nil
}
