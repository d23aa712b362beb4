package service

import (
	"context"
	"time"

	"ykwatch/internal/modules/homework/domain"
	homeworkout "ykwatch/internal/modules/homework/port/out"
)

type HomeworkService struct {
	source  homeworkout.HomeworkSource
	baseURL string
}

func NewHomeworkService(source homeworkout.HomeworkSource, baseURL string) *HomeworkService {
	return &HomeworkService{source: source, baseURL: baseURL}
}

// FetchCourse fetches and classifies one course's homeworks against the
// aggregation instant. Any source failure degrades to an empty list: one
// broken course must never abort the whole pass. Within a course, items
// keep the upstream order.
func (s *HomeworkService) FetchCourse(ctx context.Context, course domain.CourseRef, now time.Time) []domain.Homework {
	items, err := s.source.ListHomeworks(ctx, course.ID)
	if err != nil {
		return nil
	}
	homeworks := make([]domain.Homework, 0, len(items))
	for _, item := range items {
		hw, flags, ok := domain.Normalize(item, course, s.baseURL)
		if !ok {
			continue
		}
		hw.Status = domain.Classify(flags, now)
		homeworks = append(homeworks, hw)
	}
	return homeworks
}
