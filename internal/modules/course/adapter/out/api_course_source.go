package out

import (
	"context"
	"encoding/json"

	courseout "ykwatch/internal/modules/course/port/out"
	"ykwatch/internal/platform/yuketang"
)

type APICourseSource struct {
	client *yuketang.Client
}

func NewAPICourseSource(client *yuketang.Client) courseout.CourseSource {
	return &APICourseSource{client: client}
}

func (s *APICourseSource) ListCourses(ctx context.Context) ([]json.RawMessage, error) {
	return s.client.ListCourses(ctx)
}
