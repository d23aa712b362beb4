package out

import (
	"context"
	"encoding/json"

	homeworkout "ykwatch/internal/modules/homework/port/out"
	"ykwatch/internal/platform/yuketang"
)

// APIHomeworkSource serves homework items from the web API.
type APIHomeworkSource struct {
	client *yuketang.Client
}

func NewAPIHomeworkSource(client *yuketang.Client) homeworkout.HomeworkSource {
	return &APIHomeworkSource{client: client}
}

func (s *APIHomeworkSource) ListHomeworks(ctx context.Context, courseID string) ([]json.RawMessage, error) {
	return s.client.ListHomeworks(ctx, courseID)
}
