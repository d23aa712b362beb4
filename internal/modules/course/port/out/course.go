package out

import (
	"context"
	"encoding/json"
)

// CourseSource lists the raw course items for the logged-in student.
// Failures map to the platform sentinels: ErrSessionExpired on 401/403,
// ErrFetchFailed otherwise.
type CourseSource interface {
	ListCourses(ctx context.Context) ([]json.RawMessage, error)
}
