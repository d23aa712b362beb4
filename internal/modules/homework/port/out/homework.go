package out

import (
	"context"
	"encoding/json"

	"ykwatch/internal/modules/homework/domain"
)

// HomeworkSource fetches the raw homework items for one course.
type HomeworkSource interface {
	ListHomeworks(ctx context.Context, courseID string) ([]json.RawMessage, error)
}

// SnapshotStore persists the aggregation result. Replace overwrites the
// whole snapshot; Load returns apperrors.ErrNoSnapshot when nothing has
// been written yet.
type SnapshotStore interface {
	Replace(ctx context.Context, snapshot domain.Snapshot) error
	Load(ctx context.Context) (domain.Snapshot, error)
}
