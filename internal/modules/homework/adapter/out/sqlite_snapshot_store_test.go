package out_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	out "ykwatch/internal/modules/homework/adapter/out"
	"ykwatch/internal/modules/homework/domain"
	apperrors "ykwatch/internal/platform/errors"
)

func newStore(t *testing.T) *out.SQLiteSnapshotStore {
	t.Helper()
	store, err := out.NewSQLiteSnapshotStore(filepath.Join(t.TempDir(), "snapshot.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestLoadWithoutSnapshot(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	if _, err := store.Load(context.Background()); !errors.Is(err, apperrors.ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestReplaceAndLoadRoundTrip(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	deadline := time.Date(2026, 4, 3, 23, 59, 0, 0, time.UTC)
	score := 87.5
	snapshot := domain.Snapshot{
		UpdatedAt: time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
		Homeworks: []domain.Homework{
			{
				ID:         "hw-1",
				Title:      "Lab report",
				CourseID:   "c1",
				CourseName: "Networks",
				Deadline:   &deadline,
				Status:     domain.StatusPending,
				Kind:       domain.KindHomework,
				URL:        "https://changjiang.yuketang.cn/v2/web/homework/hw-1",
			},
			{
				ID:         "hw-2",
				Title:      "Reading quiz",
				CourseID:   "c2",
				CourseName: "Compilers",
				Status:     domain.StatusSubmitted,
				Score:      &score,
				Kind:       domain.KindExam,
			},
		},
		Courses: []domain.CourseRef{
			{ID: "c1", Name: "Networks"},
			{ID: "c2", Name: "Compilers"},
		},
	}
	if err := store.Replace(ctx, snapshot); err != nil {
		t.Fatalf("replace: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !loaded.UpdatedAt.Equal(snapshot.UpdatedAt) {
		t.Fatalf("updated at: %v", loaded.UpdatedAt)
	}
	if len(loaded.Homeworks) != 2 || len(loaded.Courses) != 2 {
		t.Fatalf("counts: %d homeworks, %d courses", len(loaded.Homeworks), len(loaded.Courses))
	}
	if loaded.Homeworks[0].ID != "hw-1" || loaded.Homeworks[1].ID != "hw-2" {
		t.Fatalf("insertion order must survive: %+v", loaded.Homeworks)
	}

	first := loaded.Homeworks[0]
	if first.Deadline == nil || !first.Deadline.Equal(deadline) {
		t.Fatalf("deadline lost: %+v", first.Deadline)
	}
	if first.Score != nil {
		t.Fatalf("nil score must stay nil")
	}
	second := loaded.Homeworks[1]
	if second.Deadline != nil {
		t.Fatalf("nil deadline must stay nil")
	}
	if second.Score == nil || *second.Score != score {
		t.Fatalf("score lost: %+v", second.Score)
	}
	if second.Status != domain.StatusSubmitted || second.Kind != domain.KindExam {
		t.Fatalf("enums lost: %+v", second)
	}
}

func TestReplaceDropsPreviousSnapshot(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	first := domain.Snapshot{
		UpdatedAt: time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
		Homeworks: []domain.Homework{
			{ID: "old-1", Title: "old", Status: domain.StatusPending, Kind: domain.KindHomework},
			{ID: "old-2", Title: "old", Status: domain.StatusPending, Kind: domain.KindHomework},
		},
		Courses: []domain.CourseRef{{ID: "c1", Name: "Old course"}},
	}
	if err := store.Replace(ctx, first); err != nil {
		t.Fatalf("first replace: %v", err)
	}

	second := domain.Snapshot{
		UpdatedAt: time.Date(2026, 4, 1, 12, 30, 0, 0, time.UTC),
		Homeworks: []domain.Homework{
			{ID: "new-1", Title: "new", Status: domain.StatusPending, Kind: domain.KindHomework},
		},
	}
	if err := store.Replace(ctx, second); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Homeworks) != 1 || loaded.Homeworks[0].ID != "new-1" {
		t.Fatalf("stale rows survived: %+v", loaded.Homeworks)
	}
	if len(loaded.Courses) != 0 {
		t.Fatalf("stale courses survived: %+v", loaded.Courses)
	}
	if !loaded.UpdatedAt.Equal(second.UpdatedAt) {
		t.Fatalf("updated at not replaced: %v", loaded.UpdatedAt)
	}
}

func TestEmptySnapshotIsStillASnapshot(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	updated := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	if err := store.Replace(ctx, domain.Snapshot{UpdatedAt: updated}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("an empty snapshot must still load: %v", err)
	}
	if len(loaded.Homeworks) != 0 || !loaded.UpdatedAt.Equal(updated) {
		t.Fatalf("unexpected snapshot: %+v", loaded)
	}
}
