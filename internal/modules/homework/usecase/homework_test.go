package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	coursedomain "ykwatch/internal/modules/course/domain"
	"ykwatch/internal/modules/homework/domain"
	"ykwatch/internal/modules/homework/dto"
	"ykwatch/internal/modules/homework/service"
	"ykwatch/internal/modules/homework/usecase"
	apperrors "ykwatch/internal/platform/errors"
)

type fakeClock struct{ now time.Time }

func (f fakeClock) Now() time.Time { return f.now }

type fakeCourses struct {
	courses []coursedomain.Course
	err     error
	started chan struct{} // closed on first call
	release chan struct{} // first call waits on this
	once    sync.Once
}

func (f *fakeCourses) ListActive(context.Context) ([]coursedomain.Course, error) {
	if f.started != nil {
		f.once.Do(func() {
			close(f.started)
			<-f.release
		})
	}
	return f.courses, f.err
}

type fakeSource struct {
	items map[string][]json.RawMessage
	errs  map[string]error
}

func (f *fakeSource) ListHomeworks(_ context.Context, courseID string) ([]json.RawMessage, error) {
	if err := f.errs[courseID]; err != nil {
		return nil, err
	}
	return f.items[courseID], nil
}

type fakeSnapshots struct {
	mu       sync.Mutex
	stored   *domain.Snapshot
	replaces int
}

func (f *fakeSnapshots) Replace(_ context.Context, snapshot domain.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored = &snapshot
	f.replaces++
	return nil
}

func (f *fakeSnapshots) Load(context.Context) (domain.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stored == nil {
		return domain.Snapshot{}, apperrors.ErrNoSnapshot
	}
	return *f.stored, nil
}

var testNow = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func newInteractor(courses *fakeCourses, source *fakeSource, snapshots *fakeSnapshots) homeworkUsecase {
	svc := service.NewHomeworkService(source, "https://changjiang.yuketang.cn")
	return usecase.NewInteractor(svc, courses, snapshots, fakeClock{now: testNow}, 72*time.Hour)
}

type homeworkUsecase interface {
	Refresh(ctx context.Context) (dto.SnapshotOutput, error)
	Cached(ctx context.Context) (dto.SnapshotOutput, error)
	List(ctx context.Context, input dto.ListInput) (dto.SnapshotOutput, error)
	Stats(ctx context.Context) (dto.StatsOutput, error)
}

func hwItem(id string, deadlineOffset time.Duration) json.RawMessage {
	deadline := testNow.Add(deadlineOffset).Format(time.RFC3339)
	return json.RawMessage(fmt.Sprintf(`{"id": %q, "title": %q, "deadline": %q}`, id, "hw "+id, deadline))
}

func TestRefreshMergesAndSortsAcrossCourses(t *testing.T) {
	t.Parallel()
	courses := &fakeCourses{courses: []coursedomain.Course{
		{ID: "c1", Name: "Networks"},
		{ID: "c2", Name: "Compilers"},
	}}
	source := &fakeSource{items: map[string][]json.RawMessage{
		"c1": {hwItem("far", 48 * time.Hour)},
		"c2": {hwItem("soon", 1 * time.Hour)},
	}}
	snapshots := &fakeSnapshots{}
	uc := newInteractor(courses, source, snapshots)

	out, err := uc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(out.Homeworks) != 2 {
		t.Fatalf("expected 2 homeworks, got %d", len(out.Homeworks))
	}
	if out.Homeworks[0].ID != "soon" || out.Homeworks[1].ID != "far" {
		t.Fatalf("not sorted by urgency: %s, %s", out.Homeworks[0].ID, out.Homeworks[1].ID)
	}
	if out.Homeworks[0].CourseName != "Compilers" {
		t.Fatalf("course denormalization missing: %q", out.Homeworks[0].CourseName)
	}
	if out.FromCache {
		t.Fatalf("refresh output must not be marked cached")
	}
	if snapshots.replaces != 1 {
		t.Fatalf("snapshot should be replaced once, got %d", snapshots.replaces)
	}
}

func TestRefreshToleratesSingleCourseFailure(t *testing.T) {
	t.Parallel()
	courses := &fakeCourses{courses: []coursedomain.Course{
		{ID: "ok", Name: "OK"},
		{ID: "broken", Name: "Broken"},
	}}
	source := &fakeSource{
		items: map[string][]json.RawMessage{"ok": {hwItem("a", time.Hour)}},
		errs:  map[string]error{"broken": errors.New("boom")},
	}
	uc := newInteractor(courses, source, &fakeSnapshots{})

	out, err := uc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("one broken course must not abort the pass: %v", err)
	}
	if len(out.Homeworks) != 1 || out.Homeworks[0].ID != "a" {
		t.Fatalf("expected only the healthy course's homework, got %+v", out.Homeworks)
	}
	if len(out.Courses) != 2 {
		t.Fatalf("the broken course still belongs to the snapshot course list")
	}
}

func TestRefreshEmptyCourseListIsSuccess(t *testing.T) {
	t.Parallel()
	snapshots := &fakeSnapshots{}
	uc := newInteractor(&fakeCourses{}, &fakeSource{}, snapshots)

	out, err := uc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("zero courses is an empty success: %v", err)
	}
	if len(out.Homeworks) != 0 {
		t.Fatalf("expected empty snapshot, got %d items", len(out.Homeworks))
	}
	if snapshots.replaces != 1 {
		t.Fatalf("empty snapshot must still be persisted")
	}
}

func TestRefreshPropagatesCourseListFailure(t *testing.T) {
	t.Parallel()
	courses := &fakeCourses{err: fmt.Errorf("status 401: %w", apperrors.ErrSessionExpired)}
	snapshots := &fakeSnapshots{}
	uc := newInteractor(courses, &fakeSource{}, snapshots)

	_, err := uc.Refresh(context.Background())
	if !errors.Is(err, apperrors.ErrSessionExpired) {
		t.Fatalf("course list failure must propagate, got %v", err)
	}
	if snapshots.replaces != 0 {
		t.Fatalf("a failed pass must not overwrite the snapshot")
	}
}

func TestRefreshSingleFlight(t *testing.T) {
	t.Parallel()
	courses := &fakeCourses{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	uc := newInteractor(courses, &fakeSource{}, &fakeSnapshots{})

	firstDone := make(chan error, 1)
	go func() {
		_, err := uc.Refresh(context.Background())
		firstDone <- err
	}()

	// Wait until the first refresh holds the guard inside ListActive, then a
	// concurrent refresh must be rejected, not queued.
	<-courses.started
	if _, err := uc.Refresh(context.Background()); !errors.Is(err, apperrors.ErrRefreshBusy) {
		t.Fatalf("expected ErrRefreshBusy, got %v", err)
	}

	close(courses.release)
	if err := <-firstDone; err != nil {
		t.Fatalf("first refresh: %v", err)
	}
}

func TestRefreshIsIdempotent(t *testing.T) {
	t.Parallel()
	courses := &fakeCourses{courses: []coursedomain.Course{{ID: "c1", Name: "Networks"}}}
	source := &fakeSource{items: map[string][]json.RawMessage{
		"c1": {hwItem("a", time.Hour), hwItem("b", 2 * time.Hour)},
	}}
	uc := newInteractor(courses, source, &fakeSnapshots{})

	first, err := uc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	second, err := uc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical input and clock must give identical snapshots")
	}
}

func TestListFallsBackToRefreshWithoutSnapshot(t *testing.T) {
	t.Parallel()
	courses := &fakeCourses{courses: []coursedomain.Course{{ID: "c1", Name: "Networks"}}}
	source := &fakeSource{items: map[string][]json.RawMessage{"c1": {hwItem("a", time.Hour)}}}
	snapshots := &fakeSnapshots{}
	uc := newInteractor(courses, source, snapshots)

	out, err := uc.List(context.Background(), dto.ListInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out.Homeworks) != 1 {
		t.Fatalf("cold list should trigger a refresh, got %d items", len(out.Homeworks))
	}

	// Second list serves the cache, no second replace.
	out, err = uc.List(context.Background(), dto.ListInput{})
	if err != nil {
		t.Fatalf("cached list: %v", err)
	}
	if !out.FromCache {
		t.Fatalf("second list should come from the cache")
	}
	if snapshots.replaces != 1 {
		t.Fatalf("cached list must not refresh, got %d replaces", snapshots.replaces)
	}
}

func TestListFilters(t *testing.T) {
	t.Parallel()
	courses := &fakeCourses{courses: []coursedomain.Course{
		{ID: "c1", Name: "Networks"},
		{ID: "c2", Name: "Compilers"},
	}}
	source := &fakeSource{items: map[string][]json.RawMessage{
		"c1": {
			hwItem("urgent", time.Hour),
			json.RawMessage(`{"id": "done", "title": "hw done", "is_submitted": true}`),
		},
		"c2": {hwItem("relaxed", 200 * time.Hour)},
	}}
	uc := newInteractor(courses, source, &fakeSnapshots{})
	if _, err := uc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	urgent, err := uc.List(context.Background(), dto.ListInput{Status: "urgent"})
	if err != nil {
		t.Fatalf("urgent list: %v", err)
	}
	if len(urgent.Homeworks) != 1 || urgent.Homeworks[0].ID != "urgent" {
		t.Fatalf("urgent filter failed: %+v", urgent.Homeworks)
	}

	done, err := uc.List(context.Background(), dto.ListInput{Status: "done"})
	if err != nil {
		t.Fatalf("done list: %v", err)
	}
	if len(done.Homeworks) != 1 || done.Homeworks[0].ID != "done" {
		t.Fatalf("done filter failed: %+v", done.Homeworks)
	}

	byCourse, err := uc.List(context.Background(), dto.ListInput{CourseID: "c2"})
	if err != nil {
		t.Fatalf("course list: %v", err)
	}
	if len(byCourse.Homeworks) != 1 || byCourse.Homeworks[0].ID != "relaxed" {
		t.Fatalf("course filter failed: %+v", byCourse.Homeworks)
	}
}

func TestStats(t *testing.T) {
	t.Parallel()
	courses := &fakeCourses{courses: []coursedomain.Course{{ID: "c1", Name: "Networks"}}}
	source := &fakeSource{items: map[string][]json.RawMessage{
		"c1": {
			hwItem("urgent", time.Hour),
			hwItem("relaxed", 200 * time.Hour),
			json.RawMessage(`{"id": "done", "title": "hw done", "is_submitted": true}`),
		},
	}}
	uc := newInteractor(courses, source, &fakeSnapshots{})
	if _, err := uc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	stats, err := uc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 3 || stats.Urgent != 1 || stats.Pending != 2 || stats.Done != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestCachedWithoutSnapshot(t *testing.T) {
	t.Parallel()
	uc := newInteractor(&fakeCourses{}, &fakeSource{}, &fakeSnapshots{})
	if _, err := uc.Cached(context.Background()); !errors.Is(err, apperrors.ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
}
