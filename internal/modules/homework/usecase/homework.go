package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	coursein "ykwatch/internal/modules/course/port/in"
	"ykwatch/internal/modules/homework/domain"
	"ykwatch/internal/modules/homework/dto"
	homeworkin "ykwatch/internal/modules/homework/port/in"
	homeworkout "ykwatch/internal/modules/homework/port/out"
	"ykwatch/internal/modules/homework/service"
	"ykwatch/internal/platform/clock"
	apperrors "ykwatch/internal/platform/errors"
)

type Interactor struct {
	svc       *service.HomeworkService
	courses   coursein.Usecase
	snapshots homeworkout.SnapshotStore
	clock     clock.Clock
	uiWindow  time.Duration

	// refreshMu is the single-flight guard: at most one aggregation pass
	// in flight; a concurrent caller is rejected, not queued.
	refreshMu sync.Mutex
}

func NewInteractor(
	svc *service.HomeworkService,
	courses coursein.Usecase,
	snapshots homeworkout.SnapshotStore,
	clk clock.Clock,
	uiWindow time.Duration,
) homeworkin.Usecase {
	return &Interactor{
		svc:       svc,
		courses:   courses,
		snapshots: snapshots,
		clock:     clk,
		uiWindow:  uiWindow,
	}
}

func (i *Interactor) Refresh(ctx context.Context) (dto.SnapshotOutput, error) {
	if !i.refreshMu.TryLock() {
		return dto.SnapshotOutput{}, apperrors.ErrRefreshBusy
	}
	defer i.refreshMu.Unlock()

	// One instant per pass: every record in a snapshot is classified
	// against the same "now".
	now := i.clock.Now()

	active, err := i.courses.ListActive(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrSessionExpired) {
			return dto.SnapshotOutput{}, fmt.Errorf("list courses (re-login required): %w", err)
		}
		return dto.SnapshotOutput{}, fmt.Errorf("list courses: %w", err)
	}

	refs := make([]domain.CourseRef, len(active))
	for idx, c := range active {
		refs[idx] = domain.CourseRef{ID: c.ID, Name: c.Name}
	}

	merged := i.fanOut(ctx, refs, now)
	domain.SortByUrgency(merged, now)

	snapshot := domain.Snapshot{Homeworks: merged, Courses: refs, UpdatedAt: now}
	if err := i.snapshots.Replace(ctx, snapshot); err != nil {
		return dto.SnapshotOutput{}, fmt.Errorf("replace snapshot: %w", err)
	}
	return toSnapshotOutput(snapshot, now, i.uiWindow, false), nil
}

// fanOut fetches every course concurrently and merges in course-list order,
// so the merge order (and after the stable sort, the final order) is
// deterministic regardless of which fetch finishes first.
func (i *Interactor) fanOut(ctx context.Context, refs []domain.CourseRef, now time.Time) []domain.Homework {
	perCourse := make([][]domain.Homework, len(refs))
	var wg sync.WaitGroup
	for idx, ref := range refs {
		wg.Add(1)
		go func(idx int, ref domain.CourseRef) {
			defer wg.Done()
			perCourse[idx] = i.svc.FetchCourse(ctx, ref, now)
		}(idx, ref)
	}
	wg.Wait()

	var merged []domain.Homework
	for _, items := range perCourse {
		merged = append(merged, items...)
	}
	return merged
}

func (i *Interactor) Cached(ctx context.Context) (dto.SnapshotOutput, error) {
	snapshot, err := i.snapshots.Load(ctx)
	if err != nil {
		return dto.SnapshotOutput{}, err
	}
	return toSnapshotOutput(snapshot, i.clock.Now(), i.uiWindow, true), nil
}

func (i *Interactor) List(ctx context.Context, input dto.ListInput) (dto.SnapshotOutput, error) {
	var (
		out dto.SnapshotOutput
		err error
	)
	if input.Refresh {
		out, err = i.Refresh(ctx)
	} else {
		out, err = i.Cached(ctx)
		if errors.Is(err, apperrors.ErrNoSnapshot) {
			out, err = i.Refresh(ctx)
		}
	}
	if err != nil {
		return dto.SnapshotOutput{}, err
	}
	out.Homeworks = filter(out.Homeworks, input)
	return out, nil
}

func (i *Interactor) Stats(ctx context.Context) (dto.StatsOutput, error) {
	snapshot, err := i.snapshots.Load(ctx)
	if err != nil {
		return dto.StatsOutput{}, err
	}
	stats := domain.ComputeStats(snapshot.Homeworks, i.clock.Now(), i.uiWindow)
	return dto.StatsOutput{
		Total:   stats.Total,
		Urgent:  stats.Urgent,
		Pending: stats.Pending,
		Done:    stats.Done,
	}, nil
}

func filter(items []dto.HomeworkOutput, input dto.ListInput) []dto.HomeworkOutput {
	if (input.Status == "" || input.Status == "all") && input.CourseID == "" {
		return items
	}
	kept := make([]dto.HomeworkOutput, 0, len(items))
	for _, hw := range items {
		if input.CourseID != "" && hw.CourseID != input.CourseID {
			continue
		}
		switch input.Status {
		case "", "all":
		case "urgent":
			if !hw.Urgent {
				continue
			}
		case "pending":
			if hw.Status != string(domain.StatusPending) && hw.Status != string(domain.StatusLate) {
				continue
			}
		case "done":
			if hw.Status != string(domain.StatusSubmitted) {
				continue
			}
		}
		kept = append(kept, hw)
	}
	return kept
}

func toSnapshotOutput(snapshot domain.Snapshot, now time.Time, window time.Duration, fromCache bool) dto.SnapshotOutput {
	out := dto.SnapshotOutput{
		Homeworks: make([]dto.HomeworkOutput, len(snapshot.Homeworks)),
		Courses:   make([]dto.CourseRefOutput, len(snapshot.Courses)),
		UpdatedAt: snapshot.UpdatedAt,
		FromCache: fromCache,
	}
	for idx, hw := range snapshot.Homeworks {
		out.Homeworks[idx] = dto.HomeworkOutput{
			ID:         hw.ID,
			Title:      hw.Title,
			CourseID:   hw.CourseID,
			CourseName: hw.CourseName,
			Deadline:   hw.Deadline,
			StartTime:  hw.StartTime,
			Status:     string(hw.Status),
			Score:      hw.Score,
			Kind:       string(hw.Kind),
			URL:        hw.URL,
			Urgent:     domain.Urgent(hw, now, window),
		}
	}
	for idx, c := range snapshot.Courses {
		out.Courses[idx] = dto.CourseRefOutput{ID: c.ID, Name: c.Name}
	}
	return out
}
