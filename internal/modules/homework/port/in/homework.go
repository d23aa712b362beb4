package in

import (
	"context"

	"ykwatch/internal/modules/homework/dto"
)

type Usecase interface {
	// Refresh runs one live aggregation pass and replaces the snapshot.
	// A concurrent refresh is rejected with apperrors.ErrRefreshBusy.
	Refresh(ctx context.Context) (dto.SnapshotOutput, error)
	// Cached returns the stored snapshot without touching the network.
	Cached(ctx context.Context) (dto.SnapshotOutput, error)
	// List serves the popup-style view: cached data unless a refresh is
	// requested or no cache exists, filtered by status and course.
	List(ctx context.Context, input dto.ListInput) (dto.SnapshotOutput, error)
	// Stats computes the popup counters over the current snapshot.
	Stats(ctx context.Context) (dto.StatsOutput, error)
}
