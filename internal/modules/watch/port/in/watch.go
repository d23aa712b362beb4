package in

import (
	"context"

	"ykwatch/internal/modules/watch/dto"
)

type Usecase interface {
	// Run executes the watch loop in the current process until the
	// context is cancelled: refresh immediately, then refresh and alert
	// on every interval. The first pass never alerts.
	Run(ctx context.Context) error
	// Start launches the watch loop as a detached background process.
	Start(ctx context.Context) error
	// Stop terminates the background process if one is running.
	Stop(ctx context.Context) error
	Status(ctx context.Context) (dto.DaemonStatus, error)
	// Logs returns the last tail lines of the background process log.
	Logs(ctx context.Context, tail int) (string, error)
}
