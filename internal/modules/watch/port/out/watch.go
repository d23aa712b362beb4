package out

import "context"

// DaemonStore tracks the background watcher process across invocations.
type DaemonStore interface {
	WritePID(ctx context.Context, pid int) error
	ReadPID(ctx context.Context) (int, error)
	ClearPID(ctx context.Context) error
	LogPath() string
}
