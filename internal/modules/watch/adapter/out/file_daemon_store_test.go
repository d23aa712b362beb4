package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	out "ykwatch/internal/modules/watch/adapter/out"
)

func TestPIDRoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := out.NewFileDaemonStore(dir)
	ctx := context.Background()

	if err := store.WritePID(ctx, 4711); err != nil {
		t.Fatalf("write pid: %v", err)
	}
	pid, err := store.ReadPID(ctx)
	if err != nil {
		t.Fatalf("read pid: %v", err)
	}
	if pid != 4711 {
		t.Fatalf("expected 4711, got %d", pid)
	}

	if err := store.ClearPID(ctx); err != nil {
		t.Fatalf("clear pid: %v", err)
	}
	if _, err := store.ReadPID(ctx); !os.IsNotExist(err) {
		t.Fatalf("expected a not-exist error after clear, got %v", err)
	}
}

func TestClearPIDIsIdempotent(t *testing.T) {
	t.Parallel()
	store := out.NewFileDaemonStore(t.TempDir())
	if err := store.ClearPID(context.Background()); err != nil {
		t.Fatalf("clearing a missing pid file must succeed: %v", err)
	}
}

func TestWritePIDCreatesDataDir(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "nested", "data")
	store := out.NewFileDaemonStore(dir)
	if err := store.WritePID(context.Background(), 1); err != nil {
		t.Fatalf("write pid into missing dir: %v", err)
	}
}

func TestReadPIDRejectsGarbage(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := out.NewFileDaemonStore(dir)
	if err := os.WriteFile(filepath.Join(dir, "watch.pid"), []byte("not-a-pid"), 0o644); err != nil {
		t.Fatalf("seed pid file: %v", err)
	}
	if _, err := store.ReadPID(context.Background()); err == nil {
		t.Fatalf("garbage pid must be rejected")
	}
}

func TestLogPath(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := out.NewFileDaemonStore(dir)
	if store.LogPath() != filepath.Join(dir, "watch.log") {
		t.Fatalf("log path: %q", store.LogPath())
	}
}
