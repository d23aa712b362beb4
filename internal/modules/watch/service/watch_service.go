package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"

	homeworkin "ykwatch/internal/modules/homework/port/in"
	notifyin "ykwatch/internal/modules/notify/port/in"
	"ykwatch/internal/modules/watch/dto"
	watchin "ykwatch/internal/modules/watch/port/in"
	watchout "ykwatch/internal/modules/watch/port/out"
	apperrors "ykwatch/internal/platform/errors"
	"ykwatch/internal/platform/id"
)

const (
	daemonStopGrace     = 2 * time.Second
	defaultLogTailLines = 200
)

// WatchService runs the periodic refresh-and-alert loop, in-process or as a
// detached background process. The detached form re-executes the current
// binary with the "watch run" subcommand, so there is exactly one code path
// for the loop itself.
type WatchService struct {
	homeworks homeworkin.Usecase
	notifier  notifyin.Usecase
	daemon    watchout.DaemonStore
	ids       id.Generator
	interval  time.Duration
	dataDir   string
	logger    hclog.Logger
}

func NewWatchService(
	homeworks homeworkin.Usecase,
	notifier notifyin.Usecase,
	daemon watchout.DaemonStore,
	ids id.Generator,
	interval time.Duration,
	dataDir string,
	logger hclog.Logger,
) watchin.Usecase {
	return &WatchService{
		homeworks: homeworks,
		notifier:  notifier,
		daemon:    daemon,
		ids:       ids,
		interval:  interval,
		dataDir:   dataDir,
		logger:    logger,
	}
}

func (s *WatchService) Run(ctx context.Context) error {
	if err := s.daemon.WritePID(ctx, os.Getpid()); err != nil {
		return err
	}
	defer func() {
		_ = s.daemon.ClearPID(context.Background())
	}()

	s.logger.Info("watch loop started", "interval", s.interval.String())

	// The first pass only warms the cache. Alerting on it would fire for
	// deadlines the user already saw before the watcher went down.
	s.refreshTick(ctx, false)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("watch loop stopped")
			return nil
		case <-ticker.C:
			s.refreshTick(ctx, true)
		}
	}
}

func (s *WatchService) refreshTick(ctx context.Context, alert bool) {
	log := s.logger.With("pass", s.ids.New())
	snapshot, err := s.homeworks.Refresh(ctx)
	switch {
	case errors.Is(err, apperrors.ErrNotLoggedIn):
		log.Debug("skipping refresh, not logged in")
		return
	case errors.Is(err, apperrors.ErrSessionExpired):
		log.Warn("session expired, re-login required")
		return
	case errors.Is(err, apperrors.ErrRefreshBusy):
		log.Debug("refresh already in flight")
		return
	case err != nil:
		log.Error("refresh failed", "error", err)
		return
	}
	log.Info("refreshed", "homeworks", len(snapshot.Homeworks), "courses", len(snapshot.Courses))

	if !alert {
		return
	}
	result, err := s.notifier.NotifyUrgent(ctx)
	if err != nil {
		log.Error("notify failed", "error", err)
		return
	}
	if result.Sent {
		log.Info("alert sent", "urgent", result.Count)
	}
}

func (s *WatchService) Start(ctx context.Context) error {
	status, err := s.Status(ctx)
	if err == nil && status.Running {
		return fmt.Errorf("watcher already running (pid %d)", status.PID)
	}

	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.daemon.LogPath()), 0o755); err != nil {
		return fmt.Errorf("create watcher log dir: %w", err)
	}
	logFile, err := os.OpenFile(s.daemon.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open watcher log: %w", err)
	}
	defer logFile.Close()

	cmd := exec.Command(execPath, "watch", "run", "--data", s.dataDir)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.Stdin = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	if err := s.daemon.WritePID(ctx, cmd.Process.Pid); err != nil {
		return err
	}
	_ = cmd.Process.Release()
	return nil
}

func (s *WatchService) Stop(ctx context.Context) error {
	pid, err := s.daemon.ReadPID(ctx)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if pid <= 0 || !processAlive(pid) {
		return s.daemon.ClearPID(ctx)
	}

	if err := syscall.Kill(pid, syscall.SIGTERM); err != nil && !errors.Is(err, syscall.ESRCH) {
		return fmt.Errorf("stop watcher pid=%d: %w", pid, err)
	}
	deadline := time.Now().Add(daemonStopGrace)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if processAlive(pid) {
		_ = syscall.Kill(pid, syscall.SIGKILL)
	}
	return s.daemon.ClearPID(ctx)
}

func (s *WatchService) Status(ctx context.Context) (dto.DaemonStatus, error) {
	out := dto.DaemonStatus{LogPath: s.daemon.LogPath()}
	pid, err := s.daemon.ReadPID(ctx)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, nil
		}
		return dto.DaemonStatus{}, err
	}
	out.PID = pid
	out.Running = processAlive(pid)
	return out, nil
}

func (s *WatchService) Logs(_ context.Context, tail int) (string, error) {
	if tail <= 0 {
		tail = defaultLogTailLines
	}
	file, err := os.Open(s.daemon.LogPath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("open watcher log: %w", err)
	}
	defer file.Close()

	lines := make([]string, 0, tail)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if len(lines) < tail {
			lines = append(lines, line)
			continue
		}
		copy(lines, lines[1:])
		lines[len(lines)-1] = line
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan watcher log: %w", err)
	}
	return strings.Join(lines, "\n"), nil
}

func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}
