package out

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	credentialout "ykwatch/internal/modules/credential/port/out"
)

type BrowserLauncher struct{}

func NewBrowserLauncher() credentialout.LoginPageLauncher {
	return &BrowserLauncher{}
}

func (l *BrowserLauncher) Open(_ context.Context, url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	default:
		return fmt.Errorf("opening a browser is not supported on %s", runtime.GOOS)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open login page: %w", err)
	}
	return nil
}
