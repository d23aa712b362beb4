package in

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	credentialdto "ykwatch/internal/modules/credential/dto"
	credentialin "ykwatch/internal/modules/credential/port/in"
)

type CLIHandler struct {
	usecase credentialin.Usecase
}

func NewCLIHandler(usecase credentialin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// LoginFromCapture reads a capture file exported from the browser (url,
// cookie string, localStorage, embedded state) and logs in from it.
func (h CLIHandler) LoginFromCapture(ctx context.Context, path string) (credentialdto.LoginOutput, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return credentialdto.LoginOutput{}, fmt.Errorf("read capture file: %w", err)
	}
	var capture struct {
		URL           string            `json:"url"`
		Cookies       string            `json:"cookies"`
		LocalStorage  map[string]string `json:"local_storage"`
		EmbeddedState json.RawMessage   `json:"embedded_state"`
	}
	if err := json.Unmarshal(payload, &capture); err != nil {
		return credentialdto.LoginOutput{}, fmt.Errorf("decode capture file: %w", err)
	}
	return h.usecase.Login(ctx, credentialdto.LoginInput{
		URL:           capture.URL,
		CookieHeader:  capture.Cookies,
		LocalStorage:  capture.LocalStorage,
		EmbeddedState: capture.EmbeddedState,
	})
}

// LoginFromCookie logs in from an inline cookie header, the minimal capture.
func (h CLIHandler) LoginFromCookie(ctx context.Context, url, cookieHeader string) (credentialdto.LoginOutput, error) {
	return h.usecase.Login(ctx, credentialdto.LoginInput{URL: url, CookieHeader: cookieHeader})
}

func (h CLIHandler) Logout(ctx context.Context) error {
	return h.usecase.Logout(ctx)
}

func (h CLIHandler) Status(ctx context.Context) (credentialdto.StatusOutput, error) {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) RefreshIdentity(ctx context.Context) (credentialdto.IdentityOutput, error) {
	return h.usecase.RefreshIdentity(ctx)
}

func (h CLIHandler) OpenLoginPage(ctx context.Context) error {
	return h.usecase.OpenLoginPage(ctx)
}
