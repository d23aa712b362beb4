package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ykwatch/internal/modules/credential/domain"
	credentialout "ykwatch/internal/modules/credential/port/out"
)

// FileCookieJar persists captured cookies keyed by name, scoped to the
// platform domain. Raw HTTP calls assemble their Cookie header from the
// credential slot; the jar keeps the full cookie set for re-captures.
type FileCookieJar struct {
	path string
}

type jarEntry struct {
	Domain  string          `json:"domain"`
	Cookies []domain.Cookie `json:"cookies"`
}

func NewFileCookieJar(dataDir string) credentialout.CookieJar {
	return &FileCookieJar{path: filepath.Join(dataDir, "cookies.json")}
}

func (j *FileCookieJar) Apply(_ context.Context, cookies []domain.Cookie) error {
	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		return fmt.Errorf("create cookie jar dir: %w", err)
	}
	existing := j.read()
	byName := make(map[string]int, len(existing))
	for idx, c := range existing {
		byName[c.Name] = idx
	}
	for _, c := range cookies {
		if c.Name == "" || c.Value == "" {
			continue
		}
		if idx, ok := byName[c.Name]; ok {
			existing[idx] = c
			continue
		}
		byName[c.Name] = len(existing)
		existing = append(existing, c)
	}
	payload, err := json.MarshalIndent(jarEntry{Domain: domain.PlatformDomain, Cookies: existing}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cookie jar: %w", err)
	}
	if err := os.WriteFile(j.path, payload, 0o600); err != nil {
		return fmt.Errorf("write cookie jar: %w", err)
	}
	return nil
}

func (j *FileCookieJar) Clear(_ context.Context) error {
	if err := os.Remove(j.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear cookie jar: %w", err)
	}
	return nil
}

func (j *FileCookieJar) read() []domain.Cookie {
	payload, err := os.ReadFile(j.path)
	if err != nil {
		return nil
	}
	var entry jarEntry
	if err := json.Unmarshal(payload, &entry); err != nil {
		return nil
	}
	return entry.Cookies
}
