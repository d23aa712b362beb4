package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ykwatch/internal/modules/credential/domain"
	credentialout "ykwatch/internal/modules/credential/port/out"
	apperrors "ykwatch/internal/platform/errors"
)

type FileCredentialStore struct {
	path string
}

func NewFileCredentialStore(dataDir string) credentialout.CredentialStore {
	return &FileCredentialStore{path: filepath.Join(dataDir, "credentials.json")}
}

func (s *FileCredentialStore) Save(_ context.Context, creds domain.Credentials) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create credential dir: %w", err)
	}
	payload, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

func (s *FileCredentialStore) Load(_ context.Context) (domain.Credentials, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Credentials{}, apperrors.ErrNotLoggedIn
		}
		return domain.Credentials{}, fmt.Errorf("read credentials: %w", err)
	}
	creds := domain.Credentials{}
	if err := json.Unmarshal(payload, &creds); err != nil {
		return domain.Credentials{}, fmt.Errorf("decode credentials: %w", err)
	}
	if len(creds.Cookies) == 0 {
		return domain.Credentials{}, apperrors.ErrNotLoggedIn
	}
	return creds, nil
}

func (s *FileCredentialStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}
