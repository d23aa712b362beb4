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

// FileUserStore is the persisted single-slot identity. Set overwrites the
// whole slot; there is exactly one current user per data dir.
type FileUserStore struct {
	path string
}

func NewFileUserStore(dataDir string) credentialout.UserStore {
	return &FileUserStore{path: filepath.Join(dataDir, "current-user.json")}
}

func (s *FileUserStore) Set(_ context.Context, user domain.CurrentUser) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create user dir: %w", err)
	}
	payload, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal current user: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write current user: %w", err)
	}
	return nil
}

func (s *FileUserStore) Get(_ context.Context) (domain.CurrentUser, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.CurrentUser{}, apperrors.ErrNotLoggedIn
		}
		return domain.CurrentUser{}, fmt.Errorf("read current user: %w", err)
	}
	user := domain.CurrentUser{}
	if err := json.Unmarshal(payload, &user); err != nil {
		return domain.CurrentUser{}, fmt.Errorf("decode current user: %w", err)
	}
	if !user.LoggedIn {
		return domain.CurrentUser{}, apperrors.ErrNotLoggedIn
	}
	return user, nil
}

func (s *FileUserStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear current user: %w", err)
	}
	return nil
}
