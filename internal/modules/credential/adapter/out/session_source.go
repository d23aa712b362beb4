package out

import (
	"context"

	credentialout "ykwatch/internal/modules/credential/port/out"
	"ykwatch/internal/platform/yuketang"
)

// StoreSessionSource bridges the credential store to the API client's
// per-request session view.
type StoreSessionSource struct {
	store credentialout.CredentialStore
}

func NewStoreSessionSource(store credentialout.CredentialStore) yuketang.SessionProvider {
	return &StoreSessionSource{store: store}
}

func (s *StoreSessionSource) Session(ctx context.Context) (yuketang.Session, error) {
	creds, err := s.store.Load(ctx)
	if err != nil {
		return yuketang.Session{}, err
	}
	return yuketang.Session{CookieHeader: creds.CookieHeader, CSRFToken: creds.CSRFToken}, nil
}
