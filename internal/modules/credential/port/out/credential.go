package out

import (
	"context"

	"ykwatch/internal/modules/credential/domain"
)

// CredentialStore holds the process-wide credential slot. Save overwrites
// unconditionally; Load returns apperrors.ErrNotLoggedIn when empty.
type CredentialStore interface {
	Save(ctx context.Context, creds domain.Credentials) error
	Load(ctx context.Context) (domain.Credentials, error)
	Clear(ctx context.Context) error
}

// UserStore is the explicit single-slot current-identity store:
// last-writer-wins on Set, ErrNotLoggedIn when empty.
type UserStore interface {
	Set(ctx context.Context, user domain.CurrentUser) error
	Get(ctx context.Context) (domain.CurrentUser, error)
	Clear(ctx context.Context) error
}

// CookieJar re-applies captured cookies scoped to the platform domain so raw
// HTTP calls carry them even outside a browser context.
type CookieJar interface {
	Apply(ctx context.Context, cookies []domain.Cookie) error
	Clear(ctx context.Context) error
}

// IdentityClient fetches the resolved identity from the user-info endpoint.
type IdentityClient interface {
	Fetch(ctx context.Context) (domain.CurrentUser, error)
}

// LoginPageLauncher opens the platform login page in the user's browser.
type LoginPageLauncher interface {
	Open(ctx context.Context, url string) error
}
