package usecase

import (
	"context"
	"errors"

	"ykwatch/internal/modules/credential/domain"
	"ykwatch/internal/modules/credential/dto"
	credentialin "ykwatch/internal/modules/credential/port/in"
	credentialout "ykwatch/internal/modules/credential/port/out"
	"ykwatch/internal/modules/credential/service"
	apperrors "ykwatch/internal/platform/errors"
)

type Interactor struct {
	svc      *service.CredentialService
	creds    credentialout.CredentialStore
	users    credentialout.UserStore
	jar      credentialout.CookieJar
	identity credentialout.IdentityClient
	launcher credentialout.LoginPageLauncher
	loginURL string
}

func NewInteractor(
	svc *service.CredentialService,
	creds credentialout.CredentialStore,
	users credentialout.UserStore,
	jar credentialout.CookieJar,
	identity credentialout.IdentityClient,
	launcher credentialout.LoginPageLauncher,
	loginURL string,
) credentialin.Usecase {
	return &Interactor{
		svc:      svc,
		creds:    creds,
		users:    users,
		jar:      jar,
		identity: identity,
		launcher: launcher,
		loginURL: loginURL,
	}
}

// Login resolves a page capture and persists the result. Persist-then-apply:
// the credential slot is overwritten first, then every parsed cookie is
// re-applied through the jar so later raw HTTP calls carry the same cookies.
func (i *Interactor) Login(ctx context.Context, input dto.LoginInput) (dto.LoginOutput, error) {
	creds, err := i.svc.Resolve(ctx, domain.PageCapture{
		URL:           input.URL,
		CookieHeader:  input.CookieHeader,
		LocalStorage:  input.LocalStorage,
		EmbeddedState: input.EmbeddedState,
	})
	if err != nil {
		return dto.LoginOutput{}, err
	}

	if err := i.creds.Save(ctx, creds); err != nil {
		return dto.LoginOutput{}, err
	}
	if err := i.jar.Apply(ctx, creds.Cookies); err != nil {
		return dto.LoginOutput{}, err
	}

	user := domain.CurrentUser{LoggedIn: true}
	if creds.User != nil {
		user = *creds.User
	}
	if err := i.users.Set(ctx, user); err != nil {
		return dto.LoginOutput{}, err
	}

	return dto.LoginOutput{
		UserID:     user.ID,
		UserName:   user.Name,
		UserKnown:  user.Known(),
		CookieCnt:  len(creds.Cookies),
		CapturedAt: creds.CapturedAt,
	}, nil
}

func (i *Interactor) Logout(ctx context.Context) error {
	if err := i.jar.Clear(ctx); err != nil {
		return err
	}
	if err := i.users.Clear(ctx); err != nil {
		return err
	}
	return i.creds.Clear(ctx)
}

// Status reports the stored login state without any network call.
func (i *Interactor) Status(ctx context.Context) (dto.StatusOutput, error) {
	user, err := i.users.Get(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotLoggedIn) {
			return dto.StatusOutput{}, nil
		}
		return dto.StatusOutput{}, err
	}
	out := dto.StatusOutput{
		LoggedIn:  true,
		UserID:    user.ID,
		UserName:  user.Name,
		UserKnown: user.Known(),
	}
	if creds, err := i.creds.Load(ctx); err == nil {
		out.CapturedAt = creds.CapturedAt
	}
	return out, nil
}

// RefreshIdentity resolves the "identity unknown" sentinel via the user-info
// endpoint and overwrites the slot.
func (i *Interactor) RefreshIdentity(ctx context.Context) (dto.IdentityOutput, error) {
	user, err := i.identity.Fetch(ctx)
	if err != nil {
		return dto.IdentityOutput{}, err
	}
	user.LoggedIn = true
	if err := i.users.Set(ctx, user); err != nil {
		return dto.IdentityOutput{}, err
	}
	return dto.IdentityOutput{UserID: user.ID, UserName: user.Name}, nil
}

func (i *Interactor) OpenLoginPage(ctx context.Context) error {
	return i.launcher.Open(ctx, i.loginURL)
}
