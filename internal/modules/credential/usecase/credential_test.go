package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ykwatch/internal/modules/credential/domain"
	"ykwatch/internal/modules/credential/dto"
	credentialin "ykwatch/internal/modules/credential/port/in"
	"ykwatch/internal/modules/credential/service"
	"ykwatch/internal/modules/credential/usecase"
	apperrors "ykwatch/internal/platform/errors"
)

type fakeClock struct{ now time.Time }

func (f fakeClock) Now() time.Time { return f.now }

type memCredStore struct{ creds *domain.Credentials }

func (s *memCredStore) Save(_ context.Context, creds domain.Credentials) error {
	s.creds = &creds
	return nil
}

func (s *memCredStore) Load(context.Context) (domain.Credentials, error) {
	if s.creds == nil {
		return domain.Credentials{}, apperrors.ErrNotLoggedIn
	}
	return *s.creds, nil
}

func (s *memCredStore) Clear(context.Context) error {
	s.creds = nil
	return nil
}

type memUserStore struct{ user *domain.CurrentUser }

func (s *memUserStore) Set(_ context.Context, user domain.CurrentUser) error {
	s.user = &user
	return nil
}

func (s *memUserStore) Get(context.Context) (domain.CurrentUser, error) {
	if s.user == nil || !s.user.LoggedIn {
		return domain.CurrentUser{}, apperrors.ErrNotLoggedIn
	}
	return *s.user, nil
}

func (s *memUserStore) Clear(context.Context) error {
	s.user = nil
	return nil
}

type memJar struct {
	applied int
	cleared int
}

func (j *memJar) Apply(_ context.Context, cookies []domain.Cookie) error {
	j.applied += len(cookies)
	return nil
}

func (j *memJar) Clear(context.Context) error {
	j.cleared++
	return nil
}

type fakeIdentity struct {
	user domain.CurrentUser
	err  error
}

func (f fakeIdentity) Fetch(context.Context) (domain.CurrentUser, error) {
	return f.user, f.err
}

type fakeLauncher struct{ opened string }

func (f *fakeLauncher) Open(_ context.Context, url string) error {
	f.opened = url
	return nil
}

const loginURL = "https://changjiang.yuketang.cn/v2/web/index"

func newFixture() (*memCredStore, *memUserStore, *memJar, *fakeLauncher, func(fakeIdentity) credentialin.Usecase) {
	creds := &memCredStore{}
	users := &memUserStore{}
	jar := &memJar{}
	launcher := &fakeLauncher{}
	build := func(identity fakeIdentity) credentialin.Usecase {
		svc := service.NewCredentialService(fakeClock{now: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)})
		return usecase.NewInteractor(svc, creds, users, jar, identity, launcher, loginURL)
	}
	return creds, users, jar, launcher, build
}

func TestLoginStoresCredentialsAndSentinel(t *testing.T) {
	t.Parallel()
	creds, users, jar, _, build := newFixture()
	uc := build(fakeIdentity{})

	out, err := uc.Login(context.Background(), dto.LoginInput{
		URL:          loginURL,
		CookieHeader: "sessionid=abc; csrftoken=xyz",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if out.UserKnown {
		t.Fatalf("no embedded state means identity unknown")
	}
	if out.CookieCnt != 2 {
		t.Fatalf("expected 2 cookies, got %d", out.CookieCnt)
	}
	if creds.creds == nil || creds.creds.SessionID != "abc" {
		t.Fatalf("credentials not persisted: %+v", creds.creds)
	}
	if jar.applied != 2 {
		t.Fatalf("cookies not re-applied through the jar: %d", jar.applied)
	}
	if users.user == nil || !users.user.LoggedIn || users.user.Known() {
		t.Fatalf("expected the logged-in sentinel, got %+v", users.user)
	}
}

func TestLoginRejectsForeignCapture(t *testing.T) {
	t.Parallel()
	creds, _, _, _, build := newFixture()
	uc := build(fakeIdentity{})

	_, err := uc.Login(context.Background(), dto.LoginInput{
		URL:          "https://example.com",
		CookieHeader: "sessionid=abc",
	})
	if !errors.Is(err, apperrors.ErrNotOnPlatform) {
		t.Fatalf("expected ErrNotOnPlatform, got %v", err)
	}
	if creds.creds != nil {
		t.Fatalf("a failed login must not persist anything")
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	t.Parallel()
	creds, users, jar, _, build := newFixture()
	uc := build(fakeIdentity{})
	if _, err := uc.Login(context.Background(), dto.LoginInput{URL: loginURL, CookieHeader: "sessionid=abc"}); err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := uc.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if creds.creds != nil || users.user != nil {
		t.Fatalf("logout must clear both slots")
	}
	if jar.cleared != 1 {
		t.Fatalf("logout must clear the jar")
	}
}

func TestStatusWithoutLoginIsNotAnError(t *testing.T) {
	t.Parallel()
	_, _, _, _, build := newFixture()
	uc := build(fakeIdentity{})

	out, err := uc.Status(context.Background())
	if err != nil {
		t.Fatalf("status on empty state: %v", err)
	}
	if out.LoggedIn {
		t.Fatalf("nothing stored means logged out")
	}
}

func TestRefreshIdentityOverwritesSentinel(t *testing.T) {
	t.Parallel()
	_, users, _, _, build := newFixture()
	uc := build(fakeIdentity{user: domain.CurrentUser{ID: "7", Name: "Wang"}})
	if _, err := uc.Login(context.Background(), dto.LoginInput{URL: loginURL, CookieHeader: "sessionid=abc"}); err != nil {
		t.Fatalf("login: %v", err)
	}

	out, err := uc.RefreshIdentity(context.Background())
	if err != nil {
		t.Fatalf("refresh identity: %v", err)
	}
	if out.UserID != "7" || out.UserName != "Wang" {
		t.Fatalf("identity not returned: %+v", out)
	}
	if users.user == nil || !users.user.Known() || !users.user.LoggedIn {
		t.Fatalf("slot not overwritten: %+v", users.user)
	}
}

func TestOpenLoginPage(t *testing.T) {
	t.Parallel()
	_, _, _, launcher, build := newFixture()
	uc := build(fakeIdentity{})
	if err := uc.OpenLoginPage(context.Background()); err != nil {
		t.Fatalf("open login page: %v", err)
	}
	if launcher.opened != loginURL {
		t.Fatalf("wrong url launched: %q", launcher.opened)
	}
}
