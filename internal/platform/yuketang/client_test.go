package yuketang_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "ykwatch/internal/platform/errors"
	"ykwatch/internal/platform/yuketang"
)

type staticSession struct {
	session yuketang.Session
	err     error
}

func (s staticSession) Session(context.Context) (yuketang.Session, error) {
	return s.session, s.err
}

func TestListCoursesSendsBrowserHeaders(t *testing.T) {
	t.Parallel()
	var got *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		_, _ = w.Write([]byte(`{"data": {"list": [{"id": 1}]}}`))
	}))
	defer server.Close()

	client := yuketang.New(server.URL, staticSession{session: yuketang.Session{
		CookieHeader: "sessionid=abc; csrftoken=xyz",
		CSRFToken:    "xyz",
	}})
	items, err := client.ListCourses(context.Background())
	if err != nil {
		t.Fatalf("list courses: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 course, got %d", len(items))
	}

	if got.URL.Query().Get("identity") != "2" {
		t.Fatalf("student identity missing: %s", got.URL.RawQuery)
	}
	if got.Header.Get("X-CSRFToken") != "xyz" {
		t.Fatalf("csrf header missing")
	}
	if got.Header.Get("Cookie") != "sessionid=abc; csrftoken=xyz" {
		t.Fatalf("cookie header missing: %q", got.Header.Get("Cookie"))
	}
	if got.Header.Get("X-Requested-With") != "XMLHttpRequest" {
		t.Fatalf("xhr marker missing")
	}
	if got.Header.Get("Referer") == "" {
		t.Fatalf("referer missing")
	}
}

func TestListHomeworksPassesCourseID(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("course_id") != "c42" {
			t.Errorf("course_id missing: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"homeworks": [{"id": 1}, {"id": 2}]}`))
	}))
	defer server.Close()

	client := yuketang.New(server.URL, staticSession{})
	items, err := client.ListHomeworks(context.Background(), "c42")
	if err != nil {
		t.Fatalf("list homeworks: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 homeworks, got %d", len(items))
	}
}

func TestUnauthorizedMapsToSessionExpired(t *testing.T) {
	t.Parallel()
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))
		client := yuketang.New(server.URL, staticSession{})
		_, err := client.ListCourses(context.Background())
		server.Close()
		if !errors.Is(err, apperrors.ErrSessionExpired) {
			t.Fatalf("status %d should map to ErrSessionExpired, got %v", status, err)
		}
	}
}

func TestServerErrorMapsToFetchFailed(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := yuketang.New(server.URL, staticSession{})
	_, err := client.ListCourses(context.Background())
	if !errors.Is(err, apperrors.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}

func TestMissingSessionShortCircuits(t *testing.T) {
	t.Parallel()
	client := yuketang.New("http://127.0.0.1:0", staticSession{err: apperrors.ErrNotLoggedIn})
	_, err := client.ListCourses(context.Background())
	if !errors.Is(err, apperrors.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn before any network call, got %v", err)
	}
}

func TestUserInfoUnwrapsData(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"id": 7, "name": "Wang"}}`))
	}))
	defer server.Close()

	client := yuketang.New(server.URL, staticSession{})
	data, err := client.UserInfo(context.Background())
	if err != nil {
		t.Fatalf("user info: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("empty identity payload")
	}
}
