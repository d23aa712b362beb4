package domain

import (
	"encoding/json"
	"strings"
	"time"

	apperrors "ykwatch/internal/platform/errors"
)

const PlatformDomain = "yuketang.cn"

type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CurrentUser is the single-slot identity. The platform page does not always
// expose who is logged in, so a zero identity with LoggedIn set acts as the
// "logged in, identity unknown" sentinel.
type CurrentUser struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	LoggedIn bool   `json:"logged_in"`
}

func (u CurrentUser) Known() bool {
	return u.ID != "" || u.Name != ""
}

// Credentials is everything recovered from one page capture. Overwritten
// wholesale on every successful login; consumed by every upstream call.
type Credentials struct {
	SessionID    string            `json:"session_id"`
	CSRFToken    string            `json:"csrf_token"`
	CookieHeader string            `json:"cookie_header"`
	Cookies      []Cookie          `json:"cookies"`
	LocalStorage map[string]string `json:"local_storage,omitempty"`
	User         *CurrentUser      `json:"user,omitempty"`
	CapturedAt   time.Time         `json:"captured_at"`
}

// PageCapture is the raw material exported from an authenticated browser
// page: the page URL, document.cookie, interesting localStorage entries, and
// the embedded JSON state blob when the page carries one.
type PageCapture struct {
	URL           string            `json:"url"`
	CookieHeader  string            `json:"cookies"`
	LocalStorage  map[string]string `json:"local_storage,omitempty"`
	EmbeddedState json.RawMessage   `json:"embedded_state,omitempty"`
}

// OnPlatform reports whether a page URL belongs to the platform domain.
func OnPlatform(rawURL string) bool {
	return strings.Contains(rawURL, PlatformDomain)
}

// ParseCookies splits a document.cookie style header into pairs, dropping
// malformed fragments.
func ParseCookies(header string) []Cookie {
	var cookies []Cookie
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, ok := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			continue
		}
		cookies = append(cookies, Cookie{Name: name, Value: strings.TrimSpace(value)})
	}
	return cookies
}

// Resolve builds Credentials from a capture. It fails with ErrNotOnPlatform
// when the capture is from some other site and ErrNoCredentials when no
// cookie parsed at all. One attempt, no retry; the caller decides what to
// tell the user.
func Resolve(capture PageCapture, now time.Time) (Credentials, error) {
	if !OnPlatform(capture.URL) {
		return Credentials{}, apperrors.ErrNotOnPlatform
	}
	cookies := ParseCookies(capture.CookieHeader)
	if len(cookies) == 0 {
		return Credentials{}, apperrors.ErrNoCredentials
	}

	creds := Credentials{
		CookieHeader: capture.CookieHeader,
		Cookies:      cookies,
		LocalStorage: filterLocalStorage(capture.LocalStorage),
		CapturedAt:   now,
	}
	for _, c := range cookies {
		switch {
		case creds.CSRFToken == "" && (strings.Contains(c.Name, "csrftoken") || strings.HasPrefix(c.Name, "csrf")):
			creds.CSRFToken = c.Value
		case creds.SessionID == "" && (strings.HasPrefix(c.Name, "session") || c.Name == "connect.sid"):
			creds.SessionID = c.Value
		}
	}

	if user, token, ok := parseEmbeddedState(capture.EmbeddedState); ok {
		if user.Known() {
			creds.User = &user
		}
		if creds.CSRFToken == "" {
			creds.CSRFToken = token
		}
	}
	return creds, nil
}

// filterLocalStorage keeps only keys that plausibly carry auth material,
// mirroring the opportunistic scan the capture script performs.
func filterLocalStorage(entries map[string]string) map[string]string {
	if len(entries) == 0 {
		return nil
	}
	kept := make(map[string]string)
	for key, value := range entries {
		for _, marker := range []string{"token", "auth", "user", "session"} {
			if strings.Contains(key, marker) {
				kept[key] = value
				break
			}
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

// parseEmbeddedState digs the user identity and anti-forgery token out of
// the page's embedded state blob (the __NEXT_DATA__ script). All fields are
// optional and read under alias names.
func parseEmbeddedState(raw json.RawMessage) (CurrentUser, string, bool) {
	if len(raw) == 0 {
		return CurrentUser{}, "", false
	}
	var state struct {
		Props struct {
			PageProps struct {
				UserInfo   *embeddedUser `json:"userInfo"`
				User       *embeddedUser `json:"user"`
				GlobalData *struct {
					CSRFToken string `json:"csrftoken"`
					CSRFAlt   string `json:"csrf_token"`
					Token     string `json:"token"`
				} `json:"globalData"`
			} `json:"pageProps"`
		} `json:"props"`
	}
	if err := json.Unmarshal(raw, &state); err != nil {
		return CurrentUser{}, "", false
	}

	props := state.Props.PageProps
	embedded := props.UserInfo
	if embedded == nil {
		embedded = props.User
	}
	var user CurrentUser
	if embedded != nil {
		user = embedded.resolve()
	}

	var token string
	if gd := props.GlobalData; gd != nil {
		token = firstNonEmpty(gd.CSRFToken, gd.CSRFAlt, gd.Token)
	}
	return user, token, user.Known() || token != ""
}

type embeddedUser struct {
	Name     string          `json:"name"`
	RealName string          `json:"real_name"`
	Nickname string          `json:"nickname"`
	ID       json.RawMessage `json:"id"`
	UserID   json.RawMessage `json:"user_id"`
}

func (u embeddedUser) resolve() CurrentUser {
	user := CurrentUser{
		Name:     firstNonEmpty(u.Name, u.RealName, u.Nickname),
		LoggedIn: true,
	}
	for _, raw := range []json.RawMessage{u.ID, u.UserID} {
		if len(raw) == 0 {
			continue
		}
		user.ID = strings.Trim(string(raw), `"`)
		break
	}
	return user
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
