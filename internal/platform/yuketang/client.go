package yuketang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	apperrors "ykwatch/internal/platform/errors"
)

const (
	coursesPath   = "/v2/api/web/courses/list"
	homeworksPath = "/v2/api/web/homeworks/list"
	userInfoPath  = "/v2/api/web/user/info"

	// identity=2 selects the student role on the courses endpoint.
	studentIdentity = "2"
)

// Session is the minimal credential view the client needs per request.
type Session struct {
	CookieHeader string
	CSRFToken    string
}

// SessionProvider supplies the current session; it returns
// apperrors.ErrNotLoggedIn when no credentials are stored.
type SessionProvider interface {
	Session(ctx context.Context) (Session, error)
}

type Client struct {
	baseURL string
	http    *http.Client
	creds   SessionProvider
}

func New(baseURL string, creds SessionProvider) *Client {
	return &Client{baseURL: baseURL, http: &http.Client{}, creds: creds}
}

// ListCourses returns the raw course items for the student role. The caller
// filters ended courses and decodes alias fields.
func (c *Client) ListCourses(ctx context.Context) ([]json.RawMessage, error) {
	payload, err := c.get(ctx, coursesPath, url.Values{"identity": {studentIdentity}})
	if err != nil {
		return nil, err
	}
	return UnwrapList(payload, "courses"), nil
}

// ListHomeworks returns the raw homework items for one course.
func (c *Client) ListHomeworks(ctx context.Context, courseID string) ([]json.RawMessage, error) {
	payload, err := c.get(ctx, homeworksPath, url.Values{"course_id": {courseID}})
	if err != nil {
		return nil, err
	}
	return UnwrapList(payload, "homeworks"), nil
}

// UserInfo returns the raw identity object for the session.
func (c *Client) UserInfo(ctx context.Context) (json.RawMessage, error) {
	payload, err := c.get(ctx, userInfoPath, nil)
	if err != nil {
		return nil, err
	}
	data, ok := UnwrapObject(payload)
	if !ok {
		return nil, fmt.Errorf("%w: user info response has no data", apperrors.ErrFetchFailed)
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	session, err := c.creds.Session(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(req, session)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d on %s", apperrors.ErrSessionExpired, resp.StatusCode, path)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: status %d on %s", apperrors.ErrFetchFailed, resp.StatusCode, path)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", apperrors.ErrFetchFailed, err)
	}
	return payload, nil
}

// setHeaders attaches the header set the web client sends. The Cookie header
// is assembled from the captured cookies because requests here do not pass
// through a browser's automatic cookie attachment.
func (c *Client) setHeaders(req *http.Request, session Session) {
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")
	req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("Referer", c.baseURL+"/v2/web/index")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if session.CSRFToken != "" {
		req.Header.Set("X-CSRFToken", session.CSRFToken)
	}
	if session.CookieHeader != "" {
		req.Header.Set("Cookie", session.CookieHeader)
	}
}
