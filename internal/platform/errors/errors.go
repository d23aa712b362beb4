package apperrors

import "errors"

var (
	// ErrNotOnPlatform means the supplied page capture does not belong to the
	// Yuketang domain; the user must open the platform site first.
	ErrNotOnPlatform = errors.New("capture is not from the yuketang platform")
	// ErrNoCredentials means the capture carried no session cookies at all.
	ErrNoCredentials = errors.New("no session cookies found in capture")
	// ErrNotLoggedIn means no credentials have been stored yet.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrSessionExpired maps upstream 401/403 responses; the stored
	// credentials are stale and must be re-captured.
	ErrSessionExpired = errors.New("session expired")
	// ErrFetchFailed covers any other non-success upstream response.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrRefreshBusy signals that another refresh is already in flight.
	ErrRefreshBusy = errors.New("refresh already in progress")
	// ErrNoSnapshot means no cached snapshot has been written yet.
	ErrNoSnapshot = errors.New("no cached snapshot")
)
