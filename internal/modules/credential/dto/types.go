package dto

import (
	"encoding/json"
	"time"
)

type LoginInput struct {
	URL           string
	CookieHeader  string
	LocalStorage  map[string]string
	EmbeddedState json.RawMessage
}

type LoginOutput struct {
	UserID     string
	UserName   string
	UserKnown  bool
	CookieCnt  int
	CapturedAt time.Time
}

type StatusOutput struct {
	LoggedIn   bool
	UserID     string
	UserName   string
	UserKnown  bool
	CapturedAt time.Time
}

type IdentityOutput struct {
	UserID   string
	UserName string
}
