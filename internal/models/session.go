package models

import (
	"strconv"
	"strings"
	"time"
)

// SessionCookie is the cookie that authenticates feed requests.
const SessionCookie = "SESSDATA"

// Cookie is a single name/value credential pair.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Session is the credential handle produced by login. It is never mutated
// after creation; logout replaces it with the zero value.
type Session struct {
	Cookies      []Cookie  `json:"cookies"`
	MID          int64     `json:"mid,omitempty"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewSession builds a session from cookies, deriving the user id from DedeUserID.
func NewSession(cookies []Cookie, refreshToken string, createdAt time.Time) Session {
	s := Session{
		Cookies:      append([]Cookie(nil), cookies...),
		RefreshToken: refreshToken,
		CreatedAt:    createdAt,
	}
	if v := s.Cookie("DedeUserID"); v != "" {
		if mid, err := strconv.ParseInt(v, 10, 64); err == nil {
			s.MID = mid
		}
	}
	return s
}

// Cookie returns the value of the named cookie, or "".
func (s Session) Cookie(name string) string {
	for _, c := range s.Cookies {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// Valid reports whether the session carries the auth cookie.
func (s Session) Valid() bool {
	return s.Cookie(SessionCookie) != ""
}

// CookieHeader renders the cookies as a Cookie request header value.
func (s Session) CookieHeader() string {
	parts := make([]string, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}

// UserInfo is the logged-in account as reported by the nav endpoint.
type UserInfo struct {
	MID     int64  `json:"mid"`
	UName   string `json:"uname"`
	Face    string `json:"face"`
	Level   int    `json:"level"`
	IsLogin bool   `json:"isLogin"`
}
