// Package models defines data structures and domain types.
package models

import (
	"strconv"
	"strings"
	"time"
)

// WatchEvent is a single playback record from the history feed.
type WatchEvent struct {
	VideoID         string
	Business        string
	Title           string
	Category        string
	Author          string
	CoverURL        string
	ViewedAt        int64 // unix seconds, 0 when the feed omitted it
	ProgressSeconds int64 // negative values are upstream sentinels, see EffectiveSeconds
	DurationSeconds int64
}

// EffectiveSeconds returns the watch time counted for this event.
// Negative progress falls back to the nominal duration.
func (e WatchEvent) EffectiveSeconds() int64 {
	if e.ProgressSeconds >= 0 {
		return e.ProgressSeconds
	}
	if e.DurationSeconds > 0 {
		return e.DurationSeconds
	}
	return 0
}

// HasTimestamp reports whether the event carries a view time.
func (e WatchEvent) HasTimestamp() bool {
	return e.ViewedAt > 0
}

// ViewedTime returns the view time in the given location.
func (e WatchEvent) ViewedTime(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(e.ViewedAt, 0).In(loc)
}

// URL returns the web page of the watched item, or "" when the business
// type has no known page.
func (e WatchEvent) URL() string {
	if e.VideoID == "" {
		return ""
	}
	switch e.Business {
	case "archive", "":
		if strings.HasPrefix(e.VideoID, "BV") {
			return "https://www.bilibili.com/video/" + e.VideoID
		}
		return "https://www.bilibili.com/video/av" + e.VideoID
	case "pgc":
		return "https://www.bilibili.com/bangumi/play/ep" + e.VideoID
	case "live":
		return "https://live.bilibili.com/" + e.VideoID
	case "article", "article-list":
		return "https://www.bilibili.com/read/cv" + e.VideoID
	}
	return ""
}

// Key identifies an event across page boundaries.
func (e WatchEvent) Key() string {
	return e.Business + ":" + e.VideoID + "@" + strconv.FormatInt(e.ViewedAt, 10)
}

// Cursor is the pagination state returned by the history feed.
type Cursor struct {
	Max      int64
	ViewAt   int64
	Business string
}

// IsZero reports whether no cursor field is populated.
func (c *Cursor) IsZero() bool {
	return c == nil || (c.Max == 0 && c.ViewAt == 0 && c.Business == "")
}

// HistoryPage is one page of the history feed.
type HistoryPage struct {
	Events []WatchEvent
	Cursor *Cursor // nil when the feed has no further pages
}

// FetchStatus describes how a history fetch ended.
type FetchStatus int

const (
	// FetchSuccess means the window was fully covered or the feed was exhausted.
	FetchSuccess FetchStatus = iota
	// FetchTruncated means the page ceiling was hit before the window boundary.
	FetchTruncated
	// FetchFailed means a page failed and the result is partial.
	FetchFailed
)

// String returns the string representation of a FetchStatus.
func (s FetchStatus) String() string {
	switch s {
	case FetchSuccess:
		return "success"
	case FetchTruncated:
		return "truncated"
	case FetchFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ParseFetchStatus converts a stored status string back to a FetchStatus.
func ParseFetchStatus(s string) FetchStatus {
	switch s {
	case "success":
		return FetchSuccess
	case "truncated":
		return FetchTruncated
	default:
		return FetchFailed
	}
}

// FetchRun records the outcome of one history fetch.
type FetchRun struct {
	ID         string
	MID        int64
	StartedAt  time.Time
	FinishedAt time.Time
	Status     FetchStatus
	Pages      int
	Events     int
	Error      string
}

// Duration returns how long the fetch took.
func (r FetchRun) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
