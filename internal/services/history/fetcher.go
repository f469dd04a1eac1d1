// Package history pages through the watch-history feed and collects the
// events that fall inside a trailing time window.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/j-veylop/biliinsight-tui/internal/logger"
	"github.com/j-veylop/biliinsight-tui/internal/models"
)

// Default values
const (
	DefaultWindowDays     = 7
	DefaultPageSize       = 30
	DefaultMaxPages       = 20
	DefaultRequestTimeout = 15 * time.Second

	maxPageSize = 30
)

// ErrInvalidSession is returned before any request when the session carries
// no auth cookie.
var ErrInvalidSession = errors.New("session has no credentials")

// PageSource serves single pages of the history feed.
type PageSource interface {
	HistoryPage(ctx context.Context, session models.Session, cursor *models.Cursor, pageSize int) (*models.HistoryPage, error)
}

// Config holds the fetcher limits.
type Config struct {
	MaxPages       int
	RequestTimeout time.Duration
}

// DefaultConfig returns the default fetcher limits.
func DefaultConfig() Config {
	return Config{
		MaxPages:       DefaultMaxPages,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// Options tunes a single fetch.
type Options struct {
	WindowDays int
	PageSize   int
}

// Result is the outcome of a fetch. Events keep the order the feed returned
// them in, newest first.
type Result struct {
	Events []models.WatchEvent
	Status models.FetchStatus
	Pages  int
	Cutoff time.Time
}

// Fetcher collects recent history. It keeps no state between calls.
type Fetcher struct {
	source PageSource
	config Config
	now    func() time.Time
}

// NewFetcher creates a fetcher reading from source.
func NewFetcher(source PageSource, config Config) *Fetcher {
	if config.MaxPages <= 0 {
		config.MaxPages = DefaultMaxPages
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = DefaultRequestTimeout
	}
	return &Fetcher{
		source: source,
		config: config,
		now:    time.Now,
	}
}

// FetchRecentHistory pages backwards through the feed until the window
// boundary, the end of the feed or the page ceiling. On a page failure it
// returns the events gathered so far with status FetchFailed and the error.
func (f *Fetcher) FetchRecentHistory(ctx context.Context, session models.Session, opts Options) (Result, error) {
	opts = normalizeOptions(opts)
	cutoff := f.now().Add(-time.Duration(opts.WindowDays) * 24 * time.Hour)
	result := Result{Cutoff: cutoff, Status: models.FetchSuccess}

	if !session.Valid() {
		result.Status = models.FetchFailed
		return result, ErrInvalidSession
	}

	cutoffUnix := cutoff.Unix()
	seen := make(map[string]struct{})
	var cursor *models.Cursor

	for {
		page, err := f.fetchPage(ctx, session, cursor, opts.PageSize)
		if err != nil {
			result.Status = models.FetchFailed
			logger.Warn("history fetch aborted", "page", result.Pages+1, "events", len(result.Events), "error", err)
			return result, fmt.Errorf("failed to fetch history page %d: %w", result.Pages+1, err)
		}
		result.Pages++

		if len(page.Events) == 0 {
			logger.Debug("history feed exhausted", "pages", result.Pages)
			return result, nil
		}

		for _, event := range page.Events {
			if event.ViewedAt < cutoffUnix {
				continue
			}
			key := event.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			result.Events = append(result.Events, event)
		}

		if page.Events[len(page.Events)-1].ViewedAt < cutoffUnix {
			logger.Debug("history window boundary reached", "pages", result.Pages, "events", len(result.Events))
			return result, nil
		}
		if page.Cursor.IsZero() {
			return result, nil
		}
		if result.Pages >= f.config.MaxPages {
			result.Status = models.FetchTruncated
			logger.Warn("history fetch truncated", "maxPages", f.config.MaxPages, "events", len(result.Events))
			return result, nil
		}

		cursor = page.Cursor
	}
}

func (f *Fetcher) fetchPage(
	ctx context.Context,
	session models.Session,
	cursor *models.Cursor,
	pageSize int,
) (*models.HistoryPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pageCtx, cancel := context.WithTimeout(ctx, f.config.RequestTimeout)
	defer cancel()

	page, err := f.source.HistoryPage(pageCtx, session, cursor, pageSize)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return &models.HistoryPage{}, nil
	}
	return page, nil
}

func normalizeOptions(opts Options) Options {
	if opts.WindowDays <= 0 {
		opts.WindowDays = DefaultWindowDays
	}
	switch {
	case opts.PageSize <= 0:
		opts.PageSize = DefaultPageSize
	case opts.PageSize > maxPageSize:
		opts.PageSize = maxPageSize
	}
	return opts
}
