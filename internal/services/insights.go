package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/j-veylop/biliinsight-tui/internal/bilibili"
	"github.com/j-veylop/biliinsight-tui/internal/logger"
	"github.com/j-veylop/biliinsight-tui/internal/models"
	"github.com/j-veylop/biliinsight-tui/internal/services/analysis"
	"github.com/j-veylop/biliinsight-tui/internal/services/history"
	"github.com/j-veylop/biliinsight-tui/internal/services/report"
)

// cacheRetention is how long cached events are kept before pruning.
const cacheRetention = 90 * 24 * time.Hour

// Insights is everything the presentation layer shows for one load.
type Insights struct {
	User      *models.UserInfo
	Events    []models.WatchEvent
	Summary   models.StatsSummary
	Report    models.Report
	Status    models.FetchStatus
	Pages     int
	FetchErr  error
	FromCache bool
	FetchedAt time.Time
	Run       *models.FetchRun

	// CachedEvents is the size of the local cache for this account.
	CachedEvents int
}

// LoadInsights fetches the account and its recent history concurrently,
// caches the events, and derives the summary and report. A failed fetch is
// not an error: it is reported through Status and FetchErr, with cached
// events substituted when the fetch returned nothing.
func (m *Manager) LoadInsights(ctx context.Context) (*Insights, error) {
	m.loadMu.Lock()
	defer m.loadMu.Unlock()

	sess := m.sessions.Current()
	if sess == nil {
		return nil, bilibili.ErrNotLoggedIn
	}

	started := m.now()
	var (
		user     *models.UserInfo
		result   history.Result
		fetchErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		info, err := m.client.UserInfo(gctx, *sess)
		if errors.Is(err, bilibili.ErrNotLoggedIn) {
			return err
		}
		if err != nil {
			logger.Warn("user info unavailable, using cached account", "error", err)
			user = m.sessions.User()
			return nil
		}
		user = info
		return nil
	})
	g.Go(func() error {
		result, fetchErr = m.fetcher.FetchRecentHistory(gctx, *sess, history.Options{
			WindowDays: m.cfg.HistoryWindowDays,
			PageSize:   m.cfg.HistoryPageSize,
		})
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Warn("session rejected, logging out", "error", err)
		if clearErr := m.sessions.Clear(); clearErr != nil {
			logger.Error("failed to clear session", "error", clearErr)
		}
		return nil, err
	}

	if user != nil {
		if err := m.sessions.SetUser(*user); err != nil {
			logger.Warn("failed to cache user info", "error", err)
		}
	}

	mid := sess.MID
	if user != nil && user.MID != 0 {
		mid = user.MID
	}

	insights := &Insights{
		User:      user,
		Events:    result.Events,
		Status:    result.Status,
		Pages:     result.Pages,
		FetchErr:  fetchErr,
		FetchedAt: m.now(),
	}

	m.persist(mid, started, insights)

	if fetchErr != nil && len(insights.Events) == 0 {
		cached, err := m.database.GetWatchEventsSince(mid, result.Cutoff)
		if err != nil {
			logger.Error("failed to read cached history", "error", err)
		} else if len(cached) > 0 {
			insights.Events = cached
			insights.FromCache = true
		}
	}

	insights.Summary = analysis.AggregateAt(insights.Events, m.now())
	insights.Report = report.Generate(insights.Summary)

	logger.Info("insights loaded",
		"status", insights.Status,
		"pages", insights.Pages,
		"events", len(insights.Events),
		"fromCache", insights.FromCache,
		"elapsed", m.now().Sub(started))

	m.notifyFetchOutcome(insights)

	return insights, nil
}

// persist caches the fetched events and records the fetch run.
func (m *Manager) persist(mid int64, started time.Time, insights *Insights) {
	if _, err := m.database.UpsertWatchEvents(mid, insights.Events, insights.FetchedAt); err != nil {
		logger.Error("failed to cache watch events", "error", err)
	}
	pruned, err := m.database.PruneWatchEvents(insights.FetchedAt.Add(-cacheRetention))
	if err != nil {
		logger.Error("failed to prune watch events", "error", err)
	}
	if pruned > 0 {
		logger.Info("pruned cached watch events", "count", pruned)
		if err := m.database.Vacuum(); err != nil {
			logger.Warn("failed to vacuum cache", "error", err)
		}
	}
	if count, err := m.database.CountWatchEvents(mid); err == nil {
		insights.CachedEvents = count
	}

	run := &models.FetchRun{
		MID:        mid,
		StartedAt:  started,
		FinishedAt: insights.FetchedAt,
		Status:     insights.Status,
		Pages:      insights.Pages,
		Events:     len(insights.Events),
	}
	if insights.FetchErr != nil {
		run.Error = insights.FetchErr.Error()
	}
	if err := m.database.InsertFetchRun(run); err != nil {
		logger.Error("failed to record fetch run", "error", err)
		return
	}
	insights.Run = run
}

func (m *Manager) notifyFetchOutcome(insights *Insights) {
	switch insights.Status {
	case models.FetchTruncated:
		m.notify("History truncated",
			fmt.Sprintf("Stopped after %d pages; older videos in the window may be missing.", insights.Pages))
	case models.FetchFailed:
		body := "Showing the history fetched before the error."
		if insights.FromCache {
			body = "Showing cached history from a previous fetch."
		}
		m.notify("History fetch failed", body)
	}
}
