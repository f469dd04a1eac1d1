package bilibili

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/j-veylop/biliinsight-tui/internal/models"
)

// MaxPageSize is the largest page the history feed serves.
const MaxPageSize = 30

type historyData struct {
	Cursor *historyCursor `json:"cursor"`
	List   []historyItem  `json:"list"`
}

type historyCursor struct {
	Max      int64  `json:"max"`
	ViewAt   int64  `json:"view_at"`
	Business string `json:"business"`
	PageSize int    `json:"ps"`
}

type historyItem struct {
	Title      string `json:"title"`
	Cover      string `json:"cover"`
	AuthorName string `json:"author_name"`
	TagName    string `json:"tag_name"`
	ViewAt     int64  `json:"view_at"`
	Progress   int64  `json:"progress"`
	Duration   int64  `json:"duration"`
	History    struct {
		OID      int64  `json:"oid"`
		BVID     string `json:"bvid"`
		Business string `json:"business"`
	} `json:"history"`
}

// HistoryPage fetches one page of the watch-history feed. A nil or zero
// cursor requests the newest page. Cursor fields are only sent when set.
func (c *Client) HistoryPage(
	ctx context.Context,
	session models.Session,
	cursor *models.Cursor,
	pageSize int,
) (*models.HistoryPage, error) {
	const op = "history page"

	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	query := url.Values{}
	query.Set("ps", strconv.Itoa(pageSize))
	query.Set("type", "all")
	if cursor != nil {
		if cursor.Max != 0 {
			query.Set("max", strconv.FormatInt(cursor.Max, 10))
		}
		if cursor.ViewAt != 0 {
			query.Set("view_at", strconv.FormatInt(cursor.ViewAt, 10))
		}
		if cursor.Business != "" {
			query.Set("business", cursor.Business)
		}
	}

	env, _, err := c.get(ctx, op, c.config.APIBaseURL+"/x/web-interface/history/cursor", query, &session)
	if err != nil {
		return nil, err
	}

	var data historyData
	if err := decodeData(op, env, &data); err != nil {
		return nil, err
	}

	page := &models.HistoryPage{Events: make([]models.WatchEvent, 0, len(data.List))}
	for _, item := range data.List {
		page.Events = append(page.Events, item.toEvent())
	}
	if data.Cursor != nil {
		page.Cursor = &models.Cursor{
			Max:      data.Cursor.Max,
			ViewAt:   data.Cursor.ViewAt,
			Business: data.Cursor.Business,
		}
	}
	return page, nil
}

func (item historyItem) toEvent() models.WatchEvent {
	videoID := item.History.BVID
	if videoID == "" && item.History.OID != 0 {
		videoID = fmt.Sprintf("%d", item.History.OID)
	}
	return models.WatchEvent{
		VideoID:         videoID,
		Business:        item.History.Business,
		Title:           strings.TrimSpace(item.Title),
		Category:        item.TagName,
		Author:          item.AuthorName,
		CoverURL:        item.Cover,
		ViewedAt:        item.ViewAt,
		ProgressSeconds: item.Progress,
		DurationSeconds: item.Duration,
	}
}
