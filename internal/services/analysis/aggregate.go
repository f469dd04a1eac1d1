// Package analysis turns a window of watch events into summary statistics.
package analysis

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/j-veylop/biliinsight-tui/internal/models"
)

const (
	windowDays     = 7
	hoursPerBucket = 6
	minTagRunes    = 2
	dayLabelLayout = "01-02"
)

// Aggregate summarizes events against the current local time.
func Aggregate(events []models.WatchEvent) models.StatsSummary {
	return AggregateAt(events, time.Now())
}

// AggregateAt summarizes events as of now. Buckets use now's location, and the
// daily window always covers the six days before now plus today.
func AggregateAt(events []models.WatchEvent, now time.Time) models.StatsSummary {
	loc := now.Location()
	today := startOfDay(now)

	summary := models.StatsSummary{
		GeneratedAt: now,
		TotalVideos: len(events),
		TopCategory: models.UnknownCategory,
	}

	for i := range summary.DailyStats {
		day := today.AddDate(0, 0, i-(windowDays-1))
		summary.DailyStats[i] = models.DailyStat{Date: day, Label: day.Format(dayLabelLayout)}
	}
	for i, label := range models.HourBucketLabels {
		summary.HourBuckets[i] = models.HourBucket{
			Label: label,
			Start: i * hoursPerBucket,
			End:   (i + 1) * hoursPerBucket,
		}
	}

	var totalSeconds int64
	var dailySeconds [windowDays]int64
	categoryIndex := make(map[string]int)
	tagIndex := make(map[string]int)

	for _, e := range events {
		seconds := e.EffectiveSeconds()
		totalSeconds += seconds

		if category := strings.TrimSpace(e.Category); category != "" {
			if idx, ok := categoryIndex[category]; ok {
				summary.Categories[idx].Count++
			} else {
				categoryIndex[category] = len(summary.Categories)
				summary.Categories = append(summary.Categories, models.CategoryCount{Name: category, Count: 1})
			}
		}

		for _, token := range Tokenize(e.Title) {
			if idx, ok := tagIndex[token]; ok {
				summary.Tags[idx].Count++
			} else {
				tagIndex[token] = len(summary.Tags)
				summary.Tags = append(summary.Tags, models.TagCount{Tag: token, Count: 1})
			}
		}

		if !e.HasTimestamp() {
			continue
		}
		viewed := e.ViewedTime(loc)
		summary.HourBuckets[viewed.Hour()/hoursPerBucket].Count++

		if idx, ok := dayIndex(summary.DailyStats, viewed); ok {
			summary.DailyStats[idx].VideoCount++
			dailySeconds[idx] += seconds
		}
	}

	summary.TotalWatchHours = round1(float64(totalSeconds) / 3600)
	summary.AvgDailyVideos = math.RoundToEven(float64(summary.TotalVideos) / windowDays)
	for i := range summary.DailyStats {
		summary.DailyStats[i].WatchMinutes = round1(float64(dailySeconds[i]) / 60)
	}

	best := 0
	for _, c := range summary.Categories {
		if c.Count > best {
			best = c.Count
			summary.TopCategory = c.Name
		}
	}

	return summary
}

// Tokenize splits a title on whitespace and drops single-rune tokens.
func Tokenize(title string) []string {
	fields := strings.Fields(title)
	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minTagRunes {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func dayIndex(days [windowDays]models.DailyStat, t time.Time) (int, bool) {
	y, m, d := t.Date()
	for i, day := range days {
		dy, dm, dd := day.Date.Date()
		if dy == y && dm == m && dd == d {
			return i, true
		}
	}
	return 0, false
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
