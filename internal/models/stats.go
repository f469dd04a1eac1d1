package models

import (
	"sort"
	"time"
)

// UnknownCategory is reported as the top category when no event carries one.
const UnknownCategory = "unknown"

// HourBucketLabels are the fixed time-of-day bucket labels.
var HourBucketLabels = [4]string{"0-6", "6-12", "12-18", "18-24"}

// HourBucket counts views inside a fixed range of local hours.
type HourBucket struct {
	Label string
	Start int // inclusive hour
	End   int // exclusive hour
	Count int
}

// DailyStat is one calendar day of the reporting window.
type DailyStat struct {
	Date         time.Time
	Label        string // "01-02"
	VideoCount   int
	WatchMinutes float64
}

// CategoryCount pairs a category with the number of events carrying it.
type CategoryCount struct {
	Name  string
	Count int
}

// TagCount pairs a title token with its frequency.
type TagCount struct {
	Tag   string
	Count int
}

// CategoryShare is a category count with its share of all videos.
type CategoryShare struct {
	Name    string
	Count   int
	Percent float64
}

// StatsSummary is the aggregated view of a window of watch events.
// It is produced by value and must be treated as read-only.
type StatsSummary struct {
	GeneratedAt     time.Time
	TotalVideos     int
	TotalWatchHours float64
	AvgDailyVideos  float64
	TopCategory     string

	// Categories and Tags are kept in first-seen order.
	Categories []CategoryCount
	Tags       []TagCount

	HourBuckets [4]HourBucket
	DailyStats  [7]DailyStat
}

// HasData reports whether any event contributed to the summary.
func (s StatsSummary) HasData() bool {
	return s.TotalVideos > 0
}

// CategoryCounts returns a fresh category → count map.
func (s StatsSummary) CategoryCounts() map[string]int {
	counts := make(map[string]int, len(s.Categories))
	for _, c := range s.Categories {
		counts[c.Name] = c.Count
	}
	return counts
}

// TagFrequency returns a fresh token → frequency map.
func (s StatsSummary) TagFrequency() map[string]int {
	freq := make(map[string]int, len(s.Tags))
	for _, t := range s.Tags {
		freq[t.Tag] = t.Count
	}
	return freq
}

// CategoryCount returns the count for a category, or 0.
func (s StatsSummary) CategoryCount(name string) int {
	for _, c := range s.Categories {
		if c.Name == name {
			return c.Count
		}
	}
	return 0
}

// TopCategories returns up to n categories by count, ties in first-seen order.
// n <= 0 returns all of them.
func (s StatsSummary) TopCategories(n int) []CategoryShare {
	sorted := make([]CategoryCount, len(s.Categories))
	copy(sorted, s.Categories)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}

	shares := make([]CategoryShare, len(sorted))
	for i, c := range sorted {
		shares[i] = CategoryShare{Name: c.Name, Count: c.Count}
		if s.TotalVideos > 0 {
			shares[i].Percent = float64(c.Count) / float64(s.TotalVideos) * 100
		}
	}
	return shares
}

// TopTags returns up to n title tokens by frequency, ties in first-seen order.
// n <= 0 returns all of them.
func (s StatsSummary) TopTags(n int) []TagCount {
	sorted := make([]TagCount, len(s.Tags))
	copy(sorted, s.Tags)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// WatchMinutesSeries returns the daily watch minutes, oldest first.
func (s StatsSummary) WatchMinutesSeries() []float64 {
	series := make([]float64, len(s.DailyStats))
	for i, d := range s.DailyStats {
		series[i] = d.WatchMinutes
	}
	return series
}

// TimedViews is the number of events that landed in an hour bucket.
func (s StatsSummary) TimedViews() int {
	total := 0
	for _, b := range s.HourBuckets {
		total += b.Count
	}
	return total
}
