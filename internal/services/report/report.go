// Package report derives the viewing personality report from a stats summary.
package report

import (
	"fmt"

	"github.com/j-veylop/biliinsight-tui/internal/models"
)

const (
	heavyHours            = 14.0
	moderateHours         = 7.0
	strongPreferenceShare = 0.4
	broadDiversity        = 3
	regularityFactor      = 0.5
	lateNightBucket       = "0-6"
)

var primeTimeText = map[string]string{
	"0-6":   "You mostly watch late at night, between midnight and 6 AM.",
	"6-12":  "You mostly watch in the morning, between 6 AM and noon.",
	"12-18": "You mostly watch in the afternoon, between noon and 6 PM.",
	"18-24": "You mostly watch in the evening, between 6 PM and midnight.",
}

// Generate classifies the summary and renders the report blocks.
func Generate(s models.StatsSummary) models.Report {
	r := models.Report{
		VolumeLevel:       volumeLevel(s.TotalWatchHours),
		StrongPreference:  hasStrongPreference(s),
		CategoryDiversity: categoryDiversity(s),
		PrimeTime:         primeTime(s),
	}
	r.BroadInterests = !r.StrongPreference && r.CategoryDiversity > broadDiversity

	mean, variance := dailyMinutesSpread(s)
	r.Regular = mean > 0 && variance < regularityFactor*mean

	r.Opening = opening(s)
	r.Volume = volumeText(r.VolumeLevel, s.TotalWatchHours)
	r.Preference = preferenceText(s, r)
	r.TimeHabit = timeHabitText(r.PrimeTime)
	r.Regularity = regularityText(r.Regular, mean)
	r.Suggestions = suggestions(s, r)

	return r
}

func volumeLevel(hours float64) models.VolumeLevel {
	switch {
	case hours > heavyHours:
		return models.VolumeHeavy
	case hours > moderateHours:
		return models.VolumeModerate
	default:
		return models.VolumeLight
	}
}

func hasStrongPreference(s models.StatsSummary) bool {
	if s.TotalVideos == 0 {
		return false
	}
	share := float64(s.CategoryCount(s.TopCategory)) / float64(s.TotalVideos)
	return share > strongPreferenceShare
}

// categoryDiversity counts categories watched more than once.
func categoryDiversity(s models.StatsSummary) int {
	n := 0
	for _, c := range s.Categories {
		if c.Count > 1 {
			n++
		}
	}
	return n
}

// primeTime returns the busiest hour bucket, earliest on ties, or "" when no
// event carried a timestamp.
func primeTime(s models.StatsSummary) string {
	best, label := 0, ""
	for _, b := range s.HourBuckets {
		if b.Count > best {
			best, label = b.Count, b.Label
		}
	}
	return label
}

// dailyMinutesSpread returns the mean and population variance of daily watch minutes.
func dailyMinutesSpread(s models.StatsSummary) (mean, variance float64) {
	series := s.WatchMinutesSeries()
	if len(series) == 0 {
		return 0, 0
	}
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))
	for _, v := range series {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(series))
	return mean, variance
}

func opening(s models.StatsSummary) string {
	if !s.HasData() {
		return "No videos were watched in the last 7 days."
	}
	return fmt.Sprintf("In the last 7 days you watched %d videos, %.1f hours in total, about %.0f a day.",
		s.TotalVideos, s.TotalWatchHours, s.AvgDailyVideos)
}

func volumeText(level models.VolumeLevel, hours float64) string {
	switch level {
	case models.VolumeHeavy:
		return fmt.Sprintf("Heavy viewer: %.1f hours is more than two hours a day.", hours)
	case models.VolumeModerate:
		return fmt.Sprintf("Moderate viewer: %.1f hours this week, roughly one to two hours a day.", hours)
	default:
		return fmt.Sprintf("Light viewer: %.1f hours this week, under an hour a day.", hours)
	}
}

func preferenceText(s models.StatsSummary, r models.Report) string {
	switch {
	case !s.HasData():
		return "No category preference yet."
	case s.TopCategory == models.UnknownCategory:
		return "Your videos carry no category information."
	case r.StrongPreference:
		share := float64(s.CategoryCount(s.TopCategory)) / float64(s.TotalVideos) * 100
		return fmt.Sprintf("Strong preference for %s: %.0f%% of what you watched.", s.TopCategory, share)
	case r.BroadInterests:
		return fmt.Sprintf("Broad interests: you kept coming back to %d different categories.", r.CategoryDiversity)
	default:
		return fmt.Sprintf("Your viewing centers on a few categories, led by %s.", s.TopCategory)
	}
}

func timeHabitText(prime string) string {
	if text, ok := primeTimeText[prime]; ok {
		return text
	}
	return "No viewing times were recorded."
}

func regularityText(regular bool, mean float64) string {
	switch {
	case mean == 0:
		return "Not enough daily activity to call your viewing regular."
	case regular:
		return fmt.Sprintf("Your viewing is regular, about %.1f minutes every day.", mean)
	default:
		return "Your viewing is irregular: some days are much heavier than others."
	}
}

func suggestions(s models.StatsSummary, r models.Report) []string {
	var out []string
	if !r.Regular && (r.VolumeLevel == models.VolumeHeavy || r.VolumeLevel == models.VolumeModerate) {
		out = append(out, "Try setting fixed viewing hours so screen time stays predictable.")
	}
	if r.StrongPreference {
		out = append(out, fmt.Sprintf("Try exploring categories beyond %s to broaden your feed.", s.TopCategory))
	}
	if r.PrimeTime == lateNightBucket {
		out = append(out, "Much of your viewing happens after midnight; moving it earlier would protect your sleep.")
	}
	return out
}
