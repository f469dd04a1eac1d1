package models

import (
	"testing"
	"time"
)

func TestWatchEvent_EffectiveSeconds(t *testing.T) {
	tests := []struct {
		name     string
		progress int64
		duration int64
		want     int64
	}{
		{"Positive", 120, 600, 120},
		{"Zero", 0, 600, 0},
		{"NegativeFallsBackToDuration", -1, 600, 600},
		{"NegativeWithoutDuration", -1, 0, 0},
		{"NegativeWithBadDuration", -5, -3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := WatchEvent{ProgressSeconds: tt.progress, DurationSeconds: tt.duration}
			if got := e.EffectiveSeconds(); got != tt.want {
				t.Errorf("EffectiveSeconds() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWatchEvent_Key(t *testing.T) {
	a := WatchEvent{VideoID: "BV1", Business: "archive", ViewedAt: 100}
	b := WatchEvent{VideoID: "BV1", Business: "archive", ViewedAt: 101}
	c := WatchEvent{VideoID: "BV1", Business: "pgc", ViewedAt: 100}

	if a.Key() == b.Key() {
		t.Error("different view times should produce different keys")
	}
	if a.Key() == c.Key() {
		t.Error("different business types should produce different keys")
	}
	if a.Key() != (WatchEvent{VideoID: "BV1", Business: "archive", ViewedAt: 100, Title: "x"}).Key() {
		t.Error("key should ignore display fields")
	}
}

func TestWatchEvent_URL(t *testing.T) {
	tests := []struct {
		name  string
		event WatchEvent
		want  string
	}{
		{"BV id", WatchEvent{VideoID: "BV1xx411c7mD", Business: "archive"}, "https://www.bilibili.com/video/BV1xx411c7mD"},
		{"numeric archive", WatchEvent{VideoID: "170001", Business: "archive"}, "https://www.bilibili.com/video/av170001"},
		{"pgc", WatchEvent{VideoID: "3456", Business: "pgc"}, "https://www.bilibili.com/bangumi/play/ep3456"},
		{"live", WatchEvent{VideoID: "21452505", Business: "live"}, "https://live.bilibili.com/21452505"},
		{"article", WatchEvent{VideoID: "123", Business: "article"}, "https://www.bilibili.com/read/cv123"},
		{"unknown business", WatchEvent{VideoID: "1", Business: "cheese"}, ""},
		{"no id", WatchEvent{Business: "archive"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.URL(); got != tt.want {
				t.Errorf("URL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWatchEvent_ViewedTime(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	e := WatchEvent{ViewedAt: 0 + 3600}
	if got := e.ViewedTime(loc).Hour(); got != 9 {
		t.Errorf("ViewedTime().Hour() = %d, want 9", got)
	}
	if !(WatchEvent{ViewedAt: 1}).HasTimestamp() || (WatchEvent{}).HasTimestamp() {
		t.Error("HasTimestamp() mismatch")
	}
}

func TestCursor_IsZero(t *testing.T) {
	tests := []struct {
		name   string
		cursor *Cursor
		want   bool
	}{
		{"Nil", nil, true},
		{"Empty", &Cursor{}, true},
		{"Max", &Cursor{Max: 10}, false},
		{"ViewAt", &Cursor{ViewAt: 10}, false},
		{"Business", &Cursor{Business: "archive"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cursor.IsZero(); got != tt.want {
				t.Errorf("IsZero() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFetchStatus_RoundTrip(t *testing.T) {
	for _, s := range []FetchStatus{FetchSuccess, FetchTruncated, FetchFailed} {
		if got := ParseFetchStatus(s.String()); got != s {
			t.Errorf("ParseFetchStatus(%q) = %v, want %v", s.String(), got, s)
		}
	}
	if FetchStatus(99).String() != "unknown" {
		t.Error("unexpected string for unknown status")
	}
}

func TestFetchRun_Duration(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	run := FetchRun{StartedAt: start, FinishedAt: start.Add(3 * time.Second)}
	if run.Duration() != 3*time.Second {
		t.Errorf("Duration() = %v, want 3s", run.Duration())
	}
	if (FetchRun{StartedAt: start}).Duration() != 0 {
		t.Error("unfinished run should report zero duration")
	}
}

func TestStatsSummary_TopCategories(t *testing.T) {
	s := StatsSummary{
		TotalVideos: 10,
		Categories: []CategoryCount{
			{"Games", 3}, {"Music", 5}, {"Tech", 3}, {"Food", 1},
		},
	}

	top := s.TopCategories(3)
	if len(top) != 3 {
		t.Fatalf("len(TopCategories(3)) = %d, want 3", len(top))
	}
	want := []string{"Music", "Games", "Tech"}
	for i, name := range want {
		if top[i].Name != name {
			t.Errorf("top[%d] = %s, want %s", i, top[i].Name, name)
		}
	}
	if top[0].Percent != 50 {
		t.Errorf("Music percent = %v, want 50", top[0].Percent)
	}
	if len(s.TopCategories(0)) != 4 {
		t.Error("TopCategories(0) should return all categories")
	}
	if s.Categories[0].Name != "Games" {
		t.Error("TopCategories must not reorder the summary")
	}
}

func TestStatsSummary_TopTags(t *testing.T) {
	s := StatsSummary{Tags: []TagCount{{"alpha", 1}, {"beta", 2}, {"gamma", 2}}}
	top := s.TopTags(2)
	if len(top) != 2 || top[0].Tag != "beta" || top[1].Tag != "gamma" {
		t.Errorf("TopTags(2) = %v", top)
	}
}

func TestStatsSummary_Accessors(t *testing.T) {
	s := StatsSummary{
		TotalVideos: 2,
		Categories:  []CategoryCount{{"Games", 2}},
		Tags:        []TagCount{{"speedrun", 1}},
	}
	s.HourBuckets[2] = HourBucket{Label: "12-18", Count: 2}
	s.HourBuckets[3] = HourBucket{Label: "18-24", Count: 1}

	counts := s.CategoryCounts()
	counts["Games"] = 99
	if s.CategoryCount("Games") != 2 {
		t.Error("CategoryCounts should return a copy")
	}
	if s.TagFrequency()["speedrun"] != 1 {
		t.Error("TagFrequency mismatch")
	}
	if s.TimedViews() != 3 {
		t.Errorf("TimedViews() = %d, want 3", s.TimedViews())
	}
	if !s.HasData() || (StatsSummary{}).HasData() {
		t.Error("HasData mismatch")
	}
	if len(s.WatchMinutesSeries()) != 7 {
		t.Error("WatchMinutesSeries should have 7 entries")
	}
}

func TestSession(t *testing.T) {
	s := NewSession([]Cookie{
		{Name: "SESSDATA", Value: "abc"},
		{Name: "DedeUserID", Value: "42"},
		{Name: "bili_jct", Value: "csrf"},
	}, "rt", time.Now())

	if !s.Valid() {
		t.Error("session with SESSDATA should be valid")
	}
	if s.MID != 42 {
		t.Errorf("MID = %d, want 42", s.MID)
	}
	if got := s.CookieHeader(); got != "SESSDATA=abc; DedeUserID=42; bili_jct=csrf" {
		t.Errorf("CookieHeader() = %q", got)
	}
	if (Session{}).Valid() {
		t.Error("zero session should be invalid")
	}
}

func TestVolumeLevel_String(t *testing.T) {
	tests := []struct {
		v    VolumeLevel
		want string
	}{
		{VolumeLight, "light"},
		{VolumeModerate, "moderate"},
		{VolumeHeavy, "heavy"},
		{VolumeLevel(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %v, want %v", got, tt.want)
		}
	}
}

func TestReport_Blocks(t *testing.T) {
	r := Report{
		Opening: "o", Volume: "v", Preference: "p", TimeHabit: "t", Regularity: "r",
		Suggestions: []string{"s1", "s2"},
	}
	blocks := r.Blocks()
	if len(blocks) != 7 || blocks[0] != "o" || blocks[6] != "s2" {
		t.Errorf("Blocks() = %v", blocks)
	}
}
