package analysis

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/biliinsight-tui/internal/app"
	"github.com/j-veylop/biliinsight-tui/internal/models"
	"github.com/j-veylop/biliinsight-tui/internal/services"
	stats "github.com/j-veylop/biliinsight-tui/internal/services/analysis"
	"github.com/j-veylop/biliinsight-tui/internal/services/report"
)

func testInsights() *services.Insights {
	now := time.Date(2026, 3, 10, 22, 0, 0, 0, time.Local)
	events := []models.WatchEvent{
		{VideoID: "BV1", Title: "原神 新版本 前瞻", Category: "Gaming", ViewedAt: now.Add(-time.Hour).Unix(), ProgressSeconds: 1200},
		{VideoID: "BV2", Title: "原神 攻略", Category: "Gaming", ViewedAt: now.Add(-26 * time.Hour).Unix(), ProgressSeconds: 600},
		{VideoID: "BV3", Title: "lofi live", Category: "Music", ViewedAt: now.Add(-50 * time.Hour).Unix(), ProgressSeconds: 3600},
	}
	summary := stats.AggregateAt(events, now)
	return &services.Insights{
		Events:    events,
		Summary:   summary,
		Report:    report.Generate(summary),
		FetchedAt: now,
	}
}

func TestNew(t *testing.T) {
	m := New(app.NewState())
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() == nil {
		t.Error("Init should start the spinner")
	}
}

func TestModel_ViewStates(t *testing.T) {
	loading := app.NewState()
	loading.SetLoading("insights", true)

	tests := []struct {
		name  string
		state *app.State
		want  string
	}{
		{"loading", loading, "Analysing your week"},
		{"not loaded", app.NewState(), "Nothing analysed yet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(tt.state)
			m.SetSize(100, 30)
			if !strings.Contains(m.View(), tt.want) {
				t.Errorf("View() missing %q", tt.want)
			}
		})
	}
}

func TestModel_ViewWithData(t *testing.T) {
	ins := testInsights()
	state := app.NewState()
	state.SetInsights(ins)

	m := New(state)
	m.SetSize(120, 200)

	view := m.View()
	want := []string{
		"Analysis",
		"Daily watch time",
		"Categories (2)",
		"Gaming (2)",
		"Time of day",
		"Top keywords",
		"原神",
		"Report",
		"Suggestions",
	}
	for _, w := range want {
		if !strings.Contains(view, w) {
			t.Errorf("View() missing %q", w)
		}
	}
}

func TestModel_ViewEmptySummaryStillShowsReport(t *testing.T) {
	summary := stats.AggregateAt(nil, time.Now())
	state := app.NewState()
	state.SetInsights(&services.Insights{Summary: summary, Report: report.Generate(summary)})

	m := New(state)
	m.SetSize(120, 200)

	view := m.View()
	if strings.Contains(view, "Daily watch time") {
		t.Error("charts should be hidden without data")
	}
	if !strings.Contains(view, "Report") {
		t.Error("report should always be shown")
	}
}

func TestAnimationState_Current(t *testing.T) {
	start := time.Now()
	a := &AnimationState{StartTime: start, StartPercent: 0, TargetPercent: 60}

	if got := a.Current(start); got != 0 {
		t.Errorf("Current(start) = %f, want 0", got)
	}
	mid := a.Current(start.Add(animationDuration / 2))
	if mid <= 30 || mid >= 60 {
		t.Errorf("Current(mid) = %f, want eased value in (30, 60)", mid)
	}
	if got := a.Current(start.Add(animationDuration)); got != 60 {
		t.Errorf("Current(end) = %f, want 60", got)
	}
	if !a.Done(start.Add(animationDuration)) {
		t.Error("Done() should be true after the duration")
	}
}

func TestModel_SyncTargets(t *testing.T) {
	state := app.NewState()
	state.SetInsights(testInsights())
	m := New(state)

	now := time.Now()
	if !m.syncTargets(now) {
		t.Fatal("expected new bars to animate")
	}
	if len(m.animations) != 2 {
		t.Fatalf("animations = %d, want 2", len(m.animations))
	}

	gaming := m.animations["Gaming"]
	if math.Abs(gaming.TargetPercent-200.0/3) > 1e-9 {
		t.Errorf("Gaming target = %f", gaming.TargetPercent)
	}
	if got := m.displayPercent("Gaming", 0, now); got != 0 {
		t.Errorf("displayPercent at start = %f, want 0", got)
	}
	if got := m.displayPercent("Unknown", 12, now); got != 12 {
		t.Errorf("displayPercent without animation = %f, want 12", got)
	}

	later := now.Add(animationDuration)
	if m.step(later) {
		t.Error("step should report done after the duration")
	}

	// A category that leaves the top list is dropped.
	state.SetInsights(&services.Insights{Summary: models.StatsSummary{
		TotalVideos: 1,
		Categories:  []models.CategoryCount{{Name: "Music", Count: 1}},
	}})
	m.syncTargets(later)
	if _, ok := m.animations["Gaming"]; ok {
		t.Error("stale animation was not removed")
	}
	if m.animations["Music"].StartPercent == 0 {
		t.Error("retargeted bar should start from its current value")
	}
}

func TestModel_UpdateInsightsLoaded(t *testing.T) {
	state := app.NewState()
	state.SetInsights(testInsights())
	m := New(state)

	_, cmd := m.Update(app.InsightsLoadedMsg{})
	if cmd == nil {
		t.Error("expected an animation tick")
	}

	_, cmd = m.Update(animationTickMsg(time.Now().Add(animationDuration)))
	if cmd != nil {
		t.Error("no tick expected once animations finish")
	}
}

func TestModel_Scroll(t *testing.T) {
	state := app.NewState()
	state.SetInsights(testInsights())
	m := New(state)
	m.SetSize(100, 12)
	m.View()

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.viewport.YOffset == 0 {
		t.Error("down should scroll the viewport")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	if m.viewport.YOffset != 0 {
		t.Error("g should return to the top")
	}
}

func TestHelp(t *testing.T) {
	m := New(app.NewState())
	if len(m.ShortHelp()) == 0 || len(m.FullHelp()) == 0 {
		t.Error("help bindings missing")
	}
}
