package tags

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/biliinsight-tui/internal/app"
	"github.com/j-veylop/biliinsight-tui/internal/models"
	"github.com/j-veylop/biliinsight-tui/internal/services"
)

func testSummary() models.StatsSummary {
	return models.StatsSummary{
		TotalVideos: 6,
		Categories: []models.CategoryCount{
			{Name: "Music", Count: 1},
			{Name: "Gaming", Count: 5},
		},
		Tags: []models.TagCount{
			{Tag: "教程", Count: 1},
			{Tag: "原神", Count: 4},
			{Tag: "live", Count: 2},
		},
	}
}

func testState() *app.State {
	state := app.NewState()
	state.SetInsights(&services.Insights{Summary: testSummary()})
	return state
}

func TestNew(t *testing.T) {
	m := New(app.NewState())
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() != nil {
		t.Error("Init should return nil")
	}
	if !m.byFrequency {
		t.Error("new model should order by frequency")
	}
}

func TestModel_ViewEmpty(t *testing.T) {
	m := New(app.NewState())
	m.SetSize(100, 30)

	if !strings.Contains(m.View(), "Watch a few videos") {
		t.Error("empty view should explain how to get tags")
	}
}

func TestModel_ViewWithData(t *testing.T) {
	m := New(testState())
	m.SetSize(100, 40)

	view := m.View()
	for _, want := range []string{"Categories (2)", "Title keywords (3)", "Gaming", "原神", "live"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestModel_ToggleCounts(t *testing.T) {
	m := New(testState())
	m.SetSize(100, 40)

	if strings.Contains(m.View(), "Gaming·5") {
		t.Fatal("counts shown before toggling")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	if !strings.Contains(m.View(), "Gaming·5") {
		t.Error("counts not shown after toggling")
	}
}

func TestModel_Order(t *testing.T) {
	m := New(testState())
	summary := testSummary()

	words := m.categoryWords(summary)
	if words[0].Text != "Gaming" {
		t.Errorf("by frequency first = %q, want Gaming", words[0].Text)
	}
	tags := m.keywordWords(summary)
	if tags[0].Text != "原神" || tags[1].Text != "live" {
		t.Errorf("by frequency keywords = %v", tags)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})

	words = m.categoryWords(summary)
	if words[0].Text != "Music" {
		t.Errorf("viewing order first = %q, want Music", words[0].Text)
	}
	tags = m.keywordWords(summary)
	if tags[0].Text != "教程" {
		t.Errorf("viewing order keywords = %v", tags)
	}
}

func TestKeywordWords_Capped(t *testing.T) {
	var summary models.StatsSummary
	for i := range maxKeywords + 20 {
		summary.Tags = append(summary.Tags, models.TagCount{Tag: strings.Repeat("x", i+2), Count: i + 1})
	}

	m := New(app.NewState())
	if got := len(m.keywordWords(summary)); got != maxKeywords {
		t.Errorf("by frequency len = %d, want %d", got, maxKeywords)
	}
	m.byFrequency = false
	if got := len(m.keywordWords(summary)); got != maxKeywords {
		t.Errorf("viewing order len = %d, want %d", got, maxKeywords)
	}
}

func TestHelp(t *testing.T) {
	m := New(app.NewState())
	if len(m.ShortHelp()) != 2 {
		t.Errorf("ShortHelp len = %d, want 2", len(m.ShortHelp()))
	}
	if len(m.FullHelp()) != 2 {
		t.Errorf("FullHelp len = %d, want 2", len(m.FullHelp()))
	}
}
