package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func TestNewSpinner(t *testing.T) {
	s := NewSpinner("Loading")
	if s.label != "Loading" {
		t.Error("Spinner label mismatch")
	}
}

func TestSpinner_Methods(t *testing.T) {
	s := NewSpinner("Init")

	s.SetLabel("Fetching")
	if s.Label() != "Fetching" {
		t.Errorf("Label = %s, want Fetching", s.Label())
	}

	if s.View() == "" {
		t.Error("View returned empty")
	}
	if !strings.Contains(s.ViewWithLabel(), "Fetching") {
		t.Error("ViewWithLabel should contain the label")
	}
	if s.Init() == nil {
		t.Error("Init should return command")
	}

	_, cmd := s.Update(spinner.TickMsg{})
	if cmd == nil {
		t.Error("Update should return command for tick")
	}
	if s.Tick() == nil {
		t.Error("Tick should return command")
	}
}

func TestRenderSpinnerCentered(t *testing.T) {
	s := NewSpinner("Loading...")
	view := RenderSpinnerCentered(s, 20, 5)
	if lipgloss.Height(view) != 5 {
		t.Errorf("height = %d, want 5", lipgloss.Height(view))
	}
}

func TestRenderLineChart(t *testing.T) {
	s := RenderLineChart([]float64{1, 2, 3, 4, 0, 0, 12}, 20, 5, "minutes")
	if !strings.Contains(s, "minutes") {
		t.Error("RenderLineChart should contain caption")
	}

	empty := RenderLineChart(nil, 20, 5, "minutes")
	if !strings.Contains(empty, "No data") {
		t.Errorf("empty chart = %q", empty)
	}
}

func TestRenderXAxisLabels(t *testing.T) {
	labels := []string{"03-04", "03-05", "03-06"}
	out := ansi.Strip(RenderXAxisLabels(labels, 30, 4))
	for _, l := range labels {
		if !strings.Contains(out, l) {
			t.Errorf("axis %q missing %q", out, l)
		}
	}
	if RenderXAxisLabels(nil, 30, 4) != "" {
		t.Error("no labels should render nothing")
	}
}

func TestRenderBarChart(t *testing.T) {
	s := ansi.Strip(RenderBarChart([]float64{2, 4}, []string{"0-6", "18-24"}, 40))
	lines := strings.Split(s, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if strings.Count(lines[1], "█") <= strings.Count(lines[0], "█") {
		t.Error("larger value should have the longer bar")
	}
	if RenderBarChart(nil, nil, 10) != "" {
		t.Error("empty values should render nothing")
	}
}

func TestRenderSparkline(t *testing.T) {
	s := RenderSparkline([]float64{0, 5, 10}, 3)
	if s != "▁▄█" {
		t.Errorf("sparkline = %q, want ▁▄█", s)
	}
	if RenderSparkline(nil, 5) != "" {
		t.Error("empty values should render nothing")
	}
}

func TestShareBar_View(t *testing.T) {
	b := NewShareBar()
	view := ansi.Strip(b.View(37.5, "Gaming", 60))
	if !strings.Contains(view, "Gaming") {
		t.Errorf("view %q missing label", view)
	}
	if !strings.Contains(view, "37.5%") {
		t.Errorf("view %q missing percentage", view)
	}

	clamped := ansi.Strip(b.View(140, "x", 60))
	if !strings.Contains(clamped, "100.0%") {
		t.Errorf("view %q should clamp to 100%%", clamped)
	}
}

func TestRenderGradientBar(t *testing.T) {
	tests := []struct {
		percent float64
		filled  int
	}{
		{0, 0},
		{50, 5},
		{100, 10},
		{150, 10},
	}
	for _, tt := range tests {
		bar := ansi.Strip(RenderGradientBar(tt.percent, 10))
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("percent %.0f: filled = %d, want %d", tt.percent, got, tt.filled)
		}
		if w := lipgloss.Width(bar); w != 10 {
			t.Errorf("percent %.0f: width = %d, want 10", tt.percent, w)
		}
	}
	if RenderGradientBar(50, 0) != "" {
		t.Error("zero width should render nothing")
	}
}

func TestRenderCountBar(t *testing.T) {
	out := ansi.Strip(RenderCountBar("18-24", 6, 12, 40))
	if !strings.Contains(out, "18-24") || !strings.HasSuffix(out, " 6") {
		t.Errorf("count bar = %q", out)
	}
}

func TestInterpolateColor(t *testing.T) {
	if got := interpolateColor("#000000", "#ffffff", 0); got != "#000000" {
		t.Errorf("t=0: %s", got)
	}
	if got := interpolateColor("#000000", "#ffffff", 1); got != "#ffffff" {
		t.Errorf("t=1: %s", got)
	}
	if got := hexToRGB("zz"); got != [3]int{0, 0, 0} {
		t.Errorf("invalid hex = %v", got)
	}
}

func TestCloudTier(t *testing.T) {
	tests := []struct {
		count, max, want int
	}{
		{0, 10, 0},
		{1, 10, 0},
		{3, 10, 1},
		{6, 10, 2},
		{10, 10, 3},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := CloudTier(tt.count, tt.max); got != tt.want {
			t.Errorf("CloudTier(%d, %d) = %d, want %d", tt.count, tt.max, got, tt.want)
		}
	}
}

func TestRenderTagCloud(t *testing.T) {
	words := []CloudWord{
		{Text: "minecraft", Count: 9},
		{Text: "speedrun", Count: 4},
		{Text: "猫", Count: 2},
		{Text: "tutorial", Count: 1},
	}

	out := ansi.Strip(RenderTagCloud(words, 20, false))
	for _, w := range words {
		if !strings.Contains(out, w.Text) {
			t.Errorf("cloud missing %q", w.Text)
		}
	}
	for _, line := range strings.Split(out, "\n") {
		if lipgloss.Width(line) > 20 {
			t.Errorf("line %q exceeds width", line)
		}
	}

	counted := ansi.Strip(RenderTagCloud(words[:1], 40, true))
	if counted != "minecraft·9" {
		t.Errorf("counted cloud = %q", counted)
	}

	if !strings.Contains(RenderTagCloud(nil, 40, false), "Nothing") {
		t.Error("empty cloud should render placeholder")
	}
}

func TestRenderQRCode(t *testing.T) {
	out := RenderQRCode("https://passport.bilibili.com/h5-app/passport/login/scan?qrcode_key=abc")
	lines := strings.Split(out, "\n")
	if len(lines) < 10 {
		t.Fatalf("qr code has %d lines", len(lines))
	}
	width := lipgloss.Width(lines[0])
	for i, line := range lines {
		if lipgloss.Width(line) != width {
			t.Errorf("line %d width = %d, want %d", i, lipgloss.Width(line), width)
		}
	}
	if RenderQRCode("") != "" {
		t.Error("empty content should render nothing")
	}
}
