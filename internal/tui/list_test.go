package tui

import (
	"testing"
	"time"

	"github.com/Ahilan-1/openground/internal/api"
)

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
		{"test", 0, ""},
	}
	for _, tt := range tests {
		got := truncateStr(tt.input, tt.n)
		if got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestTruncateStrUTF8(t *testing.T) {
	got := truncateStr("日本語テスト", 5)
	want := "日本..."
	if got != want {
		t.Errorf("truncateStr(Japanese, 5) = %q, want %q", got, want)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()

	tests := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-30 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m"},
		{now.Add(-3 * time.Hour), "3h"},
		{now.Add(-2 * 24 * time.Hour), "2d"},
	}
	for _, tt := range tests {
		got := relativeTime(tt.t)
		if got != tt.want {
			t.Errorf("relativeTime(%v ago) = %q, want %q", now.Sub(tt.t), got, tt.want)
		}
	}
}

func TestRelativeStamp(t *testing.T) {
	recent := time.Now().Add(-10 * time.Minute).UTC().Format(time.RFC3339)
	if got := relativeStamp(recent); got != "10m" {
		t.Errorf("relativeStamp(recent) = %q, want 10m", got)
	}
	if got := relativeStamp("garbage"); got != "" {
		t.Errorf("relativeStamp(garbage) = %q, want empty", got)
	}
	if got := relativeStamp(""); got != "" {
		t.Errorf("relativeStamp(empty) = %q, want empty", got)
	}
}

func TestBiasSegmentsFillWidth(t *testing.T) {
	tests := []struct {
		name  string
		bar   api.BiasBar
		width int
	}{
		{"even", api.BiasBar{Left: 0.25, Center: 0.25, Right: 0.25, Unknown: 0.25}, 20},
		{"lopsided", api.BiasBar{Left: 0.05, Right: 0.95}, 20},
		{"all unknown", api.BiasBar{Unknown: 1}, 12},
		{"empty", api.BiasBar{}, 16},
		{"narrow", api.BiasBar{Left: 0.5, Right: 0.5}, 3},
	}
	for _, tt := range tests {
		cells := biasSegments(tt.bar, tt.width)
		sum := cells[0] + cells[1] + cells[2] + cells[3]
		if sum != tt.width {
			t.Errorf("%s: segments sum to %d, want %d (%v)", tt.name, sum, tt.width, cells)
		}
	}
}

func TestBiasSegmentsKeepsNonzeroBucketsVisible(t *testing.T) {
	// A 5% slice must still get at least one cell.
	cells := biasSegments(api.BiasBar{Left: 0.05, Right: 0.95}, 20)
	if cells[0] < 1 {
		t.Errorf("left bucket lost its cell: %v", cells)
	}
}

func TestPhaseFractions(t *testing.T) {
	bar := phaseFractions(api.BiasCounts{Left: 2, Center: 1, Right: 1})
	if bar.Left != 0.5 || bar.Center != 0.25 || bar.Right != 0.25 {
		t.Errorf("unexpected fractions: %+v", bar)
	}

	empty := phaseFractions(api.BiasCounts{})
	if empty.Unknown != 1 {
		t.Errorf("empty phase should be all unknown, got %+v", empty)
	}
}

func TestBucketLabel(t *testing.T) {
	if got := bucketLabel("left"); got != "From the Left" {
		t.Errorf("bucketLabel(left) = %q", got)
	}
	if got := bucketLabel("weird"); got != "Unrated Sources" {
		t.Errorf("bucketLabel(weird) = %q", got)
	}
}
